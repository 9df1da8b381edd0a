package views

import (
	"context"
	"errors"
	"sync"

	"github.com/greenee/ecarbon/internal/api"
	"github.com/greenee/ecarbon/internal/model"
	"github.com/greenee/ecarbon/internal/util"
)

// MeasurePhase is the state of one measurement flow instance.
type MeasurePhase int

const (
	PhaseIdle MeasurePhase = iota
	PhaseConfirming
	PhaseMeasuring
	PhaseSuccess
	PhaseFailed
)

// ErrMeasurementInFlight is returned when a submission arrives while a
// measurement is already running. The second submission is dropped; a view
// instance never issues parallel duplicate requests.
var ErrMeasurementInFlight = errors.New("a measurement is already running")

// MeasureFlow drives one URL through validate → confirm → measure →
// result. One instance belongs to one page view.
type MeasureFlow struct {
	client *api.Client

	mu     sync.Mutex
	phase  MeasurePhase
	url    string
	result *model.MeasurementResult
	errMsg string
}

// NewMeasureFlow creates an idle flow bound to c.
func NewMeasureFlow(c *api.Client) *MeasureFlow {
	return &MeasureFlow{client: c}
}

// Phase returns the current phase.
func (f *MeasureFlow) Phase() MeasurePhase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// URL returns the URL under measurement, if any.
func (f *MeasureFlow) URL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.url
}

// Result returns the measurement result once the flow reached success.
func (f *MeasureFlow) Result() *model.MeasurementResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// ErrMessage returns the failure message, empty unless PhaseFailed.
func (f *MeasureFlow) ErrMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// Submit validates raw and moves Idle → Confirming. Invalid input keeps the
// flow at Idle and returns a *util.ValidationError; no network call happens.
func (f *MeasureFlow) Submit(raw string) error {
	u, err := util.ValidateURL(raw)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase == PhaseMeasuring {
		return ErrMeasurementInFlight
	}
	f.phase = PhaseConfirming
	f.url = u.String()
	f.result = nil
	f.errMsg = ""
	return nil
}

// Cancel abandons a pending confirmation and returns to Idle.
func (f *MeasureFlow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase == PhaseConfirming {
		f.phase = PhaseIdle
		f.url = ""
	}
}

// Confirm runs the confirmed URL through the backend: look up a cached
// measurement, fall back to a fresh one when none exists, then fetch the
// result. Only one Confirm can run at a time; concurrent calls get
// ErrMeasurementInFlight. api.ErrNotReady resets the flow to Idle so the
// caller can route back to the landing step.
func (f *MeasureFlow) Confirm(ctx context.Context) (*model.MeasurementResult, error) {
	f.mu.Lock()
	if f.phase != PhaseConfirming {
		f.mu.Unlock()
		return nil, ErrMeasurementInFlight
	}
	f.phase = PhaseMeasuring
	target := f.url
	f.mu.Unlock()

	res, err := f.measure(ctx, target)

	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case errors.Is(err, api.ErrNotReady):
		f.phase = PhaseIdle
		f.url = ""
		return nil, err
	case err != nil:
		f.phase = PhaseFailed
		f.errMsg = err.Error()
		return nil, err
	default:
		f.phase = PhaseSuccess
		f.result = res
		return res, nil
	}
}

func (f *MeasureFlow) measure(ctx context.Context, target string) (*model.MeasurementResult, error) {
	err := f.client.StartAnalysis(ctx, target)
	if errors.Is(err, api.ErrNoCachedResult) {
		// Cold start: nothing measured for this URL yet.
		err = f.client.StartMeasurement(ctx, target)
	}
	if err != nil {
		return nil, err
	}
	return f.client.CarbonAnalysis(ctx)
}

// Reset clears everything back to the empty initial form.
func (f *MeasureFlow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phase = PhaseIdle
	f.url = ""
	f.result = nil
	f.errMsg = ""
}
