package views

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/greenee/ecarbon/internal/api"
	"github.com/greenee/ecarbon/internal/util"
)

const resultJSON = `{
	"url": "https://example.com",
	"carbonEmission": 3.21,
	"grade": "C",
	"kbWeight": 2048,
	"globalAvgCarbon": 2.5,
	"cleanerThan": 40,
	"resourcePercentage": [{"resourceType":"image","size":1000,"percentage":60}],
	"carbonEquivalents": {"coffeeCups":120,"evKm":5,"phoneCharges":300,"trees":2}
}`

func measureClient(t *testing.T, handler http.Handler) (*api.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := api.New(api.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return c, srv
}

func TestSubmitRejectsInvalidURLs(t *testing.T) {
	t.Parallel()
	var calls int32
	c, _ := measureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	flow := NewMeasureFlow(c)

	for _, raw := range []string{"", "example.com", "ftp://example.com", "http://", "   "} {
		err := flow.Submit(raw)
		var vErr *util.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("Submit(%q): want *util.ValidationError, got %v", raw, err)
		}
		if flow.Phase() != PhaseIdle {
			t.Fatalf("Submit(%q): flow left Idle", raw)
		}
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("invalid input must never reach the network, saw %d calls", calls)
	}
}

func TestMeasureFlowSuccess(t *testing.T) {
	t.Parallel()
	c, _ := measureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/start-analysis":
			w.WriteHeader(http.StatusOK)
		case "/api/carbon-analysis":
			_, _ = w.Write([]byte(resultJSON))
		default:
			t.Errorf("unexpected call to %s", r.URL.Path)
		}
	}))
	flow := NewMeasureFlow(c)

	if err := flow.Submit("https://example.com"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if flow.Phase() != PhaseConfirming {
		t.Fatalf("want Confirming, got %v", flow.Phase())
	}

	res, err := flow.Confirm(context.Background())
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if flow.Phase() != PhaseSuccess {
		t.Fatalf("want Success, got %v", flow.Phase())
	}
	if res.Grade != "C" || res.CleanerThan != 40 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestMeasureFlowColdStartFallback(t *testing.T) {
	t.Parallel()
	var measured int32
	c, _ := measureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/start-analysis":
			w.WriteHeader(http.StatusNotFound)
		case "/api/start-measurement":
			atomic.AddInt32(&measured, 1)
			w.WriteHeader(http.StatusOK)
		case "/api/carbon-analysis":
			_, _ = w.Write([]byte(resultJSON))
		}
	}))
	flow := NewMeasureFlow(c)

	if err := flow.Submit("https://example.com"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := flow.Confirm(context.Background()); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if atomic.LoadInt32(&measured) != 1 {
		t.Fatalf("expected exactly one fallback measurement, got %d", measured)
	}
}

func TestMeasureFlowFailure(t *testing.T) {
	t.Parallel()
	c, _ := measureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	flow := NewMeasureFlow(c)

	if err := flow.Submit("https://example.com"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := flow.Confirm(context.Background()); err == nil {
		t.Fatal("expected failure")
	}
	if flow.Phase() != PhaseFailed {
		t.Fatalf("want Failed, got %v", flow.Phase())
	}
	if flow.ErrMessage() == "" {
		t.Fatal("expected a failure message for the banner")
	}
}

func TestMeasureFlowNotReadyRoutesBackToIdle(t *testing.T) {
	t.Parallel()
	c, _ := measureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/start-analysis":
			w.WriteHeader(http.StatusOK)
		case "/api/carbon-analysis":
			http.Redirect(w, r, "/", http.StatusFound)
		}
	}))
	flow := NewMeasureFlow(c)

	if err := flow.Submit("https://example.com"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	_, err := flow.Confirm(context.Background())
	if !errors.Is(err, api.ErrNotReady) {
		t.Fatalf("want ErrNotReady, got %v", err)
	}
	if flow.Phase() != PhaseIdle {
		t.Fatalf("not-ready must route back to Idle, got %v", flow.Phase())
	}
}

func TestSingleFlightSubmission(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	started := make(chan struct{})
	var analyses int32
	c, _ := measureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/start-analysis":
			if atomic.AddInt32(&analyses, 1) == 1 {
				close(started)
			}
			<-release
			w.WriteHeader(http.StatusOK)
		case "/api/carbon-analysis":
			_, _ = w.Write([]byte(resultJSON))
		}
	}))
	flow := NewMeasureFlow(c)

	if err := flow.Submit("https://example.com"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := flow.Confirm(context.Background()); err != nil {
			t.Errorf("first Confirm: %v", err)
		}
	}()

	// Wait until the first measurement holds the backend.
	<-started

	if err := flow.Submit("https://other.example.com"); !errors.Is(err, ErrMeasurementInFlight) {
		t.Fatalf("second submit while measuring: want ErrMeasurementInFlight, got %v", err)
	}
	if _, err := flow.Confirm(context.Background()); !errors.Is(err, ErrMeasurementInFlight) {
		t.Fatalf("concurrent confirm: want ErrMeasurementInFlight, got %v", err)
	}

	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&analyses); got != 1 {
		t.Fatalf("expected one in-flight measurement, backend saw %d", got)
	}
}

func TestResetClearsEverything(t *testing.T) {
	t.Parallel()
	c, _ := measureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/start-analysis":
			w.WriteHeader(http.StatusOK)
		case "/api/carbon-analysis":
			_, _ = w.Write([]byte(resultJSON))
		}
	}))
	flow := NewMeasureFlow(c)
	if err := flow.Submit("https://example.com"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := flow.Confirm(context.Background()); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	flow.Reset()
	if flow.Phase() != PhaseIdle {
		t.Fatalf("want Idle after reset, got %v", flow.Phase())
	}
	if flow.URL() != "" || flow.Result() != nil || flow.ErrMessage() != "" {
		t.Fatal("reset must clear all displayed fields")
	}
}
