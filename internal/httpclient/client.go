package httpclient

import (
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds every request so a stalled backend cannot hang a
// view indefinitely.
const DefaultTimeout = 30 * time.Second

// Config holds settings for the HTTP client.
type Config struct {
	Timeout time.Duration
	Headers http.Header
	Cookie  string
	Retries int
}

// sessionRoundTripper wraps a base RoundTripper to inject the session
// cookie, extra headers and a per-request ID, and to perform simple retry
// logic when retries are explicitly enabled. Failed view fetches are never
// retried automatically, so Retries defaults to 0.
type sessionRoundTripper struct {
	base    http.RoundTripper
	headers http.Header
	cookie  string
	retries int
}

func (s *sessionRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if s.base == nil {
		s.base = http.DefaultTransport
	}

	// A body without GetBody cannot be replayed; the first attempt
	// consumes it, so such requests never retry.
	retries := s.retries
	if req.Body != nil && req.GetBody == nil {
		retries = 0
	}

	var resp *http.Response
	var err error

	for attempt := 0; ; attempt++ {
		// Clone the request to avoid mutations across retries
		r := req.Clone(req.Context())
		if req.Body != nil {
			if req.GetBody != nil {
				if body, berr := req.GetBody(); berr == nil {
					r.Body = body
				}
			} else {
				r.Body = req.Body
			}
		}

		for k, vs := range s.headers {
			r.Header.Del(k)
			for _, v := range vs {
				r.Header.Add(k, v)
			}
		}
		if s.cookie != "" {
			r.Header.Set("Cookie", s.cookie)
		}
		r.Header.Set("X-Request-ID", uuid.NewString())

		resp, err = s.base.RoundTrip(r)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		if attempt >= retries {
			if err != nil {
				return nil, err
			}
			return resp, nil
		}

		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(time.Duration(100*(1<<attempt)) * time.Millisecond)
	}
}

// New returns a configured HTTP client with manual redirect handling. The
// backend signals "not ready" and "not authenticated" with 302 responses,
// so redirects must reach the caller instead of being followed.
func New(cfg Config) *http.Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2: true,
	}

	return &http.Client{
		Transport: &sessionRoundTripper{
			base:    transport,
			headers: cfg.Headers,
			cookie:  cfg.Cookie,
			retries: cfg.Retries,
		},
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// prevent automatic redirects
			return http.ErrUseLastResponse
		},
	}
}
