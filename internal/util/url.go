package util

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError describes rejected user input. It never leaves the
// process; validation happens before any network call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// ValidateURL checks that raw is an absolute http/https URL with a host.
// It returns the parsed URL on success and a *ValidationError otherwise.
func ValidateURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &ValidationError{Reason: "a website URL is required"}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("not a valid URL: %v", err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &ValidationError{Reason: "URL must start with http:// or https://"}
	}
	if u.Host == "" {
		return nil, &ValidationError{Reason: "URL must include a host"}
	}
	return u, nil
}
