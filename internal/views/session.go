// Package views holds the per-page state machines of the dashboard. Each
// view owns its fetched data for its own lifetime; there is no shared cache
// and no cross-view state beyond the session cookie carried by the client.
package views

import (
	"context"

	"github.com/greenee/ecarbon/internal/api"
	"github.com/greenee/ecarbon/internal/model"
)

// SessionState is the outcome of the identity probe.
type SessionState int

const (
	// SessionAnonymous covers 401s, unauthenticated redirects and any
	// probe failure: the page renders with a "log in" affordance and
	// nothing else changes.
	SessionAnonymous SessionState = iota
	SessionLoggedIn
)

// Session is the resolved identity for one page view.
type Session struct {
	State SessionState
	User  *model.UserInfo
}

// ProbeSession resolves the current identity. It never fails: network
// errors and non-2xx responses all degrade to the anonymous state, and it
// must never block the rest of a page from loading.
func ProbeSession(ctx context.Context, c *api.Client) Session {
	u, err := c.Me(ctx)
	if err != nil || u == nil {
		return Session{State: SessionAnonymous}
	}
	return Session{State: SessionLoggedIn, User: u}
}
