package routing

import "github.com/go-errors/errors"

// errorCode distinguishes the different ways a route search can fail.
type errorCode uint8

const (
	// ErrCannotRouteToSelf is returned when source and target are the
	// same node.
	ErrCannotRouteToSelf errorCode = iota

	// ErrRouteNotFound is returned when no feasible path exists under
	// the given amount, bounds, and blacklists. Amount-infeasibility
	// (every candidate edge's htlc bounds excluding the payment amount)
	// is folded into this same code for API compatibility: callers
	// shouldn't have to distinguish "no path" from "no path that can
	// carry this amount".
	ErrRouteNotFound

	// ErrCancelled is returned when the caller's cancel signal fired
	// before a search completed.
	ErrCancelled
)

// RouteError wraps a search failure with its errorCode so that callers can
// distinguish failure kinds without string-matching.
type RouteError struct {
	err  *errors.Error
	code errorCode
}

// Error implements the error interface.
func (e *RouteError) Error() string {
	return e.err.Error()
}

// A compile-time check that RouteError implements error.
var _ error = (*RouteError)(nil)

func newRouteErr(code errorCode, msg string) *RouteError {
	return &RouteError{code: code, err: errors.New(msg)}
}

// IsRouteError reports whether err is a *RouteError carrying one of codes.
func IsRouteError(err error, codes ...errorCode) bool {
	re, ok := err.(*RouteError)
	if !ok {
		return false
	}

	for _, c := range codes {
		if re.code == c {
			return true
		}
	}

	return false
}

var (
	// ErrCannotRouteToSelfErr is returned by FindRoute/FindRoutes when
	// source equals target.
	ErrCannotRouteToSelfErr = newRouteErr(
		ErrCannotRouteToSelf, "source and target are the same node",
	)

	// ErrRouteNotFoundErr is returned when the search queue empties
	// without reaching the source.
	ErrRouteNotFoundErr = newRouteErr(
		ErrRouteNotFound, "unable to find a path to the target",
	)

	// ErrCancelledErr is returned when a caller-supplied cancel signal
	// interrupted the search.
	ErrCancelledErr = newRouteErr(ErrCancelled, "path finding cancelled")
)
