// Package build provides the small set of helpers every other package in
// this module wires its logging through, mirroring lnd's build package.
package build

import "github.com/btcsuite/btclog/v2"

// NewSubLogger constructs a new subsystem logger. genSubLogger, when
// non-nil, is the host application's logging backend, keyed by
// subsystem name; a caller that hasn't wired one up yet (the default
// for library code and unit tests) gets a disabled logger instead of a
// nil one, so every package-level log variable is always safe to call.
func NewSubLogger(
	subsystem string, genSubLogger func(string) btclog.Logger,
) btclog.Logger {

	if genSubLogger != nil {
		return genSubLogger(subsystem)
	}

	return btclog.Disabled
}
