package routing

import (
	"github.com/btcsuite/btclog/v2"
	"github.com/standardsats/eclair/build"
)

// Subsystem defines the logging code for this package.
const Subsystem = "RTNG"

// log is the package-level logger. It is disabled by default until a host
// application calls UseLogger.
var log btclog.Logger

// The default amount of logging is none.
func init() {
	UseLogger(build.NewSubLogger(Subsystem, nil))
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// DisableLog disables all logging output for this package.
func DisableLog() {
	log = btclog.Disabled
}
