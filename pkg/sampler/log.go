package sampler

import "github.com/go-kit/log"

// Logger is the package-level logger, in the same spirit as tempo's
// pkg/util.Logger singleton: a host that already wires a go-kit logger can
// replace it at startup, and everything in this package logs through it.
var Logger log.Logger = log.NewNopLogger()
