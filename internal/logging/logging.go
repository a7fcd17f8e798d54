// Package logging builds the zap.Logger every hif-core command and
// library call logs through, built on zap's development config in both
// modes and split only by level and stack traces, as the teacher's CLI does.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a console-encoded zap.Logger. debug selects DebugLevel with
// stack traces enabled; otherwise InfoLevel with stack traces off, the
// split the CLI uses to keep default output quiet.
func New(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.OutputPaths = []string{"stdout"}

	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.DisableStacktrace = false
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		cfg.DisableStacktrace = true
		cfg.EncoderConfig.EncodeCaller = nil
	}

	return cfg.Build()
}

// Noop returns a logger that discards everything, for tests and for
// library callers that have not opted into logging.
func Noop() *zap.Logger {
	return zap.NewNop()
}
