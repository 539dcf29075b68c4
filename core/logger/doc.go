// Package logger provides a structured logging facility based on Zap.
//
// Loggers are created once at startup and handed to every service through its
// constructor; no service reaches for a process-wide logger, which lets tests
// substitute zap.NewNop() or an observer core per case.
//
// # Context Awareness
//
// WithRayID extracts the RayID from a Fiber context and attaches it to the
// log entry, so that all logs of one ops request can be correlated.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Sweep finished", zap.Int("expired", n))
package logger
