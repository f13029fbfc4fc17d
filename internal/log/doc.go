// Package log provides logging with automatic truncation of recovered
// payloads, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic truncation of decoded message attributes
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Payload Handling
//
// Messages recovered from images are attacker-controlled data of up to the
// configured byte limit. The RedactHandler truncates payload-bearing
// attributes (message, payload, decoded) and strips control characters so
// that a hostile payload cannot flood the log or inject terminal escape
// sequences. Full payloads belong in reports, not in logs.
//
// # Usage
//
//	// Create a logger
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Info("message recovered",
//	    "channel", "blue",
//	    "message", decoded, // truncated and sanitized in the log output
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
