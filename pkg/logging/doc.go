// Package logging provides structured logging for trestle built on Go's
// standard slog package.
//
// All log entries carry a subsystem identifier for categorization:
//
//	logging.Init(logging.LevelInfo, os.Stderr)
//	logging.Info("Config", "Loaded configuration from %s", configPath)
//	logging.Error("Uploader", err, "Failed to submit test log %q", name)
//
// Level filtering happens in the slog handler, so filtered-out messages cost
// no allocation. The package is safe for concurrent use once Init has run.
package logging
