// Package log provides a concurrency-safe logging interface based on
// [log/slog].
//
// Loggers are configured at creation time with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText))
//	logger.Info("section processed", slog.Int("entries", n))
//
// Three output formats are supported: machine-readable JSON and text
// via the standard slog handlers, and a colorized text format for
// terminals. The package also maintains a default logger for
// contexts where threading a Logger value is impractical, such as
// top-level failure reporting in main.
package log
