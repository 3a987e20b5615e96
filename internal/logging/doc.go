// Package logging wires log/slog with the console and JSON handlers used by
// the minutes daemon and CLI. The console handler produces single-line
// records with a component prefix; the JSON handler is intended for log
// shipping. Use NewFromConfig for the standard stdout+file setup.
package logging
