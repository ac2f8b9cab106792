// Package logging wires log/slog with the console and JSON handlers used by
// vidpack. The console handler prints compact single-line records for
// interactive builds; the JSON handler serves CI logs.
package logging
