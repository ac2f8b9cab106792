// Package preflight verifies the environment before a build run: the encoder
// binary resolves, the output directory is writable, and enough disk space is
// available. Failures are reported together so the user fixes everything in
// one pass.
package preflight
