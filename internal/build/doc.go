// Package build orchestrates a batch run: enumerate inputs, drive the
// external encoder per file, wrap each result in the .video container, then
// clean up intermediates. Jobs run one at a time in enumeration order and the
// first failure aborts the batch.
package build
