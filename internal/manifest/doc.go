// Package manifest records produced containers in a SQLite database. The
// records power incremental builds (--skip-unchanged) and post-run reporting.
// The manifest is bookkeeping only; container bytes never depend on it.
package manifest
