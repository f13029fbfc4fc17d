// Package database provides SQLite-based persistence for scan results.
// Reports are stored as JSON rows with summary columns for cheap listing,
// which gives the history command access to past scans without re-analysis.
package database
