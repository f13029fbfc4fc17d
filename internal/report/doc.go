// Package report provides output formatting for scan results.
// It supports human-readable text, JSON, Markdown, and CSV formats
// through a common Writer interface.
package report
