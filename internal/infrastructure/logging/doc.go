// Package logging provides structured logging for augustlink.
//
// It wraps log/slog with level parsing, format selection (JSON or text),
// and service/version default fields. Packages that need logging accept
// a narrow Logger interface and fall back to a no-op implementation, so
// the concrete type here is only referenced at wiring time in cmd.
package logging
