// Package logger wraps logrus with context-aware helpers.
//
// Entries carry the trace id from the context and the configured version.
// Sensitive fields are masked by a hook before they are written.
package logger
