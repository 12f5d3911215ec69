// Package ctxutil carries request-scoped values, currently the trace id that
// the logger stamps on every entry of a command invocation.
package ctxutil
