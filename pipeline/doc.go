// Package pipeline runs an ordered list of stages over one shared state
// value. Each stage gets its own span.
package pipeline
