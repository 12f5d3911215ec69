// Package command defines the typed commands of the indexer and a registry
// that dispatches them. Registry.Wrap lets a handler extend the one it
// replaces by calling it as prior.
package command
