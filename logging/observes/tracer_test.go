package observes

import (
	"context"
	"errors"
	"testing"

	"github.com/ncobase/searchsync/config"
)

func TestNewTracer_EmptyEndpoint(t *testing.T) {
	if _, err := NewTracer(&config.Tracer{}, "svc", "v1"); err == nil {
		t.Fatal("expected error for empty endpoint")
	}
	if _, err := NewTracer(nil, "svc", "v1"); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestStartEndSpan_NoopProvider(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "stage")
	if ctx == nil || span == nil {
		t.Fatal("expected context and span")
	}
	EndSpan(span, errors.New("boom"))

	_, span = StartSpan(context.Background(), "stage")
	EndSpan(span, nil)
}
