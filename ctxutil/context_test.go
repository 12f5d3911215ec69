package ctxutil

import (
	"context"
	"testing"
)

func TestEnsureTraceID(t *testing.T) {
	ctx, id := EnsureTraceID(context.Background())
	if id == "" {
		t.Fatal("expected generated trace id")
	}
	if got := GetTraceID(ctx); got != id {
		t.Errorf("GetTraceID = %q, want %q", got, id)
	}

	again, id2 := EnsureTraceID(ctx)
	if id2 != id {
		t.Errorf("EnsureTraceID replaced existing id: %q -> %q", id, id2)
	}
	if GetTraceID(again) != id {
		t.Error("context lost trace id")
	}
}

func TestGetTraceIDEmpty(t *testing.T) {
	if got := GetTraceID(context.Background()); got != "" {
		t.Errorf("expected empty trace id, got %q", got)
	}
	if got := GetTraceID(SetTraceID(context.Background(), "abc")); got != "abc" {
		t.Errorf("expected abc, got %q", got)
	}
}
