package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/ncobase/searchsync/config"
	"github.com/ncobase/searchsync/ctxutil"
	"github.com/sirupsen/logrus"
)

func newTestLogger(buf *bytes.Buffer) *Logger {
	l := &Logger{Logger: logrus.New()}
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(buf)
	l.SetLevel(logrus.DebugLevel)
	return l
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode log line %q: %v", buf.String(), err)
	}
	return out
}

func TestLogger_TraceAndVersionFields(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.SetVersion("1.2.3")

	ctx := ctxutil.SetTraceID(context.Background(), "trace-1")
	l.Infof(ctx, "saved %s", "doc")

	line := decodeLine(t, &buf)
	if line["msg"] != "saved doc" {
		t.Errorf("unexpected message %v", line["msg"])
	}
	if line[traceKey] != "trace-1" {
		t.Errorf("expected trace id field, got %v", line[traceKey])
	}
	if line[VersionKey] != "1.2.3" {
		t.Errorf("expected version field, got %v", line[VersionKey])
	}
}

func TestLogger_SetLevelName(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	if err := l.SetLevelName("error"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at error level, got %q", buf.String())
	}

	if err := l.SetLevelName("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestDesensitizeHook_MasksNestedFields(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.AddHook(NewDesensitizeHook(NewDesensitizer(&config.Desensitization{
		Enabled:         true,
		SensitiveFields: []string{"password", "api_key"},
		MaskChar:        "*",
		FixedMaskLength: 4,
	})))

	l.WithFields(logrus.Fields{
		"api_key": "abc",
		"payload": map[string]any{"name": "ann", "password": "hunter2"},
	}).Info("saving")

	line := decodeLine(t, &buf)
	if line["api_key"] != "****" {
		t.Errorf("expected api_key masked, got %v", line["api_key"])
	}
	payload, ok := line["payload"].(map[string]any)
	if !ok {
		t.Fatalf("expected payload map, got %T", line["payload"])
	}
	if payload["password"] != "****" || payload["name"] != "ann" {
		t.Errorf("unexpected payload %v", payload)
	}
}

func TestDesensitizer_Disabled(t *testing.T) {
	d := NewDesensitizer(&config.Desensitization{Enabled: false, SensitiveFields: []string{"password"}})
	fields := d.DesensitizeFields(logrus.Fields{"password": "x"})
	if fields["password"] != "x" {
		t.Errorf("expected passthrough when disabled, got %v", fields["password"])
	}
}

func TestAddHook_Once(t *testing.T) {
	l := newTestLogger(&bytes.Buffer{})
	hook := NewDesensitizeHook(NewDesensitizer(&config.Desensitization{Enabled: true}))
	l.AddHook(hook)
	l.AddHook(hook)
	if n := len(l.Hooks[logrus.InfoLevel]); n != 1 {
		t.Errorf("expected one hook, got %d", n)
	}
}

func TestLogger_Derive(t *testing.T) {
	var buf bytes.Buffer
	parent := newTestLogger(&buf)
	parent.SetVersion("v2")

	child, err := parent.Derive("warn")
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	child.Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}

	child.Warn(context.Background(), "shown")
	line := decodeLine(t, &buf)
	if line[VersionKey] != "v2" {
		t.Errorf("expected version to be inherited, got %v", line[VersionKey])
	}
	if parent.GetLevel() != logrus.DebugLevel {
		t.Errorf("parent level changed to %v", parent.GetLevel())
	}

	if _, err := parent.Derive("nope"); err == nil {
		t.Error("expected error for bad level")
	}
}
