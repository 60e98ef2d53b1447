package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
)

func TestLogger_InjectsContextFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "location-service", LevelDebug)

	ctx := wrap.WithRequestID(context.Background(), "req-1")
	ctx = wrap.WithUserID(ctx, "user-1")
	ctx = wrap.WithAction(ctx, "verify_location")

	l.Info(ctx, "verified", "status", "GREEN")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not json: %v (%s)", err, buf.String())
	}

	want := map[string]string{
		"message":    "verified",
		"service":    "location-service",
		"action":     "verify_location",
		"user_id":    "user-1",
		"request_id": "req-1",
		"status":     "GREEN",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Fatalf("field %q: got %v want %q", k, entry[k], v)
		}
	}
}

func TestLogger_ErrorKeepsWrappedContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "svc", LevelDebug)

	inner := wrap.WithAction(context.Background(), "geocode_address")
	err := wrap.Error(inner, errors.New("boom"))

	l.Error(wrap.ErrorCtx(context.Background(), err), "verification failed", err)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not json: %v", err)
	}
	if entry["action"] != "geocode_address" {
		t.Fatalf("action from wrapped error not restored: %v", entry["action"])
	}
	errGroup, ok := entry["error"].(map[string]any)
	if !ok || errGroup["msg"] != "boom" {
		t.Fatalf("unexpected error group: %v", entry["error"])
	}
}

func TestLogger_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "svc", LevelWarn)

	l.Debug(context.Background(), "hidden")
	l.Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below WARN, got %s", buf.String())
	}

	l.Warn(context.Background(), "shown")
	if buf.Len() == 0 {
		t.Fatalf("expected WARN line to be written")
	}
}

func TestValidateLogLevel(t *testing.T) {
	for _, lvl := range []string{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		if !ValidateLogLevel(lvl) {
			t.Fatalf("%s must be valid", lvl)
		}
	}
	if ValidateLogLevel("TRACE") {
		t.Fatalf("TRACE must be invalid")
	}
}

func TestLogger_TimestampAndUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "svc", "verbose")

	l.Debug(context.Background(), "debug is on")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unknown level must fall back to DEBUG: %v (%q)", err, buf.String())
	}
	if _, ok := entry["timestamp"].(string); !ok {
		t.Fatalf("timestamp missing: %v", entry)
	}
	if _, ok := entry["time"]; ok {
		t.Fatalf("raw time key must be renamed: %v", entry)
	}
}
