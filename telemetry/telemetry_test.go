package telemetry

import (
	"bytes"
	"strings"
	"testing"
)

func TestMilestoneWritesReadableLine(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Milestone("network built", map[string]any{"nodes": 42})

	out := buf.String()
	if !strings.Contains(out, "network built") {
		t.Errorf("output %q missing milestone message", out)
	}
	if !strings.Contains(out, "42") {
		t.Errorf("output %q missing field value", out)
	}
}

func TestNewDefaultsNilWriterToStderr(t *testing.T) {
	l := New(nil)
	if l == nil {
		t.Fatalf("New(nil) returned nil")
	}
}
