package gorbie

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readPile(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pile: %v", err)
	}
	var events []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var evt map[string]any
		if err := json.Unmarshal([]byte(line), &evt); err != nil {
			t.Fatalf("bad pile line %q: %v", line, err)
		}
		events = append(events, evt)
	}
	return events
}

func TestTelemetrySpansAppendToPile(t *testing.T) {
	pile := filepath.Join(t.TempDir(), "spans.jsonl")
	nb := New(func(*NotebookCtx) {})
	if err := nb.EnableTelemetry(pile); err != nil {
		t.Fatal(err)
	}

	nb.SpanEnter("layout")
	nb.SpanExit("layout")
	nb.CloseTelemetry()

	events := readPile(t, pile)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0]["name"] != "layout" || events[0]["phase"] != "enter" {
		t.Errorf("first event = %v", events[0])
	}
	if events[1]["phase"] != "exit" {
		t.Errorf("second event = %v", events[1])
	}
	if events[0]["run_id"] == "" || events[0]["run_id"] != events[1]["run_id"] {
		t.Errorf("run_id mismatch: %v vs %v", events[0]["run_id"], events[1]["run_id"])
	}
}

func TestTelemetryFrameSpans(t *testing.T) {
	pile := filepath.Join(t.TempDir(), "spans.jsonl")
	nb := New(func(ctx *NotebookCtx) {
		ctx.View("a", 40, func(*CardCtx) {})
	})
	if err := nb.EnableTelemetry(pile); err != nil {
		t.Fatal(err)
	}

	nb.RunFrame()
	nb.RunFrame()
	nb.CloseTelemetry()

	events := readPile(t, pile)
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4 (enter/exit per frame)", len(events))
	}
	for i, evt := range events {
		if evt["name"] != "frame" {
			t.Errorf("event %d name = %v", i, evt["name"])
		}
	}
}

func TestTelemetryDisabledIsNoOp(t *testing.T) {
	nb := New(func(*NotebookCtx) {})
	// Must not panic or block without a pipe.
	nb.SpanEnter("anything")
	nb.SpanExit("anything")
	nb.CloseTelemetry()
}

func TestTelemetryUnwritablePath(t *testing.T) {
	nb := New(func(*NotebookCtx) {})
	err := nb.EnableTelemetry(filepath.Join(t.TempDir(), "no", "such", "dir", "pile"))
	if err == nil {
		t.Fatal("expected error for unwritable pile path")
	}
}

func TestTelemetryAppendsAcrossRuns(t *testing.T) {
	pile := filepath.Join(t.TempDir(), "spans.jsonl")

	for run := 0; run < 2; run++ {
		nb := New(func(*NotebookCtx) {})
		if err := nb.EnableTelemetry(pile); err != nil {
			t.Fatal(err)
		}
		nb.SpanEnter("boot")
		nb.CloseTelemetry()
	}

	events := readPile(t, pile)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0]["run_id"] == events[1]["run_id"] {
		t.Error("separate runs share a run_id")
	}
}
