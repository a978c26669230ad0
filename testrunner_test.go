package gorbie

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestLoadScriptRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{steps:}`},
		{"no steps", `{"steps": []}`},
		{"missing steps", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadScript([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunnerExecutesSteps(t *testing.T) {
	r, err := LoadScript([]byte(`{"steps": [
		{"action": "press", "x": 10, "y": 10},
		{"action": "release", "x": 10, "y": 10}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	app := NewApp(New(func(*NotebookCtx) {}), RunConfig{})
	r.step(app)
	if len(app.injectQueue) != 1 {
		t.Fatalf("queue = %d after step 1", len(app.injectQueue))
	}
	// The runner waits for the queue to drain before advancing.
	r.step(app)
	if len(app.injectQueue) != 1 {
		t.Fatal("runner advanced with events pending")
	}
	app.processInjectedInput()
	r.step(app)
	if len(app.injectQueue) != 1 {
		t.Fatalf("queue = %d after step 2", len(app.injectQueue))
	}
	app.processInjectedInput()
	r.step(app)
	if !r.Done() {
		t.Error("runner not done after all steps drained")
	}
}

func TestRunnerWaitCountsFrames(t *testing.T) {
	r, err := LoadScript([]byte(`{"steps": [
		{"action": "wait", "frames": 3},
		{"action": "press", "x": 5, "y": 5}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	app := NewApp(New(func(*NotebookCtx) {}), RunConfig{})
	for i := 0; i < 3; i++ {
		r.step(app)
		if len(app.injectQueue) != 0 {
			t.Fatalf("frame %d: press fired during wait", i)
		}
	}
	r.step(app)
	if len(app.injectQueue) != 1 {
		t.Error("press did not fire after wait elapsed")
	}
}

func TestRunnerDragExpandsToQueue(t *testing.T) {
	r, err := LoadScript([]byte(`{"steps": [
		{"action": "drag", "fromX": 0, "fromY": 0, "toX": 50, "toY": 50, "frames": 5}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	app := NewApp(New(func(*NotebookCtx) {}), RunConfig{})
	r.step(app)
	if len(app.injectQueue) != 5 {
		t.Errorf("queue = %d, want 5", len(app.injectQueue))
	}
}

func TestRunnerScreenshotStep(t *testing.T) {
	r, err := LoadScript([]byte(`{"steps": [
		{"action": "screenshot", "label": "before"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	app := NewApp(New(func(*NotebookCtx) {}), RunConfig{})
	r.step(app)
	if len(app.screenshotQueue) != 1 || app.screenshotQueue[0] != "before" {
		t.Errorf("screenshot queue = %v", app.screenshotQueue)
	}
}

func TestRunnerDrivesAppToCompletion(t *testing.T) {
	r, err := LoadScript([]byte(`{"steps": [
		{"action": "click", "x": 400, "y": 80},
		{"action": "wait", "frames": 2}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	app := NewApp(twoCardNotebook(), RunConfig{Width: 960, Height: 800})
	app.SetRunner(r)
	screen := ebiten.NewImage(960, 800)
	for i := 0; i < 20 && !r.Done(); i++ {
		if err := app.Update(); err != nil {
			t.Fatal(err)
		}
		app.Draw(screen)
	}
	if !r.Done() {
		t.Error("runner never finished")
	}
}
