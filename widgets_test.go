package gorbie

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func widgetCtx(height float64) *CardCtx {
	nb := New(func(*NotebookCtx) {})
	nb.consumeRepaint()
	card := &Card{ID: "w", Height: height}
	return &CardCtx{nb: nb, card: card, target: ebiten.NewImage(int(PageWidth), int(height))}
}

func TestSliderWritesThroughHandle(t *testing.T) {
	ctx := widgetCtx(60)
	h, err := Use(ctx.nb.store, "volume", func() float64 { return 0.5 })
	if err != nil {
		t.Fatal(err)
	}

	track := Rect{X: 10, Y: 20, Width: 200, Height: 12}
	ctx.pointer = Vec2{X: 110, Y: 26} // halfway along the track
	ctx.pointerDown = true

	Slider(ctx, track, h, 0, 1)
	if got := h.Get(); got != 0.5 {
		t.Errorf("value = %v, want 0.5", got)
	}

	ctx.pointer.X = 210 // right edge
	Slider(ctx, track, h, 0, 1)
	if got := h.Get(); got != 1.0 {
		t.Errorf("value = %v, want 1.0", got)
	}
	if !ctx.nb.consumeRepaint() {
		t.Error("slider write did not request repaint")
	}
}

func TestSliderClampsOutsideTrack(t *testing.T) {
	ctx := widgetCtx(60)
	h, _ := Use(ctx.nb.store, "v", func() float64 { return 5 })

	track := Rect{X: 10, Y: 20, Width: 100, Height: 12}
	ctx.pointerDown = true
	ctx.pointer = Vec2{X: 10, Y: 26} // left edge

	Slider(ctx, track, h, 2, 8)
	if got := h.Get(); got != 2 {
		t.Errorf("value = %v, want min 2", got)
	}
}

func TestSliderIgnoresHoverWithoutPress(t *testing.T) {
	ctx := widgetCtx(60)
	h, _ := Use(ctx.nb.store, "v", func() float64 { return 0.3 })

	ctx.pointer = Vec2{X: 60, Y: 26}
	ctx.pointerDown = false
	Slider(ctx, Rect{X: 10, Y: 20, Width: 100, Height: 12}, h, 0, 1)
	if got := h.Get(); got != 0.3 {
		t.Errorf("value = %v, want untouched 0.3", got)
	}
}

func TestButtonPressRequiresHover(t *testing.T) {
	ctx := widgetCtx(60)
	r := Rect{X: 10, Y: 10, Width: 80, Height: 24}

	ctx.justPressed = true
	ctx.pointer = Vec2{X: 200, Y: 200}
	if Button(ctx, r, "go") {
		t.Error("press away from button reported as click")
	}

	ctx.pointer = Vec2{X: 20, Y: 20}
	if !Button(ctx, r, "go") {
		t.Error("press over button not reported")
	}
}

func TestToggleFlipsCell(t *testing.T) {
	ctx := widgetCtx(60)
	h, _ := Use(ctx.nb.store, "on", func() bool { return false })
	r := Rect{X: 10, Y: 10, Width: 80, Height: 24}

	ctx.pointer = Vec2{X: 20, Y: 20}
	ctx.justPressed = true
	if !Toggle(ctx, r, "power", h) {
		t.Fatal("toggle did not flip")
	}
	if !h.Get() {
		t.Error("cell still false after flip")
	}

	ctx.justPressed = false
	if Toggle(ctx, r, "power", h) {
		t.Error("toggle flipped without a press")
	}
	if !h.Get() {
		t.Error("cell changed without a press")
	}
}

func TestProgressToleratesOutOfRange(t *testing.T) {
	ctx := widgetCtx(60)
	r := Rect{X: 10, Y: 10, Width: 100, Height: 10}
	Progress(ctx, r, -0.5)
	Progress(ctx, r, 1.5)
}
