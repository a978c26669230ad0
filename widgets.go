package gorbie

import "fmt"

// Widget palette. Muted purples matching the page chrome.
var (
	trackFill  = Color{0.87, 0.83, 0.93, 1} // #ded3ee
	activeFill = Color{0.61, 0.50, 0.80, 1} // #9b80cc
	accentFill = Color{0.07, 0.02, 0.59, 1} // #130496
	inkFill    = Color{0.07, 0.02, 0.11, 1} // #12051d
)

// Label draws a line of text at (x, y) in card-local coordinates.
func Label(c *CardCtx, x, y float64, text string) {
	debugPrintAt(c.target, text, x, y)
}

// Labelf draws formatted text at (x, y).
func Labelf(c *CardCtx, x, y float64, format string, args ...any) {
	debugPrintAt(c.target, fmt.Sprintf(format, args...), x, y)
}

// Button draws a push button and reports whether it was pressed this frame.
func Button(c *CardCtx, r Rect, label string) bool {
	pt, _ := c.Pointer()
	hover := r.Contains(pt.X, pt.Y)

	fill := trackFill
	if hover {
		fill = activeFill
	}
	fillRect(c.target, r, fill)
	strokeRect(c.target, r, accentFill)
	debugPrintAt(c.target, label, r.X+8, r.Y+(r.Height-16)/2)

	if hover && c.JustPressed() {
		c.RequestRepaint()
		return true
	}
	return false
}

// Toggle draws a two-state button bound to a boolean cell and reports
// whether it flipped this frame.
func Toggle(c *CardCtx, r Rect, label string, h Handle[bool]) bool {
	on := h.Get()
	fill := trackFill
	if on {
		fill = accentFill
	}
	pt, _ := c.Pointer()
	hover := r.Contains(pt.X, pt.Y)
	fillRect(c.target, r, fill)
	strokeRect(c.target, r, accentFill)
	debugPrintAt(c.target, label, r.X+8, r.Y+(r.Height-16)/2)

	if hover && c.JustPressed() {
		h.Set(!on)
		c.RequestRepaint()
		return true
	}
	return false
}

// Slider draws a horizontal slider bound to a float64 cell in [min, max].
// Dragging anywhere on the track writes the value through the handle.
func Slider(c *CardCtx, r Rect, h Handle[float64], min, max float64) {
	if max <= min {
		max = min + 1
	}
	value := h.Get()

	pt, down := c.Pointer()
	if down && r.Contains(pt.X, pt.Y) {
		frac := (pt.X - r.X) / r.Width
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		next := min + frac*(max-min)
		if next != value {
			h.Set(next)
			value = next
			c.RequestRepaint()
		}
	}

	frac := (value - min) / (max - min)
	fillRect(c.target, r, trackFill)
	fillRect(c.target, Rect{X: r.X, Y: r.Y, Width: r.Width * frac, Height: r.Height}, activeFill)
	strokeRect(c.target, r, accentFill)

	// Thumb.
	tx := r.X + r.Width*frac - 3
	fillRect(c.target, Rect{X: tx, Y: r.Y - 2, Width: 6, Height: r.Height + 4}, accentFill)
}

// Progress draws a read-only progress bar for frac in [0, 1].
func Progress(c *CardCtx, r Rect, frac float64) {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	fillRect(c.target, r, trackFill)
	fillRect(c.target, Rect{X: r.X, Y: r.Y, Width: r.Width * frac, Height: r.Height}, accentFill)
	strokeRect(c.target, r, inkFill)
}
