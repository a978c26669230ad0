package gorbie

import "github.com/hajimehoshi/ebiten/v2"

// pointerState tracks the single mouse pointer across frames.
type pointerState struct {
	down        bool
	startX      float64
	startY      float64
	lastX       float64
	lastY       float64
	chromeCard  CardID // card whose drag affordance was pressed, "" otherwise
	justPressed bool
}

const scrollSpeed = 24.0

// processInput is called from App.Update after layout. Injected events take
// priority over real mouse input so scripted runs are deterministic.
func (a *App) processInput() {
	if a.processInjectedInput() {
		return
	}

	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	a.processPointer(float64(mx), float64(my), pressed)

	if _, wy := ebiten.Wheel(); wy != 0 {
		a.scrollBy(-wy * scrollSpeed)
	}
}

// processPointer runs the pointer state machine for the mouse pointer and
// routes chrome gestures to the docking manager.
func (a *App) processPointer(x, y float64, pressed bool) {
	ps := &a.pointer
	ps.justPressed = false

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.startX, ps.startY = x, y
		ps.justPressed = true
		if id, bounds, ok := a.hitChrome(x, y); ok {
			a.nb.dock.PointerDown(id, x, y, bounds)
			ps.chromeCard = id
		}

	case pressed && ps.down:
		if ps.chromeCard != "" && (x != ps.lastX || y != ps.lastY) {
			a.nb.dock.PointerMove(x, y)
		}

	case !pressed && ps.down:
		ps.down = false
		if ps.chromeCard != "" {
			g := a.nb.dock.Dragging(ps.chromeCard)
			wasDrag := g != nil && g.Active()
			a.nb.dock.PointerUp(x, y)
			if !wasDrag {
				// Press and release on the chrome without a drag: treat as
				// a chrome click and jump to the card's source location.
				a.openEditor(ps.chromeCard)
			}
			ps.chromeCard = ""
		}
	}

	ps.lastX, ps.lastY = x, y
}

// hitChrome finds the topmost card whose drag affordance contains (x, y).
// Overlay cards sit above the page, so the layout is scanned in reverse
// paint order.
func (a *App) hitChrome(x, y float64) (CardID, Rect, bool) {
	for i := len(a.layout) - 1; i >= 0; i-- {
		entry := a.layout[i]
		if entry.layer != LayerOverlay {
			continue
		}
		chrome := Rect{X: entry.bounds.X, Y: entry.bounds.Y, Width: entry.bounds.Width, Height: ChromeHeight}
		if chrome.Contains(x, y) {
			return entry.card.ID, entry.bounds, true
		}
	}
	for i := len(a.layout) - 1; i >= 0; i-- {
		entry := a.layout[i]
		if entry.layer != LayerPage {
			continue
		}
		chrome := Rect{X: entry.bounds.X, Y: entry.bounds.Y, Width: entry.bounds.Width, Height: ChromeHeight}
		if chrome.Contains(x, y) {
			return entry.card.ID, entry.bounds, true
		}
	}
	return "", Rect{}, false
}
