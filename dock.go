package gorbie

import "math"

// defaultDragDeadZone is the minimum pointer movement in points before a
// chrome press becomes a drag.
const defaultDragDeadZone = 4.0

// DragGesture is the transient state of one pointer interaction with a
// card's drag affordance. It exists only between pointer-down and
// pointer-up.
type DragGesture struct {
	CardID        CardID
	Start         Vec2
	Current       Vec2
	CrossedMargin bool

	active       bool // movement exceeded the dead zone
	fromDetached bool // gesture began on a detached card
	grab         Vec2 // pointer offset inside the card at press time
	cardSize     Vec2 // card dimensions at press time
}

// Active reports whether the gesture moved beyond the dead zone.
func (g *DragGesture) Active() bool { return g.active }

// pendingTransition is a placement change recorded mid-frame and applied
// atomically at the frame-boundary commit point. Deferring the anchor-layer
// change keeps a card from being drawn into two layers, or into neither,
// within the same frame.
type pendingTransition struct {
	id        CardID
	placement Placement
}

// DockManager owns persistent card placement across frames, keyed by stable
// card identity, and arbitrates drag gestures that cross the page/margin
// boundary.
type DockManager struct {
	placements map[CardID]Placement
	drag       *DragGesture
	pending    []pendingTransition

	marginX  float64 // x of the page column's right edge in screen points
	deadZone float64
}

// NewDockManager creates a docking manager with the default dead zone and a
// margin boundary at the page column's right edge.
func NewDockManager() *DockManager {
	return &DockManager{
		placements: make(map[CardID]Placement),
		marginX:    PageWidth,
		deadZone:   defaultDragDeadZone,
	}
}

// SetMargin sets the x coordinate of the page/margin boundary in screen
// points. The interactive driver updates it when the window resizes so the
// boundary tracks the centered page column.
func (m *DockManager) SetMargin(x float64) { m.marginX = x }

// SetDragDeadZone sets the minimum movement in points before a drag starts.
func (m *DockManager) SetDragDeadZone(points float64) { m.deadZone = points }

// Placement returns the committed placement for a card identity. Identities
// with no recorded placement are inline.
func (m *DockManager) Placement(id CardID) Placement {
	if p, ok := m.placements[id]; ok {
		return p
	}
	return Placement{Kind: PlacementInline, Layer: LayerPage}
}

// Dragging returns the in-flight gesture for id, or nil.
func (m *DockManager) Dragging(id CardID) *DragGesture {
	if m.drag != nil && m.drag.CardID == id {
		return m.drag
	}
	return nil
}

// DragOffset returns the visual offset to apply to id's draw position while
// it is being dragged. Zero when the card is not in an active drag.
func (m *DockManager) DragOffset(id CardID) Vec2 {
	g := m.Dragging(id)
	if g == nil || !g.active {
		return Vec2{}
	}
	return Vec2{X: g.Current.X - g.Start.X, Y: g.Current.Y - g.Start.Y}
}

// PointerDown begins a gesture on a card's drag affordance. bounds is the
// card's current on-screen rectangle; the pointer's offset inside it
// determines the detached window position at release.
func (m *DockManager) PointerDown(id CardID, x, y float64, bounds Rect) {
	m.drag = &DragGesture{
		CardID:       id,
		Start:        Vec2{X: x, Y: y},
		Current:      Vec2{X: x, Y: y},
		fromDetached: m.Placement(id).Kind == PlacementDetached,
		grab:         Vec2{X: x - bounds.X, Y: y - bounds.Y},
		cardSize:     Vec2{X: bounds.Width, Y: bounds.Height},
	}
}

// PointerMove advances the in-flight gesture. Margin crossing is re-derived
// every frame from the pointer position, so a gesture that wanders back
// across the boundary un-crosses it.
func (m *DockManager) PointerMove(x, y float64) {
	g := m.drag
	if g == nil {
		return
	}
	g.Current = Vec2{X: x, Y: y}

	if !g.active {
		dx := x - g.Start.X
		dy := y - g.Start.Y
		if math.Sqrt(dx*dx+dy*dy) > m.deadZone {
			g.active = true
		}
	}
	if !g.active {
		return
	}

	if g.fromDetached {
		// Detached cards re-dock by crossing back into the page column.
		g.CrossedMargin = x < m.marginX
		// Moving a floating window is a geometry change within the same
		// layer; it applies immediately, unlike the layer transition.
		p := m.placements[g.CardID]
		p.Window.X = x - g.grab.X
		p.Window.Y = y - g.grab.Y
		m.placements[g.CardID] = p
	} else {
		g.CrossedMargin = x > m.marginX
	}
}

// PointerUp ends the in-flight gesture. Crossing is derived from the release
// position, the pointer's final position. A release with the margin crossed
// records a pending layer transition; the transition is applied only by
// EndFrame, after all cards for the frame have been drawn. The return value
// reports whether a transition was queued.
func (m *DockManager) PointerUp(x, y float64) bool {
	g := m.drag
	m.drag = nil
	if g == nil || !g.active {
		return false
	}
	if g.fromDetached {
		g.CrossedMargin = x < m.marginX
	} else {
		g.CrossedMargin = x > m.marginX
	}
	if !g.CrossedMargin {
		return false
	}

	if g.fromDetached {
		m.pending = append(m.pending, pendingTransition{
			id:        g.CardID,
			placement: Placement{Kind: PlacementInline, Layer: LayerPage},
		})
	} else {
		m.pending = append(m.pending, pendingTransition{
			id: g.CardID,
			placement: Placement{
				Kind:  PlacementDetached,
				Layer: LayerOverlay,
				Window: Rect{
					X:      x - g.grab.X,
					Y:      y - g.grab.Y,
					Width:  g.cardSize.X,
					Height: g.cardSize.Y,
				},
			},
		})
	}
	return true
}

// CancelDrag abandons the in-flight gesture without queueing a transition.
func (m *DockManager) CancelDrag() { m.drag = nil }

// HasPending reports whether a layer transition is waiting for the
// frame-boundary commit.
func (m *DockManager) HasPending() bool { return len(m.pending) > 0 }

// EndFrame atomically applies all pending placement transitions and returns
// the identities whose placement changed. Drivers call it exactly once per
// frame, after the frame's draw pass completes.
func (m *DockManager) EndFrame() []CardID {
	var committed []CardID
	for _, t := range m.pending {
		if t.placement.Kind == PlacementInline {
			// Inline placement carries no per-identity geometry; dropping
			// the entry restores the default.
			delete(m.placements, t.id)
		} else {
			m.placements[t.id] = t.placement
		}
		committed = append(committed, t.id)
	}
	m.pending = m.pending[:0]
	return committed
}

// prune drops placements for identities the current frame no longer
// produces and returns their IDs. A drag in flight for a vanished identity
// is cancelled.
func (m *DockManager) prune(live func(CardID) bool) []CardID {
	var dropped []CardID
	for id := range m.placements {
		if !live(id) {
			dropped = append(dropped, id)
			delete(m.placements, id)
		}
	}
	if m.drag != nil && !live(m.drag.CardID) {
		m.drag = nil
	}
	// Pending transitions for vanished identities are dropped too.
	kept := m.pending[:0]
	for _, t := range m.pending {
		if live(t.id) {
			kept = append(kept, t)
		}
	}
	m.pending = kept
	return dropped
}
