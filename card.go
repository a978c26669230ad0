package gorbie

import (
	"image"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
)

// DrawFunc produces one card's visual content for the current frame.
type DrawFunc func(*CardCtx)

// Card is one renderable, independently placeable unit of notebook output.
// The registry owns the Card list for exactly one frame; persistent
// placement lives in the DockManager, keyed by the card's identity.
type Card struct {
	ID         CardID
	OrderIndex int
	Height     float64
	Draw       DrawFunc

	key    string // caller-supplied key, "" for order-index identity
	source sourceLocation
}

// cardRegistry collects the ordered cards produced by one execution of the
// notebook definition. It is discarded at frame end.
type cardRegistry struct {
	cards []Card
	seen  map[CardID]struct{}
}

func newCardRegistry() *cardRegistry {
	return &cardRegistry{seen: make(map[CardID]struct{})}
}

// add appends a card in declaration order, assigning its identity from the
// explicit key when present, else from the order index. Reusing an explicit
// key within one frame is a programmer error.
func (r *cardRegistry) add(key string, height float64, draw DrawFunc, src sourceLocation) {
	index := len(r.cards)
	id := CardID(key)
	if key == "" {
		id = orderID(index)
	}
	if _, dup := r.seen[id]; dup {
		panic("gorbie: duplicate card key " + string(id))
	}
	r.seen[id] = struct{}{}
	if height <= 0 {
		height = DefaultCardHeight
	}
	r.cards = append(r.cards, Card{
		ID:         id,
		OrderIndex: index,
		Height:     height,
		Draw:       draw,
		key:        key,
		source:     src,
	})
}

func orderID(index int) CardID {
	// Unkeyed identity follows declaration order; reordering unkeyed cards
	// scrambles their persisted placement.
	return CardID("#" + strconv.Itoa(index))
}

// CardCtx is the draw context handed to a card's DrawFunc. It exposes the
// card's offscreen target, the persistent state store, and the pointer state
// local to the card for this frame.
type CardCtx struct {
	nb     *Notebook
	card   *Card
	target *ebiten.Image

	pointer     Vec2 // pointer position in card-local coordinates
	pointerDown bool // button held this frame
	justPressed bool // button transitioned to down this frame
}

// Target returns the card's offscreen draw target for this frame.
func (c *CardCtx) Target() *ebiten.Image { return c.target }

// Store returns the run's persistent state store.
func (c *CardCtx) Store() *StateStore { return c.nb.store }

// ID returns the card's stable identity.
func (c *CardCtx) ID() CardID { return c.card.ID }

// Size returns the card's content size in points.
func (c *CardCtx) Size() (w, h float64) {
	return PageWidth, c.card.Height
}

// Pointer returns the pointer position in card-local coordinates and
// whether the primary button is held.
func (c *CardCtx) Pointer() (Vec2, bool) {
	return c.pointer, c.pointerDown
}

// JustPressed reports whether the primary button went down this frame while
// over this card.
func (c *CardCtx) JustPressed() bool { return c.justPressed }

// RequestRepaint signals that visual state changed and the notebook must be
// redrawn. The interactive driver redraws every frame regardless; the
// headless capture driver uses this signal to detect quiescence.
func (c *CardCtx) RequestRepaint() { c.nb.RequestRepaint() }

// State returns a typed handle bound to key, initializing the cell on first
// access. A key reused with a different type panics with a
// *TypeMismatchError: that is a defect in the notebook definition, not a
// recoverable condition.
func State[T any](c *NotebookCtx, key string, init func() T) Handle[T] {
	h, err := Use(c.nb.store, key, init)
	if err != nil {
		panic(err)
	}
	return h
}

// CardState is the draw-time sibling of [State], for widgets that bind
// state while drawing.
func CardState[T any](c *CardCtx, key string, init func() T) Handle[T] {
	h, err := Use(c.nb.store, key, init)
	if err != nil {
		panic(err)
	}
	return h
}

// --- Card surface pool ---

// surfacePool manages reusable offscreen card images keyed by power-of-two
// dimensions. After warmup, acquire/release are zero-alloc.
type surfacePool struct {
	buckets map[uint64][]*ebiten.Image
}

func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// acquire returns a cleared offscreen image with at least (w, h) pixels,
// rounded up to the next power of two.
func (p *surfacePool) acquire(w, h int) *ebiten.Image {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	if p.buckets != nil {
		if stack := p.buckets[key]; len(stack) > 0 {
			img := stack[len(stack)-1]
			p.buckets[key] = stack[:len(stack)-1]
			img.Clear()
			return img
		}
	}

	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, pw, ph),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// release returns an image to the pool. It is cleared on the next acquire,
// not here.
func (p *surfacePool) release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	key := poolKey(b.Dx(), b.Dy())

	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	p.buckets[key] = append(p.buckets[key], img)
}

func nextPowerOfTwo(v int) int {
	if v <= 1 {
		return 1
	}
	n := 1
	for n < v {
		n <<= 1
	}
	return n
}
