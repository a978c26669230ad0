package gorbie

import (
	"go.uber.org/zap"
)

// NotebookFunc is a notebook definition. It is re-invoked once per frame and
// must declare its cards and state in a stable order; the runtime performs
// no dependency tracking or partial re-execution.
type NotebookFunc func(*NotebookCtx)

// Notebook is the execution driver. It threads the persistent StateStore
// and a fresh card registry through the notebook definition each frame and
// feeds the resulting cards to the interactive or headless driver.
//
// A Notebook is exclusively owned by the single execution context active
// for a frame; only the telemetry pipe runs concurrently, and it never
// reads or mutates notebook data.
type Notebook struct {
	fn    NotebookFunc
	store *StateStore
	dock  *DockManager
	log   *zap.Logger

	pool    surfacePool
	repaint bool
	frame   uint64
	cards   []Card // cards produced by the most recent frame

	telemetry *telemetryPipe
}

// New creates a notebook around the given definition.
func New(fn NotebookFunc) *Notebook {
	return &Notebook{
		fn:      fn,
		store:   NewStateStore(),
		dock:    NewDockManager(),
		log:     zap.NewNop(),
		repaint: true, // first frame always draws
	}
}

// SetLogger installs a structured logger. The default is a no-op logger.
func (nb *Notebook) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	nb.log = log
}

// Store returns the run's persistent state store.
func (nb *Notebook) Store() *StateStore { return nb.store }

// Dock returns the docking manager that owns card placement across frames.
func (nb *Notebook) Dock() *DockManager { return nb.dock }

// Cards returns the cards produced by the most recent frame.
func (nb *Notebook) Cards() []Card { return nb.cards }

// RequestRepaint marks the notebook's visual state as changed. The headless
// capture driver treats a frame span with no repaint requests as quiescent.
func (nb *Notebook) RequestRepaint() { nb.repaint = true }

// consumeRepaint returns whether a repaint was requested since the last
// call, clearing the flag.
func (nb *Notebook) consumeRepaint() bool {
	r := nb.repaint
	nb.repaint = false
	return r
}

// RunFrame invokes the notebook definition once with a fresh card registry
// and the persistent state store, collects the cards it declares in order,
// and drops docking state for identities the frame no longer produces.
func (nb *Notebook) RunFrame() []Card {
	nb.frame++
	nb.SpanEnter("frame")

	reg := newCardRegistry()
	ctx := &NotebookCtx{nb: nb, reg: reg}
	nb.fn(ctx)

	nb.SpanExit("frame")

	// Recover stale placements: a placement whose identity vanished this
	// frame is dropped, not reported to the user.
	dropped := nb.dock.prune(func(id CardID) bool {
		_, live := reg.seen[id]
		return live
	})
	for _, id := range dropped {
		nb.log.Debug("dropping placement for vanished card", zap.String("card", string(id)))
	}

	nb.cards = reg.cards
	return nb.cards
}

// Frame returns the number of frames executed so far.
func (nb *Notebook) Frame() uint64 { return nb.frame }

// NotebookCtx is the execution context passed to the notebook definition.
// It is valid only for the duration of one frame.
type NotebookCtx struct {
	nb  *Notebook
	reg *cardRegistry
}

// View declares one card. key gives the card a stable identity across
// structurally changing frames; pass "" to fall back to declaration-order
// identity (reordering unkeyed cards scrambles their persisted placement).
// height is the card's content height in points; pass 0 for the default.
func (c *NotebookCtx) View(key string, height float64, draw DrawFunc) {
	c.reg.add(key, height, draw, callerLocation(2))
}

// Store returns the run's persistent state store.
func (c *NotebookCtx) Store() *StateStore { return c.nb.store }

// Notebook returns the driving notebook, for hosts that embed the runtime.
func (c *NotebookCtx) Notebook() *Notebook { return c.nb }
