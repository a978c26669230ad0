// Package gorbie is an immediate-mode notebook runtime for [Ebitengine].
//
// A notebook is an ordinary Go function that is re-invoked once per frame.
// Each invocation declares the notebook's cards in order and reads or
// writes persistent state cells; the runtime supplies stable identity and
// stable values across frames without any dependency tracking.
//
// # Quick start
//
// The simplest way to run a notebook is [Main], which parses the standard
// CLI flags and selects the interactive or headless driver for you:
//
//	func main() {
//		gorbie.Main("intro", func(ctx *gorbie.NotebookCtx) {
//			ctx.View("hello", 80, func(c *gorbie.CardCtx) {
//				gorbie.Label(c, 16, 16, "Hello, notebook!")
//			})
//		})
//	}
//
// For full control, build a [Notebook] with [New] and hand it to [Run]
// (interactive window) or [RunHeadless] (per-card PNG export).
//
// # State
//
// Persistent values live in a [StateStore], keyed by a stable string.
// [State] lazily initializes a cell on first use and returns a typed
// [Handle]; reusing a key with a different type is a programmer error and
// panics with a [TypeMismatchError].
//
//	slider := gorbie.State(ctx, "slider", func() float64 { return 0.5 })
//
// # Cards and docking
//
// Every call to [NotebookCtx.View] produces one card. Cards render inline
// in the page column by default; dragging a card's chrome strip across the
// page margin detaches it into a floating overlay surface, and dragging it
// back re-docks it. Layer ownership changes are committed only at frame
// boundaries, so a card is never drawn into two layers (or neither) within
// one frame.
//
// # Headless capture
//
// [RunHeadless] steps the notebook offscreen, waits for visual quiescence
// per card, and writes card_0001.png, card_0002.png, ... into the output
// directory.
//
// [Ebitengine]: https://ebitengine.org
package gorbie
