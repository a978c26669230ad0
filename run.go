package gorbie

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// RunConfig configures the interactive driver.
type RunConfig struct {
	Title         string
	Width         int // window width in points; default 960
	Height        int // window height in points; default 800
	ScreenshotDir string
	ShowFPS       bool
}

// Run opens a window and drives the notebook interactively until the host
// closes it.
func Run(nb *Notebook, cfg RunConfig) error {
	app := NewApp(nb, cfg)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(app.width, app.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(app); err != nil {
		return fmt.Errorf("run notebook: %w", err)
	}
	return nil
}

// cardLayout records where one card renders this frame and which layer owns
// its draw pass.
type cardLayout struct {
	card   Card
	bounds Rect // chrome strip plus content
	layer  AnchorLayer
}

// windowTween settles a freshly detached window into place.
type windowTween struct {
	offsetY *gween.Tween
	value   float64
	done    bool
}

func (t *windowTween) update(dt float32) {
	if t.done {
		return
	}
	v, finished := t.offsetY.Update(dt)
	t.value = float64(v)
	t.done = finished
}

// App is the interactive execution surface. It implements ebiten.Game and
// can also be stepped manually (Update/Draw) by hosts and tests.
type App struct {
	nb  *Notebook
	cfg RunConfig

	width, height int
	pageLeft      float64
	scroll        float64
	flowHeight    float64

	pointer     pointerState
	injectQueue []syntheticPointerEvent
	layout      []cardLayout
	tweens      map[CardID]*windowTween
	runner      *Runner

	screenshotQueue []string
	ScreenshotDir   string
}

// NewApp creates the interactive surface without opening a window. Use Run
// for the common case.
func NewApp(nb *Notebook, cfg RunConfig) *App {
	if cfg.Width <= 0 {
		cfg.Width = 960
	}
	if cfg.Height <= 0 {
		cfg.Height = 800
	}
	dir := cfg.ScreenshotDir
	if dir == "" {
		dir = "screenshots"
	}
	return &App{
		nb:            nb,
		cfg:           cfg,
		width:         cfg.Width,
		height:        cfg.Height,
		tweens:        make(map[CardID]*windowTween),
		ScreenshotDir: dir,
	}
}

// Notebook returns the driven notebook.
func (a *App) Notebook() *Notebook { return a.nb }

// SetRunner attaches a scripted interaction runner. Its Step method is
// called once per Update before input processing.
func (a *App) SetRunner(r *Runner) { a.runner = r }

// Update executes one notebook frame, recomputes the page layout, and
// processes pointer input. Implements ebiten.Game.
func (a *App) Update() error {
	if a.runner != nil && !a.runner.Done() {
		a.runner.step(a)
	}

	cards := a.nb.RunFrame()
	a.computeLayout(cards)
	a.processInput()

	dt := float32(1.0 / float64(ebiten.TPS()))
	for id, tw := range a.tweens {
		tw.update(dt)
		if tw.done {
			delete(a.tweens, id)
		}
	}
	return nil
}

// computeLayout assigns this frame's bounds and anchor layer per card from
// the committed placements. Inline cards stack in the page column; detached
// cards take their floating window geometry.
func (a *App) computeLayout(cards []Card) {
	a.pageLeft = (float64(a.width) - PageWidth) / 2
	if a.pageLeft < 0 {
		a.pageLeft = 0
	}
	a.nb.dock.SetMargin(a.pageLeft + PageWidth)

	a.layout = a.layout[:0]
	y := PageTopMargin - a.scroll
	for _, card := range cards {
		h := ChromeHeight + card.Height
		p := a.nb.dock.Placement(card.ID)
		if p.Kind == PlacementDetached {
			bounds := p.Window
			if tw, ok := a.tweens[card.ID]; ok {
				bounds.Y += tw.value
			}
			a.layout = append(a.layout, cardLayout{card: card, bounds: bounds, layer: LayerOverlay})
			continue
		}

		bounds := Rect{X: a.pageLeft, Y: y, Width: PageWidth, Height: h}
		off := a.nb.dock.DragOffset(card.ID)
		bounds.X += off.X
		bounds.Y += off.Y
		a.layout = append(a.layout, cardLayout{card: card, bounds: bounds, layer: LayerPage})
		y += h + CardSpacing
	}
	a.flowHeight = y + a.scroll
}

func (a *App) scrollBy(delta float64) {
	a.scroll += delta
	max := a.flowHeight - float64(a.height)
	if max < 0 {
		max = 0
	}
	if a.scroll > max {
		a.scroll = max
	}
	if a.scroll < 0 {
		a.scroll = 0
	}
}

// Draw renders the page layer, then the overlay layer, then commits any
// pending placement transitions. A layer change queued mid-frame is never
// visible until this commit. Implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(ColorWhite.rgba())

	for _, entry := range a.layout {
		if entry.layer == LayerPage {
			a.drawCard(screen, entry)
		}
	}
	for _, entry := range a.layout {
		if entry.layer == LayerOverlay {
			a.drawCard(screen, entry)
		}
	}

	if a.cfg.ShowFPS {
		a.drawFPSOverlay(screen)
	}
	a.flushScreenshots(screen)

	for _, id := range a.nb.dock.EndFrame() {
		if a.nb.dock.Placement(id).Kind == PlacementDetached {
			// Newly detached windows settle in from slightly above.
			a.tweens[id] = &windowTween{
				offsetY: gween.New(-12, 0, 0.2, ease.OutQuad),
				value:   -12,
			}
		}
	}
}

// chromeFill is the drag affordance tint; separatorFill divides inline cards.
var (
	chromeFill    = Color{0.87, 0.83, 0.93, 1} // #ded3ee
	separatorFill = Color{0.61, 0.50, 0.80, 1} // #9b80cc
	contentFill   = Color{1, 1, 1, 1}
)

// drawCard renders one card's chrome and content at its laid-out bounds.
func (a *App) drawCard(screen *ebiten.Image, entry cardLayout) {
	b := entry.bounds

	// Chrome strip (drag affordance).
	fillRect(screen, Rect{X: b.X, Y: b.Y, Width: b.Width, Height: ChromeHeight}, chromeFill)
	debugPrintAt(screen, string(entry.card.ID), b.X+6, b.Y+2)

	// Content surface.
	cw, ch := int(b.Width), int(entry.card.Height)
	if cw <= 0 || ch <= 0 {
		return
	}
	surface := a.nb.pool.acquire(cw, ch)
	surface.Fill(contentFill.rgba())

	ctx := &CardCtx{
		nb:          a.nb,
		card:        &entry.card,
		target:      surface,
		pointer:     Vec2{X: a.pointer.lastX - b.X, Y: a.pointer.lastY - (b.Y + ChromeHeight)},
		pointerDown: a.pointer.down && a.pointer.chromeCard == "",
		justPressed: a.pointer.justPressed && a.pointer.chromeCard == "",
	}
	entry.card.Draw(ctx)

	var op ebiten.DrawImageOptions
	op.GeoM.Translate(b.X, b.Y+ChromeHeight)
	screen.DrawImage(surface.SubImage(surfaceRect(cw, ch)).(*ebiten.Image), &op)
	a.nb.pool.release(surface)

	if entry.layer == LayerPage {
		fillRect(screen, Rect{X: b.X, Y: b.Y + b.Height + CardSpacing/2, Width: b.Width, Height: 1}, separatorFill)
	} else {
		// Floating surfaces get a border instead of a separator.
		strokeRect(screen, b, separatorFill)
	}
}

// drawFPSOverlay paints frame statistics in the top-left corner, refreshed
// every frame. Enabled with RunConfig.ShowFPS.
func (a *App) drawFPSOverlay(screen *ebiten.Image) {
	fillRect(screen, Rect{Width: 100, Height: 32}, Color{0, 0, 0, 0.5})
	debugPrintAt(screen,
		fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()), 4, 2)
}

// Layout implements ebiten.Game.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.width, a.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
