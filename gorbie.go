package gorbie

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default fill tint.
var ColorWhite = Color{1, 1, 1, 1}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func (c Color) rgba() color.RGBA {
	return color.RGBA{clamp255(c.R), clamp255(c.G), clamp255(c.B), clamp255(c.A)}
}

// Vec2 is a 2D vector used for positions, offsets, and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// WhitePixel is a 1x1 white image used for solid color fills.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.rgba())
}

// CardID is the stable identity of a card across frames. Keyed cards use
// their caller-supplied key; unkeyed cards fall back to "#<order-index>".
type CardID string

// AnchorLayer identifies the rendering layer that owns a card's draw pass.
type AnchorLayer uint8

const (
	LayerPage    AnchorLayer = iota // inline page flow
	LayerOverlay                    // floating surfaces above the page
)

// PlacementKind distinguishes the two docking states a card can occupy.
type PlacementKind uint8

const (
	PlacementInline   PlacementKind = iota // card renders in the page column
	PlacementDetached                      // card renders in its own floating surface
)

// Placement describes where one card identity renders this frame. A card
// identity maps to exactly one Placement at any frame boundary.
type Placement struct {
	Kind   PlacementKind
	Layer  AnchorLayer
	Window Rect // floating surface geometry; valid when Kind == PlacementDetached
}

// PageWidth is the width of the inline page column in points. Dragging a
// card's chrome past the column's right edge crosses the docking margin.
const PageWidth = 740.0

// Layout constants for card chrome and page flow.
const (
	ChromeHeight  = 18.0 // drag affordance strip at the top of each card
	CardSpacing   = 12.0 // vertical gap between inline cards
	PageTopMargin = 16.0
)

// DefaultCardHeight is used when a card declares no height.
const DefaultCardHeight = 120.0
