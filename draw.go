package gorbie

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fillRect draws a solid rectangle by scaling the shared white pixel.
func fillRect(dst *ebiten.Image, r Rect, c Color) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(r.Width, r.Height)
	op.GeoM.Translate(r.X, r.Y)
	op.ColorScale.Scale(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
	dst.DrawImage(WhitePixel, &op)
}

// strokeRect draws a 1-point rectangle outline.
func strokeRect(dst *ebiten.Image, r Rect, c Color) {
	fillRect(dst, Rect{X: r.X, Y: r.Y, Width: r.Width, Height: 1}, c)
	fillRect(dst, Rect{X: r.X, Y: r.Y + r.Height - 1, Width: r.Width, Height: 1}, c)
	fillRect(dst, Rect{X: r.X, Y: r.Y, Width: 1, Height: r.Height}, c)
	fillRect(dst, Rect{X: r.X + r.Width - 1, Y: r.Y, Width: 1, Height: r.Height}, c)
}

// debugPrintAt renders small monospace text. Card text goes through the
// same path so notebooks render identically on every platform.
func debugPrintAt(dst *ebiten.Image, text string, x, y float64) {
	ebitenutil.DebugPrintAt(dst, text, int(x), int(y))
}

// surfaceRect bounds the used region of a pooled (power-of-two) surface.
func surfaceRect(w, h int) image.Rectangle {
	return image.Rect(0, 0, w, h)
}
