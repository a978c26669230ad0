package gorbie

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot queues a labeled screenshot of the whole window, captured at
// the end of the current frame's Draw call. The PNG is written to
// ScreenshotDir with a timestamped filename. Safe to call from Update or
// Draw.
func (a *App) Screenshot(label string) {
	a.screenshotQueue = append(a.screenshotQueue, label)
}

// flushScreenshots captures the rendered frame for every queued label.
// Called at the end of App.Draw, before the placement commit.
func (a *App) flushScreenshots(screen *ebiten.Image) {
	if len(a.screenshotQueue) == 0 {
		return
	}

	if err := os.MkdirAll(a.ScreenshotDir, 0o755); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "[gorbie] screenshot: mkdir %s: %v\n", a.ScreenshotDir, err)
		a.screenshotQueue = a.screenshotQueue[:0]
		return
	}

	img := readImage(screen)
	stamp := time.Now().Format("20060102_150405")

	for _, label := range a.screenshotQueue {
		safe := sanitizeLabel(label)
		path := fmt.Sprintf("%s/%s_%s.png", a.ScreenshotDir, stamp, safe)
		if err := writePNG(path, img); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "[gorbie] screenshot: %v\n", err)
		}
	}

	a.screenshotQueue = a.screenshotQueue[:0]
}

// readImage copies an ebiten image into a straight-alpha NRGBA image.
// Pixels come back premultiplied and are unpremultiplied here.
func readImage(src *ebiten.Image) *image.NRGBA {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	src.ReadPixels(pixels)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, alpha := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if alpha > 0 && alpha < 255 {
			r = uint8(min(int(r)*255/int(alpha), 255))
			g = uint8(min(int(g)*255/int(alpha), 255))
			b = uint8(min(int(b)*255/int(alpha), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = alpha
	}
	return img
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
