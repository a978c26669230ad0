package gorbie

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// CaptureConfig configures a headless capture session.
type CaptureConfig struct {
	// OutDir receives one PNG per card. Created if absent.
	// Default "./gorbie_capture".
	OutDir string

	// Scale is the pixels-per-point factor for captured images. Default 2.0.
	Scale float64

	// WaitMS is the continuous span without repaint requests required before
	// a card is considered quiescent. Zero captures after the first frame.
	// Default 2000.
	WaitMS int

	// TimeoutFactor bounds a card that never goes quiescent: the capture
	// proceeds anyway after TimeoutFactor x WaitMS (at least one second) and
	// the card is reported as timed out. Default 10.
	TimeoutFactor int

	// FrameInterval is the delay between render passes while waiting for
	// quiescence. Default 16ms. Ignored when WaitMS is zero.
	FrameInterval time.Duration
}

func (cfg CaptureConfig) withDefaults() CaptureConfig {
	if cfg.OutDir == "" {
		cfg.OutDir = "./gorbie_capture"
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 2.0
	}
	if cfg.TimeoutFactor <= 0 {
		cfg.TimeoutFactor = 10
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = 16 * time.Millisecond
	}
	return cfg
}

// timeout returns the hard upper bound on one card's rendering phase.
func (cfg CaptureConfig) timeout() time.Duration {
	d := time.Duration(cfg.WaitMS*cfg.TimeoutFactor) * time.Millisecond
	if d < time.Second {
		d = time.Second
	}
	return d
}

// ErrCaptureTimeout reports a card whose surface never went quiescent
// within the session's bound. The card is still captured as-is.
var ErrCaptureTimeout = errors.New("quiescence not reached before timeout")

// CaptureError reports an output directory or file that could not be
// written. It aborts the remaining session; files already written are
// preserved.
type CaptureError struct {
	Path string
	Err  error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture %s: %v", e.Path, e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }

// CaptureSession tracks one headless invocation: the monotonically
// increasing frame counter (1-based, no gaps, no reuse) and the per-card
// failures accumulated so far.
type CaptureSession struct {
	cfg          CaptureConfig
	frameCounter int
	failures     []error
}

// Captured returns how many card images have been fully written.
func (s *CaptureSession) Captured() int { return s.frameCounter }

// captureFileName returns the stable, glob-friendly name for the n-th
// (1-based) captured card.
func captureFileName(n int) string {
	return fmt.Sprintf("card_%04d.png", n)
}

// RunHeadless drives the notebook offscreen and writes one PNG per card
// into cfg.OutDir, numbered sequentially from card_0001.png. No window is
// created. Cancelling ctx aborts the session between frames; files already
// written remain valid and no partial file is left behind.
//
// The returned error is nil only if every card captured cleanly: timeouts
// and IO failures both surface here, but only IO failures stop the session
// early.
func RunHeadless(ctx context.Context, nb *Notebook, cfg CaptureConfig) error {
	cfg = cfg.withDefaults()
	session := &CaptureSession{cfg: cfg}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return &CaptureError{Path: cfg.OutDir, Err: err}
	}

	nb.log.Info("headless capture session",
		zap.String("out_dir", cfg.OutDir),
		zap.Float64("scale", cfg.Scale),
		zap.Int("wait_ms", cfg.WaitMS))

	for index := 0; ; index++ {
		done, err := session.captureCard(ctx, nb, index)
		if err != nil {
			// IO failure or cancellation: abort the remaining session.
			session.failures = append(session.failures, err)
			break
		}
		if done {
			break
		}
	}

	if len(session.failures) > 0 {
		return errors.Join(session.failures...)
	}
	return nil
}

// captureCard runs the per-card state machine: render until quiescent (or
// timed out), then snapshot. Returns done=true when index is past the last
// card. The returned error is fatal to the session; timeouts are recorded
// on the session instead.
func (s *CaptureSession) captureCard(ctx context.Context, nb *Notebook, index int) (done bool, err error) {
	start := time.Now()
	lastRepaint := start
	deadline := start.Add(s.cfg.timeout())
	passes := 0

	var card Card
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		cards := nb.RunFrame()
		if index >= len(cards) {
			return true, nil
		}
		card = cards[index]

		s.renderPass(nb, &card)
		passes++

		if nb.consumeRepaint() {
			lastRepaint = time.Now()
		}

		if s.cfg.WaitMS == 0 {
			break
		}
		quiet := time.Since(lastRepaint)
		if quiet >= time.Duration(s.cfg.WaitMS)*time.Millisecond {
			break
		}
		if time.Now().After(deadline) {
			timeoutErr := fmt.Errorf("card %d (%s): %w", index+1, card.ID, ErrCaptureTimeout)
			s.failures = append(s.failures, timeoutErr)
			nb.log.Warn("capture timeout, proceeding with frame as-is",
				zap.String("card", string(card.ID)),
				zap.Int("passes", passes))
			break
		}
		time.Sleep(s.cfg.FrameInterval)
	}

	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := s.snapshot(nb, &card); err != nil {
		return false, err
	}

	nb.log.Info("captured card",
		zap.String("card", string(card.ID)),
		zap.String("file", captureFileName(s.frameCounter)),
		zap.Int("passes", passes),
		zap.Duration("elapsed", time.Since(start)))
	return false, nil
}

// renderPass draws one card's content into a pooled offscreen surface and
// commits the frame boundary, mirroring one interactive frame.
func (s *CaptureSession) renderPass(nb *Notebook, card *Card) {
	w, h := int(PageWidth), int(card.Height)
	surface := nb.pool.acquire(w, h)
	surface.Fill(contentFill.rgba())

	ctx := &CardCtx{nb: nb, card: card, target: surface}
	card.Draw(ctx)

	nb.pool.release(surface)
	nb.dock.EndFrame()
}

// snapshot renders the card once more at the capture scale and writes the
// numbered PNG. The frame counter increments by exactly one per card
// regardless of how many render passes the card required, and only after
// the file write fully completes.
func (s *CaptureSession) snapshot(nb *Notebook, card *Card) error {
	w, h := int(PageWidth), int(card.Height)
	surface := nb.pool.acquire(w, h)
	surface.Fill(contentFill.rgba())
	ctx := &CardCtx{nb: nb, card: card, target: surface}
	card.Draw(ctx)

	pw := int(PageWidth * s.cfg.Scale)
	ph := int(card.Height * s.cfg.Scale)
	out := ebiten.NewImage(pw, ph)
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(s.cfg.Scale, s.cfg.Scale)
	out.DrawImage(surface.SubImage(surfaceRect(w, h)).(*ebiten.Image), &op)
	nb.pool.release(surface)

	img := readImage(out)
	out.Deallocate()

	path := filepath.Join(s.cfg.OutDir, captureFileName(s.frameCounter+1))
	tmp := path + ".tmp"
	if err := writePNG(tmp, img); err != nil {
		os.Remove(tmp)
		return &CaptureError{Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &CaptureError{Path: path, Err: err}
	}

	s.frameCounter++
	return nil
}
