package gorbie

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TelemetryPileEnv names the append-only span log ("pile") consumed by
// external telemetry tooling. When unset, span notifications are no-ops.
const TelemetryPileEnv = "GORBIE_TELEMETRY_PILE"

// spanEvent is one span-boundary notification. The pipe is strictly
// one-way: the collaborator consuming the pile can never affect engine
// control flow.
type spanEvent struct {
	name  string
	phase string // "enter" or "exit"
	ts    time.Time
}

// telemetryPipe streams span events to an append-only JSONL sink on its own
// goroutine. Sends never block frame execution: when the buffer is full the
// event is dropped.
type telemetryPipe struct {
	ch    chan spanEvent
	done  chan struct{}
	sink  *zap.Logger
	runID string
}

const telemetryBuffer = 256

// newTelemetryPipe opens (or creates) the pile file and starts the drain
// goroutine. Each run is tagged with a fresh run ID so multiple notebook
// processes can append to one pile.
func newTelemetryPipe(path string) (*telemetryPipe, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open telemetry pile %s: %w", path, err)
	}

	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		MessageKey: "name",
		TimeKey:    "ts",
		EncodeTime: zapcore.EpochMillisTimeEncoder,
	})
	core := zapcore.NewCore(enc, zapcore.Lock(f), zapcore.InfoLevel)

	p := &telemetryPipe{
		ch:    make(chan spanEvent, telemetryBuffer),
		done:  make(chan struct{}),
		sink:  zap.New(core),
		runID: uuid.NewString(),
	}
	go p.drain()
	return p, nil
}

func (p *telemetryPipe) drain() {
	defer close(p.done)
	for evt := range p.ch {
		p.sink.Info(evt.name,
			zap.String("run_id", p.runID),
			zap.String("phase", evt.phase),
			zap.Int64("at", evt.ts.UnixMicro()))
	}
	_ = p.sink.Sync()
}

// emit queues a span event without blocking. Events are dropped when the
// drain goroutine falls behind; telemetry failure must never affect frame
// execution.
func (p *telemetryPipe) emit(name, phase string) {
	select {
	case p.ch <- spanEvent{name: name, phase: phase, ts: time.Now()}:
	default:
	}
}

// close stops the pipe and waits for queued events to flush.
func (p *telemetryPipe) close() {
	close(p.ch)
	<-p.done
}

// EnableTelemetry starts streaming span notifications to the append-only
// log at path. Call CloseTelemetry before exit to flush queued events.
func (nb *Notebook) EnableTelemetry(path string) error {
	pipe, err := newTelemetryPipe(path)
	if err != nil {
		return err
	}
	nb.telemetry = pipe
	return nil
}

// CloseTelemetry flushes and stops the telemetry pipe, if one is active.
func (nb *Notebook) CloseTelemetry() {
	if nb.telemetry != nil {
		nb.telemetry.close()
		nb.telemetry = nil
	}
}

// SpanEnter notifies the telemetry collaborator that a named span began.
// No-op without an active pipe; never blocks.
func (nb *Notebook) SpanEnter(name string) {
	if nb.telemetry != nil {
		nb.telemetry.emit(name, "enter")
	}
}

// SpanExit notifies the telemetry collaborator that a named span ended.
func (nb *Notebook) SpanExit(name string) {
	if nb.telemetry != nil {
		nb.telemetry.emit(name, "exit")
	}
}
