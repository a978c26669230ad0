package gorbie

import "testing"

func TestOrderID(t *testing.T) {
	tests := []struct {
		index int
		want  CardID
	}{
		{0, "#0"},
		{1, "#1"},
		{12, "#12"},
	}
	for _, tt := range tests {
		if got := orderID(tt.index); got != tt.want {
			t.Errorf("orderID(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestRegistryDefaultHeight(t *testing.T) {
	r := newCardRegistry()
	r.add("", 0, func(*CardCtx) {}, sourceLocation{})
	r.add("", -5, func(*CardCtx) {}, sourceLocation{})
	for i, c := range r.cards {
		if c.Height != DefaultCardHeight {
			t.Errorf("card %d height = %v, want default", i, c.Height)
		}
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {120, 128}, {128, 128}, {740, 1024},
	}
	for _, tt := range tests {
		if got := nextPowerOfTwo(tt.in); got != tt.want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSurfacePoolReuse(t *testing.T) {
	var pool surfacePool
	a := pool.acquire(100, 60) // rounds to 128x64
	pool.release(a)
	b := pool.acquire(120, 50) // same bucket
	if a != b {
		t.Error("pool did not reuse the released surface")
	}
	c := pool.acquire(120, 50) // bucket empty now
	if c == b {
		t.Error("pool handed out the same surface twice")
	}
}
