package waveform

import (
	"math"
	"testing"
)

func TestStart_Length(t *testing.T) {
	tests := []struct {
		count    int
		expected int
	}{
		{0, 0},
		{1, 1},
		{5, 5},
		{60, 60},
		{100, 100},
		{-3, 0},
	}

	for _, tt := range tests {
		g := NewGenerator(WithSeed(1))
		h := g.Start(tt.count)
		if len(h) != tt.expected {
			t.Errorf("Start(%d): expected %d bars, got %d", tt.count, tt.expected, len(h))
		}
		if g.State() != Running {
			t.Errorf("Start(%d): expected running, got %s", tt.count, g.State())
		}
	}
}

func TestStart_SeedRange(t *testing.T) {
	g := NewGenerator(WithSeed(7))
	p := g.Params()
	for _, v := range g.Start(500) {
		if v < p.Base || v >= p.Base+p.Jitter {
			t.Fatalf("seed value %f outside [%f, %f)", v, p.Base, p.Base+p.Jitter)
		}
	}
}

func TestTick_Bounds(t *testing.T) {
	g := NewGenerator(WithSeed(42))
	lo, hi := g.Params().Bounds()
	if lo != 10 || hi != 65 {
		t.Fatalf("expected bounds [10, 65], got [%f, %f]", lo, hi)
	}

	h := g.Start(80)
	for step := 0; step < 200; step++ {
		h = g.Tick(h, float64(step)*0.15)
		if len(h) != 80 {
			t.Fatalf("step %d: expected 80 bars, got %d", step, len(h))
		}
		for i, v := range h {
			if v < lo || v > hi {
				t.Fatalf("step %d bar %d: %f outside [%f, %f]", step, i, v, lo, hi)
			}
		}
	}
}

func TestTick_FiveBarsAtOneSecond(t *testing.T) {
	g := NewGenerator()
	h := g.Tick(g.Start(5), 1.0)
	if len(h) != 5 {
		t.Fatalf("expected 5 values, got %d", len(h))
	}
	for i, v := range h {
		if v < 10 || v > 70 {
			t.Errorf("bar %d: %f outside [10, 70]", i, v)
		}
	}
}

func TestTick_PeriodicComponentDeterministic(t *testing.T) {
	a := NewGenerator(WithSeed(1))
	b := NewGenerator(WithSeed(2))
	p := a.Params()

	ha := a.Tick(a.Start(40), 3.7)
	hb := b.Tick(b.Start(40), 3.7)

	for i := range ha {
		if a.Wave(3.7, i) != b.Wave(3.7, i) {
			t.Fatalf("bar %d: periodic component differs between generators", i)
		}
		if d := math.Abs(ha[i] - hb[i]); d > p.NoiseJitter {
			t.Errorf("bar %d: repeated ticks differ by %f, more than jitter %f", i, d, p.NoiseJitter)
		}
		noise := ha[i] - a.Wave(3.7, i)
		if noise < p.NoiseBase || noise >= p.NoiseBase+p.NoiseJitter {
			t.Errorf("bar %d: perturbation %f outside [%f, %f)", i, noise, p.NoiseBase, p.NoiseBase+p.NoiseJitter)
		}
	}
}

func TestTick_AdjacentBarsPhaseShifted(t *testing.T) {
	g := NewGenerator()
	p := g.Params()
	want := math.Sin(2.0*p.Frequency+p.PhaseStep)*p.WaveAmplitude + p.WaveOffset
	if got := g.Wave(2.0, 1); math.Abs(got-want) > 1e-12 {
		t.Errorf("Wave(2, 1) = %f, want %f", got, want)
	}
	if g.Wave(2.0, 0) == g.Wave(2.0, 1) {
		t.Error("adjacent bars share the same phase")
	}
}

func TestTick_FloorClamp(t *testing.T) {
	p := DefaultParams()
	p.WaveOffset = -100
	g := NewGenerator(WithParams(p), WithSeed(3))
	for i, v := range g.Tick(g.Start(20), 0.5) {
		if v != p.Floor {
			t.Errorf("bar %d: expected floor %f, got %f", i, p.Floor, v)
		}
	}
}

func TestStop_NoFurtherMutation(t *testing.T) {
	g := NewGenerator(WithSeed(9))
	h := g.Tick(g.Start(10), 0.3)
	before := g.Heights()

	g.Stop()
	after := g.Tick(h, 5.0)

	for i := range h {
		if after[i] != h[i] {
			t.Fatalf("bar %d changed after stop", i)
		}
	}
	for i, v := range g.Heights() {
		if v != before[i] {
			t.Fatalf("stored bar %d changed after stop", i)
		}
	}
}

func TestStop_Idempotent(t *testing.T) {
	g := NewGenerator()
	g.Start(5)
	g.Stop()
	g.Stop()
	if g.State() != Stopped {
		t.Errorf("expected stopped, got %s", g.State())
	}

	fresh := NewGenerator()
	fresh.Stop()
	if fresh.State() != Stopped {
		t.Errorf("expected stopped, got %s", fresh.State())
	}
}

func TestHeights_ReturnsCopy(t *testing.T) {
	g := NewGenerator(WithSeed(5))
	g.Start(3)
	h := g.Heights()
	h[0] = -1
	if g.Heights()[0] == -1 {
		t.Error("Heights exposed internal slice")
	}
}
