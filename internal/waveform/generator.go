package waveform

import (
	"math"
	"math/rand/v2"
)

// Heights is one frame of bar magnitudes, one value per bar.
type Heights []float64

func (h Heights) Clone() Heights {
	c := make(Heights, len(h))
	copy(c, h)
	return c
}

// Max returns the largest magnitude, or 0 for an empty frame.
func (h Heights) Max() float64 {
	m := 0.0
	for _, v := range h {
		if v > m {
			m = v
		}
	}
	return m
}

type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Params shapes the seed range and the per-tick composition.
type Params struct {
	Base          float64 `yaml:"base"`
	Jitter        float64 `yaml:"jitter"`
	Floor         float64 `yaml:"floor"`
	WaveAmplitude float64 `yaml:"wave_amplitude"`
	WaveOffset    float64 `yaml:"wave_offset"`
	Frequency     float64 `yaml:"frequency"`
	PhaseStep     float64 `yaml:"phase_step"`
	NoiseBase     float64 `yaml:"noise_base"`
	NoiseJitter   float64 `yaml:"noise_jitter"`
}

const (
	DefaultBase          = 10.0
	DefaultJitter        = 40.0
	DefaultFloor         = 10.0
	DefaultWaveAmplitude = 20.0
	DefaultWaveOffset    = 25.0
	DefaultFrequency     = 2.0
	DefaultPhaseStep     = 0.3
	DefaultNoiseBase     = 5.0
	DefaultNoiseJitter   = 15.0
)

func DefaultParams() Params {
	return Params{
		Base:          DefaultBase,
		Jitter:        DefaultJitter,
		Floor:         DefaultFloor,
		WaveAmplitude: DefaultWaveAmplitude,
		WaveOffset:    DefaultWaveOffset,
		Frequency:     DefaultFrequency,
		PhaseStep:     DefaultPhaseStep,
		NoiseBase:     DefaultNoiseBase,
		NoiseJitter:   DefaultNoiseJitter,
	}
}

// Bounds is the closed range every ticked value falls in.
func (p Params) Bounds() (lo, hi float64) {
	hi = p.WaveOffset + p.WaveAmplitude + p.NoiseBase + p.NoiseJitter
	if hi < p.Floor {
		hi = p.Floor
	}
	return p.Floor, hi
}

type Generator struct {
	params  Params
	rng     *rand.Rand
	state   State
	heights Heights
}

type Option func(*Generator)

func WithParams(p Params) Option {
	return func(g *Generator) { g.params = p }
}

// WithSeed makes the random perturbation reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{params: DefaultParams(), state: Stopped}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g
}

func (g *Generator) Params() Params { return g.params }
func (g *Generator) State() State   { return g.state }

func (g *Generator) Heights() Heights { return g.heights.Clone() }

// Start seeds count bars uniformly in [Base, Base+Jitter) and moves to Running.
// Calling Start while running reseeds.
func (g *Generator) Start(count int) Heights {
	if count < 0 {
		count = 0
	}
	h := make(Heights, count)
	for i := range h {
		h[i] = g.params.Base + g.rng.Float64()*g.params.Jitter
	}
	g.heights = h
	g.state = Running
	return h.Clone()
}

// Wave is the deterministic periodic component for bar i at elapsed seconds.
func (g *Generator) Wave(elapsed float64, i int) float64 {
	p := g.params
	return math.Sin(elapsed*p.Frequency+float64(i)*p.PhaseStep)*p.WaveAmplitude + p.WaveOffset
}

// Tick produces the next frame from prev. A stopped generator returns prev
// untouched.
func (g *Generator) Tick(prev Heights, elapsed float64) Heights {
	if g.state != Running {
		return prev
	}
	next := make(Heights, len(prev))
	for i := range next {
		v := g.Wave(elapsed, i) + g.params.NoiseBase + g.rng.Float64()*g.params.NoiseJitter
		next[i] = math.Max(g.params.Floor, v)
	}
	g.heights = next
	return next.Clone()
}

// Stop halts future ticks. Safe to call any number of times.
func (g *Generator) Stop() {
	g.state = Stopped
}
