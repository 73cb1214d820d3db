package waveform

import "github.com/charmbracelet/harmonica"

// Smoother eases each rendered bar toward its latest target height with a
// damped spring, one spring state per bar.
type Smoother struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

// NewSmoother builds a smoother stepped fps times per second. A damping of 1
// is critically damped and never overshoots.
func NewSmoother(fps int, frequency, damping float64) *Smoother {
	if fps <= 0 {
		fps = 1
	}
	return &Smoother{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

func (s *Smoother) resize(target Heights) {
	if len(s.pos) == len(target) {
		return
	}
	s.pos = make([]float64, len(target))
	s.vel = make([]float64, len(target))
	copy(s.pos, target)
}

// Step advances every spring once and returns the eased frame.
func (s *Smoother) Step(target Heights) Heights {
	s.resize(target)
	out := make(Heights, len(target))
	for i, t := range target {
		s.pos[i], s.vel[i] = s.spring.Update(s.pos[i], s.vel[i], t)
		out[i] = s.pos[i]
	}
	return out
}
