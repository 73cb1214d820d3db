package waveform

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	DefaultInterval = 150 * time.Millisecond
	DefaultBars     = 50
)

var ErrAlreadyRunning = errors.New("waveform: animator already running")

// Sink is the rendering boundary. OnFrame receives a copy of every frame.
type Sink interface {
	OnFrame(h Heights, elapsed float64)
}

type SinkFunc func(h Heights, elapsed float64)

func (f SinkFunc) OnFrame(h Heights, elapsed float64) { f(h, elapsed) }

// Animator drives a Generator from a recurring timer. The timer handle is
// held for the lifetime of Run and released before Run returns.
type Animator struct {
	gen      *Generator
	bars     int
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

type AnimatorOption func(*Animator)

func WithInterval(d time.Duration) AnimatorOption {
	return func(a *Animator) {
		if d > 0 {
			a.interval = d
		}
	}
}

func WithClock(now func() time.Time) AnimatorOption {
	return func(a *Animator) { a.now = now }
}

func WithGenerator(g *Generator) AnimatorOption {
	return func(a *Animator) { a.gen = g }
}

func NewAnimator(bars int, opts ...AnimatorOption) *Animator {
	a := &Animator{
		bars:     bars,
		interval: DefaultInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.gen == nil {
		a.gen = NewGenerator()
	}
	return a
}

func (a *Animator) Interval() time.Duration { return a.interval }

// State reports the generator state. It is Running only while Run is active.
func (a *Animator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gen.State()
}

// Run seeds the generator, publishes the initial frame, then ticks on every
// timer firing until ctx is done or Stop is called. Run blocks. A Run that
// starts after Stop returns at once without publishing.
func (a *Animator) Run(ctx context.Context, sink Sink) error {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return nil
	}
	if a.cancel != nil {
		a.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.cancel, a.done = cancel, done
	start := a.now()
	frame := a.gen.Start(a.bars)
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.gen.Stop()
		a.cancel, a.done = nil, nil
		a.mu.Unlock()
		cancel()
		close(done)
	}()

	sink.OnFrame(frame.Clone(), 0)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if ctx.Err() != nil {
				return nil
			}
			elapsed := a.now().Sub(start).Seconds()
			a.mu.Lock()
			frame = a.gen.Tick(frame, elapsed)
			a.mu.Unlock()
			sink.OnFrame(frame.Clone(), elapsed)
		}
	}
}

// Stop cancels the pending timer and waits for Run to return, so no frame
// is published after Stop returns. Stop is sticky: it also holds when it
// lands before Run has started. Must not be called from inside a Sink.
func (a *Animator) Stop() {
	a.mu.Lock()
	a.stopped = true
	cancel, done := a.cancel, a.done
	a.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
