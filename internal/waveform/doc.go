// Package waveform produces the animated bar heights shown on the dashboard.
//
// The package is split in two layers:
//
//   - [Generator]: a two-state machine (Stopped/Running) that seeds a
//     sequence of bar heights and recomputes it on every tick.
//   - [Animator]: drives a Generator from a recurring timer and publishes
//     each frame to a [Sink].
//
// Each tick combines a traveling sine wave, phase-shifted per bar, with a
// bounded random perturbation, and clamps the result to [Floor].
//
// # Example
//
//	a := waveform.NewAnimator(60, waveform.WithInterval(150*time.Millisecond))
//	go a.Run(ctx, sink)
//	defer a.Stop()
//
// # Thread Safety
//
// Generator is NOT safe for concurrent use. Animator owns its Generator and
// only mutates it from the timer goroutine.
package waveform
