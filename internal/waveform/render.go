package waveform

import "strings"

var levels = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Render draws h as vertical bars rows lines tall, bottom aligned. Values are
// scaled against hi; hi <= 0 falls back to the frame maximum.
func Render(h Heights, rows int, hi float64) []string {
	if rows <= 0 {
		return nil
	}
	if hi <= 0 {
		hi = h.Max()
	}
	if hi <= 0 {
		hi = 1
	}

	steps := len(levels) - 1
	eighths := make([]int, len(h))
	for i, v := range h {
		n := int(v / hi * float64(rows*steps))
		if n > rows*steps {
			n = rows * steps
		}
		if n < 0 {
			n = 0
		}
		eighths[i] = n
	}

	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		var b strings.Builder
		floor := (rows - 1 - r) * steps
		for _, n := range eighths {
			fill := n - floor
			switch {
			case fill >= steps:
				b.WriteRune(levels[steps])
			case fill <= 0:
				b.WriteRune(levels[0])
			default:
				b.WriteRune(levels[fill])
			}
		}
		lines[r] = b.String()
	}
	return lines
}

// Fit resamples h to at most width bars by nearest-neighbour picking.
func Fit(h Heights, width int) Heights {
	if width <= 0 {
		return Heights{}
	}
	if len(h) <= width {
		return h
	}
	out := make(Heights, width)
	for i := range out {
		out[i] = h[i*len(h)/width]
	}
	return out
}
