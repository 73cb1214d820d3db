package waveform

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum returns the one-sided magnitude spectrum of a frame with its mean
// removed, indexed by cycles per frame width.
func Spectrum(h Heights) []float64 {
	if len(h) == 0 {
		return nil
	}
	mean := 0.0
	for _, v := range h {
		mean += v
	}
	mean /= float64(len(h))

	centered := make([]float64, len(h))
	for i, v := range h {
		centered[i] = v - mean
	}

	bins := fft.FFTReal(centered)
	out := make([]float64, len(h)/2+1)
	for i := range out {
		out[i] = cmplx.Abs(bins[i])
	}
	return out
}

// DominantBin is the strongest non-DC bin, or 0 when there is none.
func DominantBin(spectrum []float64) int {
	best, idx := 0.0, 0
	for i := 1; i < len(spectrum); i++ {
		if spectrum[i] > best {
			best, idx = spectrum[i], i
		}
	}
	return idx
}

// Bands are the shares of spectral energy in the low, mid and high thirds.
type Bands struct {
	Low, Mid, High float64
}

// SplitBands buckets the non-DC bins of a spectrum into thirds. A flat frame
// has all three at zero.
func SplitBands(spectrum []float64) Bands {
	if len(spectrum) < 2 {
		return Bands{}
	}
	bins := spectrum[1:]
	lowEnd := (len(bins) + 2) / 3
	midEnd := (2*len(bins) + 2) / 3

	var b Bands
	total := 0.0
	for i, mag := range bins {
		switch {
		case i < lowEnd:
			b.Low += mag
		case i < midEnd:
			b.Mid += mag
		default:
			b.High += mag
		}
		total += mag
	}
	if total == 0 {
		return Bands{}
	}
	b.Low /= total
	b.Mid /= total
	b.High /= total
	return b
}
