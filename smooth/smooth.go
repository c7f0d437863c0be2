// Package smooth provides FFT-based low-pass smoothing for noisy traces,
// useful ahead of moment estimation when spikes or a high noise floor
// would contaminate the integrals.
package smooth

import (
	"errors"

	algofft "github.com/cwbudde/algo-fft"
)

// Errors returned by Lowpass.
var (
	ErrEmptySignal    = errors.New("smooth: empty signal")
	ErrInvalidCutoff  = errors.New("smooth: cutoff fraction must be in (0, 1]")
	ErrTransformSetup = errors.New("smooth: FFT plan setup failed")
)

// Lowpass returns a smoothed copy of signal with all frequency bins above
// cutoff (a fraction of the Nyquist bin) zeroed. The signal is zero-padded
// to the next power of two for the transform; hermitian symmetry is
// preserved so the output stays real.
func Lowpass(signal []float64, cutoff float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptySignal
	}

	if cutoff <= 0 || cutoff > 1 {
		return nil, ErrInvalidCutoff
	}

	n := nextPowerOf2(len(signal))

	buf := make([]complex128, n)
	for i, v := range signal {
		buf[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, ErrTransformSetup
	}

	spectrum := make([]complex128, n)
	if err := plan.Forward(spectrum, buf); err != nil {
		return nil, ErrTransformSetup
	}

	half := n / 2

	keep := int(cutoff * float64(half))
	if keep < 1 {
		keep = 1
	}

	for k := keep; k <= half; k++ {
		spectrum[k] = 0
	}

	// Mirror the kept bins so the inverse transform is real-valued.
	for k := 1; k < half; k++ {
		v := spectrum[k]
		spectrum[n-k] = complex(real(v), -imag(v))
	}

	if err := plan.Inverse(buf, spectrum); err != nil {
		return nil, ErrTransformSetup
	}

	out := make([]float64, len(signal))
	for i := range out {
		out[i] = real(buf[i])
	}

	return out, nil
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
