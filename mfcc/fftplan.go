package mfcc

import (
	"errors"
	"sync"

	algofft "github.com/cwbudde/algo-fft"
)

// fftPlan caches a real-to-complex FFT plan for one window size, reused
// across every frame of an extraction pass, and holds the scratch complex
// buffer a mel filterbank pass needs, so repeated calls don't reallocate
// it per frame. Adapted from algo-piano's analysis/distance.go
// spectralFFTPlan/getSpectralFFTPlan, stripped of the cross-correlation
// half that has no caller in this domain and specialized to the one
// operation the MFCC pipeline ever needs from an FFT plan: a windowed
// frame's power spectrum.
type fftPlan struct {
	mu      sync.Mutex
	fast    *algofft.FastPlanReal64
	safe    *algofft.PlanRealT[float64, complex128]
	scratch []complex128
	frames  int
}

var planCache sync.Map // map[int]*fftPlan

func getFFTPlan(n int) (*fftPlan, error) {
	if v, ok := planCache.Load(n); ok {
		return v.(*fftPlan), nil
	}

	p := &fftPlan{scratch: make([]complex128, n/2+1)}
	fast, err := algofft.NewFastPlanReal64(n)
	if err == nil {
		p.fast = fast
	} else if !errors.Is(err, algofft.ErrNotImplemented) {
		// Ignore fast-plan setup errors and rely on the safe plan.
	}

	safe, err := algofft.NewPlanReal64(n)
	if err != nil {
		if p.fast == nil {
			return nil, err
		}
	} else {
		p.safe = safe
	}

	actual, _ := planCache.LoadOrStore(n, p)
	return actual.(*fftPlan), nil
}

// power computes the FFT of a windowed time-domain frame and writes its
// power spectrum (|X[k]|^2, length n/2+1) into dst.
func (p *fftPlan) power(dst []float64, frame []float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	switch {
	case p.fast != nil:
		p.fast.Forward(p.scratch, frame)
	case p.safe != nil:
		err = p.safe.Forward(p.scratch, frame)
	default:
		err = errors.New("mfcc: missing FFT plan")
	}
	if err != nil {
		return err
	}

	for k, c := range p.scratch {
		re, im := real(c), imag(c)
		dst[k] = re*re + im*im
	}
	p.frames++
	return nil
}
