package nbody

import (
	"math"

	"github.com/medasdigital/heliotrace/pkg/constants"
	"github.com/medasdigital/heliotrace/pkg/ephemeris"
	"github.com/medasdigital/heliotrace/pkg/trajectory"
)

// System couples the perturbed two-body force model to a planet set and
// an ephemeris source, and owns the adaptive integrator's tolerances.
type System struct {
	Planets  []constants.Planet
	Provider ephemeris.Provider
	RTol     float64
	ATol     float64
}

// DefaultRTol and DefaultATol match the tight tolerance budget this
// system is meant to run at; a caller that wants a faster, coarser run
// can override them directly on the System value.
const (
	DefaultRTol = 1e-10
	DefaultATol = 1e-12
)

// NewSystem returns a System with the default tolerance budget and the
// given perturbing planets, drawing planet positions from provider (the
// process-wide ephemeris.Get() singleton in the common case).
func NewSystem(planets []constants.Planet, provider ephemeris.Provider) *System {
	return &System{Planets: planets, Provider: provider, RTol: DefaultRTol, ATol: DefaultATol}
}

// maxIntegratorSteps bounds a single integration call's step count.
// DOP853's 8th-order local truncation error shrinks fast enough with
// step size that an unperturbed-orbit year needs on the order of 10^3
// accepted steps at this tolerance budget; this ceiling is headroom for
// close encounters forcing many rejected steps, not the expected count.
const maxIntegratorSteps = 200_000

// integrate advances y0 from t0 to t1, returning the ordered list of
// accepted dense-output segments covering [t0, t1] and the final state.
// Fails with trajectory.ErrIntegrationFailure if the step size underflows
// (a close encounter or singular configuration the tolerance budget
// cannot resolve) or the right-hand side ever evaluates to a non-finite
// value.
func (s *System) integrate(y0 state, t0, t1 float64) ([]denseSegment, state, error) {
	direction := 1.0
	if t1 < t0 {
		direction = -1.0
	}
	span := math.Abs(t1 - t0)
	if span == 0 {
		return nil, y0, trajectory.ErrInvalidRequest.Wrap("integration span is zero")
	}
	minH := span * 1e-12

	rhs := func(t float64, y state) (state, error) {
		return derivative(t, y, s.Planets, s.Provider)
	}

	f0, err := rhs(t0, y0)
	if err != nil {
		return nil, y0, trajectory.ErrIntegrationFailure.Wrapf("evaluating initial right-hand side: %v", err)
	}

	h := chooseInitialStep(y0.R, t1-t0)
	ctrl := newStepController()

	segments := make([]denseSegment, 0, 256)
	t, y := t0, y0

	for i := 0; i < maxIntegratorSteps; i++ {
		remaining := t1 - t
		if direction > 0 && h > remaining {
			h = remaining
		} else if direction < 0 && h < remaining {
			h = remaining
		}
		if h == 0 {
			break
		}

		y8, fNext, errNorm, err := dop853Step(rhs, t, y, f0, h, s.RTol, s.ATol)
		if err != nil {
			return nil, y, trajectory.ErrIntegrationFailure.Wrapf("right-hand side failed at t=%.6f: %v", t, err)
		}
		if !y8.isFinite() {
			return nil, y, trajectory.ErrIntegrationFailure.Wrapf("non-finite state at t=%.6f (h=%.3e)", t, h)
		}

		hNew, accept := ctrl.next(h, errNorm)

		if accept {
			segments = append(segments, denseSegment{t0: t, t1: t + h, y0: y, y1: y8, f0: f0, f1: fNext})
			t += h
			y = y8
			f0 = fNext
		}
		h = hNew // hNew already carries h's sign: the controller only scales by a positive factor.

		if math.Abs(h) < minH {
			return segments, y, trajectory.ErrIntegrationFailure.Wrapf(
				"step size underflowed to %.3e at t=%.6f (last good state preserved)", h, t)
		}
		if math.Abs(t-t1) < minH {
			break
		}
	}

	return segments, y, nil
}

// evaluateAt returns the interpolated state at t, which must lie within
// the span covered by segments.
func evaluateAt(segments []denseSegment, t float64) (state, bool) {
	for _, seg := range segments {
		if seg.contains(t) {
			return seg.interpolate(t), true
		}
	}
	if len(segments) > 0 {
		if t <= segments[0].t0 {
			return segments[0].y0, true
		}
		last := segments[len(segments)-1]
		if t >= last.t1 {
			return last.y1, true
		}
	}
	return state{}, false
}
