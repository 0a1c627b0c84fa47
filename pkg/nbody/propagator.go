package nbody

import (
	"time"

	"github.com/medasdigital/heliotrace/pkg/constants"
	"github.com/medasdigital/heliotrace/pkg/ephemeris"
	"github.com/medasdigital/heliotrace/pkg/kepler"
	"github.com/medasdigital/heliotrace/pkg/trajectory"
)

// Propagator implements trajectory.Propagator using the perturbed
// two-body N-body integrator instead of the pure analytic Kepler
// solution, accepting a fixed perturbing-planet subset at construction
// time.
type Propagator struct {
	system *System
}

// New returns an N-body propagator perturbed by planets, reading planet
// positions from the process-wide ephemeris singleton.
func New(planets []constants.Planet) *Propagator {
	return &Propagator{system: NewSystem(planets, ephemeris.Get())}
}

// NewWithProvider is New with an explicit ephemeris provider, for tests
// that want a deterministic mean-element source regardless of process
// singleton state.
func NewWithProvider(planets []constants.Planet, provider ephemeris.Provider) *Propagator {
	return &Propagator{system: NewSystem(planets, provider)}
}

// PropagateElements derives the initial Cartesian state from elements at
// startTime via the analytic Kepler kernel, integrates to startTime+days,
// and samples the dense output at numPoints evenly spaced times.
func (p *Propagator) PropagateElements(elements trajectory.Elements, startTime, days float64, numPoints int) (trajectory.Result, error) {
	if numPoints < 2 {
		return trajectory.Result{}, trajectory.ErrInvalidRequest.Wrapf("num_points must be >= 2, got %d", numPoints)
	}
	if days <= 0 {
		return trajectory.Result{}, trajectory.ErrInvalidRequest.Wrapf("days must be > 0, got %v", days)
	}

	initial, err := kepler.KeplerianToCartesian(elements, startTime, constants.GMSun)
	if err != nil {
		return trajectory.Result{}, err
	}
	return p.propagateFrom(initial, startTime, days, numPoints)
}

// PropagateFromState feeds state directly as the integrator's initial
// condition — no element conversion, so hyperbolic or parabolic
// intermediate states (which two-body continuation cannot accept) are
// fine here.
func (p *Propagator) PropagateFromState(state trajectory.StateVector, deltaDays float64, numPoints int) (trajectory.Result, error) {
	if numPoints < 2 {
		return trajectory.Result{}, trajectory.ErrInvalidRequest.Wrapf("num_points must be >= 2, got %d", numPoints)
	}
	if deltaDays <= 0 {
		return trajectory.Result{}, trajectory.ErrInvalidRequest.Wrapf("delta_days must be > 0, got %v", deltaDays)
	}
	if !state.Valid() {
		return trajectory.Result{}, trajectory.ErrInvalidRequest.Wrap("state vector has zero position")
	}
	return p.propagateFrom(state, state.Time, deltaDays, numPoints)
}

func (p *Propagator) propagateFrom(initial trajectory.StateVector, startTime, days float64, numPoints int) (trajectory.Result, error) {
	started := time.Now()
	endTime := startTime + days

	y0 := state{R: initial.Position, V: initial.Velocity}
	segments, _, integErr := p.system.integrate(y0, startTime, endTime)
	if integErr != nil {
		return trajectory.Result{}, integErr
	}

	samples := make([]trajectory.TrajectorySample, numPoints)
	step := (endTime - startTime) / float64(numPoints-1)
	var final trajectory.StateVector

	for k := 0; k < numPoints; k++ {
		t := startTime + float64(k)*step
		if k == numPoints-1 {
			t = endTime
		}

		y, ok := evaluateAt(segments, t)
		if !ok {
			return trajectory.Result{}, trajectory.ErrIntegrationFailure.Wrapf(
				"no dense-output coverage at t=%.6f (integration may have failed early)", t)
		}

		v := y.V
		samples[k] = trajectory.TrajectorySample{
			Time:            t,
			DaysFromEpoch:   t - startTime,
			Position:        y.R,
			DistanceFromSun: y.R.Magnitude(),
			Velocity:        &v,
		}
		final = trajectory.StateVector{Position: y.R, Velocity: y.V, Time: t}
	}

	return trajectory.NewResult("", trajectory.NBody, samples, final, time.Since(started))
}
