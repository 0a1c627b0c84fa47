// Package twobody implements the analytic Keplerian propagator: roughly
// two orders of magnitude cheaper than N-body integration, and the
// default method for short horizons and bodies far from planets. Each
// sample is a fresh, independent call into pkg/kepler, so no numerical
// error accumulates across a trajectory.
package twobody

import (
	"time"

	"github.com/medasdigital/heliotrace/pkg/constants"
	"github.com/medasdigital/heliotrace/pkg/kepler"
	"github.com/medasdigital/heliotrace/pkg/trajectory"
)

// Propagator implements trajectory.Propagator using pure two-body
// (Keplerian) dynamics around the Sun.
type Propagator struct {
	GM float64 // gravitational parameter, AU^3/day^2; defaults to the Sun's
}

// New returns a two-body propagator using the Sun's gravitational
// parameter.
func New() *Propagator {
	return &Propagator{GM: constants.GMSun}
}

// PropagateElements samples the analytic orbit over
// [startTime, startTime+days] at numPoints evenly spaced times:
// t_k = start + k*(end-start)/(numPoints-1).
func (p *Propagator) PropagateElements(elements trajectory.Elements, startTime, days float64, numPoints int) (trajectory.Result, error) {
	if numPoints < 2 {
		return trajectory.Result{}, trajectory.ErrInvalidRequest.Wrapf("num_points must be >= 2, got %d", numPoints)
	}
	if days <= 0 {
		return trajectory.Result{}, trajectory.ErrInvalidRequest.Wrapf("days must be > 0, got %v", days)
	}

	started := time.Now()
	endTime := startTime + days
	step := (endTime - startTime) / float64(numPoints-1)

	samples := make([]trajectory.TrajectorySample, numPoints)
	var final trajectory.StateVector

	for k := 0; k < numPoints; k++ {
		t := startTime + float64(k)*step
		if k == numPoints-1 {
			t = endTime // avoid floating-point drift on the last sample
		}

		state, err := kepler.KeplerianToCartesian(elements, t, p.GM)
		if err != nil {
			return trajectory.Result{}, err
		}

		v := state.Velocity
		samples[k] = trajectory.TrajectorySample{
			Time:            t,
			DaysFromEpoch:   t - elements.Epoch,
			Position:        state.Position,
			DistanceFromSun: state.Position.Magnitude(),
			Velocity:        &v,
		}
		final = state
	}

	return trajectory.NewResult("", trajectory.TwoBody, samples, final, time.Since(started))
}

// PropagateFromState implements the continuation entry point: convert the
// state to elements, then delegate to the range propagation. Numerically
// identical to the element-based path when the input state was produced
// by this same kernel.
//
// If the instantaneous state reconstructs to an eccentricity too close to
// parabolic to trust (kepler.CartesianToKeplerian's ceiling), this
// returns trajectory.ErrUnsupportedOrbit rather than silently degrading;
// callers should switch to the N-body method for that continuation step.
// See DESIGN.md "Open-question decisions".
func (p *Propagator) PropagateFromState(state trajectory.StateVector, deltaDays float64, numPoints int) (trajectory.Result, error) {
	elements, err := kepler.CartesianToKeplerian(state, p.GM)
	if err != nil {
		return trajectory.Result{}, err
	}
	return p.PropagateElements(elements, state.Time, deltaDays, numPoints)
}
