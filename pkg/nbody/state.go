// Package nbody integrates the perturbed two-body equations of motion
// (direct Sun term plus direct+indirect planetary perturbation terms)
// with an adaptive embedded Runge-Kutta pair and dense output, so a
// caller can evaluate the trajectory at arbitrary times within an
// integrated span without re-integrating.
package nbody

import "github.com/medasdigital/heliotrace/pkg/vector3"

// state is the six-dimensional phase vector (position, velocity) the
// integrator advances. Kept as a position/velocity pair rather than a
// flat array so RHS evaluation and vector arithmetic read naturally.
type state struct {
	R vector3.Vector3
	V vector3.Vector3
}

func stateAdd(a, b state) state {
	return state{R: a.R.Add(b.R), V: a.V.Add(b.V)}
}

func stateScale(a state, s float64) state {
	return state{R: a.R.Scale(s), V: a.V.Scale(s)}
}

// combine returns y0 + h * sum(coeffs[i] * ks[i]), skipping zero
// coefficients (several Dormand-Prince tableau entries are exactly 0).
func combine(y0 state, h float64, coeffs []float64, ks []state) state {
	acc := y0
	for i, c := range coeffs {
		if c == 0 {
			continue
		}
		acc = stateAdd(acc, stateScale(ks[i], h*c))
	}
	return acc
}

func (s state) isFinite() bool {
	return s.R.IsFinite() && s.V.IsFinite()
}
