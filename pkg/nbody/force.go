package nbody

import (
	"github.com/medasdigital/heliotrace/pkg/constants"
	"github.com/medasdigital/heliotrace/pkg/ephemeris"
	"github.com/medasdigital/heliotrace/pkg/vector3"
)

// acceleration evaluates the perturbed two-body right-hand side:
//
//	r-double-dot = -GM_Sun * r/|r|^3
//	             + sum_p GM_p * ( (r_p - r)/|r_p - r|^3 - r_p/|r_p|^3 )
//
// The first term inside the sum is the direct planetary attraction on
// the body; the second (indirect) term accounts for the Sun itself
// accelerating under the same planet's pull, since this system integrates
// in a heliocentric, non-inertial frame. Both terms are required: dropping
// the indirect term is a common bug that breaks momentum conservation.
func acceleration(t float64, r vector3.Vector3, planets []constants.Planet, provider ephemeris.Provider) (vector3.Vector3, error) {
	rMag := r.Magnitude()
	a := r.Scale(-constants.GMSun / (rMag * rMag * rMag))

	for _, planet := range planets {
		rp, err := provider.Position(planet, t)
		if err != nil {
			return vector3.Vector3{}, err
		}
		gmP := provider.GM(planet)

		diff := rp.Sub(r)
		diffMag := diff.Magnitude()
		rpMag := rp.Magnitude()

		direct := diff.Scale(gmP / (diffMag * diffMag * diffMag))
		indirect := rp.Scale(gmP / (rpMag * rpMag * rpMag))

		a = a.Add(direct).Sub(indirect)
	}
	return a, nil
}

// derivative evaluates dy/dt = (v, a) for the full phase state at time t.
func derivative(t float64, y state, planets []constants.Planet, provider ephemeris.Provider) (state, error) {
	a, err := acceleration(t, y.R, planets, provider)
	if err != nil {
		return state{}, err
	}
	return state{R: y.V, V: a}, nil
}
