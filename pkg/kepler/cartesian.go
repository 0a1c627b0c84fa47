package kepler

import (
	"math"

	"github.com/medasdigital/heliotrace/pkg/trajectory"
	"github.com/medasdigital/heliotrace/pkg/vector3"
)

// circularTolerance and equatorialTolerance govern the reference-direction
// fallbacks this reconstruction needs at the degenerate cases: Omega := 0
// when i < equatorial tolerance, omega := 0 when e < circular tolerance.
const (
	circularTolerance   = 1e-10
	equatorialTolerance = 1e-10
	// nearParabolicCeiling is the eccentricity above which the element
	// reconstruction is considered too ill-conditioned to trust; see
	// DESIGN.md's resolution of the near-parabolic continuation question.
	nearParabolicCeiling = 0.999
)

// CartesianToKeplerian reconstructs Keplerian elements from a Cartesian
// state, given gravitational parameter mu. Required so the N-body path
// can, when asked, derive elements from an intermediate state. Handles
// the e~0, i~0, and circular-equatorial degeneracies by falling back to
// the conventional reference directions; returns
// trajectory.ErrUnsupportedOrbit (rather than clamping) when the
// reconstructed orbit is parabolic or hyperbolic enough to be numerically
// unreliable.
func CartesianToKeplerian(state trajectory.StateVector, mu float64) (trajectory.Elements, error) {
	pos, vel := state.Position, state.Velocity
	r := pos.Magnitude()
	v := vel.Magnitude()

	if r == 0 || mu == 0 {
		return trajectory.Elements{}, trajectory.ErrInvalidRequest.Wrap("zero position or gravitational parameter")
	}

	h := pos.Cross(vel)
	hMag := h.Magnitude()
	if hMag < 1e-12 {
		return trajectory.Elements{}, trajectory.ErrUnsupportedOrbit.Wrap("degenerate (rectilinear) orbit: zero angular momentum")
	}

	energy := (v*v)/2.0 - mu/r
	a := -mu / (2 * energy)

	rdotv := pos.Dot(vel)
	eVec := pos.Scale((v*v - mu/r) / mu).Sub(vel.Scale(rdotv / mu))
	e := eVec.Magnitude()
	if e < circularTolerance {
		e = 0
	}

	if e >= nearParabolicCeiling {
		return trajectory.Elements{}, trajectory.ErrUnsupportedOrbit.Wrapf("eccentricity %.6f too close to parabolic for a reliable element reconstruction", e)
	}

	i := math.Acos(clamp(h.Z/hMag, -1, 1))

	node := vector3.Vector3{Z: 1}.Cross(h)
	nodeMag := node.Magnitude()

	omegaCap := 0.0
	if nodeMag > equatorialTolerance {
		omegaCap = math.Atan2(node.Y, node.X)
		if omegaCap < 0 {
			omegaCap += 2 * math.Pi
		}
	}

	omega := 0.0
	switch {
	case nodeMag > equatorialTolerance && e > circularTolerance:
		cosOmega := clamp(node.Dot(eVec)/(nodeMag*e), -1, 1)
		omega = math.Acos(cosOmega)
		if eVec.Z < 0 {
			omega = 2*math.Pi - omega
		}
	case e > circularTolerance:
		// Zero inclination: measure from the x-axis instead of the node.
		omega = math.Atan2(eVec.Y, eVec.X)
		if omega < 0 {
			omega += 2 * math.Pi
		}
	}

	nu := trueAnomaly(pos, eVec, e, node, nodeMag, r, rdotv)

	E := 2 * math.Atan2(math.Sqrt(1-e)*math.Sin(nu/2), math.Sqrt(1+e)*math.Cos(nu/2))
	if E < 0 {
		E += 2 * math.Pi
	}
	M := E - e*math.Sin(E)

	return trajectory.Elements{
		SemiMajorAxis:          a,
		Eccentricity:           e,
		Inclination:            i,
		LongitudeAscendingNode: omegaCap,
		ArgumentPerihelion:     omega,
		MeanAnomalyAtEpoch:     M,
		Epoch:                  state.Time,
	}, nil
}

func trueAnomaly(pos, eVec vector3.Vector3, e float64, node vector3.Vector3, nodeMag, r, rdotv float64) float64 {
	if e > circularTolerance {
		cosNu := clamp(pos.Dot(eVec)/(r*e), -1, 1)
		nu := math.Acos(cosNu)
		if rdotv < 0 {
			nu = 2*math.Pi - nu
		}
		return nu
	}
	// Circular orbit: measure from the node, or from the x-axis for a
	// circular-equatorial orbit.
	if nodeMag > equatorialTolerance {
		cosNu := clamp(pos.Dot(node)/(r*nodeMag), -1, 1)
		nu := math.Acos(cosNu)
		if pos.Z < 0 {
			nu = 2*math.Pi - nu
		}
		return nu
	}
	nu := math.Atan2(pos.Y, pos.X)
	if nu < 0 {
		nu += 2 * math.Pi
	}
	return nu
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
