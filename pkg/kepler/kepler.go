// Package kepler is the single source of truth for converting between
// Keplerian orbital elements and Cartesian state vectors: no other
// component reimplements this conversion. It uses the vis-viva-consistent
// orbital-plane velocity formulas directly, and surfaces typed errors
// instead of silently clamping or debug-printing on numerically
// ill-conditioned input.
package kepler

import (
	"math"

	"github.com/medasdigital/heliotrace/pkg/trajectory"
	"github.com/medasdigital/heliotrace/pkg/vector3"
)

const (
	keplerTolerance   = 1e-10
	keplerMaxIterations = 100
)

// SolveKepler solves Kepler's equation M = E - e*sin(E) for the eccentric
// anomaly E, given mean anomaly M (radians, any real) and eccentricity
// e in [0, 1). Uses Newton-Raphson starting from E0 = M, or E0 = pi (the
// apoapsis anchor) for e > 0.8, takes one more Newton step on the
// converged iterate, and returns
// trajectory.ErrConvergenceFailure if 100 iterations aren't enough to
// bring |f(E)| under 1e-10 rad.
func SolveKepler(m, e float64) (float64, error) {
	E := m
	if e > 0.8 {
		// A poor initial guess diverges badly for near-parabolic ellipses;
		// anchor at apoapsis instead.
		E = math.Pi
	}

	for i := 0; i < keplerMaxIterations; i++ {
		f := E - e*math.Sin(E) - m
		fp := 1 - e*math.Cos(E)
		if math.Abs(f) < keplerTolerance {
			return E - f/fp, nil
		}
		E -= f / fp
	}

	f := E - e*math.Sin(E) - m
	if math.Abs(f) < keplerTolerance {
		return E, nil
	}
	return 0, trajectory.ErrConvergenceFailure.Wrapf("kepler solver exceeded %d iterations (M=%.6f, e=%.6f)", keplerMaxIterations, m, e)
}

// KeplerianToCartesian converts orbital elements to a Cartesian state at
// time t, given gravitational parameter mu (AU^3/day^2): advance mean
// anomaly, solve Kepler's equation, derive true anomaly and orbit-plane
// position/velocity, then rotate by R3(-Omega) R1(-i) R3(-omega) into the
// heliocentric ecliptic frame.
//
// The orbit-plane velocity uses vx = -(a*n*sinE)/(1-e*cosE),
// vy = (a*n*sqrt(1-e^2)*cosE)/(1-e*cosE), derived directly from
// differentiating position with respect to eccentric anomaly and applying
// dE/dt = n/(1-e*cosE); this is not the same as the naive
// vx = -v*sinE*sqrt(mu/a) form some references use, which omits the
// (1-e*cosE) denominator and is wrong off circular orbits.
func KeplerianToCartesian(el trajectory.Elements, t, mu float64) (trajectory.StateVector, error) {
	if el.Eccentricity >= 1 {
		return trajectory.StateVector{}, trajectory.ErrUnsupportedOrbit.Wrap("parabolic/hyperbolic orbit not supported on the analytic path")
	}

	a := el.SemiMajorAxis
	e := el.Eccentricity

	n := math.Sqrt(mu / (a * a * a))
	M := el.MeanAnomalyAtEpoch + n*(t-el.Epoch)

	E, err := SolveKepler(M, e)
	if err != nil {
		return trajectory.StateVector{}, err
	}

	cosE, sinE := math.Cos(E), math.Sin(E)

	// Position in the orbital plane (r = a(1-e*cosE) is implicit in x,y).
	xOrb := a * (cosE - e)
	yOrb := a * math.Sqrt(1-e*e) * sinE

	// Velocity in the orbital plane.
	denom := 1 - e*cosE
	vxOrb := -(a * n * sinE) / denom
	vyOrb := (a * n * math.Sqrt(1-e*e) * cosE) / denom

	pos, vel := rotateToEcliptic(xOrb, yOrb, vxOrb, vyOrb, el.LongitudeAscendingNode, el.Inclination, el.ArgumentPerihelion)

	return trajectory.StateVector{Position: pos, Velocity: vel, Time: t}, nil
}

// rotateToEcliptic applies R3(-Omega) R1(-i) R3(-omega) to an orbit-plane
// position/velocity pair, returning the heliocentric ecliptic position and
// velocity.
func rotateToEcliptic(x, y, vx, vy, omegaCap, inc, omega float64) (vector3.Vector3, vector3.Vector3) {
	cosO, sinO := math.Cos(omegaCap), math.Sin(omegaCap)
	cosI, sinI := math.Cos(inc), math.Sin(inc)
	cosW, sinW := math.Cos(omega), math.Sin(omega)

	r11 := cosO*cosW - sinO*sinW*cosI
	r12 := -cosO*sinW - sinO*cosW*cosI
	r21 := sinO*cosW + cosO*sinW*cosI
	r22 := -sinO*sinW + cosO*cosW*cosI
	r31 := sinW * sinI
	r32 := cosW * sinI

	pos := vector3.Vector3{
		X: r11*x + r12*y,
		Y: r21*x + r22*y,
		Z: r31*x + r32*y,
	}
	vel := vector3.Vector3{
		X: r11*vx + r12*vy,
		Y: r21*vx + r22*vy,
		Z: r31*vx + r32*vy,
	}
	return pos, vel
}
