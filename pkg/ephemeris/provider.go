// Package ephemeris supplies planet positions and gravitational
// parameters to the N-body force model: a high-precision SPK kernel when
// one is configured, tabulated mean Keplerian elements otherwise. Both
// sit behind the same Provider interface so pkg/nbody never needs to
// know which mode is active.
package ephemeris

import (
	"github.com/medasdigital/heliotrace/pkg/constants"
	"github.com/medasdigital/heliotrace/pkg/vector3"
)

// Availability reports which data sources a Provider can draw on.
type Availability struct {
	Kernel       bool
	MeanElements bool
}

// Provider supplies a planet's heliocentric ecliptic J2000 position and
// its gravitational parameter. Implementations must be safe for
// concurrent use: pkg/nbody calls Position from every worker goroutine's
// RHS evaluation.
type Provider interface {
	// Position returns planet's heliocentric ecliptic J2000 position, in
	// AU, at Julian Date t.
	Position(planet constants.Planet, t float64) (vector3.Vector3, error)

	// GM returns planet's gravitational parameter in AU^3/day^2.
	GM(planet constants.Planet) float64

	// Availability reports which underlying sources are active.
	Availability() Availability
}

// rotateEquatorialToEcliptic rotates a J2000 mean-equatorial vector about
// the x-axis by the mean obliquity into the ecliptic frame heliotrace
// works in internally.
func rotateEquatorialToEcliptic(v vector3.Vector3) vector3.Vector3 {
	return v.RotateX(-constants.ObliquityRad)
}
