package nbody

import (
	"math"

	"github.com/medasdigital/heliotrace/pkg/constants"
	"github.com/medasdigital/heliotrace/pkg/vector3"
)

// SpecificEnergy returns the per-unit-mass orbital energy v^2/2 - GM_Sun/r
// of a massless body at the given heliocentric state. For an isolated
// two-body system (no perturbing planets) this is physically conserved;
// the validation suite uses it to bound the integrator's numerical energy
// drift (relative drift under 1e-6 over ten years).
func SpecificEnergy(position, velocity vector3.Vector3) float64 {
	r := position.Magnitude()
	v := velocity.Magnitude()
	return v*v/2 - constants.GMSun/r
}

// SpecificAngularMomentum returns r x v, conserved to machine precision
// whenever the force is central (the isolated-Sun case; not conserved
// once planetary perturbations are active, since those introduce torque
// about the Sun).
func SpecificAngularMomentum(position, velocity vector3.Vector3) vector3.Vector3 {
	return position.Cross(velocity)
}

// RelativeDrift returns |current-initial|/|initial|, the normalized
// invariant-drift metric the energy- and angular-momentum-conservation
// tests compare against their tolerance budgets.
func RelativeDrift(initial, current float64) float64 {
	if initial == 0 {
		return math.Abs(current)
	}
	return math.Abs((current - initial) / initial)
}

// chooseInitialStep picks a conservative first step size in days from the
// body's current orbital period, targeting roughly targetSubstepsPerOrbit
// evaluations per revolution: a body deep in the inner solar system gets
// a much finer first guess than one far out, rather than one fixed
// fraction of the whole requested span.
func chooseInitialStep(r vector3.Vector3, span float64) float64 {
	const targetSubstepsPerOrbit = 500
	const minDays = 1e-4
	const maxDays = 50.0

	a := r.Magnitude()
	if a <= 0 {
		return math.Copysign(math.Min(maxDays, math.Max(minDays, math.Abs(span)/200)), span)
	}

	periodYears := math.Sqrt(a * a * a) // Kepler's third law, GM_Sun in solar units: P[yr] ~= a[AU]^1.5
	periodDays := periodYears * 365.25

	dt := periodDays / targetSubstepsPerOrbit
	dt = math.Max(minDays, math.Min(maxDays, dt))
	if math.Abs(dt) > math.Abs(span) {
		dt = math.Abs(span)
	}
	return math.Copysign(dt, span)
}
