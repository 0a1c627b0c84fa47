package ephemeris

import (
	"github.com/medasdigital/heliotrace/pkg/constants"
	"github.com/medasdigital/heliotrace/pkg/kepler"
	"github.com/medasdigital/heliotrace/pkg/trajectory"
	"github.com/medasdigital/heliotrace/pkg/vector3"
)

// meanElementEpoch is the epoch the tabulated mean elements below are
// referred to: J2000.0.
const meanElementEpoch = constants.J2000

// meanElements tabulates osculating Keplerian elements for all eight
// planets at J2000, extending the table a mean-element N-body seed has
// always used for Jupiter, Saturn, Uranus and Neptune, generalized here into
// data rather than struct literals scattered through application code.
var meanElements = map[constants.Planet]trajectory.Elements{
	constants.Mercury: mustElements(0.38709927, 0.20563593, 7.00497902, 48.33076593, 77.45779628, 252.25032350),
	constants.Venus:   mustElements(0.72333566, 0.00677672, 3.39467605, 76.67984255, 131.60246718, 181.97909950),
	constants.Earth:   mustElements(1.00000261, 0.01671123, 0.00001531, 0, 102.93768193, 100.46457166),
	constants.Mars:    mustElements(1.52371034, 0.09339410, 1.84969142, 49.55953891, -23.94362959, -4.55343205),
	constants.Jupiter: mustElements(5.2038, 0.0489, 1.303, 100.464, 273.867, 20.020),
	constants.Saturn:  mustElements(9.5826, 0.0565, 2.485, 113.665, 339.392, 317.020),
	constants.Uranus:  mustElements(19.2012, 0.0469, 0.773, 74.006, 96.998, 142.238),
	constants.Neptune: mustElements(30.0479, 0.0087, 1.767, 131.783, 276.336, 256.228),
}

func mustElements(a, e, iDeg, omegaCapDeg, omegaDeg, m0Deg float64) trajectory.Elements {
	const deg = 3.14159265358979323846 / 180.0
	el, err := trajectory.NewElements(a, e, iDeg*deg, omegaCapDeg*deg, omegaDeg*deg, m0Deg*deg, meanElementEpoch)
	if err != nil {
		panic("ephemeris: invalid built-in mean element table entry: " + err.Error())
	}
	return el
}

// MeanElementProvider computes planet positions from tabulated mean
// Keplerian elements via the same Kepler kernel the small-body
// propagators use. Always available; this is the fallback mode, and the
// only mode when no kernel is configured.
type MeanElementProvider struct{}

// NewMeanElementProvider returns a MeanElementProvider. It holds no
// state and is safe for concurrent use.
func NewMeanElementProvider() *MeanElementProvider {
	return &MeanElementProvider{}
}

func (p *MeanElementProvider) Position(planet constants.Planet, t float64) (vector3.Vector3, error) {
	el, ok := meanElements[planet]
	if !ok {
		return vector3.Vector3{}, trajectory.ErrEphemerisUnavailable.Wrapf("no mean-element table entry for planet %q", planet)
	}
	state, err := kepler.KeplerianToCartesian(el, t, constants.GMSun)
	if err != nil {
		return vector3.Vector3{}, trajectory.ErrEphemerisUnavailable.Wrapf("mean-element propagation for %q: %v", planet, err)
	}
	return state.Position, nil
}

func (p *MeanElementProvider) GM(planet constants.Planet) float64 {
	return constants.PlanetGM[planet]
}

func (p *MeanElementProvider) Availability() Availability {
	return Availability{Kernel: false, MeanElements: true}
}
