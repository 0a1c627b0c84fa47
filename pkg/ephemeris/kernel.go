package ephemeris

import (
	"github.com/medasdigital/heliotrace/pkg/constants"
	"github.com/medasdigital/heliotrace/pkg/ephemeris/spk"
	"github.com/medasdigital/heliotrace/pkg/trajectory"
	"github.com/medasdigital/heliotrace/pkg/vector3"
)

// naifID maps heliotrace's planet identifiers onto the NAIF body IDs a
// planetary SPK kernel indexes segments by (the planet barycenter, not
// the single-body center of mass, per JPL convention).
var naifID = map[constants.Planet]int{
	constants.Mercury: spk.Mercury,
	constants.Venus:   spk.Venus,
	constants.Earth:   spk.EMB,
	constants.Mars:    spk.Mars,
	constants.Jupiter: spk.Jupiter,
	constants.Saturn:  spk.Saturn,
	constants.Uranus:  spk.Uranus,
	constants.Neptune: spk.Neptune,
}

// KernelProvider serves planet positions from a loaded binary SPK
// ephemeris kernel (DAF/SPK, NASA/JPL format), rotating the kernel's
// native equatorial-J2000 frame into the ecliptic frame heliotrace uses
// internally. Read-only after construction, so concurrent Position calls
// from N-body worker goroutines need no further locking.
type KernelProvider struct {
	kernel *spk.Kernel
}

// LoadKernel opens path as an SPK kernel. Returns an error if the file
// cannot be parsed; callers with a misconfigured kernel_path should fail
// fast rather than silently fall back, since a silent fallback would mask
// the misconfiguration with a lower-accuracy run the caller never asked
// for.
func LoadKernel(path string) (*KernelProvider, error) {
	k, err := spk.Open(path)
	if err != nil {
		return nil, trajectory.ErrEphemerisUnavailable.Wrapf("loading kernel %q: %v", path, err)
	}
	return &KernelProvider{kernel: k}, nil
}

func (p *KernelProvider) Position(planet constants.Planet, t float64) (vector3.Vector3, error) {
	id, ok := naifID[planet]
	if !ok {
		return vector3.Vector3{}, trajectory.ErrEphemerisUnavailable.Wrapf("kernel provider has no NAIF mapping for planet %q", planet)
	}
	if !p.kernel.Covers(id, t) {
		return vector3.Vector3{}, trajectory.ErrEphemerisUnavailable.Wrapf("kernel does not cover planet %q at JD %.6f", planet, t)
	}
	km, err := p.kernel.HeliocentricPositionKm(id, t)
	if err != nil {
		return vector3.Vector3{}, trajectory.ErrEphemerisUnavailable.Wrap(err.Error())
	}
	equatorial := vector3.Vector3{X: km[0], Y: km[1], Z: km[2]}.Scale(constants.AUPerKm)
	return rotateEquatorialToEcliptic(equatorial), nil
}

func (p *KernelProvider) GM(planet constants.Planet) float64 {
	return constants.PlanetGM[planet]
}

func (p *KernelProvider) Availability() Availability {
	return Availability{Kernel: true, MeanElements: false}
}
