package ephemeris

import (
	"github.com/medasdigital/heliotrace/pkg/constants"
	"github.com/medasdigital/heliotrace/pkg/vector3"
)

// compositeProvider prefers a loaded kernel and falls back to mean
// elements for any planet or time the kernel does not cover (e.g. a
// request outside the kernel's validity span). Availability reports both
// sources as present; Position discards the kernel's error on fallback
// and does not report which source answered a given query.
type compositeProvider struct {
	kernel *KernelProvider
	mean   *MeanElementProvider
}

func (p *compositeProvider) Position(planet constants.Planet, t float64) (vector3.Vector3, error) {
	if p.kernel != nil {
		if pos, err := p.kernel.Position(planet, t); err == nil {
			return pos, nil
		}
	}
	return p.mean.Position(planet, t)
}

func (p *compositeProvider) GM(planet constants.Planet) float64 {
	return constants.PlanetGM[planet]
}

func (p *compositeProvider) Availability() Availability {
	return Availability{Kernel: p.kernel != nil, MeanElements: true}
}
