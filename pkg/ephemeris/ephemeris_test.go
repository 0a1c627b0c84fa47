package ephemeris

import (
	"testing"

	"github.com/medasdigital/heliotrace/pkg/constants"
)

func TestMeanElementProviderAvailability(t *testing.T) {
	p := NewMeanElementProvider()
	avail := p.Availability()
	if avail.Kernel {
		t.Error("mean-element provider must never report Kernel=true")
	}
	if !avail.MeanElements {
		t.Error("mean-element provider must report MeanElements=true")
	}
}

func TestMeanElementProviderPositionAllDefaultPlanets(t *testing.T) {
	p := NewMeanElementProvider()
	for _, planet := range constants.DefaultPlanets {
		pos, err := p.Position(planet, constants.J2000+100)
		if err != nil {
			t.Fatalf("Position(%v): %v", planet, err)
		}
		if pos.Magnitude() <= 0 {
			t.Errorf("Position(%v) returned a zero vector", planet)
		}
	}
}

func TestMeanElementProviderUnknownPlanet(t *testing.T) {
	p := NewMeanElementProvider()
	if _, err := p.Position(constants.Planet("pluto"), constants.J2000); err == nil {
		t.Fatal("expected an error for a planet with no mean-element table entry")
	}
}

func TestMeanElementProviderGMMatchesTable(t *testing.T) {
	p := NewMeanElementProvider()
	if gm := p.GM(constants.Jupiter); gm != constants.PlanetGM[constants.Jupiter] {
		t.Errorf("GM(Jupiter) = %v, want %v", gm, constants.PlanetGM[constants.Jupiter])
	}
}

func TestGetWithoutInitFallsBackToMeanElements(t *testing.T) {
	reset()
	defer reset()

	p := Get()
	if p.Availability().Kernel {
		t.Error("Get() without Init should never report a kernel")
	}
	if !p.Availability().MeanElements {
		t.Error("Get() without Init should report mean elements available")
	}
}

func TestInitIsIdempotent(t *testing.T) {
	reset()
	defer reset()

	if err := Init(InitOptions{}); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	first := Get()

	// A second Init call, even with different options, must not replace
	// the already-constructed singleton.
	if err := Init(InitOptions{KernelPath: "/nonexistent/kernel.bsp"}); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	second := Get()

	if first != second {
		t.Error("Init should be idempotent: expected the same Provider instance")
	}
}

func TestInitWithMissingKernelPathFails(t *testing.T) {
	reset()
	defer reset()

	if err := Init(InitOptions{KernelPath: "/nonexistent/kernel.bsp"}); err == nil {
		t.Fatal("expected an error initializing with a nonexistent kernel path")
	}
}
