package nbody

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/medasdigital/heliotrace/pkg/constants"
	"github.com/medasdigital/heliotrace/pkg/ephemeris"
	"github.com/medasdigital/heliotrace/pkg/trajectory"
	"github.com/medasdigital/heliotrace/pkg/twobody"
	"github.com/medasdigital/heliotrace/pkg/vector3"
)

// earthLikeElements returns a near-circular, low-inclination orbit, a
// reasonable stand-in for a test particle deep in the planetary region.
func earthLikeElements(t *testing.T) trajectory.Elements {
	t.Helper()
	el, err := trajectory.NewElements(1.0, 0.0167, 0.0, 0, 0, 0, constants.J2000)
	if err != nil {
		t.Fatalf("NewElements: %v", err)
	}
	return el
}

func TestIsolatedSunConservesEnergyAndAngularMomentum(t *testing.T) {
	el := earthLikeElements(t)
	p := NewWithProvider(nil, ephemeris.NewMeanElementProvider())

	result, err := p.PropagateElements(el, constants.J2000, 365.25*10, 200)
	if err != nil {
		t.Fatalf("PropagateElements: %v", err)
	}

	first := result.Samples[0]
	e0 := SpecificEnergy(first.Position, *first.Velocity)
	l0 := SpecificAngularMomentum(first.Position, *first.Velocity)

	for _, s := range result.Samples {
		e := SpecificEnergy(s.Position, *s.Velocity)
		if drift := RelativeDrift(e0, e); drift > 1e-6 {
			t.Errorf("energy drift at t=%.3f: %.3e exceeds 1e-6", s.Time, drift)
		}
		l := SpecificAngularMomentum(s.Position, *s.Velocity)
		if drift := RelativeDrift(l0.Magnitude(), l.Magnitude()); drift > 1e-9 {
			t.Errorf("angular momentum drift at t=%.3f: %.3e exceeds 1e-9", s.Time, drift)
		}
	}
}

func TestNBodyMatchesTwoBodyOverShortHorizon(t *testing.T) {
	el := earthLikeElements(t)

	isolated := NewWithProvider(nil, ephemeris.NewMeanElementProvider())
	analytic := twobody.New()

	r1, err := isolated.PropagateElements(el, constants.J2000, 10, 5)
	if err != nil {
		t.Fatalf("isolated PropagateElements: %v", err)
	}
	r2, err := analytic.PropagateElements(el, constants.J2000, 10, 5)
	if err != nil {
		t.Fatalf("two-body PropagateElements: %v", err)
	}

	for i := range r1.Samples {
		d := r1.Samples[i].Position.Distance(r2.Samples[i].Position)
		if d > 1e-6 {
			t.Errorf("sample %d: positions diverge by %.3e AU over a 10-day horizon, want < 1e-6", i, d)
		}
	}
}

// halleyLikeElements is the comet-class orbit used across the accuracy
// scenarios: highly eccentric and steeply inclined, so planetary
// perturbation over a year is neither negligible nor implausibly large.
func halleyLikeElements(t *testing.T) trajectory.Elements {
	t.Helper()
	const deg = 3.14159265358979323846 / 180.0
	el, err := trajectory.NewElements(17.83414, 0.96714, 162.2627*deg, 58.4201*deg, 111.3325*deg, 38.861*deg, 2449400.5)
	if err != nil {
		t.Fatalf("NewElements: %v", err)
	}
	return el
}

func TestJupiterPerturbationIsSmallButNonzero(t *testing.T) {
	el := halleyLikeElements(t)

	isolated := NewWithProvider(nil, ephemeris.NewMeanElementProvider())
	perturbed := NewWithProvider([]constants.Planet{constants.Jupiter}, ephemeris.NewMeanElementProvider())

	r1, err := isolated.PropagateElements(el, 2449400.5, 365, 50)
	if err != nil {
		t.Fatalf("isolated PropagateElements: %v", err)
	}
	r2, err := perturbed.PropagateElements(el, 2449400.5, 365, 50)
	if err != nil {
		t.Fatalf("perturbed PropagateElements: %v", err)
	}

	last := len(r1.Samples) - 1
	d := r1.Samples[last].Position.Distance(r2.Samples[last].Position)
	if d < 1e-3 || d > 1e-1 {
		t.Errorf("Jupiter perturbation over one year displaced the body by %.3e AU, want in [1e-3, 1e-1]", d)
	}
}

func TestContinuationAgreesWithSinglePropagation(t *testing.T) {
	el := earthLikeElements(t)
	p := NewWithProvider(constants.DefaultPlanets, ephemeris.NewMeanElementProvider())

	whole, err := p.PropagateElements(el, constants.J2000, 60, 2)
	if err != nil {
		t.Fatalf("whole-span PropagateElements: %v", err)
	}

	first, err := p.PropagateElements(el, constants.J2000, 30, 2)
	if err != nil {
		t.Fatalf("first-half PropagateElements: %v", err)
	}
	second, err := p.PropagateFromState(first.FinalState, 30, 2)
	if err != nil {
		t.Fatalf("PropagateFromState: %v", err)
	}

	d := whole.FinalState.Position.Distance(second.FinalState.Position)
	if d > 1e-8 {
		t.Errorf("continuation diverged from single propagation by %.3e AU, want < 1e-8", d)
	}
}

func TestPropagateElementsRejectsInvalidRequests(t *testing.T) {
	el := earthLikeElements(t)
	p := NewWithProvider(nil, ephemeris.NewMeanElementProvider())

	if _, err := p.PropagateElements(el, constants.J2000, 10, 1); err == nil {
		t.Error("expected an error for num_points < 2")
	}
	if _, err := p.PropagateElements(el, constants.J2000, 0, 10); err == nil {
		t.Error("expected an error for days <= 0")
	}
}

func TestPropagateFromStateRejectsZeroPosition(t *testing.T) {
	p := NewWithProvider(nil, ephemeris.NewMeanElementProvider())
	zero := trajectory.StateVector{Time: constants.J2000}
	if _, err := p.PropagateFromState(zero, 10, 5); err == nil {
		t.Error("expected an error for a zero-position state vector")
	}
}

// failingProvider always errors, used to exercise the integration
// failure path deterministically without constructing a genuinely
// singular configuration.
type failingProvider struct{}

var errProviderUnavailable = errors.New("provider unavailable")

func (failingProvider) Position(constants.Planet, float64) (vector3.Vector3, error) {
	return vector3.Vector3{}, errProviderUnavailable
}
func (failingProvider) GM(constants.Planet) float64 { return 0 }
func (failingProvider) Availability() ephemeris.Availability {
	return ephemeris.Availability{}
}

func TestIntegrationSurfacesRightHandSideFailure(t *testing.T) {
	el := earthLikeElements(t)
	p := NewWithProvider([]constants.Planet{constants.Jupiter}, failingProvider{})

	if _, err := p.PropagateElements(el, constants.J2000, 10, 5); err == nil {
		t.Fatal("expected an error when the ephemeris provider fails")
	}
}

func TestPropagateElementsWithSnapshotsWritesRecords(t *testing.T) {
	el := earthLikeElements(t)
	p := NewWithProvider([]constants.Planet{constants.Jupiter}, ephemeris.NewMeanElementProvider())

	path := filepath.Join(t.TempDir(), "snapshots.jsonl")
	sink, err := NewJSONLSnapshotWriter(path)
	if err != nil {
		t.Fatalf("NewJSONLSnapshotWriter: %v", err)
	}

	if err := p.PropagateElementsWithSnapshots(el, constants.J2000, 30, "earth-like", sink, 1); err != nil {
		t.Fatalf("PropagateElementsWithSnapshots: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening snapshot file: %v", err)
	}
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if scanner.Text() == "" {
			continue
		}
		lines++
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scanning snapshot file: %v", err)
	}
	if lines == 0 {
		t.Error("expected at least one snapshot record, got none")
	}
}

func TestRelativeDriftHandlesZeroInitial(t *testing.T) {
	if d := RelativeDrift(0, 0); d != 0 {
		t.Errorf("RelativeDrift(0, 0) = %v, want 0", d)
	}
	if d := RelativeDrift(0, 2); d != 2 {
		t.Errorf("RelativeDrift(0, 2) = %v, want 2", d)
	}
}
