package batch

import (
	"testing"

	"github.com/medasdigital/heliotrace/pkg/constants"
	"github.com/medasdigital/heliotrace/pkg/ephemeris"
	"github.com/medasdigital/heliotrace/pkg/nbody"
	"github.com/medasdigital/heliotrace/pkg/trajectory"
	"github.com/medasdigital/heliotrace/pkg/twobody"
)

type fakeCatalog struct {
	entries map[string]trajectory.Elements
}

func (c fakeCatalog) Find(designation string) (trajectory.Elements, error) {
	el, ok := c.entries[designation]
	if !ok {
		return trajectory.Elements{}, trajectory.ErrNotFound.Wrapf("designation %q not in catalog", designation)
	}
	return el, nil
}

const testMaxBatchSize = 100

func newTestDriver(t *testing.T) (*Driver, fakeCatalog) {
	t.Helper()
	el, err := trajectory.NewElements(1.0, 0.0167, 0, 0, 0, 0, constants.J2000)
	if err != nil {
		t.Fatalf("NewElements: %v", err)
	}
	cat := fakeCatalog{entries: map[string]trajectory.Elements{"earth-analog": el}}

	provider := ephemeris.NewMeanElementProvider()
	nbodyFactory := func(planets []constants.Planet) trajectory.Propagator {
		return nbody.NewWithProvider(planets, provider)
	}

	d, err := New(cat, twobody.New(), nbodyFactory, 64, testMaxBatchSize)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d, cat
}

func TestRunResolvesKnownDesignation(t *testing.T) {
	d, _ := newTestDriver(t)
	result, err := d.Run([]Request{
		{Designation: "earth-analog", StartTime: constants.J2000, Days: 30, NumPoints: 5, Method: trajectory.TwoBody},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := result.Results["earth-analog"]; !ok {
		t.Error("expected earth-analog in results")
	}
	if len(result.Errors) != 0 || len(result.NotFound) != 0 {
		t.Errorf("expected no errors/not-found, got %+v / %+v", result.Errors, result.NotFound)
	}
}

func TestRunPartialFailureSemantics(t *testing.T) {
	d, cat := newTestDriver(t)
	// Results is keyed by designation, so the N-body request needs its own.
	cat.entries["earth-analog-nbody"] = cat.entries["earth-analog"]
	result, err := d.Run([]Request{
		{Designation: "earth-analog", StartTime: constants.J2000, Days: 30, NumPoints: 5, Method: trajectory.TwoBody},
		{Designation: "earth-analog-nbody", StartTime: constants.J2000, Days: 10, NumPoints: 5, Method: trajectory.NBody},
		{Designation: "unknown-body", StartTime: constants.J2000, Days: 30, NumPoints: 5, Method: trajectory.TwoBody},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Results) != 2 {
		t.Errorf("expected 2 successes, got %d: %+v", len(result.Results), result.Results)
	}
	if !result.NotFound["unknown-body"] {
		t.Error("expected unknown-body in not_found")
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no computational errors, got %+v", result.Errors)
	}
}

func TestRunRejectsOversizedBatch(t *testing.T) {
	d, _ := newTestDriver(t)
	requests := make([]Request, testMaxBatchSize+1)
	for i := range requests {
		requests[i] = Request{Designation: "earth-analog", StartTime: constants.J2000, Days: 1, NumPoints: 2, Method: trajectory.TwoBody}
	}
	if _, err := d.Run(requests); err == nil {
		t.Error("expected an error for a batch exceeding the configured max size")
	}
}

func TestNewRejectsNonPositiveMaxBatchSize(t *testing.T) {
	cat := fakeCatalog{entries: map[string]trajectory.Elements{}}
	nbodyFactory := func(planets []constants.Planet) trajectory.Propagator {
		return nbody.NewWithProvider(planets, ephemeris.NewMeanElementProvider())
	}
	if _, err := New(cat, twobody.New(), nbodyFactory, 64, 0); err == nil {
		t.Error("expected an error for a non-positive max batch size")
	}
}

func TestRunRejectsExcessivePointsPerJob(t *testing.T) {
	d, _ := newTestDriver(t)
	_, err := d.Run([]Request{
		{Designation: "earth-analog", StartTime: constants.J2000, Days: 30, NumPoints: MaxPointsPerJob + 1, Method: trajectory.TwoBody},
	})
	if err == nil {
		t.Error("expected an error for num_points exceeding MaxPointsPerJob")
	}
}

func TestRunCachesRepeatedIdenticalRequests(t *testing.T) {
	d, _ := newTestDriver(t)
	req := Request{Designation: "earth-analog", StartTime: constants.J2000, Days: 30, NumPoints: 5, Method: trajectory.TwoBody}

	first, err := d.Run([]Request{req})
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := d.Run([]Request{req})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	r1 := first.Results["earth-analog"]
	r2 := second.Results["earth-analog"]
	if r1.FinalState.Position != r2.FinalState.Position {
		t.Error("cached run produced a different final position than the computing run")
	}
}
