package catalog

import (
	"strings"
	"testing"

	"github.com/medasdigital/heliotrace/pkg/trajectory"
)

func TestSeedLoadsBuiltInBodies(t *testing.T) {
	c, err := Seed()
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("seed catalog is empty")
	}
	if _, err := c.Find("1 Ceres"); err != nil {
		t.Errorf("Find(1 Ceres): %v", err)
	}
}

func TestFindUnknownDesignationReturnsErrNotFound(t *testing.T) {
	c := New()
	if _, err := c.Find("nonexistent"); !trajectory.ErrNotFound.Is(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadCSVSkipsMalformedRows(t *testing.T) {
	csvData := `designation,semimajor_axis_au,eccentricity,inclination_deg,longitude_node_deg,argument_periapsis_deg,mean_anomaly_deg,epoch_jd
Good One,2.5,0.1,5,10,20,30,2451545.0
Bad One,not-a-number,0.1,5,10,20,30,2451545.0
`
	c, err := load(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 surviving row, got %d", c.Len())
	}
	if _, err := c.Find("Good One"); err != nil {
		t.Errorf("Find(Good One): %v", err)
	}
	if _, err := c.Find("Bad One"); err == nil {
		t.Error("expected Bad One to have been skipped")
	}
}

func TestListReturnsAllDesignations(t *testing.T) {
	c, err := Seed()
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	list := c.List()
	if len(list) != c.Len() {
		t.Errorf("List length %d != Len() %d", len(list), c.Len())
	}
}
