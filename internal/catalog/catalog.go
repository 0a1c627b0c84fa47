// Package catalog is the in-memory designation-to-elements lookup the
// core consults through trajectory.ElementsLookup: a read-only table,
// loaded once from CSV, exposing only Find. No mutation is exposed to
// the core, matching the ingestion collaborator's narrow contract.
package catalog

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/medasdigital/heliotrace/pkg/trajectory"
)

//go:embed seed.csv
var seedFS embed.FS

// Catalog is a read-only designation -> orbital elements table.
type Catalog struct {
	entries map[string]trajectory.Elements
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{entries: make(map[string]trajectory.Elements)}
}

// Seed returns a catalog preloaded from the small set of well-known
// bodies built into the binary, for tests and first-run convenience
// without requiring an external CSV file.
func Seed() (*Catalog, error) {
	f, err := seedFS.Open("seed.csv")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return load(f)
}

// LoadCSV reads designation rows from path and returns a populated
// Catalog, skipping malformed rows rather than failing the whole load
// (no count of skipped rows is returned), the way the
// donor's TNO ingestion treats one bad record as non-fatal.
func LoadCSV(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return load(f)
}

func load(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, trajectory.ErrInvalidRequest.Wrap("catalog file has no data rows")
	}

	c := New()
	for i, record := range records[1:] {
		elements, designation, err := parseRecord(record)
		if err != nil {
			continue // one malformed row never fails the whole catalog load
		}
		_ = i
		c.entries[designation] = elements
	}
	return c, nil
}

func parseRecord(record []string) (trajectory.Elements, string, error) {
	if len(record) < 8 {
		return trajectory.Elements{}, "", fmt.Errorf("incomplete record: want 8 fields, got %d", len(record))
	}
	designation := strings.TrimSpace(record[0])
	if designation == "" {
		return trajectory.Elements{}, "", fmt.Errorf("empty designation")
	}

	parseFloat := func(s string) (float64, error) {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}

	a, err := parseFloat(record[1])
	if err != nil {
		return trajectory.Elements{}, "", fmt.Errorf("semimajor axis: %w", err)
	}
	e, err := parseFloat(record[2])
	if err != nil {
		return trajectory.Elements{}, "", fmt.Errorf("eccentricity: %w", err)
	}
	iDeg, err := parseFloat(record[3])
	if err != nil {
		return trajectory.Elements{}, "", fmt.Errorf("inclination: %w", err)
	}
	omegaCapDeg, err := parseFloat(record[4])
	if err != nil {
		return trajectory.Elements{}, "", fmt.Errorf("longitude of ascending node: %w", err)
	}
	omegaDeg, err := parseFloat(record[5])
	if err != nil {
		return trajectory.Elements{}, "", fmt.Errorf("argument of perihelion: %w", err)
	}
	m0Deg, err := parseFloat(record[6])
	if err != nil {
		return trajectory.Elements{}, "", fmt.Errorf("mean anomaly: %w", err)
	}
	epoch, err := parseFloat(record[7])
	if err != nil {
		return trajectory.Elements{}, "", fmt.Errorf("epoch: %w", err)
	}

	const deg = math.Pi / 180.0
	elements, err := trajectory.NewElements(a, e, iDeg*deg, omegaCapDeg*deg, omegaDeg*deg, m0Deg*deg, epoch)
	if err != nil {
		return trajectory.Elements{}, "", err
	}
	return elements, designation, nil
}

// Find returns designation's orbital elements, or a wrapped
// trajectory.ErrNotFound if designation is not in the catalog.
func (c *Catalog) Find(designation string) (trajectory.Elements, error) {
	el, ok := c.entries[designation]
	if !ok {
		return trajectory.Elements{}, trajectory.ErrNotFound.Wrapf("designation %q not in catalog", designation)
	}
	return el, nil
}

// Merge copies every entry from other into c, overwriting any existing
// designation with other's value.
func (c *Catalog) Merge(other *Catalog) {
	for designation, el := range other.entries {
		c.entries[designation] = el
	}
}

// Len returns the number of designations the catalog holds.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// List returns all designations the catalog holds, in no particular
// order.
func (c *Catalog) List() []string {
	out := make([]string, 0, len(c.entries))
	for designation := range c.entries {
		out = append(out, designation)
	}
	return out
}
