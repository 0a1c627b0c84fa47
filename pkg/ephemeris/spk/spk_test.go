package spk

import (
	"math"
	"os"
	"testing"
)

func TestOpenNonexistentFile(t *testing.T) {
	if _, err := Open("/nonexistent/kernel.bsp"); err == nil {
		t.Fatal("expected an error opening a nonexistent kernel file")
	}
}

func TestOpenRejectsWrongMagic(t *testing.T) {
	f := t.TempDir() + "/not-a-kernel.bsp"
	data := make([]byte, recordLen)
	copy(data, []byte("NOT/SPK "))
	if err := os.WriteFile(f, data, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(f); err == nil {
		t.Fatal("expected an error opening a file with the wrong DAF magic")
	}
}

// TestChebyshevConstant checks the degenerate single-coefficient case.
func TestChebyshevConstant(t *testing.T) {
	if got := chebyshev([]float64{3.5}, 0.2); got != 3.5 {
		t.Errorf("chebyshev(const) = %v, want 3.5", got)
	}
}

// TestChebyshevMatchesDirectEvaluation checks the Clenshaw recurrence
// against a direct sum of T_n(s) for a known coefficient set.
func TestChebyshevMatchesDirectEvaluation(t *testing.T) {
	coeffs := []float64{1.0, 0.5, -0.25, 0.125}
	s := 0.37

	want := coeffs[0]*1 + coeffs[1]*s + coeffs[2]*(2*s*s-1) + coeffs[3]*(4*s*s*s-3*s)
	got := chebyshev(coeffs, s)

	if math.Abs(got-want) > 1e-12 {
		t.Errorf("chebyshev(%v, %v) = %v, want %v", coeffs, s, got, want)
	}
}

// TestChebyshevDerivativeMatchesFiniteDifference checks the analytic
// derivative recurrence against a central finite difference of the
// series itself.
func TestChebyshevDerivativeMatchesFiniteDifference(t *testing.T) {
	coeffs := []float64{1.0, 0.5, -0.25, 0.125, 0.05}
	s := 0.2
	h := 1e-6

	analytic := chebyshevDerivative(coeffs, s)
	numeric := (chebyshev(coeffs, s+h) - chebyshev(coeffs, s-h)) / (2 * h)

	if math.Abs(analytic-numeric) > 1e-5 {
		t.Errorf("chebyshevDerivative = %v, finite-difference = %v", analytic, numeric)
	}
}

func TestFindSegmentClampsOutOfRange(t *testing.T) {
	segs := []*segment{
		{startSec: 0, endSec: 100},
		{startSec: 100, endSec: 200},
	}
	if got := findSegment(segs, -50); got != segs[0] {
		t.Error("expected clamp to first segment for seconds before range")
	}
	if got := findSegment(segs, 250); got != segs[1] {
		t.Error("expected clamp to last segment for seconds after range")
	}
	if got := findSegment(segs, 150); got != segs[1] {
		t.Error("expected exact match for seconds within second segment")
	}
}
