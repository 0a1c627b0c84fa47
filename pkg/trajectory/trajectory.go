// Package trajectory holds the domain model shared by every propagation
// method: the wire-shaped result types and the capability-set interface
// both the two-body and N-body propagators implement, so a caller can
// treat "propagate by elements", "continue from a state", and "read back
// the final state" identically regardless of which numerical method
// produced the result.
package trajectory

import (
	"math"
	"time"

	"github.com/medasdigital/heliotrace/pkg/vector3"
)

// Elements is an immutable set of Keplerian orbital elements, as owned by
// the catalog. Construct with NewElements, which enforces the validity
// invariants below; the zero value is not a valid orbit.
type Elements struct {
	SemiMajorAxis          float64 // a, AU; negative for hyperbolic orbits
	Eccentricity           float64 // e >= 0
	Inclination            float64 // i, radians, [0, pi]
	LongitudeAscendingNode float64 // Omega, radians
	ArgumentPerihelion     float64 // omega, radians
	MeanAnomalyAtEpoch     float64 // M0, radians
	Epoch                  float64 // t0, Julian Date
}

// NewElements validates and constructs an Elements value: e >= 0; if
// 0 <= e < 1 then a > 0; if e > 1 then a < 0; e = 1 is rejected outright
// (the analytic path is undefined for a parabola).
func NewElements(a, e, i, omegaCap, omega, m0, epoch float64) (Elements, error) {
	if e < 0 {
		return Elements{}, ErrInvalidRequest.Wrapf("eccentricity %.6f is negative", e)
	}
	if e == 1 {
		return Elements{}, ErrUnsupportedOrbit.Wrap("parabolic orbit (e=1) is undefined on the analytic path")
	}
	if e < 1 && a <= 0 {
		return Elements{}, ErrInvalidRequest.Wrapf("elliptical orbit (e=%.6f) requires a > 0, got %.6f", e, a)
	}
	if e > 1 && a >= 0 {
		return Elements{}, ErrInvalidRequest.Wrapf("hyperbolic orbit (e=%.6f) requires a < 0, got %.6f", e, a)
	}
	return Elements{
		SemiMajorAxis:          a,
		Eccentricity:           e,
		Inclination:            i,
		LongitudeAscendingNode: omegaCap,
		ArgumentPerihelion:     omega,
		MeanAnomalyAtEpoch:     m0,
		Epoch:                  epoch,
	}, nil
}

// Perihelion returns perihelion distance q = a(1-e).
func (el Elements) Perihelion() float64 {
	return el.SemiMajorAxis * (1 - el.Eccentricity)
}

// Aphelion returns aphelion distance a(1+e); only meaningful for e < 1.
func (el Elements) Aphelion() float64 {
	return el.SemiMajorAxis * (1 + el.Eccentricity)
}

// Period returns the orbital period in days, T = 2*pi*sqrt(a^3/mu), valid
// only for e < 1. Callers must check Eccentricity before trusting this.
func (el Elements) Period(mu float64) float64 {
	return 2 * math.Pi * math.Sqrt(el.SemiMajorAxis*el.SemiMajorAxis*el.SemiMajorAxis/mu)
}

// IsElliptical reports whether the orbit is bound (0 <= e < 1).
func (el Elements) IsElliptical() bool {
	return el.Eccentricity >= 0 && el.Eccentricity < 1
}

// Method selects the propagation algorithm. It is a closed enum: any other
// string is rejected by the serving layer.
type Method string

const (
	TwoBody Method = "twobody"
	NBody   Method = "nbody"
)

// Valid reports whether m is one of the recognized methods.
func (m Method) Valid() bool {
	return m == TwoBody || m == NBody
}

// StateVector is a Cartesian position/velocity at a given time, in the
// heliocentric ecliptic J2000 frame. AU, AU/day, Julian Date.
//
// The json tags are the stable wire format continuation depends on across
// process restarts; this struct doubles as both the in-process and the
// transport type, the way internal model types often double as wire DTOs.
type StateVector struct {
	Position vector3.Vector3 `json:"position"`
	Velocity vector3.Vector3 `json:"velocity"`
	Time     float64         `json:"time"`
}

// Valid reports the invariant |r| > 0: a state vector sitting exactly on
// the origin is never physically valid.
func (s StateVector) Valid() bool {
	return s.Position.Magnitude() > 0
}

// TrajectorySample is one point of an emitted trajectory.
type TrajectorySample struct {
	Time            float64         `json:"time"`
	DaysFromEpoch   float64         `json:"days_from_epoch"`
	Position        vector3.Vector3 `json:"position"`
	DistanceFromSun float64         `json:"distance_from_sun"`
	Velocity        *vector3.Vector3 `json:"velocity,omitempty"`
}

// Result is the ordered, immutable outcome of a single propagate or
// continuation call.
type Result struct {
	Designation            string             `json:"designation"`
	Method                 Method             `json:"method"`
	Samples                []TrajectorySample `json:"samples"`
	StartTime              float64            `json:"start_time"`
	EndTime                float64            `json:"end_time"`
	NumPoints              int                `json:"num_points"`
	FinalState             StateVector        `json:"final_state"`
	CalculationTimeSeconds float64            `json:"calculation_time_seconds"`
}

// NewResult assembles and validates a Result from a completed sample
// sequence, enforcing: samples[0].t = start_time, samples[-1].t =
// end_time, len(samples) = num_points >= 2.
func NewResult(designation string, method Method, samples []TrajectorySample, final StateVector, elapsed time.Duration) (Result, error) {
	if len(samples) < 2 {
		return Result{}, ErrInvalidRequest.Wrap("trajectory must contain at least two samples")
	}
	return Result{
		Designation:            designation,
		Method:                 method,
		Samples:                samples,
		StartTime:              samples[0].Time,
		EndTime:                samples[len(samples)-1].Time,
		NumPoints:              len(samples),
		FinalState:             final,
		CalculationTimeSeconds: elapsed.Seconds(),
	}, nil
}

// WithDesignation returns a copy of result labeled with designation.
// Propagators themselves are designation-agnostic (they only see
// elements/state); callers that know which catalog entry produced a
// result — internal/catalog, pkg/batch — attach it afterward.
func WithDesignation(result Result, designation string) Result {
	result.Designation = designation
	return result
}

// ElementsLookup is the narrow interface the core consumes from the
// catalog collaborator: a read-only lookup, returning ErrNotFound
// (wrapped) when the designation is unknown.
type ElementsLookup interface {
	Find(designation string) (Elements, error)
}

// Propagator is the capability set every propagation method exposes:
// two-body and N-body share the same operation set, with N-body
// additionally accepting a planet subset at construction time. Dynamic
// dispatch through this interface is not required at runtime (the method
// is known at the request boundary) but both concrete propagators
// implement it, so the batch driver and CLI can treat them uniformly.
type Propagator interface {
	// PropagateElements advances from Keplerian elements over
	// [startTime, startTime+days] producing numPoints samples.
	PropagateElements(elements Elements, startTime, days float64, numPoints int) (Result, error)

	// PropagateFromState resumes from a previously returned state vector,
	// advancing by deltaDays and producing numPoints samples. This is the
	// stateless continuation entry point: all information needed to
	// resume lives in state.
	PropagateFromState(state StateVector, deltaDays float64, numPoints int) (Result, error)
}
