package trajectory

import "cosmossdk.io/errors"

// Error kinds are the stable, machine-readable taxonomy every propagation
// path (Kepler kernel, two-body, N-body, ephemeris, batch driver) surfaces
// at its operation boundary. Registered under a single "heliotrace"
// codespace, the same way other cosmos-sdk-style modules keep one
// codespace per domain error taxonomy.
var (
	// ErrNotFound means the designation is not present in the catalog.
	ErrNotFound = errors.Register("heliotrace", 1, "designation not found")

	// ErrMissingElements means the catalog entry has no usable orbital
	// elements (e.g. an upstream parse failure).
	ErrMissingElements = errors.Register("heliotrace", 2, "catalog entry has no usable elements")

	// ErrUnsupportedOrbit means e=1 exactly, or e>=1 on the analytic path,
	// or an otherwise degenerate/ill-conditioned orbit for the requested
	// operation.
	ErrUnsupportedOrbit = errors.Register("heliotrace", 3, "orbit unsupported on this path")

	// ErrConvergenceFailure means the Kepler equation solver exceeded its
	// iteration cap.
	ErrConvergenceFailure = errors.Register("heliotrace", 4, "kepler solver did not converge")

	// ErrIntegrationFailure means the adaptive N-body integrator could not
	// meet tolerance: step-size underflow or a non-finite right-hand side.
	ErrIntegrationFailure = errors.Register("heliotrace", 5, "n-body integration failed")

	// ErrEphemerisUnavailable means a planet position was requested outside
	// the loaded kernel's time coverage.
	ErrEphemerisUnavailable = errors.Register("heliotrace", 6, "ephemeris unavailable for requested time")

	// ErrInvalidRequest means an out-of-range num_points/days, malformed
	// state vector, or a batch request exceeding configured limits.
	ErrInvalidRequest = errors.Register("heliotrace", 7, "invalid request")
)
