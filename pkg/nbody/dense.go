package nbody

import "github.com/medasdigital/heliotrace/pkg/vector3"

// denseSegment is one accepted integration step, kept so that any time
// within [t0, t1] can be evaluated by interpolation without
// re-integrating. f0 and f1 are the derivatives at the endpoints
// (available for free under first-same-as-last reuse), letting a cubic
// Hermite interpolant match both the state and its derivative exactly at
// the segment boundaries.
type denseSegment struct {
	t0, t1 float64
	y0, y1 state
	f0, f1 state
}

func (seg denseSegment) contains(t float64) bool {
	return t >= seg.t0 && t <= seg.t1
}

// interpolate evaluates the cubic Hermite interpolant for this segment at
// time t, matching state and derivative at both endpoints.
func (seg denseSegment) interpolate(t float64) state {
	h := seg.t1 - seg.t0
	theta := (t - seg.t0) / h

	h00 := 2*theta*theta*theta - 3*theta*theta + 1
	h10 := theta*theta*theta - 2*theta*theta + theta
	h01 := -2*theta*theta*theta + 3*theta*theta
	h11 := theta*theta*theta - theta*theta

	combine := func(y0, y1, f0, f1 float64) float64 {
		return h00*y0 + h10*h*f0 + h01*y1 + h11*h*f1
	}

	return state{
		R: vector3.Vector3{
			X: combine(seg.y0.R.X, seg.y1.R.X, seg.f0.R.X, seg.f1.R.X),
			Y: combine(seg.y0.R.Y, seg.y1.R.Y, seg.f0.R.Y, seg.f1.R.Y),
			Z: combine(seg.y0.R.Z, seg.y1.R.Z, seg.f0.R.Z, seg.f1.R.Z),
		},
		V: vector3.Vector3{
			X: combine(seg.y0.V.X, seg.y1.V.X, seg.f0.V.X, seg.f1.V.X),
			Y: combine(seg.y0.V.Y, seg.y1.V.Y, seg.f0.V.Y, seg.f1.V.Y),
			Z: combine(seg.y0.V.Z, seg.y1.V.Z, seg.f0.V.Z, seg.f1.V.Z),
		},
	}
}
