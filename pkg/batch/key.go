// Package batch resolves many propagation requests in parallel with
// memoization: one worker pool for the analytic two-body method, one for
// the CPU-bound N-body integrator, each sized to the smaller of the host's
// core count and the number of jobs of that kind.
package batch

import (
	"fmt"

	"github.com/medasdigital/heliotrace/pkg/constants"
	"github.com/medasdigital/heliotrace/pkg/trajectory"
)

// CacheKey identifies a memoizable unit of work by its (designation,
// span, sample count, method) tuple. The planet set is not part of the
// key, so N-body requests that differ only in Planets share one cache
// entry.
type CacheKey struct {
	Designation string
	StartTime   float64
	EndTime     float64
	NumPoints   int
	Method      trajectory.Method
}

func (k CacheKey) String() string {
	return fmt.Sprintf("%s|%.6f|%.6f|%d|%s", k.Designation, k.StartTime, k.EndTime, k.NumPoints, k.Method)
}

// Request is one unit of batch work: propagate designation's catalog
// elements over [StartTime, StartTime+Days] at NumPoints samples, using
// Method. Planets is only consulted for Method == trajectory.NBody.
type Request struct {
	Designation string
	StartTime   float64
	Days        float64
	NumPoints   int
	Method      trajectory.Method
	Planets     []constants.Planet
}

func (r Request) cacheKey() CacheKey {
	return CacheKey{
		Designation: r.Designation,
		StartTime:   r.StartTime,
		EndTime:     r.StartTime + r.Days,
		NumPoints:   r.NumPoints,
		Method:      r.Method,
	}
}
