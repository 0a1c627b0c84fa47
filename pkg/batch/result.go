package batch

import "github.com/medasdigital/heliotrace/pkg/trajectory"

// Result is the partial-failure-tolerant outcome of a batch run: every
// request lands in exactly one of the three maps, keyed by designation.
// A failure in one job never fails the batch as a whole.
type Result struct {
	Results  map[string]trajectory.Result `json:"results"`
	Errors   map[string]string            `json:"errors"`
	NotFound map[string]bool              `json:"not_found"`
}

func newResult() Result {
	return Result{
		Results:  make(map[string]trajectory.Result),
		Errors:   make(map[string]string),
		NotFound: make(map[string]bool),
	}
}
