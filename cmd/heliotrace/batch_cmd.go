package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/medasdigital/heliotrace/pkg/batch"
	"github.com/medasdigital/heliotrace/pkg/constants"
	"github.com/medasdigital/heliotrace/pkg/ephemeris"
	"github.com/medasdigital/heliotrace/pkg/nbody"
	"github.com/medasdigital/heliotrace/pkg/trajectory"
	"github.com/medasdigital/heliotrace/pkg/twobody"
)

var batchOutput string

var batchCmd = &cobra.Command{
	Use:   "batch [requests.json]",
	Short: "Resolve many propagation requests in parallel with memoization",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "write batch result JSON to this file instead of stdout")
}

// batchRequestJSON is the on-disk shape of one element of the
// requests.json array:
// plain strings for method and planet names, converted to the typed
// batch.Request the driver consumes.
type batchRequestJSON struct {
	Designation string   `json:"designation"`
	StartTime   float64  `json:"start_time"`
	Days        float64  `json:"days"`
	NumPoints   int      `json:"num_points"`
	Method      string   `json:"method"`
	Planets     []string `json:"planets,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading batch request file %q: %w", args[0], err)
	}

	var raw []batchRequestJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding batch request file %q: %w", args[0], err)
	}

	requests := make([]batch.Request, 0, len(raw))
	for _, r := range raw {
		planets, err := parsePlanets(r.Planets)
		if err != nil {
			return err
		}
		requests = append(requests, batch.Request{
			Designation: r.Designation,
			StartTime:   r.StartTime,
			Days:        r.Days,
			NumPoints:   r.NumPoints,
			Method:      trajectory.Method(r.Method),
			Planets:     planets,
		})
	}

	driver, err := batch.New(cat, twobody.New(), nbodyFactory, cfg.Batch.CacheCapacity, cfg.Batch.MaxSize)
	if err != nil {
		return fmt.Errorf("constructing batch driver: %w", err)
	}

	result, err := driver.Run(requests)
	if err != nil {
		return fmt.Errorf("batch run failed: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling batch result: %w", err)
	}
	if batchOutput == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := os.WriteFile(batchOutput, out, 0644); err != nil {
		return fmt.Errorf("writing batch result to %q: %w", batchOutput, err)
	}
	fmt.Printf("wrote %s\n", batchOutput)
	return nil
}

func nbodyFactory(planets []constants.Planet) trajectory.Propagator {
	return nbody.NewWithProvider(planets, ephemeris.Get())
}
