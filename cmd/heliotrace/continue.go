package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/medasdigital/heliotrace/pkg/trajectory"
)

var (
	continueStateFile string
	continueDays      float64
	continuePoints    int
	continueMethod    string
	continuePlanets   []string
	continueOutput    string
)

var continueCmd = &cobra.Command{
	Use:   "continue",
	Short: "Resume propagation from a previously returned state vector",
	Long: `continue reads a StateVector JSON file (the final_state field of a
prior propagate or continue result) and advances it by --days more,
carrying no server-side session: everything needed to resume lives in the
state file.`,
	RunE: runContinue,
}

func init() {
	continueCmd.Flags().StringVar(&continueStateFile, "state-file", "", "path to a JSON-encoded StateVector (required)")
	continueCmd.Flags().Float64Var(&continueDays, "days", 365, "additional propagation span in days")
	continueCmd.Flags().IntVar(&continuePoints, "points", 50, "number of samples")
	continueCmd.Flags().StringVar(&continueMethod, "method", "twobody", "propagation method: twobody or nbody")
	continueCmd.Flags().StringSliceVar(&continuePlanets, "planets", nil, "perturbing planets for --method nbody")
	continueCmd.Flags().StringVar(&continueOutput, "output", "", "write result JSON to this file instead of stdout")
	continueCmd.MarkFlagRequired("state-file")
}

func runContinue(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(continueStateFile)
	if err != nil {
		return fmt.Errorf("reading state file %q: %w", continueStateFile, err)
	}

	var state trajectory.StateVector
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("decoding state file %q: %w", continueStateFile, err)
	}

	propagator, err := buildPropagator(continueMethod, continuePlanets)
	if err != nil {
		return err
	}

	result, err := propagator.PropagateFromState(state, continueDays, continuePoints)
	if err != nil {
		return fmt.Errorf("continuation failed: %w", err)
	}

	return writeResult(result, continueOutput)
}
