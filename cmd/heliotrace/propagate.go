package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/medasdigital/heliotrace/pkg/constants"
	"github.com/medasdigital/heliotrace/pkg/nbody"
	"github.com/medasdigital/heliotrace/pkg/trajectory"
	"github.com/medasdigital/heliotrace/pkg/twobody"
)

var (
	propagateDays     float64
	propagatePoints   int
	propagateMethod   string
	propagatePlanets  []string
	propagateOutput   string
	propagateSnapshot string
)

var propagateCmd = &cobra.Command{
	Use:   "propagate [designation]",
	Short: "Propagate a catalog body's orbit forward in time",
	Args:  cobra.ExactArgs(1),
	RunE:  runPropagate,
}

func init() {
	propagateCmd.Flags().Float64Var(&propagateDays, "days", 365, "propagation span in days")
	propagateCmd.Flags().IntVar(&propagatePoints, "points", 50, "number of samples")
	propagateCmd.Flags().StringVar(&propagateMethod, "method", "twobody", "propagation method: twobody or nbody")
	propagateCmd.Flags().StringSliceVar(&propagatePlanets, "planets", nil, "perturbing planets for --method nbody (default: ephemeris.default_planets from the config)")
	propagateCmd.Flags().StringVar(&propagateOutput, "output", "", "write result JSON to this file instead of stdout")
	propagateCmd.Flags().StringVar(&propagateSnapshot, "snapshot", "", "write per-step JSONL body-state snapshots to this file (method nbody only)")
}

func runPropagate(cmd *cobra.Command, args []string) error {
	designation := args[0]

	elements, err := cat.Find(designation)
	if err != nil {
		return err
	}

	propagator, err := buildPropagator(propagateMethod, propagatePlanets)
	if err != nil {
		return err
	}

	if propagateSnapshot != "" {
		nbodyPropagator, ok := propagator.(*nbody.Propagator)
		if !ok {
			return trajectory.ErrInvalidRequest.Wrap("--snapshot requires --method nbody")
		}
		if err := runSnapshot(nbodyPropagator, elements, designation); err != nil {
			return fmt.Errorf("snapshot run failed: %w", err)
		}
	}

	result, err := propagator.PropagateElements(elements, elements.Epoch, propagateDays, propagatePoints)
	if err != nil {
		return fmt.Errorf("propagation failed: %w", err)
	}
	result = trajectory.WithDesignation(result, designation)

	return writeResult(result, propagateOutput)
}

// runSnapshot drives propagator's diagnostic JSONL snapshot output
// alongside the normal sampled result, one record every snapshotEvery
// accepted integration steps.
func runSnapshot(propagator *nbody.Propagator, elements trajectory.Elements, designation string) error {
	const snapshotEvery = 1

	sink, err := nbody.NewJSONLSnapshotWriter(propagateSnapshot)
	if err != nil {
		return fmt.Errorf("opening snapshot file %q: %w", propagateSnapshot, err)
	}
	defer sink.Close()

	if err := propagator.PropagateElementsWithSnapshots(elements, elements.Epoch, propagateDays, designation, sink, snapshotEvery); err != nil {
		return err
	}
	fmt.Printf("wrote snapshots to %s\n", propagateSnapshot)
	return nil
}

func buildPropagator(method string, planetNames []string) (trajectory.Propagator, error) {
	switch trajectory.Method(method) {
	case trajectory.TwoBody:
		return twobody.New(), nil
	case trajectory.NBody:
		planets, err := parsePlanets(planetNames)
		if err != nil {
			return nil, err
		}
		return nbody.New(planets), nil
	default:
		return nil, trajectory.ErrInvalidRequest.Wrapf("unknown method %q: want twobody or nbody", method)
	}
}

func parsePlanets(names []string) ([]constants.Planet, error) {
	if len(names) == 0 {
		return cfg.Ephemeris.Planets()
	}
	out := make([]constants.Planet, 0, len(names))
	for _, name := range names {
		p, err := parsePlanetName(name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func parsePlanetName(name string) (constants.Planet, error) {
	switch constants.Planet(strings.ToLower(name)) {
	case constants.Mercury, constants.Venus, constants.Earth, constants.Mars,
		constants.Jupiter, constants.Saturn, constants.Uranus, constants.Neptune:
		return constants.Planet(strings.ToLower(name)), nil
	default:
		return "", trajectory.ErrInvalidRequest.Wrapf("unknown planet %q", name)
	}
}

func writeResult(result trajectory.Result, outputPath string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	if outputPath == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("writing result to %q: %w", outputPath, err)
	}
	fmt.Printf("wrote %s\n", outputPath)
	return nil
}
