// Command heliotrace exposes propagate, continue, batch, and catalog
// operations over the heliocentric trajectory engine.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/medasdigital/heliotrace/internal/catalog"
	"github.com/medasdigital/heliotrace/internal/config"
	"github.com/medasdigital/heliotrace/pkg/ephemeris"
)

const appName = "heliotrace"

var (
	cfgFile     string
	homeDir     string
	catalogPath string

	cfg *config.Config
	cat *catalog.Catalog
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Heliocentric small-body trajectory engine",
	Long: `heliotrace propagates small-body orbits around the Sun using either
an analytic two-body Kepler solution or an adaptive N-body integrator
perturbed by the gas giants, with a parallel batch driver and a stateless
continuation protocol for resuming long propagations.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initRuntime()
	},
}

func initRuntime() error {
	if homeDir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			homeDir = filepath.Join(home, ".heliotrace")
		}
	}

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	cfg = loaded

	if err := ephemeris.Init(ephemeris.InitOptions{KernelPath: cfg.Ephemeris.KernelPath}); err != nil {
		return fmt.Errorf("initializing ephemeris: %w", err)
	}

	seeded, err := catalog.Seed()
	if err != nil {
		return fmt.Errorf("loading built-in catalog: %w", err)
	}
	cat = seeded

	if catalogPath != "" {
		external, err := catalog.LoadCSV(catalogPath)
		if err != nil {
			return fmt.Errorf("loading external catalog %q: %w", catalogPath, err)
		}
		cat.Merge(external)
	}

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./heliotrace.yaml or $HOME/.heliotrace/heliotrace.yaml)")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "home directory (default: $HOME/.heliotrace)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "external catalog CSV, merged over the built-in seed catalog")

	rootCmd.AddCommand(propagateCmd)
	rootCmd.AddCommand(continueCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.AddCommand(catalogStatsCmd)
	catalogCmd.AddCommand(catalogListCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
