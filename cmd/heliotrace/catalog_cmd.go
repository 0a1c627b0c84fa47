package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/medasdigital/heliotrace/pkg/ephemeris"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the loaded designation catalog",
}

var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the number of designations loaded and the active ephemeris sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("%d designations loaded\n", cat.Len())
		avail := ephemeris.Get().Availability()
		fmt.Printf("ephemeris kernel loaded: %t\n", avail.Kernel)
		fmt.Printf("mean-element fallback available: %t\n", avail.MeanElements)
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every designation currently loaded",
	RunE: func(cmd *cobra.Command, args []string) error {
		designations := cat.List()
		sort.Strings(designations)
		for _, d := range designations {
			fmt.Println(d)
		}
		return nil
	},
}
