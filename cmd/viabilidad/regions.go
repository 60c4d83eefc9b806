package main

import (
	"fmt"

	"viabilidad/internal/itp"
	"github.com/spf13/cobra"
)

func regionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List the regions with known transfer tax rates",
		Run: func(_ *cobra.Command, _ []string) {
			table := itp.DefaultTable()
			for _, region := range table.Regions() {
				rate, _ := table.Lookup(region)
				fmt.Printf("%-24s %.1f%%\n", region, rate.General)
			}
		},
	}
}
