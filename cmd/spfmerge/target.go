package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yurifrl/spfmerge/pkg/period"
)

var targetCmd = &cobra.Command{
	Use:   "target <vintage>",
	Short: "Show the target periods selected for a survey vintage, e.g. 2021Q3",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := period.ParseVintage(args[0] + ".csv")
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, rule := range []period.Rule{period.ThreeQuarters, period.GDPQuarter, period.UnemploymentMonth} {
			label, err := v.Target(rule)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-20s %s\n", rule, label)
		}
		return nil
	},
}
