package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Konsultn-Engineering/fastrefl"
	"github.com/Konsultn-Engineering/fastrefl/bench"
)

// NewBenchCommand creates the bench command
func NewBenchCommand(a *app) *cobra.Command {
	var (
		iterations int
		groups     []string
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare native, reflective and cached member access",
		Long: fmt.Sprintf(`Run the member access scenarios and print the time per operation.

Groups: %v`, bench.Groups),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("iterations") {
				iterations = a.cfg.Bench.Iterations
			}
			r, err := fastrefl.NewFromConfig(a.cfg, a.log)
			if err != nil {
				return err
			}
			scenarios, err := bench.Scenarios(r)
			if err != nil {
				return err
			}
			results, err := bench.Run(cmd.Context(), bench.Filter(scenarios, groups...), iterations)
			if err != nil {
				return err
			}
			printResults(cmd, results)

			faint := color.New(color.Faint)
			for _, s := range r.Registry().Stats().All() {
				faint.Fprintln(cmd.OutOrStdout(), s.String())
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 0, "Iterations per scenario (default from config)")
	cmd.Flags().StringSliceVarP(&groups, "group", "g", nil, "Only run these groups")
	return cmd
}

var modeColors = map[bench.Mode]*color.Color{
	bench.Native:  color.New(color.FgWhite),
	bench.Reflect: color.New(color.FgYellow),
	bench.Generic: color.New(color.FgMagenta),
	bench.Fast:    color.New(color.FgGreen, color.Bold),
}

func printResults(cmd *cobra.Command, results []bench.Result) {
	out := cmd.OutOrStdout()
	titleColor := color.New(color.FgCyan, color.Bold)

	group := ""
	for _, r := range results {
		if r.Scenario.Group != group {
			group = r.Scenario.Group
			titleColor.Fprintf(out, "\n%s\n", group)
		}
		modeColors[r.Scenario.Mode].Fprintln(out, r.String())
	}
}
