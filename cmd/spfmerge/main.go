package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/yurifrl/spfmerge/pkg/config"
	"github.com/yurifrl/spfmerge/pkg/executors"
	"github.com/yurifrl/spfmerge/pkg/plan"
)

var (
	cfgFile  string
	planFile string
	verbose  bool
	noColor  bool
)

var rootCmd = &cobra.Command{
	Use:          "spfmerge",
	Short:        "Align SPF survey forecasts and merge them with realized outcomes",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the forecast panels and merge them with the realized series",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()

		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		p, err := loadPlan()
		if err != nil {
			return err
		}

		report := executors.New(logger, cfg).Apply(p)
		for _, item := range report.Items {
			logger.Info("step finished", "step", item.Step, "status", item.Status, "rows", item.Rows, "output", item.Output)
		}
		if n := report.FailedCount(); n > 0 {
			return fmt.Errorf("%d of %d step(s) failed: %w", n, len(report.Items), report.Err())
		}
		return nil
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Preview the steps of a run and their inputs (dry-run)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		p, err := loadPlan()
		if err != nil {
			return err
		}
		return executors.New(newLogger(), cfg).Preview(cmd.OutOrStdout(), p)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		pp.Default.SetColoringEnabled(!noColor)
		_, err = pp.Fprintln(cmd.OutOrStdout(), cfg)
		return err
	},
}

func newLogger() *log.Logger {
	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          "spfmerge",
	}
	if verbose {
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
	}
	return log.NewWithOptions(os.Stderr, opts)
}

func loadPlan() (*plan.Plan, error) {
	if planFile == "" {
		return plan.Default(), nil
	}
	return plan.Load(planFile)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is ./spfmerge.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	config.RegisterFlags(rootCmd.PersistentFlags())

	runCmd.Flags().StringVarP(&planFile, "plan", "p", "", "YAML plan selecting the steps to run")
	planCmd.Flags().StringVarP(&planFile, "plan", "p", "", "YAML plan selecting the steps to preview")
	configCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(targetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
