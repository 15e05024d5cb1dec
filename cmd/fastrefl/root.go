package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/fastrefl/config"
)

// app carries what every subcommand needs once the root command has loaded
// the configuration.
type app struct {
	configPath string
	cfg        *config.Config
	log        *zap.Logger
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	a := &app{cfg: config.Default(), log: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "fastrefl",
		Short: "Fast reflective member access tooling",
		Long: color.CyanString(`fastrefl - fast reflective member access

Generates typed accessors for the types of a package and measures direct,
reflective and cached member access.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file (default ./fastrefl.yaml)")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewGenCommand(a))
	rootCmd.AddCommand(NewBenchCommand(a))

	return rootCmd
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := cfg.Log.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	a.log = logger
	return nil
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
