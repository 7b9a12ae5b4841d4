package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"arena/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := samplePath(ctx)
			if err != nil {
				return err
			}
			if err := config.CreateSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote sample configuration to %s\n", path)
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rows := [][]string{
				{"Data dir", cfg.Paths.DataDir},
				{"Log dir", cfg.Paths.LogDir},
				{"Socket", cfg.Paths.SocketPath},
				{"Runtime URL", cfg.Runtime.BaseURL},
				{"Request timeout", fmt.Sprintf("%ds", cfg.Runtime.RequestTimeoutSeconds)},
				{"Health interval", fmt.Sprintf("%ds", cfg.Runtime.HealthIntervalSeconds)},
				{"Tick rate", fmt.Sprintf("%.1f/s", cfg.Simulation.TickRate)},
				{"Seed", fmt.Sprintf("%d", cfg.Simulation.Seed)},
				{"Record on start", yesNo(cfg.Events.RecordOnStart)},
				{"Log format", cfg.Logging.Format},
				{"Log level", cfg.Logging.Level},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Setting", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	})

	return configCmd
}

func samplePath(ctx *commandContext) (string, error) {
	if ctx.configFlag != nil && *ctx.configFlag != "" {
		return *ctx.configFlag, nil
	}
	return config.DefaultConfigPath()
}
