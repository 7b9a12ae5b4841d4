package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"arena/internal/control"
)

func newSimCommand(ctx *commandContext) *cobra.Command {
	simCmd := &cobra.Command{
		Use:   "sim",
		Short: "Control the simulation tick loop",
	}

	simCmd.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start the tick loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *control.Client) error {
				resp, err := client.SimStart()
				if err != nil {
					return err
				}
				if !resp.Started {
					return errors.New(resp.Message)
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
				return nil
			})
		},
	})

	simCmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop the tick loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *control.Client) error {
				resp, err := client.SimStop()
				if err != nil {
					return err
				}
				if !resp.Stopped {
					return errors.New(resp.Message)
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
				return nil
			})
		},
	})

	var stepCount int
	stepCmd := &cobra.Command{
		Use:   "step",
		Short: "Advance the paused simulation by N ticks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *control.Client) error {
				resp, err := client.SimStep(stepCount)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "advanced to tick %d\n", resp.Tick)
				return nil
			})
		},
	}
	stepCmd.Flags().IntVarP(&stepCount, "count", "n", 1, "Number of ticks to advance")
	simCmd.AddCommand(stepCmd)

	simCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Rewind the simulation to tick zero",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *control.Client) error {
				if _, err := client.SimReset(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "simulation reset to tick 0")
				return nil
			})
		},
	})

	return simCmd
}
