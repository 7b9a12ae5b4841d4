package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"arena/internal/control"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and simulation status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *control.Client) error {
				status, err := client.Status()
				if err != nil {
					return err
				}
				rows := [][]string{
					{"Daemon", yesNo(status.Started)},
					{"PID", strconv.Itoa(status.PID)},
					{"Session", status.SessionID},
					{"Runtime", status.RuntimeURL},
					{"Connected", yesNo(status.Connected)},
					{"Recording", yesNo(status.Recording)},
					{"Simulation", runningLabel(status.SimRunning)},
					{"Tick", strconv.FormatUint(status.Tick, 10)},
					{"Tick rate", fmt.Sprintf("%.1f/s", status.TickRate)},
					{"Seed", strconv.FormatUint(status.Seed, 10)},
					{"Agents", strconv.Itoa(status.Agents)},
					{"Tools", strconv.Itoa(status.Tools)},
					{"Queue depth", strconv.Itoa(status.QueueDepth)},
					{"In flight", yesNo(status.InFlight)},
					{"Event store", status.StorePath},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Field", "Value"},
					rows,
					[]columnAlignment{alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func runningLabel(running bool) string {
	if running {
		return "running"
	}
	return "paused"
}
