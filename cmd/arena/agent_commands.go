package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"arena/internal/control"
)

func newAgentCommand(ctx *commandContext) *cobra.Command {
	agentCmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage simulation agents",
	}

	agentCmd.AddCommand(&cobra.Command{
		Use:   "add <id>",
		Short: "Register a new agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *control.Client) error {
				if err := client.AgentAdd(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "agent %s added\n", args[0])
				return nil
			})
		},
	})

	agentCmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Unregister an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *control.Client) error {
				resp, err := client.AgentRemove(args[0])
				if err != nil {
					return err
				}
				if !resp.Removed {
					return fmt.Errorf("agent %s not found", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "agent %s removed\n", args[0])
				return nil
			})
		},
	})

	agentCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *control.Client) error {
				resp, err := client.AgentList()
				if err != nil {
					return err
				}
				if len(resp.Agents) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no agents registered")
					return nil
				}
				rows := make([][]string, 0, len(resp.Agents))
				for _, a := range resp.Agents {
					rows = append(rows, []string{
						a.ID,
						strconv.Itoa(a.MemoryEntries),
						strconv.Itoa(a.Actions),
						strconv.Itoa(a.PendingActions),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Agent", "Memory", "Actions", "Pending"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	})

	return agentCmd
}
