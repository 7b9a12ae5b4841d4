package main

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"arena/internal/control"
)

func newEventsCommand(ctx *commandContext) *cobra.Command {
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect and manage the event recording",
	}

	var limit int
	var fromTick, toTick uint64
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show recorded events, newest first or by tick range",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *control.Client) error {
				var recorded []control.EventRecord
				if cmd.Flags().Changed("from") || cmd.Flags().Changed("to") {
					if !cmd.Flags().Changed("to") {
						toTick = math.MaxUint64
					}
					resp, err := client.EventsRange(fromTick, toTick)
					if err != nil {
						return err
					}
					recorded = resp.Events
				} else {
					resp, err := client.EventsRecent(limit)
					if err != nil {
						return err
					}
					recorded = resp.Events
				}
				if len(recorded) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no events recorded")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Tick", "Type", "Agent", "Payload"},
					eventRows(recorded),
					[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of events to show")
	listCmd.Flags().Uint64Var(&fromTick, "from", 0, "Lowest tick to include")
	listCmd.Flags().Uint64Var(&toTick, "to", 0, "Highest tick to include")
	eventsCmd.AddCommand(listCmd)

	eventsCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Summarize the recording",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *control.Client) error {
				stats, err := client.EventsStats()
				if err != nil {
					return err
				}
				rows := [][]string{
					{"Total", strconv.FormatInt(stats.Total, 10)},
					{"First tick", strconv.FormatUint(stats.FirstTick, 10)},
					{"Last tick", strconv.FormatUint(stats.LastTick, 10)},
				}
				types := make([]string, 0, len(stats.ByType))
				for eventType := range stats.ByType {
					types = append(types, eventType)
				}
				sort.Strings(types)
				for _, eventType := range types {
					rows = append(rows, []string{eventType, strconv.FormatInt(stats.ByType[eventType], 10)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Field", "Value"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	})

	eventsCmd.AddCommand(&cobra.Command{
		Use:   "export <path>",
		Short: "Export the recording to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *control.Client) error {
				resp, err := client.EventsExport(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d events to %s\n", resp.Exported, resp.Path)
				return nil
			})
		},
	})

	eventsCmd.AddCommand(&cobra.Command{
		Use:   "import <path>",
		Short: "Load a previously exported recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *control.Client) error {
				resp, err := client.EventsImport(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d events from %s\n", resp.Imported, resp.Path)
				return nil
			})
		},
	})

	eventsCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop the recording",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *control.Client) error {
				resp, err := client.EventsClear()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d events\n", resp.Removed)
				return nil
			})
		},
	})

	var enable bool
	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Toggle event recording",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *control.Client) error {
				resp, err := client.RecordSet(enable)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "recording: %s\n", yesNo(resp.Recording))
				return nil
			})
		},
	}
	recordCmd.Flags().BoolVar(&enable, "enable", true, "Enable (true) or disable (false) recording")
	eventsCmd.AddCommand(recordCmd)

	return eventsCmd
}

func eventRows(recorded []control.EventRecord) [][]string {
	rows := make([][]string, 0, len(recorded))
	for _, evt := range recorded {
		payload := ""
		if len(evt.Payload) > 0 {
			if encoded, err := json.Marshal(evt.Payload); err == nil {
				payload = string(encoded)
			}
		}
		rows = append(rows, []string{
			strconv.FormatInt(evt.ID, 10),
			strconv.FormatUint(evt.Tick, 10),
			evt.Type,
			evt.AgentID,
			payload,
		})
	}
	return rows
}
