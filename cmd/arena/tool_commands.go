package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"arena/internal/control"
)

func newToolCommand(ctx *commandContext) *cobra.Command {
	toolCmd := &cobra.Command{
		Use:   "tool",
		Short: "Manage and invoke runtime tools",
	}

	toolCmd.AddCommand(newToolListCommand(ctx))
	toolCmd.AddCommand(newToolRegisterCommand(ctx))
	toolCmd.AddCommand(newToolUnregisterCommand(ctx))
	toolCmd.AddCommand(newToolCallCommand(ctx))
	return toolCmd
}

func newToolListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered tool schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *control.Client) error {
				resp, err := client.ToolList()
				if err != nil {
					return err
				}
				if len(resp.Tools) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no tools registered")
					return nil
				}
				rows := make([][]string, 0, len(resp.Tools))
				for _, tool := range resp.Tools {
					params := make([]string, 0, len(tool.Params))
					for _, param := range tool.Params {
						label := param.Name + ":" + param.Type
						if param.Required {
							label += "*"
						}
						params = append(params, label)
					}
					rows = append(rows, []string{
						tool.DisplayName,
						tool.Name,
						strings.Join(params, ", "),
						tool.Description,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Tool", "Name", "Params", "Description"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newToolRegisterCommand(ctx *commandContext) *cobra.Command {
	var description string
	var params []string

	registerCmd := &cobra.Command{
		Use:   "register <name>",
		Short: "Register a tool schema",
		Long: `Register a tool schema with the daemon.

Parameters are given as name:type or name:type:required, for example:
  arena tool register gather_wood --param amount:integer:required`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool := control.ToolInfo{Name: args[0], Description: description}
			for _, spec := range params {
				param, err := parseParamSpec(spec)
				if err != nil {
					return err
				}
				tool.Params = append(tool.Params, param)
			}
			return ctx.withClient(func(client *control.Client) error {
				if err := client.ToolRegister(tool); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "tool %s registered\n", tool.Name)
				return nil
			})
		},
	}
	registerCmd.Flags().StringVarP(&description, "description", "d", "", "Tool description")
	registerCmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Parameter spec name:type[:required]")
	return registerCmd
}

func newToolUnregisterCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unregister <name>",
		Short: "Remove a tool schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *control.Client) error {
				resp, err := client.ToolUnregister(args[0])
				if err != nil {
					return err
				}
				if !resp.Removed {
					return fmt.Errorf("tool %s not found", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "tool %s unregistered\n", args[0])
				return nil
			})
		},
	}
}

func newToolCallCommand(ctx *commandContext) *cobra.Command {
	var agentID string
	var paramsJSON string

	callCmd := &cobra.Command{
		Use:   "call <name>",
		Short: "Submit a tool invocation",
		Long: `Submit a tool invocation through the request channel.

The command returns as soon as the request is queued; the outcome is
recorded as a tool_completed or tool_failed event.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params map[string]any
			if strings.TrimSpace(paramsJSON) != "" {
				if err := json.Unmarshal([]byte(paramsJSON), &params); err != nil {
					return fmt.Errorf("parse --params: %w", err)
				}
			}
			return ctx.withClient(func(client *control.Client) error {
				resp, err := client.ToolCall(agentID, args[0], params)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "queued %s at position %d (correlation %s)\n",
					args[0], resp.Position, resp.CorrelationID)
				return nil
			})
		},
	}
	callCmd.Flags().StringVarP(&agentID, "agent", "a", "", "Agent id to attribute the call to")
	callCmd.Flags().StringVar(&paramsJSON, "params", "", "Tool parameters as a JSON object")
	return callCmd
}

func parseParamSpec(spec string) (control.ToolParam, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return control.ToolParam{}, fmt.Errorf("invalid param spec %q, want name:type[:required]", spec)
	}
	param := control.ToolParam{Name: strings.TrimSpace(parts[0]), Type: strings.TrimSpace(parts[1])}
	if param.Name == "" || param.Type == "" {
		return control.ToolParam{}, fmt.Errorf("invalid param spec %q, want name:type[:required]", spec)
	}
	if len(parts) == 3 {
		switch strings.ToLower(strings.TrimSpace(parts[2])) {
		case "required":
			param.Required = true
		case "optional", "":
		default:
			if required, err := strconv.ParseBool(parts[2]); err == nil {
				param.Required = required
			} else {
				return control.ToolParam{}, fmt.Errorf("invalid param modifier %q in %q", parts[2], spec)
			}
		}
	}
	return param, nil
}
