package main

import (
	"encoding/json"
	"fmt"

	"contactbook/internal/mcpserver"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMCPCmd(runners runnerFactory) *cobra.Command {
	serve := newMCPServeCmd(runners)
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server and tool access",
		Args:  cobra.NoArgs,
		RunE:  serve.RunE,
	}
	cmd.AddCommand(
		serve,
		newMCPToolsCmd(runners),
		newMCPCallCmd(runners),
	)
	return cmd
}

func newMCPServeCmd(runners runnerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the contact tools over stdio",
		Args:  cobra.NoArgs,
		RunE: run(runners, func(cmd *cobra.Command, args []string, a *app) error {
			s, err := mcpserver.New(a.dispatcher, version, a.logger)
			if err != nil {
				return err
			}
			a.logger.Info("mcp server listening on stdio", zap.String("version", version))
			return s.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		}),
	}
}

type toolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func newMCPToolsCmd(runners runnerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools exposed by the MCP server",
		Args:  cobra.NoArgs,
		RunE: run(runners, func(cmd *cobra.Command, args []string, a *app) error {
			format, _ := cmd.Flags().GetString("format")
			registry := a.dispatcher.Registry()
			switch format {
			case "text":
				return a.printer.Tools(registry.Tools())
			case "json":
				infos := make([]toolInfo, 0, len(registry.Names()))
				for _, tool := range registry.Tools() {
					infos = append(infos, toolInfo{Name: tool.Name(), Description: tool.Description(), InputSchema: tool.Schema()})
				}
				return a.printer.JSON(infos)
			case "openai":
				return a.printer.JSON(registry.OpenAITools())
			default:
				return fmt.Errorf("unknown format %q (want text, json or openai)", format)
			}
		}),
	}
	cmd.Flags().String("format", "text", "Output format: text, json or openai")
	return cmd
}

func newMCPCallCmd(runners runnerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Call one tool and print its JSON result",
		Args:  cobra.ExactArgs(1),
		RunE: run(runners, func(cmd *cobra.Command, args []string, a *app) error {
			raw, _ := cmd.Flags().GetString("args")
			res, err := a.dispatcher.CallJSON(cmd.Context(), args[0], json.RawMessage(raw))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			return err
		}),
	}
	cmd.Flags().String("args", "{}", "Tool arguments as a JSON object")
	return cmd
}
