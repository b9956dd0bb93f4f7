package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/blackcoderx/colsync/pkg/core"
	"github.com/blackcoderx/colsync/pkg/tui"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	copyResult bool
	noProgress bool
)

func init() {
	callCmd.Flags().BoolVar(&copyResult, "copy", false, "copy the result to the clipboard")
	callCmd.Flags().BoolVar(&noProgress, "no-progress", false, "do not draw the progress indicator")
	rootCmd.AddCommand(toolsCmd, callCmd)
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the available tools and their parameters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := buildRegistry()
		if err != nil {
			return err
		}
		fmt.Print(render(toolsMarkdown(registry)))
		return nil
	},
}

var callCmd = &cobra.Command{
	Use:   "call <tool> [json-args]",
	Short: "Run one tool with JSON arguments",
	Example: `  colsync call search_collection_items '{"collection_uid":"123-abc","query":"login"}'
  colsync call add_request '{"collection_uid":"123-abc","request_path":"Auth/Refresh","method":"POST","url":"{{base}}/refresh","dry_run":true}'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := buildRegistry()
		if err != nil {
			return err
		}

		name, toolArgs := args[0], "{}"
		if len(args) == 2 {
			toolArgs = args[1]
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		fmt.Fprintln(os.Stderr, tui.ToolLine(name, toolArgs))
		interactive := !noProgress && term.IsTerminal(int(os.Stderr.Fd()))
		out, err := tui.RunWithProgress(ctx, name, os.Stderr, interactive, func(ctx context.Context) (string, error) {
			return registry.Execute(ctx, name, toolArgs)
		})
		if err != nil {
			return err
		}

		fmt.Println(out)
		if copyResult {
			if err := clipboard.WriteAll(out); err != nil {
				return fmt.Errorf("failed to copy result: %w", err)
			}
			fmt.Fprintln(os.Stderr, tui.HelpStyle.Render("  copied to clipboard"))
		}
		return nil
	},
}

// toolsMarkdown describes every registered tool as markdown.
func toolsMarkdown(registry *core.Registry) string {
	var sb strings.Builder
	sb.WriteString("# Tools\n\n")
	for _, t := range registry.Tools() {
		sb.WriteString("## " + t.Name() + "\n\n")
		sb.WriteString(t.Description() + "\n\n")
		sb.WriteString("```json\n" + t.Parameters() + "\n```\n\n")
	}
	return sb.String()
}

// render formats markdown for the terminal, falling back to the raw text.
func render(md string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
