package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/blackcoderx/colsync/pkg/core"
	"github.com/blackcoderx/colsync/pkg/reconcile"
	"github.com/blackcoderx/colsync/pkg/tui"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	initCollections []string
	initSyncScript  string
	initBaseURL     string
	initNoInput     bool
)

func init() {
	initCmd.Flags().StringArrayVar(&initCollections, "collection", nil, "map a collection to its local file, as name=file (repeatable)")
	initCmd.Flags().StringVar(&initSyncScript, "sync-script", "", "sync script relative to the project root")
	initCmd.Flags().StringVar(&initBaseURL, "base-url", "", "BASE_URL for the dev environment")
	initCmd.Flags().BoolVar(&initNoInput, "no-input", false, "do not prompt, use flags and defaults only")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the .colsync workspace folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := parseInitFlags(initCollections, initSyncScript)
		if err != nil {
			return err
		}
		opts.BaseURL = strings.TrimSpace(initBaseURL)

		if !initNoInput && len(opts.Collections) == 0 && term.IsTerminal(int(os.Stdin.Fd())) {
			if err := promptInitOptions(&opts); err != nil {
				return err
			}
		}

		created, err := core.InitializeFolder(".", opts)
		if err != nil {
			return err
		}
		if created {
			fmt.Println(tui.ToolStyle.Render("Created " + core.FolderName + "/"))
		} else {
			fmt.Println(tui.HelpStyle.Render(core.FolderName + "/ already exists, missing files were added"))
		}
		return nil
	},
}

// parseInitFlags turns name=file pairs into init options.
func parseInitFlags(pairs []string, script string) (core.InitOptions, error) {
	opts := core.InitOptions{Collections: map[string]string{}, SyncScript: script}
	for _, p := range pairs {
		name, file, ok := strings.Cut(p, "=")
		name, file = strings.TrimSpace(name), strings.TrimSpace(file)
		if !ok || name == "" || file == "" {
			return opts, fmt.Errorf("invalid --collection %q, want name=file", p)
		}
		opts.Collections[name] = file
	}
	return opts, nil
}

// promptInitOptions asks for one collection mapping, the sync script and
// the dev BASE_URL.
func promptInitOptions(opts *core.InitOptions) error {
	var name, file string
	script := opts.SyncScript
	baseURL := opts.BaseURL
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Collection name").
				Description("info.name of a collection kept in this project (optional)").
				Value(&name),
			huh.NewInput().
				Title("Collection file").
				Description("file name inside " + reconcile.DefaultSubdir).
				Placeholder("<name>.postman_collection.json").
				Value(&file),
			huh.NewInput().
				Title("Sync script").
				Placeholder(reconcile.DefaultScript).
				Value(&script),
			huh.NewInput().
				Title("Dev BASE_URL").
				Placeholder("http://localhost:3000").
				Value(&baseURL),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("init cancelled: %w", err)
	}

	if name = strings.TrimSpace(name); name != "" {
		if file = strings.TrimSpace(file); file == "" {
			file = name + ".postman_collection.json"
		}
		opts.Collections[name] = file
	}
	opts.SyncScript = strings.TrimSpace(script)
	opts.BaseURL = strings.TrimSpace(baseURL)
	return nil
}
