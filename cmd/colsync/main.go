package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blackcoderx/colsync/pkg/core"
	"github.com/blackcoderx/colsync/pkg/core/tools"
	"github.com/blackcoderx/colsync/pkg/logging"
	"github.com/blackcoderx/colsync/pkg/postman"
	"github.com/blackcoderx/colsync/pkg/reconcile"
	"github.com/blackcoderx/colsync/pkg/tui"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// envFiles are loaded before the config is read. Variables already set in
// the environment win.
var envFiles = []string{".env", ".postman_env"}

var (
	cfgFile   string
	verbosity int
	rootCmd   = &cobra.Command{
		Use:   "colsync",
		Short: "colsync - edit Postman collections from the terminal",
		Long: `colsync edits Postman collections by path. Request changes are written to the
project's local collection file first and pushed with its sync script; everything
else goes straight to the Postman API.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .colsync/config.json)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v, -vv, -vvv)")
}

func initConfig() {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", f, err)
		}
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(core.FolderName)
		viper.SetConfigType("json")
		viper.SetConfigName("config")
	}

	core.SetDefaults(viper.GetViper())
	_ = viper.ReadInConfig()

	level := verbosity
	if level == 0 {
		level = viper.GetInt("log.verbosity")
	}
	logging.SetupLogger(level)
}

// workspaceDir returns the folder holding environments: the config file's
// directory when one was loaded, else .colsync in the working directory.
func workspaceDir() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return filepath.Dir(used)
	}
	return core.FolderName
}

// buildRegistry wires the Postman client, the reconciler and the tools.
func buildRegistry() (*core.Registry, error) {
	settings, err := core.LoadSettings(viper.GetViper())
	if err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	client := postman.NewClient(settings.PostmanConfig(), logging.GetLogger("postman"))

	runner := reconcile.NewCommandRunner(settings.Sync.Timeout, logging.GetLogger("runner"))
	sync := reconcile.NewSyncScript(settings.Sync.Shell, settings.Sync.Script, settings.Sync.OutputLimit,
		runner, logging.GetLogger("sync"))
	reconciler := reconcile.New(client, settings.Resolver(cwd), sync, logging.GetLogger("reconcile"))

	registry := core.NewRegistry()
	tools.RegisterAll(registry, tools.Deps{
		API:        client,
		Reconciler: reconciler,
		BaseDir:    workspaceDir(),
		ShowPatch:  settings.Sync.ShowPatch,
		Newman: tools.NewmanConfig{
			Path:        settings.Newman.Path,
			Timeout:     settings.Newman.Timeout,
			OutputLimit: settings.Newman.OutputLimit,
		},
		Logger: logging.GetLogger("tools"),
	})
	return registry, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tui.ErrorLine(err.Error()))
		os.Exit(1)
	}
}
