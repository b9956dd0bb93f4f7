package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blackcoderx/colsync/pkg/postman"
	"github.com/blackcoderx/colsync/pkg/reconcile"
	"github.com/blackcoderx/colsync/pkg/storage"
)

// FolderName is the per-project workspace directory.
const FolderName = ".colsync"

// ConfigFileName is the config file inside FolderName.
const ConfigFileName = "config.json"

// fileConfig is the layout of a fresh config.json.
type fileConfig struct {
	Postman struct {
		BaseURL           string `json:"base_url"`
		APIKey            string `json:"api_key"`
		Timeout           string `json:"timeout"`
		RequestsPerMinute int    `json:"requests_per_minute"`
		SSLVerify         bool   `json:"ssl_verify"`
	} `json:"postman"`
	Local struct {
		Collections map[string]string `json:"collections"`
		Subdir      string            `json:"subdir"`
		MaxParents  int               `json:"max_parents"`
	} `json:"local"`
	Sync struct {
		Shell       string `json:"shell"`
		Script      string `json:"script"`
		Timeout     string `json:"timeout"`
		OutputLimit int    `json:"output_limit"`
		ShowPatch   bool   `json:"show_patch"`
	} `json:"sync"`
	Newman struct {
		Path        string `json:"path"`
		Timeout     string `json:"timeout"`
		OutputLimit int    `json:"output_limit"`
	} `json:"newman"`
	Log struct {
		Verbosity int `json:"verbosity"`
	} `json:"log"`
}

// InitOptions seed a new config.json.
type InitOptions struct {
	// Collections maps collection names to local file names.
	Collections map[string]string
	// SyncScript overrides the default sync script path.
	SyncScript string
	// BaseURL seeds BASE_URL in the dev environment.
	BaseURL string
}

// InitializeFolder creates baseDir/.colsync with a config.json built from
// opts and an environments directory holding a dev environment. Existing
// files are left alone. It reports whether the folder was created by this
// call.
func InitializeFolder(baseDir string, opts InitOptions) (bool, error) {
	dir := filepath.Join(baseDir, FolderName)
	created := false

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, fmt.Errorf("failed to create %s folder: %w", FolderName, err)
		}
		created = true
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := createDefaultConfig(configPath, opts); err != nil {
			return created, err
		}
	}

	envDir := storage.EnvironmentsDir(dir)
	if _, err := os.Stat(envDir); os.IsNotExist(err) {
		if err := os.MkdirAll(envDir, 0755); err != nil {
			return created, fmt.Errorf("failed to create environments folder: %w", err)
		}
		if err := createDefaultEnvironment(filepath.Join(envDir, "dev.yaml"), opts.BaseURL); err != nil {
			return created, err
		}
	}

	return created, nil
}

// createDefaultEnvironment creates a default dev environment file
func createDefaultEnvironment(path, baseURL string) error {
	if baseURL != "" {
		return storage.SaveEnvironment(map[string]string{"BASE_URL": baseURL}, path)
	}
	envContent := `# Development environment used for {{VAR}} substitution in code snippets.
# Add your variables here, e.g.:
# BASE_URL: http://localhost:3000
# API_TOKEN: "{{env:API_TOKEN}}"
`
	if err := os.WriteFile(path, []byte(envContent), 0644); err != nil {
		return fmt.Errorf("failed to write dev environment: %w", err)
	}
	return nil
}

// createDefaultConfig creates a default configuration file
func createDefaultConfig(path string, opts InitOptions) error {
	var config fileConfig
	config.Postman.BaseURL = postman.DefaultBaseURL
	config.Postman.APIKey = "" // set POSTMAN_API_KEY instead
	config.Postman.Timeout = "20s"
	config.Postman.RequestsPerMinute = 60
	config.Postman.SSLVerify = true
	config.Local.Collections = map[string]string{}
	for name, file := range opts.Collections {
		config.Local.Collections[name] = file
	}
	config.Local.Subdir = reconcile.DefaultSubdir
	config.Local.MaxParents = reconcile.DefaultMaxParents
	config.Sync.Shell = reconcile.DefaultShell
	config.Sync.Script = reconcile.DefaultScript
	if opts.SyncScript != "" {
		config.Sync.Script = opts.SyncScript
	}
	config.Sync.Timeout = "30s"
	config.Sync.OutputLimit = reconcile.DefaultOutputLimit
	config.Newman.Path = "newman"
	config.Newman.Timeout = "10m"
	config.Newman.OutputLimit = 4000

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
