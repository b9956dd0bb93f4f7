package core

import (
	"strings"
	"time"

	"github.com/blackcoderx/colsync/pkg/errors"
	"github.com/blackcoderx/colsync/pkg/postman"
	"github.com/blackcoderx/colsync/pkg/reconcile"
	"github.com/spf13/viper"
)

// PostmanSettings configures the remote store client.
type PostmanSettings struct {
	BaseURL           string        `json:"base_url"`
	APIKey            string        `json:"api_key"`
	Timeout           time.Duration `json:"timeout"`
	RequestsPerMinute int           `json:"requests_per_minute"`
	SSLVerify         bool          `json:"ssl_verify"`
}

// LocalSettings configures local collection resolution.
type LocalSettings struct {
	// Collections maps a collection name to its file name. Keys arrive
	// lower-cased from the config loader.
	Collections map[string]string `json:"collections"`
	Subdir      string            `json:"subdir"`
	MaxParents  int               `json:"max_parents"`
}

// SyncSettings configures the script that pushes local changes.
type SyncSettings struct {
	Shell       string        `json:"shell"`
	Script      string        `json:"script"`
	Timeout     time.Duration `json:"timeout"`
	OutputLimit int           `json:"output_limit"`
	ShowPatch   bool          `json:"show_patch"`
}

// NewmanSettings configures collection runs.
type NewmanSettings struct {
	Path        string        `json:"path"`
	Timeout     time.Duration `json:"timeout"`
	OutputLimit int           `json:"output_limit"`
}

// Settings is the resolved configuration.
type Settings struct {
	Postman PostmanSettings
	Local   LocalSettings
	Sync    SyncSettings
	Newman  NewmanSettings
	// Verbosity selects the log level, see logging.SetupLogger.
	Verbosity int
}

// SetDefaults registers every configuration key with its default value and
// binds environment variables, so POSTMAN_API_KEY sets postman.api_key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("postman.base_url", postman.DefaultBaseURL)
	v.SetDefault("postman.api_key", "")
	v.SetDefault("postman.timeout", "20s")
	v.SetDefault("postman.requests_per_minute", 60)
	v.SetDefault("postman.ssl_verify", true)

	v.SetDefault("local.collections", map[string]string{})
	v.SetDefault("local.subdir", reconcile.DefaultSubdir)
	v.SetDefault("local.max_parents", reconcile.DefaultMaxParents)

	v.SetDefault("sync.shell", reconcile.DefaultShell)
	v.SetDefault("sync.script", reconcile.DefaultScript)
	v.SetDefault("sync.timeout", "30s")
	v.SetDefault("sync.output_limit", reconcile.DefaultOutputLimit)
	v.SetDefault("sync.show_patch", false)

	v.SetDefault("newman.path", "newman")
	v.SetDefault("newman.timeout", "10m")
	v.SetDefault("newman.output_limit", 4000)

	v.SetDefault("log.verbosity", 0)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadSettings reads the resolved settings from v.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		Postman: PostmanSettings{
			BaseURL:           v.GetString("postman.base_url"),
			APIKey:            v.GetString("postman.api_key"),
			Timeout:           v.GetDuration("postman.timeout"),
			RequestsPerMinute: v.GetInt("postman.requests_per_minute"),
			SSLVerify:         v.GetBool("postman.ssl_verify"),
		},
		Local: LocalSettings{
			Collections: v.GetStringMapString("local.collections"),
			Subdir:      v.GetString("local.subdir"),
			MaxParents:  v.GetInt("local.max_parents"),
		},
		Sync: SyncSettings{
			Shell:       v.GetString("sync.shell"),
			Script:      v.GetString("sync.script"),
			Timeout:     v.GetDuration("sync.timeout"),
			OutputLimit: v.GetInt("sync.output_limit"),
			ShowPatch:   v.GetBool("sync.show_patch"),
		},
		Newman: NewmanSettings{
			Path:        v.GetString("newman.path"),
			Timeout:     v.GetDuration("newman.timeout"),
			OutputLimit: v.GetInt("newman.output_limit"),
		},
		Verbosity: v.GetInt("log.verbosity"),
	}

	switch {
	case s.Postman.Timeout <= 0:
		return nil, errors.New(errors.ErrConfigLoad, "postman.timeout must be a positive duration")
	case s.Postman.RequestsPerMinute < 0:
		return nil, errors.New(errors.ErrConfigLoad, "postman.requests_per_minute must not be negative")
	case s.Sync.Timeout <= 0:
		return nil, errors.New(errors.ErrConfigLoad, "sync.timeout must be a positive duration")
	case s.Sync.OutputLimit <= 0:
		return nil, errors.New(errors.ErrConfigLoad, "sync.output_limit must be positive")
	case s.Newman.Timeout <= 0:
		return nil, errors.New(errors.ErrConfigLoad, "newman.timeout must be a positive duration")
	case s.Newman.OutputLimit <= 0:
		return nil, errors.New(errors.ErrConfigLoad, "newman.output_limit must be positive")
	}
	if s.Local.Collections == nil {
		s.Local.Collections = map[string]string{}
	}
	return s, nil
}

// PostmanConfig returns the client configuration.
func (s *Settings) PostmanConfig() postman.Config {
	return postman.Config{
		BaseURL:           s.Postman.BaseURL,
		APIKey:            s.Postman.APIKey,
		Timeout:           s.Postman.Timeout,
		RequestsPerMinute: s.Postman.RequestsPerMinute,
		SkipTLSVerify:     !s.Postman.SSLVerify,
	}
}

// Resolver returns the local file resolver rooted at start.
func (s *Settings) Resolver(start string) *reconcile.Resolver {
	return &reconcile.Resolver{
		Collections: s.Local.Collections,
		Subdir:      s.Local.Subdir,
		MaxParents:  s.Local.MaxParents,
		Start:       start,
	}
}
