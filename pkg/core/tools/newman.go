package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/blackcoderx/colsync/pkg/errors"
	"github.com/blackcoderx/colsync/pkg/reconcile"
	"github.com/blackcoderx/colsync/pkg/storage"
	"github.com/rs/zerolog"
)

const newmanMissing = "Newman is not installed. Install with: npm install -g newman"

// NewmanConfig configures RunCollectionTool.
type NewmanConfig struct {
	// Path is the newman executable, looked up in PATH when not absolute.
	Path        string
	Timeout     time.Duration
	OutputLimit int
	// BaseDir holds the local environments directory.
	BaseDir string
}

// RunCollectionTool runs a collection with newman.
type RunCollectionTool struct {
	c      *CollectionTools
	cfg    NewmanConfig
	logger zerolog.Logger
}

func NewRunCollectionTool(c *CollectionTools, cfg NewmanConfig, logger zerolog.Logger) *RunCollectionTool {
	if cfg.Path == "" {
		cfg.Path = "newman"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	if cfg.OutputLimit <= 0 {
		cfg.OutputLimit = 4000
	}
	return &RunCollectionTool{c: c, cfg: cfg, logger: logger}
}

func (t *RunCollectionTool) Name() string { return "run_collection" }

func (t *RunCollectionTool) Description() string {
	return "Run a collection locally with newman and return the trailing output."
}

func (t *RunCollectionTool) Parameters() string {
	return `{
  "collection_uid": "string (required) - collection uid",
  "environment_uid": "string (optional) - Postman environment uid",
  "environment": "string (optional) - local environment name, used when environment_uid is empty",
  "iterations": "integer (optional) - iteration count, default 1",
  "timeout_ms": "integer (optional) - run timeout in milliseconds"
}`
}

func (t *RunCollectionTool) Execute(args string) (string, error) {
	return t.ExecuteContext(context.Background(), args)
}

func (t *RunCollectionTool) ExecuteContext(ctx context.Context, args string) (string, error) {
	var params struct {
		CollectionUID  string `json:"collection_uid"`
		EnvironmentUID string `json:"environment_uid"`
		Environment    string `json:"environment"`
		Iterations     int    `json:"iterations"`
		TimeoutMS      int    `json:"timeout_ms"`
	}
	if err := decodeParams(args, &params); err != nil {
		return "", err
	}
	if params.TimeoutMS < 0 || params.Iterations < 0 {
		return "", fmt.Errorf("iterations and timeout_ms must not be negative")
	}

	bin, err := exec.LookPath(t.cfg.Path)
	if err != nil {
		return newmanMissing, nil
	}

	doc, err := t.c.load(ctx, params.CollectionUID)
	if err != nil {
		return "", err
	}
	collectionJSON, err := doc.EncodeCollection()
	if err != nil {
		return "", fmt.Errorf("failed to encode collection: %w", err)
	}

	envJSON, err := t.environment(ctx, params.EnvironmentUID, params.Environment)
	if err != nil {
		return "", err
	}

	dir, err := os.MkdirTemp("", "colsync-newman-")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	collectionPath := filepath.Join(dir, "collection.json")
	if err := os.WriteFile(collectionPath, collectionJSON, 0600); err != nil {
		return "", fmt.Errorf("failed to write collection: %w", err)
	}
	cmdArgs := []string{"run", collectionPath}
	if envJSON != nil {
		envPath := filepath.Join(dir, "environment.json")
		if err := os.WriteFile(envPath, envJSON, 0600); err != nil {
			return "", fmt.Errorf("failed to write environment: %w", err)
		}
		cmdArgs = append(cmdArgs, "-e", envPath)
	}
	if params.Iterations > 1 {
		cmdArgs = append(cmdArgs, "-n", strconv.Itoa(params.Iterations))
	}

	timeout := t.cfg.Timeout
	if params.TimeoutMS > 0 {
		timeout = time.Duration(params.TimeoutMS) * time.Millisecond
	}
	res := reconcile.NewCommandRunner(timeout, t.logger).Run(ctx, dir, bin, cmdArgs...)
	if res.TimedOut {
		return fmt.Sprintf("Newman run timed out after %dms.", timeout.Milliseconds()), nil
	}
	if res.Err != nil && res.ExitCode == -1 {
		return "", errors.Wrap(res.Err, errors.ErrSyncCommandFailed, "failed to start newman")
	}

	output := res.Stdout + "\n" + res.Stderr
	if strings.TrimSpace(output) == "" {
		return "Newman run completed with no output.", nil
	}
	return reconcile.Tail(output, t.cfg.OutputLimit), nil
}

// environment returns the environment file content: the remote one when uid
// is set, else the named local one, else nil.
func (t *RunCollectionTool) environment(ctx context.Context, uid, name string) ([]byte, error) {
	switch {
	case uid != "":
		return t.c.api.GetEnvironment(ctx, uid)
	case name != "":
		env, err := storage.LoadNamedEnvironment(t.cfg.BaseDir, name)
		if err != nil {
			return nil, err
		}
		return json.Marshal(storage.ToPostmanEnvironment(name, env))
	}
	return nil, nil
}
