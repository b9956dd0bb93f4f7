package reconcile

import (
	"context"
	"fmt"
	"os"

	"github.com/blackcoderx/colsync/pkg/errors"
	"github.com/rs/zerolog"
)

// Sync script defaults.
const (
	DefaultShell       = "bash"
	DefaultScript      = "postman/scripts/update_postman.sh"
	DefaultOutputLimit = 1000

	scriptMissing = "(local sync script not found, cloud sync skipped)"
	noOutput      = "(no output)"
)

// SyncScript pushes a freshly written local collection to the remote by
// running a project script. Failures are reported in the returned text and
// never undo the local write.
type SyncScript struct {
	Shell string
	// Script is relative to the project root and must stay inside it.
	Script      string
	OutputLimit int
	Runner      *CommandRunner

	logger zerolog.Logger
}

// NewSyncScript creates a sync trigger with defaults filled in.
func NewSyncScript(shell, script string, outputLimit int, runner *CommandRunner, logger zerolog.Logger) *SyncScript {
	if shell == "" {
		shell = DefaultShell
	}
	if script == "" {
		script = DefaultScript
	}
	if outputLimit <= 0 {
		outputLimit = DefaultOutputLimit
	}
	return &SyncScript{Shell: shell, Script: script, OutputLimit: outputLimit, Runner: runner, logger: logger}
}

// Trigger runs the script from projectRoot and returns the trailing output
// or a parenthesised note describing why there is none.
func (s *SyncScript) Trigger(ctx context.Context, projectRoot string) string {
	script, err := ScriptPath(projectRoot, s.Script)
	if err != nil {
		s.logger.Warn().Err(err).Str("script", s.Script).Msg("Sync script rejected")
		return fmt.Sprintf("(sync script error: %v)", err)
	}
	if info, err := os.Stat(script); err != nil || info.IsDir() {
		s.logger.Info().Str("script", script).Msg("Sync script not found")
		return scriptMissing
	}

	res := s.Runner.Run(ctx, projectRoot, s.Shell, script)
	out := Tail(res.Stdout+res.Stderr, s.OutputLimit)

	switch {
	case res.TimedOut:
		err := errors.Newf(errors.ErrSyncCommandFailed, "sync script timed out after %s", s.Runner.Timeout)
		s.logger.Warn().Err(err).Str("script", script).Msg("Sync script timed out")
		if out == "" {
			return fmt.Sprintf("(%s)", err.Message)
		}
		return fmt.Sprintf("%s\n(%s)", out, err.Message)
	case res.Err != nil:
		err := errors.Wrap(res.Err, errors.ErrSyncCommandFailed, "sync script failed")
		s.logger.Warn().Err(err).Str("script", script).Msg("Sync script failed")
		return fmt.Sprintf("(sync script error: %v)", res.Err)
	case res.ExitCode != 0:
		s.logger.Warn().Int("exitCode", res.ExitCode).Str("script", script).Msg("Sync script exited with an error")
	}

	if out == "" {
		return noOutput
	}
	return out
}
