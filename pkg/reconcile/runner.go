package reconcile

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// RunResult is the outcome of one external command.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
	Duration time.Duration
	// Err is set when the command could not be started or did not exit
	// normally. A non-zero exit alone is reported through ExitCode.
	Err error
}

// CommandRunner runs external commands with a timeout.
type CommandRunner struct {
	Timeout time.Duration
	logger  zerolog.Logger
}

// NewCommandRunner creates a runner. A zero timeout means no limit beyond
// the caller's context.
func NewCommandRunner(timeout time.Duration, logger zerolog.Logger) *CommandRunner {
	return &CommandRunner{Timeout: timeout, logger: logger}
}

// Run executes name with args in dir and collects its output. It never
// returns an error: failures are described by the result.
func (r *CommandRunner) Run(ctx context.Context, dir, name string, args ...string) RunResult {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := RunResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.TimedOut = true
		res.Err = ctx.Err()
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		if res.ExitCode < 0 {
			res.Err = err
		}
	case err != nil:
		res.Err = err
		res.ExitCode = -1
	}

	r.logger.Debug().
		Str("command", name).
		Strs("args", args).
		Str("dir", dir).
		Int("exitCode", res.ExitCode).
		Bool("timedOut", res.TimedOut).
		Dur("duration", res.Duration).
		Msg("Command finished")
	return res
}

// Tail returns at most the last limit bytes of s, starting on a rune
// boundary. A non-positive limit returns s unchanged.
func Tail(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := len(s) - limit
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return s[cut:]
}
