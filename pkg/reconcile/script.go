package reconcile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/blackcoderx/colsync/pkg/errors"
)

// ScriptPath resolves the configured sync script against the project root.
// Symlinks are followed on both sides before the containment check, so a
// link pointing out of the project is rejected like "../elsewhere.sh". A
// script that does not exist yet is checked lexically.
func ScriptPath(root, script string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrSyncCommandFailed, "failed to resolve project root")
	}
	target := script
	if !filepath.IsAbs(target) {
		target = filepath.Join(absRoot, target)
	}
	target = filepath.Clean(target)

	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrSyncCommandFailed, "failed to resolve project root")
	}
	realTarget, err := filepath.EvalSymlinks(target)
	switch {
	case err == nil:
	case os.IsNotExist(err):
		realRoot, realTarget = absRoot, target
	default:
		return "", errors.Wrap(err, errors.ErrSyncCommandFailed, "failed to resolve sync script").
			WithDetail("script", script)
	}

	if !within(realRoot, realTarget) {
		return "", errors.New(errors.ErrSyncCommandFailed, "sync script is outside the project directory").
			WithDetail("script", script)
	}
	return realTarget, nil
}

// within reports whether path is root or below it.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
