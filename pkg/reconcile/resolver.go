package reconcile

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blackcoderx/colsync/pkg/collection"
	"github.com/blackcoderx/colsync/pkg/errors"
)

// Default local layout.
const (
	DefaultSubdir     = "postman/collections"
	DefaultMaxParents = 4
)

// Resolver maps a collection name to its local file. The mapping is
// injected; nothing is discovered from the file system except the project
// directory holding Subdir.
type Resolver struct {
	// Collections maps collection names to file names inside Subdir.
	Collections map[string]string
	Subdir      string
	// MaxParents bounds how many ancestors of Start are searched. Zero means
	// DefaultMaxParents and a negative value searches Start only.
	MaxParents int
	// Start is the directory the upward search begins in. Empty means the
	// working directory.
	Start string
}

// Filename returns the mapped file name for a collection. Lookup falls back
// to a case-insensitive match because configuration keys are lower-cased.
func (r *Resolver) Filename(name string) (string, bool) {
	if r == nil || name == "" {
		return "", false
	}
	if f, ok := r.Collections[name]; ok {
		return f, true
	}
	keys := make([]string, 0, len(r.Collections))
	for k := range r.Collections {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.EqualFold(k, name) {
			return r.Collections[k], true
		}
	}
	return "", false
}

// Resolve returns the absolute path of the local file for a collection, or
// a LOCAL_UNAVAILABLE error naming why there is none.
func (r *Resolver) Resolve(name string) (string, error) {
	filename, ok := r.Filename(name)
	if !ok {
		return "", errors.Newf(errors.ErrLocalUnavailable, "No local file found for '%s'.", name).
			WithDetail("reason", "no mapping")
	}
	start := r.Start
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrLocalUnavailable, "cannot determine working directory")
		}
		start = wd
	}
	path, ok := FindLocal(start, r.subdir(), filename, r.maxParents())
	if !ok {
		return "", errors.Newf(errors.ErrLocalUnavailable, "No local file found for '%s'.", name).
			WithDetail("reason", "file not found").
			WithDetail("filename", filename)
	}
	return path, nil
}

// ProjectRoot returns the directory that contains Subdir for a resolved
// local file path.
func (r *Resolver) ProjectRoot(localPath string) string {
	dir := filepath.Dir(localPath)
	for range collection.ParsePath(filepath.ToSlash(r.subdir())) {
		dir = filepath.Dir(dir)
	}
	return dir
}

func (r *Resolver) subdir() string {
	if r.Subdir == "" {
		return DefaultSubdir
	}
	return r.Subdir
}

func (r *Resolver) maxParents() int {
	if r.MaxParents < 0 {
		return 0
	}
	if r.MaxParents == 0 {
		return DefaultMaxParents
	}
	return r.MaxParents
}

// FindLocal looks for <dir>/<subdir>/<filename> in start and then in up to
// maxParents ancestors of start, returning the first regular file found.
func FindLocal(start, subdir, filename string, maxParents int) (string, bool) {
	if filename == "" {
		return "", false
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for i := 0; i <= maxParents; i++ {
		candidate := filepath.Join(dir, filepath.FromSlash(subdir), filename)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}
