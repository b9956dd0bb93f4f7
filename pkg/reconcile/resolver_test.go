package reconcile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blackcoderx/colsync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLocalSearchesAncestors(t *testing.T) {
	root, path := project(t, "Demo.json", localDemo)
	deep := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(deep, 0755))

	got, ok := FindLocal(deep, DefaultSubdir, "Demo.json", 4)
	require.True(t, ok)
	assert.Equal(t, path, got)

	got, ok = FindLocal(root, DefaultSubdir, "Demo.json", 0)
	require.True(t, ok)
	assert.Equal(t, path, got)
}

func TestFindLocalRespectsBound(t *testing.T) {
	root, _ := project(t, "Demo.json", localDemo)
	deep := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(deep, 0755))

	_, ok := FindLocal(deep, DefaultSubdir, "Demo.json", 2)
	assert.False(t, ok)

	_, ok = FindLocal(deep, DefaultSubdir, "Demo.json", 3)
	assert.True(t, ok)
}

func TestFindLocalIgnoresDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "postman", "collections", "Demo.json"), 0755))

	_, ok := FindLocal(root, DefaultSubdir, "Demo.json", 4)
	assert.False(t, ok)

	_, ok = FindLocal(root, DefaultSubdir, "", 4)
	assert.False(t, ok)
}

func TestResolver(t *testing.T) {
	root, path := project(t, "Demo.postman_collection.json", localDemo)

	r := &Resolver{
		Collections: map[string]string{"demo": "Demo.postman_collection.json", "Other": "Other.json"},
		Start:       root,
	}

	got, err := r.Resolve("Demo")
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, root, r.ProjectRoot(got))

	_, err = r.Resolve("Unmapped")
	assert.True(t, errors.IsErrorCode(err, errors.ErrLocalUnavailable))
	assert.Equal(t, "no mapping", errors.GetErrorDetails(err)["reason"])
	assert.Contains(t, err.Error(), "No local file found for 'Unmapped'.")

	_, err = r.Resolve("Other")
	assert.True(t, errors.IsErrorCode(err, errors.ErrLocalUnavailable))
	assert.Equal(t, "file not found", errors.GetErrorDetails(err)["reason"])
}

func TestResolverCustomSubdir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "api", "specs", "collections")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Demo.json"), []byte(localDemo), 0644))

	r := &Resolver{
		Collections: map[string]string{"Demo": "Demo.json"},
		Subdir:      "api/specs/collections/",
		Start:       root,
	}
	got, err := r.Resolve("Demo")
	require.NoError(t, err)
	assert.Equal(t, root, r.ProjectRoot(got))
}

func TestNilResolver(t *testing.T) {
	var r *Resolver
	_, ok := r.Filename("Demo")
	assert.False(t, ok)
}
