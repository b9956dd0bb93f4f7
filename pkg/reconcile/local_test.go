package reconcile

import (
	"os"
	"strings"
	"testing"

	"github.com/blackcoderx/colsync/pkg/collection"
	"github.com/blackcoderx/colsync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyLocal(t *testing.T) {
	_, path := project(t, "Demo.json", localDemo)

	op := collection.InsertRequestOp{
		Path: collection.ParsePath("Auth/Refresh"),
		Spec: collection.RequestSpec{Method: "POST", URL: "https://api/refresh?a=1&b=<2>"},
	}
	patch, err := ApplyLocal(path, op)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, "{\n    \"info\": {"), "four-space indent kept")
	assert.True(t, strings.HasSuffix(text, "}\n"), "trailing newline kept")
	assert.Contains(t, text, `"url": "https://api/refresh?a=1&b=<2>"`)
	assert.Contains(t, text, `"schema": "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"`)

	doc, err := collection.ParseDocument(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"folder:Auth", "request:Auth/Login", "request:Auth/Refresh"}, collection.Snapshot(doc.Tree))

	assert.Contains(t, patch, "--- a/Demo.json")
	assert.Contains(t, patch, "+++ b/Demo.json")
	assert.Contains(t, patch, `+                    "name": "Refresh",`)
}

func TestApplyLocalUnchangedLayoutRoundTrips(t *testing.T) {
	_, path := project(t, "Demo.json", localDemo)

	// renaming back and forth leaves the file byte-identical
	_, err := ApplyLocal(path, collection.RenameFolderOp{Path: []string{"Auth"}, NewName: "Session"})
	require.NoError(t, err)
	_, err = ApplyLocal(path, collection.RenameFolderOp{Path: []string{"Session"}, NewName: "Auth"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, localDemo, string(data))
}

func TestApplyLocalErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := ApplyLocal("/nonexistent/colsync/Demo.json", collection.EnsureFolderOp{Path: []string{"A"}})
		assert.True(t, errors.IsErrorCode(err, errors.ErrLocalWriteFailed))
	})

	t.Run("not a collection", func(t *testing.T) {
		_, path := project(t, "Demo.json", `[1,2,3]`)
		_, err := ApplyLocal(path, collection.EnsureFolderOp{Path: []string{"A"}})
		assert.True(t, errors.IsErrorCode(err, errors.ErrLocalWriteFailed))
	})

	t.Run("mutation does not apply", func(t *testing.T) {
		_, path := project(t, "Demo.json", localDemo)
		_, err := ApplyLocal(path, collection.UpdateRequestOp{Path: collection.ParsePath("Auth/Missing"), Patch: collection.RequestPatch{URL: "x"}})
		assert.True(t, errors.IsErrorCode(err, errors.ErrLocalWriteFailed))
		assert.Contains(t, err.Error(), "Request not found.")

		data, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Equal(t, localDemo, string(data))
	})
}

func TestApplyLocalReadOnlyFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	_, path := project(t, "Demo.json", localDemo)
	require.NoError(t, os.Chmod(path, 0444))

	_, err := ApplyLocal(path, collection.EnsureFolderOp{Path: []string{"Users"}})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLocalWriteFailed))
	assert.Contains(t, err.Error(), "failed to write local collection")

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, localDemo, string(data))
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"bare", `{"info":{"name":"x"},"item":[]}`, false},
		{"enveloped", `{"collection":{"item":[{"name":"F","item":[{"name":"R","request":"https://x"}]}]}}`, false},
		{"missing items", `{"info":{"name":"x"}}`, true},
		{"items not a list", `{"item":{}}`, true},
		{"empty method", `{"item":[{"name":"R","request":{"method":""}}]}`, true},
		{"nested bad name", `{"item":[{"name":"F","item":[{"name":3}]}]}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument([]byte(tt.doc))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
