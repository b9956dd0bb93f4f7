package collection

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotDeterministic(t *testing.T) {
	tree := mustParse(t, sampleTree).Tree

	first := Snapshot(tree)
	second := Snapshot(tree.Clone())
	assert.Equal(t, first, second)
	assert.True(t, DiffSnapshots(first, second).Empty())
	assert.Equal(t, "folder:Auth", first[0])
}

func TestSnapshotCollapsesDuplicates(t *testing.T) {
	tree := mustParse(t, `{"item":[{"name":"A","request":{}},{"name":"A","request":{}}]}`).Tree
	assert.Equal(t, []string{"request:A"}, Snapshot(tree))
}

func TestDiffSnapshots(t *testing.T) {
	d := DiffSnapshots(
		[]string{"folder:A", "request:A/x"},
		[]string{"folder:A", "request:A/y", "folder:B"},
	)
	assert.Equal(t, []string{"folder:B", "request:A/y"}, d.Added)
	assert.Equal(t, []string{"request:A/x"}, d.Removed)
	assert.False(t, d.Empty())

	empty := DiffSnapshots(nil, nil)
	assert.NotNil(t, empty.Added)
	assert.NotNil(t, empty.Removed)
	assert.True(t, empty.Empty())
}

func TestDeleteAfterInsertRestoresSnapshot(t *testing.T) {
	tree := authTree(t)
	before := Snapshot(tree)

	_, err := InsertRequest(tree, ParsePath("Auth/Refresh"), RequestSpec{Method: "POST"})
	require.NoError(t, err)
	_, err = DeleteItem(tree, ParsePath("Auth/Refresh"))
	require.NoError(t, err)

	assert.Equal(t, before, Snapshot(tree))
}

func TestPreviewInsert(t *testing.T) {
	before := authTree(t)
	after := before.Clone()
	op := InsertRequestOp{Path: ParsePath("Auth/Refresh"), Spec: RequestSpec{Method: "POST", URL: "https://api/refresh"}}
	require.NoError(t, op.Apply(after))

	out, err := Preview(before, after, op.Note())
	require.NoError(t, err)

	var got struct {
		Diff Diff   `json:"diff"`
		Note string `json:"note"`
	}
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, []string{"request:Auth/Refresh"}, got.Diff.Added)
	assert.Equal(t, []string{}, got.Diff.Removed)
	assert.Equal(t, DryRunNote, got.Note)

	// before is untouched by the dry-run
	assert.Len(t, before.Items[0].Children, 1)
	assert.True(t, strings.HasPrefix(string(out), "{\n  \"diff\": {"))
	assert.Contains(t, string(out), `"removed": []`)
}

func TestPreviewWithoutNote(t *testing.T) {
	tree := authTree(t)
	out, err := Preview(tree, tree, "")
	require.NoError(t, err)
	assert.NotContains(t, string(out), "note")
	assert.Contains(t, string(out), `"added": []`)
}

func TestPreviewRename(t *testing.T) {
	before := authTree(t)
	after := before.Clone()
	op := RenameFolderOp{Path: []string{"Auth"}, NewName: "Session"}
	require.NoError(t, op.Apply(after))

	out, err := Preview(before, after, op.Note())
	require.NoError(t, err)

	var got struct {
		Diff Diff   `json:"diff"`
		Note string `json:"note"`
	}
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, []string{"folder:Session", "request:Session/Login"}, got.Diff.Added)
	assert.Equal(t, []string{"folder:Auth", "request:Auth/Login"}, got.Diff.Removed)
	assert.Equal(t, "Dry-run only. Folder will be renamed to Session.", got.Note)
}
