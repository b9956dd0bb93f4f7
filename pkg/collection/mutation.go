package collection

import "fmt"

// DryRunNote is attached to every dry-run preview.
const DryRunNote = "Dry-run only. No changes saved."

// Mutation is one structural change that can be applied to any tree. The
// reconciler applies the same value to the remote and to the local document.
type Mutation interface {
	Apply(t *Tree) error
	// Note is the message shown with a dry-run preview.
	Note() string
	// String names the operation and its target for logs.
	String() string
}

// EnsureFolderOp creates a folder path.
type EnsureFolderOp struct {
	Path []string
}

func (m EnsureFolderOp) Apply(t *Tree) error {
	if len(m.Path) == 0 {
		return errMissing("folder_path")
	}
	EnsureFolder(t, m.Path)
	return nil
}

func (m EnsureFolderOp) Note() string   { return DryRunNote }
func (m EnsureFolderOp) String() string { return "add_folder " + JoinPath(m.Path) }

// InsertRequestOp appends a new request.
type InsertRequestOp struct {
	Path []string
	Spec RequestSpec
}

func (m InsertRequestOp) Apply(t *Tree) error {
	_, err := InsertRequest(t, m.Path, m.Spec)
	return err
}

func (m InsertRequestOp) Note() string   { return DryRunNote }
func (m InsertRequestOp) String() string { return "add_request " + JoinPath(m.Path) }

// UpdateRequestOp patches an existing request.
type UpdateRequestOp struct {
	Path  []string
	Patch RequestPatch
}

func (m UpdateRequestOp) Apply(t *Tree) error {
	_, err := UpdateRequest(t, m.Path, m.Patch)
	return err
}

func (m UpdateRequestOp) Note() string {
	if m.Patch.RenameTo != "" {
		return fmt.Sprintf("%s Request will be renamed to %s.", DryRunNote, m.Patch.RenameTo)
	}
	return DryRunNote
}

func (m UpdateRequestOp) String() string { return "update_request " + JoinPath(m.Path) }

// DeleteItemOp removes a request or folder.
type DeleteItemOp struct {
	Path []string
}

func (m DeleteItemOp) Apply(t *Tree) error {
	_, err := DeleteItem(t, m.Path)
	return err
}

func (m DeleteItemOp) Note() string   { return DryRunNote }
func (m DeleteItemOp) String() string { return "delete_item " + JoinPath(m.Path) }

// RenameFolderOp renames a folder.
type RenameFolderOp struct {
	Path    []string
	NewName string
}

func (m RenameFolderOp) Apply(t *Tree) error {
	_, err := RenameFolder(t, m.Path, m.NewName)
	return err
}

func (m RenameFolderOp) Note() string {
	return fmt.Sprintf("Dry-run only. Folder will be renamed to %s.", m.NewName)
}

func (m RenameFolderOp) String() string { return "rename_folder " + JoinPath(m.Path) }
