package collection

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/blackcoderx/colsync/pkg/errors"
)

// RequestSpec describes a new request.
type RequestSpec struct {
	Method  string
	URL     string
	Headers []Header
	// Body is nil, a string, a json.RawMessage or any value encoding/json
	// can marshal. Structured bodies are stored as canonical JSON text.
	Body        interface{}
	Description string
}

// RequestPatch describes a partial update. Zero values mean "leave as is":
// an empty Method or URL, a nil Headers, Body or Description. A non-nil empty
// Headers slice clears the headers.
type RequestPatch struct {
	Method      string
	URL         string
	Headers     []Header
	Body        interface{}
	Description *string
	RenameTo    string
}

// EnsureFolder walks segments from the root, creating any folder that does
// not exist yet, and returns the children of the innermost folder. Existing
// nodes are never moved or duplicated.
func EnsureFolder(t *Tree, segments []string) *[]*Node {
	current := &t.Items
	for _, part := range segments {
		found := firstFolder(*current, part)
		if found == nil {
			found = NewFolder(part)
			*current = append(*current, found)
		}
		current = &found.Children
	}
	return current
}

// FindByPath resolves every segment but the last as a folder (first match
// wins) and looks for a node of any kind named by the last segment in it.
// parent is nil when an enclosing folder does not exist; node is nil when the
// item itself does not.
func FindByPath(t *Tree, segments []string) (parent *[]*Node, node *Node, err error) {
	if len(segments) == 0 {
		return nil, nil, errors.New(errors.ErrInvalidPath, "path is empty")
	}
	current := &t.Items
	for _, part := range segments[:len(segments)-1] {
		next := firstFolder(*current, part)
		if next == nil {
			return nil, nil, nil
		}
		current = &next.Children
	}
	target := segments[len(segments)-1]
	for _, n := range *current {
		if n.Name == target {
			return current, n, nil
		}
	}
	return current, nil, nil
}

func firstFolder(items []*Node, name string) *Node {
	for _, n := range items {
		if n.IsFolder() && n.Name == name {
			return n
		}
	}
	return nil
}

// InsertRequest creates the enclosing folders and appends a new request as
// the last child of the innermost one.
func InsertRequest(t *Tree, segments []string, spec RequestSpec) (*Node, error) {
	if len(segments) == 0 {
		return nil, errMissing("request_path")
	}
	req, err := buildRequest(spec)
	if err != nil {
		return nil, err
	}
	parent := EnsureFolder(t, segments[:len(segments)-1])
	node := NewRequestNode(segments[len(segments)-1], req)
	*parent = append(*parent, node)
	return node, nil
}

func buildRequest(spec RequestSpec) (*Request, error) {
	method := strings.ToUpper(strings.TrimSpace(spec.Method))
	if method == "" {
		method = "GET"
	}
	req := &Request{Method: method, URL: NewText(spec.URL)}
	if len(spec.Headers) > 0 {
		req.Headers = append([]Header(nil), spec.Headers...)
	}
	if spec.Description != "" {
		d := NewText(spec.Description)
		req.Description = &d
	}
	raw, ok, err := NormalizeBody(spec.Body)
	if err != nil {
		return nil, err
	}
	if ok {
		req.Body = NewRawBody(raw)
	}
	return req, nil
}

// UpdateRequest applies the supplied fields of patch to the request at
// segments, then renames it when RenameTo is set.
func UpdateRequest(t *Tree, segments []string, patch RequestPatch) (*Node, error) {
	if len(segments) == 0 {
		return nil, errMissing("request_path")
	}
	_, node, err := FindByPath(t, segments)
	if err != nil {
		return nil, err
	}
	if node == nil || node.IsFolder() || node.Request == nil {
		return nil, errors.New(errors.ErrNotFound, "Request not found.").
			WithDetail("path", JoinPath(segments))
	}

	raw, hasBody, err := NormalizeBody(patch.Body)
	if err != nil {
		return nil, err
	}

	req := node.Request
	if patch.Method != "" {
		req.Method = strings.ToUpper(patch.Method)
	}
	if patch.URL != "" {
		req.URL = NewText(patch.URL)
	}
	if patch.Headers != nil {
		req.Headers = append([]Header{}, patch.Headers...)
	}
	if patch.Description != nil {
		d := NewText(*patch.Description)
		req.Description = &d
	}
	if hasBody {
		req.Body = NewRawBody(raw)
	}
	req.short = false
	if patch.RenameTo != "" {
		node.Name = patch.RenameTo
	}
	return node, nil
}

// DeleteItem removes the node at segments from its parent. Removal is by
// identity, so only the addressed sibling goes even when names repeat.
func DeleteItem(t *Tree, segments []string) (*Node, error) {
	if len(segments) == 0 {
		return nil, errMissing("item_path")
	}
	parent, node, err := FindByPath(t, segments)
	if err != nil {
		return nil, err
	}
	if parent == nil || node == nil {
		return nil, errors.New(errors.ErrNotFound, "Item not found.").
			WithDetail("path", JoinPath(segments))
	}
	items := *parent
	for i, n := range items {
		if n == node {
			*parent = append(items[:i:i], items[i+1:]...)
			break
		}
	}
	return node, nil
}

// RenameFolder sets the name of the folder at segments.
func RenameFolder(t *Tree, segments []string, newName string) (*Node, error) {
	if len(segments) == 0 {
		return nil, errMissing("folder_path")
	}
	if strings.TrimSpace(newName) == "" {
		return nil, errors.New(errors.ErrInvalidInput, "rename_to is required")
	}
	_, node, err := FindByPath(t, segments)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, errors.New(errors.ErrNotFound, "Folder not found.").
			WithDetail("path", JoinPath(segments))
	}
	if !node.IsFolder() {
		return nil, errors.Newf(errors.ErrNotAFolder, "%q is not a folder.", JoinPath(segments)).
			WithDetail("path", JoinPath(segments))
	}
	node.Name = newName
	return node, nil
}

// NormalizeBody turns a caller-supplied body into the raw string stored in
// the document. ok is false when no body was supplied.
func NormalizeBody(body interface{}) (raw string, ok bool, err error) {
	switch b := body.(type) {
	case nil:
		return "", false, nil
	case string:
		return b, true, nil
	case json.RawMessage:
		if isNull(b) {
			return "", false, nil
		}
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return "", false, errors.Wrap(err, errors.ErrInvalidInput, "body is not valid JSON")
		}
		if s, isString := v.(string); isString {
			return s, true, nil
		}
		body = v
	}
	data, err := marshal(body)
	if err != nil {
		return "", false, errors.Wrap(err, errors.ErrInvalidInput, "body cannot be encoded")
	}
	return string(data), true, nil
}

func errMissing(param string) error {
	return errors.Newf(errors.ErrMissingPath, "%s is required", param)
}
