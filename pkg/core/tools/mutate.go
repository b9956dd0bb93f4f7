package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/blackcoderx/colsync/pkg/collection"
	"github.com/blackcoderx/colsync/pkg/errors"
	"github.com/blackcoderx/colsync/pkg/reconcile"
)

const dryRunParam = `"dry_run": "boolean (optional) - preview the change as {diff, note} without saving"`

// AddFolderTool creates a folder path in a collection.
type AddFolderTool struct {
	c *CollectionTools
}

func NewAddFolderTool(c *CollectionTools) *AddFolderTool {
	return &AddFolderTool{c: c}
}

func (t *AddFolderTool) Name() string { return "add_folder" }

func (t *AddFolderTool) Description() string {
	return "Add a folder (and any missing parents) to a collection. Existing folders are reused."
}

func (t *AddFolderTool) Parameters() string {
	return `{
  "collection_uid": "string (required) - collection uid",
  "folder_path": "string (required) - slash separated path, e.g. Auth/Tokens",
  ` + dryRunParam + `
}`
}

func (t *AddFolderTool) Execute(args string) (string, error) {
	return t.ExecuteContext(context.Background(), args)
}

func (t *AddFolderTool) ExecuteContext(ctx context.Context, args string) (string, error) {
	var params struct {
		CollectionUID string `json:"collection_uid"`
		FolderPath    string `json:"folder_path"`
		DryRun        bool   `json:"dry_run"`
	}
	if err := decodeParams(args, &params); err != nil {
		return "", err
	}
	if params.CollectionUID == "" {
		return "", fmt.Errorf("collection_uid is required")
	}

	return t.c.apply(ctx, reconcile.Op{
		CollectionID: params.CollectionUID,
		Mutation:     collection.EnsureFolderOp{Path: collection.ParsePath(params.FolderPath)},
		DryRun:       params.DryRun,
	})
}

// requestParams are the request fields shared by add_request and
// update_request.
type requestParams struct {
	CollectionUID string          `json:"collection_uid"`
	RequestPath   string          `json:"request_path"`
	Method        string          `json:"method"`
	URL           string          `json:"url"`
	Headers       json.RawMessage `json:"headers"`
	Body          json.RawMessage `json:"body"`
	DryRun        bool            `json:"dry_run"`
}

func (p requestParams) headers() ([]collection.Header, error) {
	return collection.HeadersFromJSON(p.Headers)
}

// body returns nil when no body was supplied so the mutator leaves it alone.
func (p requestParams) body() interface{} {
	if len(p.Body) == 0 {
		return nil
	}
	return p.Body
}

// AddRequestTool appends a request to a collection, updating the local
// collection file first when one is available.
type AddRequestTool struct {
	c *CollectionTools
}

func NewAddRequestTool(c *CollectionTools) *AddRequestTool {
	return &AddRequestTool{c: c}
}

func (t *AddRequestTool) Name() string { return "add_request" }

func (t *AddRequestTool) Description() string {
	return "Add a request to a collection at the given path, creating folders as needed. " +
		"When a local collection file exists it is updated and pushed with the sync script; otherwise the cloud copy is updated."
}

func (t *AddRequestTool) Parameters() string {
	return `{
  "collection_uid": "string (required) - collection uid",
  "request_path": "string (required) - folder path plus request name, e.g. Auth/Refresh",
  "method": "string (optional) - HTTP method, default GET",
  "url": "string (required) - request URL",
  "headers": "object (optional) - header name to value",
  "body": "string|object|array (optional) - raw body; objects are stored as JSON",
  "description": "string (optional) - request description",
  ` + dryRunParam + `
}`
}

func (t *AddRequestTool) Execute(args string) (string, error) {
	return t.ExecuteContext(context.Background(), args)
}

func (t *AddRequestTool) ExecuteContext(ctx context.Context, args string) (string, error) {
	var params struct {
		requestParams
		Description string `json:"description"`
	}
	if err := decodeParams(args, &params); err != nil {
		return "", err
	}
	if params.CollectionUID == "" {
		return "", fmt.Errorf("collection_uid is required")
	}
	if params.URL == "" {
		return "", fmt.Errorf("url is required")
	}
	headers, err := params.headers()
	if err != nil {
		return "", fmt.Errorf("invalid parameters: %w", err)
	}

	return t.c.apply(ctx, reconcile.Op{
		CollectionID: params.CollectionUID,
		Mutation: collection.InsertRequestOp{
			Path: collection.ParsePath(params.RequestPath),
			Spec: collection.RequestSpec{
				Method:      params.Method,
				URL:         params.URL,
				Headers:     headers,
				Body:        params.body(),
				Description: params.Description,
			},
		},
		DryRun:     params.DryRun,
		LocalFirst: true,
	})
}

// UpdateRequestTool changes an existing request.
type UpdateRequestTool struct {
	c *CollectionTools
}

func NewUpdateRequestTool(c *CollectionTools) *UpdateRequestTool {
	return &UpdateRequestTool{c: c}
}

func (t *UpdateRequestTool) Name() string { return "update_request" }

func (t *UpdateRequestTool) Description() string {
	return "Update a request in a collection by path. Only the supplied fields change. " +
		"When a local collection file exists it is updated and pushed with the sync script; otherwise the cloud copy is updated."
}

func (t *UpdateRequestTool) Parameters() string {
	return `{
  "collection_uid": "string (required) - collection uid",
  "request_path": "string (required) - path of the request, e.g. Auth/Login",
  "method": "string (optional) - new HTTP method",
  "url": "string (optional) - new URL",
  "headers": "object (optional) - replaces all headers; {} clears them",
  "body": "string|object|array (optional) - new raw body",
  "description": "string (optional) - new description",
  "rename_to": "string (optional) - new request name",
  ` + dryRunParam + `
}`
}

func (t *UpdateRequestTool) Execute(args string) (string, error) {
	return t.ExecuteContext(context.Background(), args)
}

func (t *UpdateRequestTool) ExecuteContext(ctx context.Context, args string) (string, error) {
	var params struct {
		requestParams
		Description *string `json:"description"`
		RenameTo    string  `json:"rename_to"`
	}
	if err := decodeParams(args, &params); err != nil {
		return "", err
	}
	if params.CollectionUID == "" {
		return "", fmt.Errorf("collection_uid is required")
	}
	headers, err := params.headers()
	if err != nil {
		return "", fmt.Errorf("invalid parameters: %w", err)
	}

	return t.c.apply(ctx, reconcile.Op{
		CollectionID: params.CollectionUID,
		Mutation: collection.UpdateRequestOp{
			Path: collection.ParsePath(params.RequestPath),
			Patch: collection.RequestPatch{
				Method:      params.Method,
				URL:         params.URL,
				Headers:     headers,
				Body:        params.body(),
				Description: params.Description,
				RenameTo:    params.RenameTo,
			},
		},
		DryRun:     params.DryRun,
		LocalFirst: true,
	})
}

// DeleteItemTool removes a request or folder. The same type serves
// delete_folder, which only differs in its parameter name.
type DeleteItemTool struct {
	c         *CollectionTools
	name      string
	pathParam string
}

func NewDeleteItemTool(c *CollectionTools) *DeleteItemTool {
	return &DeleteItemTool{c: c, name: "delete_item", pathParam: "item_path"}
}

func NewDeleteFolderTool(c *CollectionTools) *DeleteItemTool {
	return &DeleteItemTool{c: c, name: "delete_folder", pathParam: "folder_path"}
}

func (t *DeleteItemTool) Name() string { return t.name }

func (t *DeleteItemTool) Description() string {
	if t.name == "delete_folder" {
		return "Delete a folder and everything in it from a collection by path."
	}
	return "Delete a request or folder from a collection by path."
}

func (t *DeleteItemTool) Parameters() string {
	return `{
  "collection_uid": "string (required) - collection uid",
  "` + t.pathParam + `": "string (required) - path of the item, e.g. Auth/Login",
  ` + dryRunParam + `
}`
}

func (t *DeleteItemTool) Execute(args string) (string, error) {
	return t.ExecuteContext(context.Background(), args)
}

func (t *DeleteItemTool) ExecuteContext(ctx context.Context, args string) (string, error) {
	var params map[string]json.RawMessage
	if err := decodeParams(args, &params); err != nil {
		return "", err
	}
	var uid, path string
	var dryRun bool
	for key, dst := range map[string]interface{}{"collection_uid": &uid, t.pathParam: &path, "dry_run": &dryRun} {
		if raw, ok := params[key]; ok {
			if err := json.Unmarshal(raw, dst); err != nil {
				return "", fmt.Errorf("invalid parameters: %s: %w", key, err)
			}
		}
	}
	if uid == "" {
		return "", fmt.Errorf("collection_uid is required")
	}
	segments := collection.ParsePath(path)
	if len(segments) == 0 {
		return "", errors.Newf(errors.ErrMissingPath, "%s is required", t.pathParam)
	}

	return t.c.apply(ctx, reconcile.Op{
		CollectionID: uid,
		Mutation:     collection.DeleteItemOp{Path: segments},
		DryRun:       dryRun,
	})
}

// RenameFolderTool renames a folder.
type RenameFolderTool struct {
	c *CollectionTools
}

func NewRenameFolderTool(c *CollectionTools) *RenameFolderTool {
	return &RenameFolderTool{c: c}
}

func (t *RenameFolderTool) Name() string { return "rename_folder" }

func (t *RenameFolderTool) Description() string {
	return "Rename a folder in a collection by path."
}

func (t *RenameFolderTool) Parameters() string {
	return `{
  "collection_uid": "string (required) - collection uid",
  "folder_path": "string (required) - path of the folder",
  "rename_to": "string (required) - new folder name",
  ` + dryRunParam + `
}`
}

func (t *RenameFolderTool) Execute(args string) (string, error) {
	return t.ExecuteContext(context.Background(), args)
}

func (t *RenameFolderTool) ExecuteContext(ctx context.Context, args string) (string, error) {
	var params struct {
		CollectionUID string `json:"collection_uid"`
		FolderPath    string `json:"folder_path"`
		RenameTo      string `json:"rename_to"`
		DryRun        bool   `json:"dry_run"`
	}
	if err := decodeParams(args, &params); err != nil {
		return "", err
	}
	if params.CollectionUID == "" {
		return "", fmt.Errorf("collection_uid is required")
	}

	return t.c.apply(ctx, reconcile.Op{
		CollectionID: params.CollectionUID,
		Mutation:     collection.RenameFolderOp{Path: collection.ParsePath(params.FolderPath), NewName: params.RenameTo},
		DryRun:       params.DryRun,
	})
}
