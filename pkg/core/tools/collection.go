package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blackcoderx/colsync/pkg/collection"
	"github.com/blackcoderx/colsync/pkg/core"
	"github.com/blackcoderx/colsync/pkg/errors"
	"github.com/blackcoderx/colsync/pkg/reconcile"
)

// CollectionAPI is the remote surface the collection tools use.
type CollectionAPI interface {
	reconcile.Store
	ListCollections(ctx context.Context) (json.RawMessage, error)
	GetCollectionRaw(ctx context.Context, uid string) (json.RawMessage, error)
	GetEnvironment(ctx context.Context, uid string) (json.RawMessage, error)
}

// CollectionTools holds what the collection tools share.
type CollectionTools struct {
	api        CollectionAPI
	reconciler *reconcile.Reconciler
	showPatch  bool
}

// NewCollectionTools creates the shared state for the collection tools.
func NewCollectionTools(api CollectionAPI, reconciler *reconcile.Reconciler, showPatch bool) *CollectionTools {
	return &CollectionTools{api: api, reconciler: reconciler, showPatch: showPatch}
}

// apply runs op through the reconciler and renders the result.
func (c *CollectionTools) apply(ctx context.Context, op reconcile.Op) (string, error) {
	res, err := c.reconciler.Apply(ctx, op)
	if err != nil {
		return "", withSuggestions(err)
	}
	return res.Text(c.showPatch), nil
}

func (c *CollectionTools) load(ctx context.Context, uid string) (*collection.Document, error) {
	if uid == "" {
		return nil, fmt.Errorf("collection_uid is required")
	}
	return c.api.Get(ctx, uid)
}

// decodeParams unmarshals tool arguments into v.
func decodeParams(args string, v interface{}) error {
	if err := json.Unmarshal([]byte(args), v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

// indentJSON pretty-prints raw JSON, falling back to the input.
func indentJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// marshalIndent encodes v with two-space indent and no HTML escaping.
func marshalIndent(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// withSuggestions appends "did you mean" hints to a not-found error that
// carries the target path and the candidate paths of the tree.
func withSuggestions(err error) error {
	if !errors.IsErrorCode(err, errors.ErrNotFound) {
		return err
	}
	details := errors.GetErrorDetails(err)
	path, _ := details["path"].(string)
	candidates, _ := details["candidates"].([]string)
	if path == "" || len(candidates) == 0 {
		return err
	}
	return suggestErr(err, path, candidates)
}

func suggestErr(err error, query string, candidates []string) error {
	suggestions := core.Suggest(query, candidates, 3)
	if len(suggestions) == 0 {
		// fall back to the last segment so "Auth/Logn" still finds "Auth/Login"
		segs := collection.ParsePath(query)
		if len(segs) > 1 {
			suggestions = core.Suggest(segs[len(segs)-1], candidates, 3)
		}
	}
	if len(suggestions) == 0 {
		return err
	}
	quoted := make([]string, len(suggestions))
	for i, s := range suggestions {
		quoted[i] = "'" + s + "'"
	}
	return fmt.Errorf("%w (did you mean: %s?)", err, strings.Join(quoted, ", "))
}

// ListCollectionsTool lists the collections visible to the API key.
type ListCollectionsTool struct {
	c *CollectionTools
}

func NewListCollectionsTool(c *CollectionTools) *ListCollectionsTool {
	return &ListCollectionsTool{c: c}
}

func (t *ListCollectionsTool) Name() string { return "list_collections" }

func (t *ListCollectionsTool) Description() string {
	return "List Postman collections."
}

func (t *ListCollectionsTool) Parameters() string { return `{}` }

func (t *ListCollectionsTool) Execute(args string) (string, error) {
	return t.ExecuteContext(context.Background(), args)
}

func (t *ListCollectionsTool) ExecuteContext(ctx context.Context, args string) (string, error) {
	data, err := t.c.api.ListCollections(ctx)
	if err != nil {
		return "", err
	}
	return indentJSON(data), nil
}

// GetCollectionTool returns a whole collection as the API serves it.
type GetCollectionTool struct {
	c *CollectionTools
}

func NewGetCollectionTool(c *CollectionTools) *GetCollectionTool {
	return &GetCollectionTool{c: c}
}

func (t *GetCollectionTool) Name() string { return "get_collection" }

func (t *GetCollectionTool) Description() string {
	return "Get a Postman collection by uid."
}

func (t *GetCollectionTool) Parameters() string {
	return `{"uid": "string (required) - collection uid"}`
}

func (t *GetCollectionTool) Execute(args string) (string, error) {
	return t.ExecuteContext(context.Background(), args)
}

func (t *GetCollectionTool) ExecuteContext(ctx context.Context, args string) (string, error) {
	var params struct {
		UID string `json:"uid"`
	}
	if err := decodeParams(args, &params); err != nil {
		return "", err
	}
	if params.UID == "" {
		return "", fmt.Errorf("uid is required")
	}
	data, err := t.c.api.GetCollectionRaw(ctx, params.UID)
	if err != nil {
		return "", err
	}
	return indentJSON(data), nil
}

// SearchCollectionItemsTool finds folders and requests by name.
type SearchCollectionItemsTool struct {
	c *CollectionTools
}

func NewSearchCollectionItemsTool(c *CollectionTools) *SearchCollectionItemsTool {
	return &SearchCollectionItemsTool{c: c}
}

func (t *SearchCollectionItemsTool) Name() string { return "search_collection_items" }

func (t *SearchCollectionItemsTool) Description() string {
	return "Search requests and folders by name within a collection. Returns type, name, path and id of each match."
}

func (t *SearchCollectionItemsTool) Parameters() string {
	return `{
  "collection_uid": "string (required) - collection uid",
  "query": "string (required) - substring of the item name",
  "case_sensitive": "boolean (optional) - default false"
}`
}

func (t *SearchCollectionItemsTool) Execute(args string) (string, error) {
	return t.ExecuteContext(context.Background(), args)
}

func (t *SearchCollectionItemsTool) ExecuteContext(ctx context.Context, args string) (string, error) {
	var params struct {
		CollectionUID string `json:"collection_uid"`
		Query         string `json:"query"`
		CaseSensitive bool   `json:"case_sensitive"`
	}
	if err := decodeParams(args, &params); err != nil {
		return "", err
	}
	if params.Query == "" {
		return "", fmt.Errorf("query is required")
	}
	doc, err := t.c.load(ctx, params.CollectionUID)
	if err != nil {
		return "", err
	}

	matches := collection.Search(doc.Tree, params.Query, params.CaseSensitive)
	views := make([]itemView, len(matches))
	for i, e := range matches {
		views[i] = entryView(e)
	}
	return marshalIndent(views)
}

// itemView is an entry as the read tools render it. id is always present,
// null when the item has none.
type itemView struct {
	Type    collection.Kind     `json:"type"`
	Name    string              `json:"name"`
	Path    string              `json:"path"`
	ID      *string             `json:"id"`
	Request *collection.Request `json:"request,omitempty"`
}

// GetCollectionItemTool returns one folder or request by name.
type GetCollectionItemTool struct {
	c *CollectionTools
}

func NewGetCollectionItemTool(c *CollectionTools) *GetCollectionItemTool {
	return &GetCollectionItemTool{c: c}
}

func (t *GetCollectionItemTool) Name() string { return "get_collection_item" }

func (t *GetCollectionItemTool) Description() string {
	return "Get a request or folder in a collection by name. An exact name match wins over a partial one."
}

func (t *GetCollectionItemTool) Parameters() string {
	return `{
  "collection_uid": "string (required) - collection uid",
  "item_name": "string (required) - item name",
  "case_sensitive": "boolean (optional) - default false"
}`
}

func (t *GetCollectionItemTool) Execute(args string) (string, error) {
	return t.ExecuteContext(context.Background(), args)
}

func (t *GetCollectionItemTool) ExecuteContext(ctx context.Context, args string) (string, error) {
	var params struct {
		CollectionUID string `json:"collection_uid"`
		ItemName      string `json:"item_name"`
		CaseSensitive bool   `json:"case_sensitive"`
	}
	if err := decodeParams(args, &params); err != nil {
		return "", err
	}
	if params.ItemName == "" {
		return "", fmt.Errorf("item_name is required")
	}
	doc, err := t.c.load(ctx, params.CollectionUID)
	if err != nil {
		return "", err
	}

	entry, ok := collection.Pick(doc.Tree, params.ItemName, params.CaseSensitive)
	if !ok {
		return "", notFound("Item not found.", params.ItemName, doc.Tree)
	}
	return marshalIndent(viewOf(entry))
}

func entryView(e collection.Entry) itemView {
	v := itemView{Type: e.Kind, Name: e.Name, Path: e.Path}
	if e.ID != "" {
		id := e.ID
		v.ID = &id
	}
	return v
}

// viewOf is entryView plus the request payload.
func viewOf(e collection.Entry) itemView {
	v := entryView(e)
	if e.Kind == collection.KindRequest {
		v.Request = e.Node.Request
	}
	return v
}

// notFound builds a NOT_FOUND error with suggestions drawn from the names
// in tree.
func notFound(msg, query string, tree *collection.Tree) error {
	var names []string
	seen := make(map[string]bool)
	for _, e := range collection.Flatten(tree) {
		if !seen[e.Name] {
			seen[e.Name] = true
			names = append(names, e.Name)
		}
	}
	return suggestErr(errors.New(errors.ErrNotFound, msg).WithDetail("name", query), query, names)
}
