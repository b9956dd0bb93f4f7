package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/blackcoderx/colsync/pkg/collection"
	"github.com/blackcoderx/colsync/pkg/reconcile"
	"github.com/rs/zerolog"
)

const demoCollection = `{"collection":{"info":{"name":"Demo"},"item":[
 {"name":"Auth","item":[
  {"name":"Login","id":"r-1","request":{"method":"POST","url":{"raw":"{{BASE_URL}}/login"},
   "header":[{"key":"Content-Type","value":"application/json"},{"key":"X-Debug","value":"1","disabled":true}],
   "body":{"mode":"raw","raw":"{\"user\":\"it's me\"}"}}},
  {"name":"Logout","request":"https://api/logout"}
 ]},
 {"name":"Token","request":{"method":"post","url":"https://api/token",
  "body":{"mode":"urlencoded","urlencoded":[{"key":"grant_type","value":"client_credentials"},{"key":"scope","value":"{{SCOPE}}"}]}}},
 {"name":"Health","request":{"url":"https://api/health"}}
]}}`

// fakeAPI serves demoCollection and records writes.
type fakeAPI struct {
	data string
	puts []*collection.Document
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{data: demoCollection}
}

func (f *fakeAPI) Get(ctx context.Context, uid string) (*collection.Document, error) {
	return collection.ParseDocument([]byte(f.data))
}

func (f *fakeAPI) Put(ctx context.Context, uid string, doc *collection.Document) ([]byte, error) {
	f.puts = append(f.puts, doc)
	return []byte(`{"collection":{"id":"` + uid + `"}}`), nil
}

func (f *fakeAPI) ListCollections(ctx context.Context) (json.RawMessage, error) {
	return json.RawMessage(`[{"uid":"c-1","name":"Demo"}]`), nil
}

func (f *fakeAPI) GetCollectionRaw(ctx context.Context, uid string) (json.RawMessage, error) {
	return json.RawMessage(f.data), nil
}

func (f *fakeAPI) GetEnvironment(ctx context.Context, uid string) (json.RawMessage, error) {
	return json.RawMessage(`{"name":"Remote","values":[{"key":"BASE_URL","value":"https://remote","enabled":true}]}`), nil
}

// newTestTools returns collection tools backed by api with the local path
// disabled.
func newTestTools(t *testing.T, api *fakeAPI) *CollectionTools {
	t.Helper()
	return NewCollectionTools(api, reconcile.New(api, nil, nil, zerolog.Nop()), false)
}

func mustExecute(t *testing.T, tool contextExecutor, args string) string {
	t.Helper()
	out, err := tool.ExecuteContext(context.Background(), args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out
}

// contextExecutor is the part of a tool the tests drive.
type contextExecutor interface {
	ExecuteContext(ctx context.Context, args string) (string, error)
}
