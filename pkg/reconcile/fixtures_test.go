package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/blackcoderx/colsync/pkg/collection"
	"github.com/stretchr/testify/require"
)

const remoteDemo = `{"collection":{"info":{"name":"Demo","_postman_id":"p-1"},"item":[{"name":"Auth","item":[{"name":"Login","request":{"method":"POST","url":"https://api/login"},"response":[]}]}]}}`

const localDemo = `{
    "info": {
        "name": "Demo",
        "schema": "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"
    },
    "item": [
        {
            "name": "Auth",
            "item": [
                {
                    "name": "Login",
                    "request": {
                        "method": "POST",
                        "url": "https://api/login"
                    },
                    "response": []
                }
            ]
        }
    ]
}
`

// fakeStore serves a fixed remote document and records writes.
type fakeStore struct {
	data   string
	getErr error
	putErr error

	gets int
	puts []*collection.Document
}

func (s *fakeStore) Get(ctx context.Context, uid string) (*collection.Document, error) {
	s.gets++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return collection.ParseDocument([]byte(s.data))
}

func (s *fakeStore) Put(ctx context.Context, uid string, doc *collection.Document) ([]byte, error) {
	if s.putErr != nil {
		return nil, s.putErr
	}
	s.puts = append(s.puts, doc)
	return []byte(`{"collection":{"id":"` + uid + `","name":"Demo"}}`), nil
}

// project lays out root/postman/collections/<file> and returns the root and
// the collection file path.
func project(t *testing.T, filename, content string) (string, string) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "postman", "collections")
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, filename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return root, path
}

func writeScript(t *testing.T, root, body string) {
	t.Helper()
	dir := filepath.Join(root, "postman", "scripts")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "update_postman.sh"), []byte(body), 0755))
}
