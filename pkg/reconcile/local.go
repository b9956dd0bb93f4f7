package reconcile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/blackcoderx/colsync/pkg/collection"
	"github.com/blackcoderx/colsync/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

// localIndent matches the layout of exported collection files.
const localIndent = "    "

// collectionSchema accepts a v2.1 collection, bare or wrapped in a
// {"collection": ...} envelope.
const collectionSchema = `{
	"definitions": {
		"item": {
			"type": "object",
			"properties": {
				"name": {"type": "string"},
				"item": {"type": "array", "items": {"$ref": "#/definitions/item"}},
				"request": {
					"type": ["object", "string"],
					"properties": {
						"method": {"type": "string", "minLength": 1}
					}
				}
			}
		},
		"collection": {
			"type": "object",
			"required": ["item"],
			"properties": {
				"info": {"type": "object"},
				"item": {"type": "array", "items": {"$ref": "#/definitions/item"}}
			}
		}
	},
	"anyOf": [
		{"$ref": "#/definitions/collection"},
		{
			"type": "object",
			"required": ["collection"],
			"properties": {"collection": {"$ref": "#/definitions/collection"}}
		}
	]
}`

var schemaLoader = gojsonschema.NewStringLoader(collectionSchema)

// ValidateDocument checks the encoded document against the collection
// schema.
func ValidateDocument(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("invalid collection document: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// ApplyLocal loads the collection file at path, applies m, validates the
// result and writes it back. It returns a unified diff of the file.
func ApplyLocal(path string, m collection.Mutation) (string, error) {
	original, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrLocalWriteFailed, "failed to read local collection").
			WithDetail("path", path)
	}
	doc, err := collection.ParseDocument(original)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrLocalWriteFailed, "local file is not a collection").
			WithDetail("path", path)
	}
	if err := m.Apply(doc.Tree); err != nil {
		return "", errors.Wrap(err, errors.ErrLocalWriteFailed, "change does not apply to local file").
			WithDetail("path", path)
	}

	updated, err := doc.EncodeIndent(localIndent)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrLocalWriteFailed, "failed to encode local collection").
			WithDetail("path", path)
	}
	if bytes.HasSuffix(original, []byte("\n")) {
		updated = append(updated, '\n')
	}
	if err := ValidateDocument(updated); err != nil {
		return "", errors.Wrap(err, errors.ErrLocalWriteFailed, "refusing to write local collection").
			WithDetail("path", path)
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, updated, mode); err != nil {
		return "", errors.Wrap(err, errors.ErrLocalWriteFailed, "failed to write local collection").
			WithDetail("path", path)
	}

	return unifiedDiff(filepath.Base(path), string(original), string(updated)), nil
}

func unifiedDiff(name, before, after string) string {
	edits := udiff.Strings(before, after)
	unified, err := udiff.ToUnified("a/"+name, "b/"+name, before, edits, 3)
	if err != nil {
		return ""
	}
	return unified
}
