package collection

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is a whole collection document. It remembers whether the
// collection arrived wrapped in a {"collection": {...}} envelope and writes
// it back in the same shape.
type Document struct {
	Tree *Tree

	enveloped bool
	outer     fields
	body      fields
}

// ParseDocument decodes a collection document, enveloped or bare.
func ParseDocument(data []byte) (*Document, error) {
	top, err := decodeFields(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse collection document: %w", err)
	}

	doc := &Document{Tree: &Tree{}}
	if raw, ok := top.get("collection"); ok && isObject(raw) {
		body, err := decodeFields(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse collection: %w", err)
		}
		doc.enveloped, doc.outer, doc.body = true, top, body
	} else {
		doc.body = top
	}

	if raw, ok := doc.body.get("item"); ok && !isNull(raw) {
		var items []*Node
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("failed to parse collection items: %w", err)
		}
		doc.Tree.Items = dropNil(items)
	}
	return doc, nil
}

// Enveloped reports whether the document uses the {"collection": ...} shape.
func (d *Document) Enveloped() bool {
	return d.enveloped
}

// Name returns info.name, or "" when the document has none.
func (d *Document) Name() string {
	raw, ok := d.body.get("info")
	if !ok || !isObject(raw) {
		return ""
	}
	var info struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &info); err != nil {
		return ""
	}
	return info.Name
}

// Encode returns the compact JSON form of the document.
func (d *Document) Encode() ([]byte, error) {
	data, err := d.EncodeCollection()
	if err != nil {
		return nil, err
	}
	if !d.enveloped {
		return data, nil
	}
	outer := d.outer.clone()
	outer.set("collection", data)
	return outer.encode()
}

// EncodeCollection returns the compact collection object without any
// envelope.
func (d *Document) EncodeCollection() ([]byte, error) {
	body := d.body.clone()
	items := d.Tree.Items
	if items == nil {
		items = []*Node{}
	}
	if err := body.setValue("item", items); err != nil {
		return nil, err
	}
	return body.encode()
}

// EncodeIndent returns the document indented with the given string.
func (d *Document) EncodeIndent(indent string) ([]byte, error) {
	data, err := d.Encode()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Clone returns an independent copy of the document.
func (d *Document) Clone() *Document {
	return &Document{
		Tree:      d.Tree.Clone(),
		enveloped: d.enveloped,
		outer:     d.outer.clone(),
		body:      d.body.clone(),
	}
}
