// Package collection models a Postman-style collection document as a tree of
// folders and requests and provides path-addressed lookup, mutation and
// diffing over it.
package collection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind tags a Node as a folder or a request.
type Kind string

const (
	KindFolder  Kind = "folder"
	KindRequest Kind = "request"
)

// Text is a collection value that may be written either as a plain string or
// as a structured object. url ({"raw": ...}) and description
// ({"content": ...}) both allow the two forms.
type Text struct {
	Value string
	raw   json.RawMessage
}

// NewText returns a plain string Text.
func NewText(s string) Text {
	return Text{Value: s}
}

// Structured reports whether the value was read from an object form.
func (t Text) Structured() bool {
	return t.raw != nil
}

func (t Text) MarshalJSON() ([]byte, error) {
	if t.raw != nil {
		return t.raw, nil
	}
	return marshal(t.Value)
}

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil && !isNull(data) {
		t.Value, t.raw = s, nil
		return nil
	}
	t.raw = append(json.RawMessage(nil), data...)
	t.Value = ""
	if !isObject(data) {
		return nil
	}
	var obj struct {
		Raw     string `json:"raw"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	t.Value = obj.Raw
	if t.Value == "" {
		t.Value = obj.Content
	}
	return nil
}

func (t Text) clone() Text {
	if t.raw == nil {
		return t
	}
	return Text{Value: t.Value, raw: append(json.RawMessage(nil), t.raw...)}
}

// Header is one entry of a request's ordered header list.
type Header struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
	Description *Text  `json:"description,omitempty"`
}

// HeadersFromJSON converts a JSON object into a header list, keeping the
// member order of the object. null or empty input returns nil.
func HeadersFromJSON(raw json.RawMessage) ([]Header, error) {
	if isNull(raw) {
		return nil, nil
	}
	f, err := decodeFields(raw)
	if err != nil {
		return nil, fmt.Errorf("headers must be an object: %w", err)
	}
	headers := make([]Header, 0, len(f.keys))
	for _, k := range f.keys {
		var v interface{}
		if err := json.Unmarshal(f.values[k], &v); err != nil {
			return nil, err
		}
		value, ok := v.(string)
		if !ok && v != nil {
			value = strings.TrimSpace(string(f.values[k]))
		}
		headers = append(headers, Header{Key: k, Value: value})
	}
	return headers, nil
}

// Body is a request body. Only raw bodies are written by this package; other
// modes are carried through untouched.
type Body struct {
	Mode string
	Raw  string
	rest fields
}

// NewRawBody returns a body in raw mode.
func NewRawBody(raw string) *Body {
	return &Body{Mode: "raw", Raw: raw}
}

// Params returns the key/value pairs of an urlencoded or formdata body in
// document order.
func (b *Body) Params() [][2]string {
	if b == nil || (b.Mode != "urlencoded" && b.Mode != "formdata") {
		return nil
	}
	raw, ok := b.rest.get(b.Mode)
	if !ok {
		return nil
	}
	var items []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	params := make([][2]string, 0, len(items))
	for _, it := range items {
		params = append(params, [2]string{it.Key, it.Value})
	}
	return params
}

func (b Body) MarshalJSON() ([]byte, error) {
	f := b.rest.clone()
	if _, ok := f.get("mode"); ok || b.Mode != "" {
		if err := f.setValue("mode", b.Mode); err != nil {
			return nil, err
		}
	}
	if _, ok := f.get("raw"); ok || b.Mode == "raw" {
		if err := f.setValue("raw", b.Raw); err != nil {
			return nil, err
		}
	}
	return f.encode()
}

func (b *Body) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	var known struct {
		Mode string `json:"mode"`
		Raw  string `json:"raw"`
	}
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	b.Mode, b.Raw, b.rest = known.Mode, known.Raw, f
	return nil
}

func (b *Body) clone() *Body {
	if b == nil {
		return nil
	}
	return &Body{Mode: b.Mode, Raw: b.Raw, rest: b.rest.clone()}
}

// Request is the payload of a request node.
type Request struct {
	Method      string
	URL         Text
	Headers     []Header
	Body        *Body
	Description *Text

	// short is set when the document stored the request as a bare URL string.
	short bool
	rest  fields
}

// HeaderMap returns the enabled headers as a mapping.
func (r *Request) HeaderMap() map[string]string {
	headers := make(map[string]string)
	if r == nil {
		return headers
	}
	for _, h := range r.Headers {
		if h.Disabled || h.Key == "" {
			continue
		}
		headers[h.Key] = h.Value
	}
	return headers
}

func (r Request) MarshalJSON() ([]byte, error) {
	if r.short && r.Method == "GET" && r.Headers == nil && r.Body == nil &&
		r.Description == nil && !r.URL.Structured() && len(r.rest.keys) == 0 {
		return marshal(r.URL.Value)
	}
	f := r.rest.clone()
	if _, ok := f.get("method"); ok || r.Method != "" {
		if err := f.setValue("method", r.Method); err != nil {
			return nil, err
		}
	}
	if _, ok := f.get("url"); ok || r.URL.Value != "" || r.URL.Structured() {
		if err := f.setValue("url", r.URL); err != nil {
			return nil, err
		}
	}
	if r.Headers != nil {
		if err := f.setValue("header", r.Headers); err != nil {
			return nil, err
		}
	}
	if r.Description != nil {
		if err := f.setValue("description", r.Description); err != nil {
			return nil, err
		}
	}
	if r.Body != nil {
		if err := f.setValue("body", r.Body); err != nil {
			return nil, err
		}
	}
	return f.encode()
}

func (r *Request) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil && !isNull(data) {
		*r = Request{Method: "GET", URL: NewText(s), short: true}
		return nil
	}
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	*r = Request{rest: f}
	if raw, ok := f.get("method"); ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &r.Method); err != nil {
			return fmt.Errorf("method: %w", err)
		}
	}
	if raw, ok := f.get("url"); ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &r.URL); err != nil {
			return fmt.Errorf("url: %w", err)
		}
	}
	if raw, ok := f.get("header"); ok && !isNull(raw) && bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		if err := json.Unmarshal(raw, &r.Headers); err != nil {
			return fmt.Errorf("header: %w", err)
		}
	}
	if raw, ok := f.get("description"); ok && !isNull(raw) {
		r.Description = &Text{}
		if err := json.Unmarshal(raw, r.Description); err != nil {
			return fmt.Errorf("description: %w", err)
		}
	}
	if raw, ok := f.get("body"); ok && isObject(raw) {
		r.Body = &Body{}
		if err := json.Unmarshal(raw, r.Body); err != nil {
			return fmt.Errorf("body: %w", err)
		}
	}
	return nil
}

func (r *Request) clone() *Request {
	if r == nil {
		return nil
	}
	out := &Request{
		Method: r.Method,
		URL:    r.URL.clone(),
		Body:   r.Body.clone(),
		short:  r.short,
		rest:   r.rest.clone(),
	}
	if r.Headers != nil {
		out.Headers = make([]Header, len(r.Headers))
		for i, h := range r.Headers {
			out.Headers[i] = h
			if h.Description != nil {
				d := h.Description.clone()
				out.Headers[i].Description = &d
			}
		}
	}
	if r.Description != nil {
		d := r.Description.clone()
		out.Description = &d
	}
	return out
}

// Node is one item of a collection: a folder with ordered children or a
// request. Members the model does not know about are preserved as-is.
type Node struct {
	Name     string
	ID       string
	Children []*Node
	Request  *Request

	kind Kind
	rest fields
}

// NewFolder returns an empty folder node.
func NewFolder(name string) *Node {
	return &Node{Name: name, Children: []*Node{}, kind: KindFolder}
}

// NewRequestNode returns a request node with an empty response list.
func NewRequestNode(name string, req *Request) *Node {
	n := &Node{Name: name, Request: req, kind: KindRequest}
	n.rest.set("name", json.RawMessage(`""`))
	n.rest.set("request", json.RawMessage(`null`))
	n.rest.set("response", json.RawMessage(`[]`))
	return n
}

// Kind returns the node's variant.
func (n *Node) Kind() Kind {
	return n.kind
}

// IsFolder reports whether the node can hold children.
func (n *Node) IsFolder() bool {
	return n.kind == KindFolder
}

func (n Node) MarshalJSON() ([]byte, error) {
	f := n.rest.clone()
	if err := f.setValue("name", n.Name); err != nil {
		return nil, err
	}
	if n.ID != "" {
		if err := f.setValue("id", n.ID); err != nil {
			return nil, err
		}
	}
	switch n.kind {
	case KindFolder:
		children := n.Children
		if children == nil {
			children = []*Node{}
		}
		if err := f.setValue("item", children); err != nil {
			return nil, err
		}
	default:
		if n.Request != nil {
			if err := f.setValue("request", n.Request); err != nil {
				return nil, err
			}
		}
	}
	return f.encode()
}

func (n *Node) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	*n = Node{rest: f, kind: KindRequest}
	if raw, ok := f.get("name"); ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &n.Name); err != nil {
			return fmt.Errorf("name: %w", err)
		}
	}
	if raw, ok := f.get("id"); ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &n.ID); err != nil {
			return fmt.Errorf("id: %w", err)
		}
	}
	if raw, ok := f.get("item"); ok {
		n.kind = KindFolder
		n.Children = []*Node{}
		if !isNull(raw) {
			var children []*Node
			if err := json.Unmarshal(raw, &children); err != nil {
				return fmt.Errorf("folder %q: %w", n.Name, err)
			}
			n.Children = dropNil(children)
		}
		return nil
	}
	if raw, ok := f.get("request"); ok && !isNull(raw) {
		n.Request = &Request{}
		if err := json.Unmarshal(raw, n.Request); err != nil {
			return fmt.Errorf("request %q: %w", n.Name, err)
		}
	}
	return nil
}

// Clone returns a deep copy of the node and its subtree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Name:    n.Name,
		ID:      n.ID,
		Request: n.Request.clone(),
		kind:    n.kind,
		rest:    n.rest.clone(),
	}
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// Tree is the root item list of one collection document.
type Tree struct {
	Items []*Node
}

// Clone returns an independent deep copy of the tree.
func (t *Tree) Clone() *Tree {
	out := &Tree{Items: make([]*Node, len(t.Items))}
	for i, n := range t.Items {
		out.Items[i] = n.Clone()
	}
	return out
}

// Count returns the number of nodes in the tree.
func (t *Tree) Count() int {
	return len(Flatten(t))
}

func dropNil(nodes []*Node) []*Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	if out == nil {
		return []*Node{}
	}
	return out
}
