package collection

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// fields is a JSON object that remembers member order and keeps the raw value
// of every member, including the ones this package never interprets.
type fields struct {
	keys   []string
	values map[string]json.RawMessage
}

func (f *fields) get(key string) (json.RawMessage, bool) {
	v, ok := f.values[key]
	return v, ok
}

// set replaces the value of key, keeping its position, or appends it.
func (f *fields) set(key string, value json.RawMessage) {
	if f.values == nil {
		f.values = make(map[string]json.RawMessage)
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

func (f *fields) setValue(key string, v interface{}) error {
	data, err := marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	f.set(key, data)
	return nil
}

func (f *fields) clone() fields {
	out := fields{
		keys:   append([]string(nil), f.keys...),
		values: make(map[string]json.RawMessage, len(f.values)),
	}
	for k, v := range f.values {
		out.values[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

func decodeFields(data []byte) (fields, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fields{}, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fields{}, fmt.Errorf("expected a JSON object")
	}

	f := fields{values: make(map[string]json.RawMessage)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fields{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return fields{}, fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fields{}, fmt.Errorf("member %q: %w", key, err)
		}
		f.set(key, raw)
	}
	if _, err := dec.Token(); err != nil {
		return fields{}, err
	}
	return f, nil
}

func (f fields) encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(f.values[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshal encodes v without HTML escaping so names like "A & B" survive a
// round trip byte for byte.
func marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
