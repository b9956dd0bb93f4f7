package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blackcoderx/colsync/pkg/collection"
	"github.com/blackcoderx/colsync/pkg/errors"
	"github.com/blackcoderx/colsync/pkg/storage"
)

// SnippetTool renders a collection request as a curl command or a Python
// requests script.
type SnippetTool struct {
	c *CollectionTools
	// baseDir holds the environments directory.
	baseDir string
}

func NewSnippetTool(c *CollectionTools, baseDir string) *SnippetTool {
	return &SnippetTool{c: c, baseDir: baseDir}
}

func (t *SnippetTool) Name() string { return "generate_code_snippet" }

func (t *SnippetTool) Description() string {
	return "Generate a curl or python-requests snippet for a request in a collection. " +
		"Optionally substitute {{VAR}} placeholders from a local environment."
}

func (t *SnippetTool) Parameters() string {
	return `{
  "collection_uid": "string (required) - collection uid",
  "item_name": "string (required) - request name",
  "language": "string (optional) - curl (default) or python-requests",
  "environment": "string (optional) - local environment name used for {{VAR}} substitution"
}`
}

func (t *SnippetTool) Execute(args string) (string, error) {
	return t.ExecuteContext(context.Background(), args)
}

func (t *SnippetTool) ExecuteContext(ctx context.Context, args string) (string, error) {
	var params struct {
		CollectionUID string `json:"collection_uid"`
		ItemName      string `json:"item_name"`
		Language      string `json:"language"`
		Environment   string `json:"environment"`
	}
	if err := decodeParams(args, &params); err != nil {
		return "", err
	}
	if params.ItemName == "" {
		return "", fmt.Errorf("item_name is required")
	}

	format, err := snippetFormatter(params.Language)
	if err != nil {
		return "", err
	}

	var env map[string]string
	if params.Environment != "" {
		env, err = storage.LoadNamedEnvironment(t.baseDir, params.Environment)
		if err != nil {
			return "", err
		}
	}

	doc, err := t.c.load(ctx, params.CollectionUID)
	if err != nil {
		return "", err
	}
	entry, ok := collection.Pick(doc.Tree, params.ItemName, false)
	if !ok || entry.Kind != collection.KindRequest {
		return "", notFound("Request not found.", params.ItemName, doc.Tree)
	}

	return format(snippetOf(entry.Node.Request, env)), nil
}

// snippet is a request reduced to what the formatters need.
type snippet struct {
	Method  string
	URL     string
	Headers [][2]string
	Raw     string
	Data    [][2]string
}

func snippetOf(req *collection.Request, env map[string]string) snippet {
	sub := func(s string) string {
		if env == nil {
			return s
		}
		return storage.SubstituteVariables(s, env)
	}

	s := snippet{Method: "GET"}
	if req == nil {
		return s
	}
	if req.Method != "" {
		s.Method = strings.ToUpper(req.Method)
	}
	s.URL = sub(req.URL.Value)

	// later duplicates overwrite the value but keep the first position
	index := make(map[string]int)
	for _, h := range req.Headers {
		if h.Disabled || h.Key == "" {
			continue
		}
		if i, ok := index[h.Key]; ok {
			s.Headers[i][1] = sub(h.Value)
			continue
		}
		index[h.Key] = len(s.Headers)
		s.Headers = append(s.Headers, [2]string{h.Key, sub(h.Value)})
	}

	if req.Body != nil {
		switch req.Body.Mode {
		case "raw":
			s.Raw = sub(req.Body.Raw)
		case "urlencoded", "formdata":
			for _, p := range req.Body.Params() {
				s.Data = append(s.Data, [2]string{p[0], sub(p[1])})
			}
		}
	}
	return s
}

func snippetFormatter(language string) (func(snippet) string, error) {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "", "curl":
		return formatCurl, nil
	case "python", "python-requests", "requests":
		return formatPythonRequests, nil
	}
	return nil, errors.Newf(errors.ErrInvalidInput, "Unsupported language '%s'. Use 'curl' or 'python-requests'.", language)
}

func formatCurl(s snippet) string {
	parts := []string{fmt.Sprintf("curl -X %s %s", s.Method, shellQuote(s.URL))}
	for _, h := range s.Headers {
		parts = append(parts, "-H "+shellQuote(h[0]+": "+h[1]))
	}
	switch {
	case s.Raw != "":
		parts = append(parts, "--data-raw "+shellQuote(s.Raw))
	case len(s.Data) > 0:
		parts = append(parts, "--data "+shellQuote(jsonObject(s.Data, "")))
	}
	return strings.Join(parts, " \\\n  ")
}

func formatPythonRequests(s snippet) string {
	lines := []string{"import requests", "", "url = " + jsonString(s.URL)}
	if len(s.Headers) > 0 {
		lines = append(lines, "headers = "+jsonObject(s.Headers, "  "))
	} else {
		lines = append(lines, "headers = {}")
	}

	call := fmt.Sprintf("resp = requests.request('%s', url, headers=headers)", s.Method)
	switch {
	case s.Raw != "":
		lines = append(lines, "data = "+jsonString(s.Raw))
		call = fmt.Sprintf("resp = requests.request('%s', url, headers=headers, data=data)", s.Method)
	case len(s.Data) > 0:
		lines = append(lines, "data = "+jsonObject(s.Data, "  "))
		call = fmt.Sprintf("resp = requests.request('%s', url, headers=headers, data=data)", s.Method)
	}
	lines = append(lines, call, "print(resp.status_code)", "print(resp.text)")
	return strings.Join(lines, "\n")
}

// shellQuote wraps s in single quotes for a POSIX shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimRight(buf.String(), "\n")
}

// jsonObject renders ordered pairs as a JSON object. An empty indent keeps
// it on one line with ", " and ": " separators.
func jsonObject(pairs [][2]string, indent string) string {
	if len(pairs) == 0 {
		return "{}"
	}
	members := make([]string, len(pairs))
	for i, p := range pairs {
		members[i] = jsonString(p[0]) + ": " + jsonString(p[1])
	}
	if indent == "" {
		return "{" + strings.Join(members, ", ") + "}"
	}
	return "{\n" + indent + strings.Join(members, ",\n"+indent) + "\n}"
}
