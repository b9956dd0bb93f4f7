package core

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/blackcoderx/colsync/pkg/errors"
	"github.com/blackcoderx/colsync/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/sahilm/fuzzy"
)

// Registry holds the available tools by name.
type Registry struct {
	tools   map[string]Tool
	toolsMu sync.RWMutex
	logger  zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:  make(map[string]Tool),
		logger: logging.GetLogger("registry"),
	}
}

// RegisterTool adds a tool, replacing any tool with the same name.
func (r *Registry) RegisterTool(tool Tool) {
	r.toolsMu.Lock()
	defer r.toolsMu.Unlock()
	r.tools[tool.Name()] = tool
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.toolsMu.RLock()
	defer r.toolsMu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// Tools returns every registered tool sorted by name.
func (r *Registry) Tools() []Tool {
	r.toolsMu.RLock()
	defer r.toolsMu.RUnlock()
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Names returns the sorted tool names.
func (r *Registry) Names() []string {
	tools := r.Tools()
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name()
	}
	return names
}

// Execute runs the named tool. Unknown names get the closest registered
// names as suggestions.
func (r *Registry) Execute(ctx context.Context, name, args string) (string, error) {
	tool, ok := r.Get(name)
	if !ok {
		if suggestions := Suggest(name, r.Names(), 3); len(suggestions) > 0 {
			return "", fmt.Errorf("tool '%s' not found (did you mean: %s?)", name, joinQuoted(suggestions))
		}
		return "", fmt.Errorf("tool '%s' not found", name)
	}
	if args == "" {
		args = "{}"
	}

	done := logging.LogOperationStart(r.logger, name)
	defer done()

	var out string
	var err error
	if ct, ok := tool.(ContextTool); ok {
		out, err = ct.ExecuteContext(ctx, args)
	} else {
		out, err = tool.Execute(args)
	}
	if err != nil {
		// path and input mistakes are the caller's, not failures of the tool
		event := r.logger.Error()
		if errors.IsStructural(err) {
			event = r.logger.Info()
		}
		event.Err(err).Str("tool", name).Str("code", string(errors.GetErrorCode(err))).Msg("Tool call failed")
	}
	return out, err
}

// Suggest ranks candidates by fuzzy similarity to query and returns at most
// limit of them.
func Suggest(query string, candidates []string, limit int) []string {
	if query == "" || len(candidates) == 0 {
		return nil
	}
	matches := fuzzy.Find(query, candidates)
	out := make([]string, 0, limit)
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

func joinQuoted(items []string) string {
	s := ""
	for i, it := range items {
		if i > 0 {
			s += ", "
		}
		s += "'" + it + "'"
	}
	return s
}
