package main

import (
	"strings"
	"testing"

	"github.com/blackcoderx/colsync/pkg/core"
	"github.com/blackcoderx/colsync/pkg/core/tools"
)

func TestToolsMarkdown(t *testing.T) {
	registry := core.NewRegistry()
	registry.RegisterTool(tools.NewListEnvironmentsTool(t.TempDir()))

	md := toolsMarkdown(registry)
	for _, want := range []string{"# Tools", "## list_environments", "```json\n{}\n```"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}
