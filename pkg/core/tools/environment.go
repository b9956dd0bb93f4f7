package tools

import (
	"fmt"
	"strings"

	"github.com/blackcoderx/colsync/pkg/storage"
)

// ListEnvironmentsTool lists the local environment files used for snippet
// substitution and newman runs.
type ListEnvironmentsTool struct {
	baseDir string
}

func NewListEnvironmentsTool(baseDir string) *ListEnvironmentsTool {
	return &ListEnvironmentsTool{baseDir: baseDir}
}

func (t *ListEnvironmentsTool) Name() string { return "list_environments" }

func (t *ListEnvironmentsTool) Description() string {
	return "List local environments in the .colsync/environments directory."
}

func (t *ListEnvironmentsTool) Parameters() string {
	return `{}`
}

func (t *ListEnvironmentsTool) Execute(args string) (string, error) {
	envs, err := storage.ListEnvironments(t.baseDir)
	if err != nil {
		return "", err
	}

	if len(envs) == 0 {
		return "No environments found. Create YAML files in .colsync/environments/ directory.", nil
	}

	var sb strings.Builder
	sb.WriteString("Available environments:\n")
	for _, env := range envs {
		sb.WriteString(fmt.Sprintf("  - %s (%d variables)\n", env.Name, env.Variables))
	}
	return sb.String(), nil
}
