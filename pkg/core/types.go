// Package core provides the tool contract, the tool registry and the
// workspace settings shared by the colsync command line.
package core

import "context"

// Tool represents one operation exposed to callers.
// Each tool has a name, description, parameters schema, and execution logic.
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string
	// Description returns a human-readable description of what this tool does.
	Description() string
	// Parameters returns a description of the JSON parameters this tool accepts.
	Parameters() string
	// Execute runs the tool with the given JSON arguments and returns the result.
	Execute(args string) (string, error)
}

// ContextTool is a tool whose work can be cancelled. The registry prefers
// ExecuteContext when a tool implements it.
type ContextTool interface {
	Tool
	ExecuteContext(ctx context.Context, args string) (string, error)
}
