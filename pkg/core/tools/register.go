package tools

import (
	"github.com/blackcoderx/colsync/pkg/core"
	"github.com/blackcoderx/colsync/pkg/reconcile"
	"github.com/rs/zerolog"
)

// Deps are the shared components the tools are built from.
type Deps struct {
	API        CollectionAPI
	Reconciler *reconcile.Reconciler
	// BaseDir is the workspace folder holding environments.
	BaseDir   string
	ShowPatch bool
	Newman    NewmanConfig
	Logger    zerolog.Logger
}

// RegisterAll adds every tool to the registry.
func RegisterAll(registry *core.Registry, deps Deps) {
	c := NewCollectionTools(deps.API, deps.Reconciler, deps.ShowPatch)

	// Reads
	registry.RegisterTool(NewListCollectionsTool(c))
	registry.RegisterTool(NewGetCollectionTool(c))
	registry.RegisterTool(NewSearchCollectionItemsTool(c))
	registry.RegisterTool(NewGetCollectionItemTool(c))

	// Mutations
	registry.RegisterTool(NewAddFolderTool(c))
	registry.RegisterTool(NewAddRequestTool(c))
	registry.RegisterTool(NewUpdateRequestTool(c))
	registry.RegisterTool(NewDeleteItemTool(c))
	registry.RegisterTool(NewDeleteFolderTool(c))
	registry.RegisterTool(NewRenameFolderTool(c))

	// Local helpers
	newman := deps.Newman
	if newman.BaseDir == "" {
		newman.BaseDir = deps.BaseDir
	}
	registry.RegisterTool(NewSnippetTool(c, deps.BaseDir))
	registry.RegisterTool(NewRunCollectionTool(c, newman, deps.Logger))
	registry.RegisterTool(NewListEnvironmentsTool(deps.BaseDir))
}
