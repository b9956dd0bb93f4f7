package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/blackcoderx/colsync/pkg/core"
	"github.com/blackcoderx/colsync/pkg/reconcile"
	"github.com/rs/zerolog"
)

func TestRegisterAll(t *testing.T) {
	api := newFakeAPI()
	registry := core.NewRegistry()
	RegisterAll(registry, Deps{
		API:        api,
		Reconciler: reconcile.New(api, nil, nil, zerolog.Nop()),
		BaseDir:    t.TempDir(),
		Logger:     zerolog.Nop(),
	})

	want := []string{
		"add_folder", "add_request", "delete_folder", "delete_item",
		"generate_code_snippet", "get_collection", "get_collection_item",
		"list_collections", "list_environments", "rename_folder",
		"run_collection", "search_collection_items", "update_request",
	}
	if got := registry.Names(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("registered tools = %v, want %v", got, want)
	}

	out, err := registry.Execute(context.Background(), "search_collection_items", `{"collection_uid":"c-1","query":"Health"}`)
	if err != nil || !strings.Contains(out, `"path": "Health"`) {
		t.Errorf("Execute = %q, %v", out, err)
	}

	_, err = registry.Execute(context.Background(), "add_reqest", `{}`)
	if err == nil || !strings.Contains(err.Error(), "did you mean: 'add_request'") {
		t.Errorf("expected a suggestion, got %v", err)
	}
}
