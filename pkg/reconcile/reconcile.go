package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blackcoderx/colsync/pkg/collection"
	"github.com/blackcoderx/colsync/pkg/errors"
	"github.com/rs/zerolog"
)

// Store is the authoritative remote copy of a collection.
type Store interface {
	Get(ctx context.Context, uid string) (*collection.Document, error)
	Put(ctx context.Context, uid string, doc *collection.Document) ([]byte, error)
}

// Op is one requested change.
type Op struct {
	CollectionID string
	Mutation     collection.Mutation
	DryRun       bool
	// LocalFirst tries the local file and sync script before the remote.
	LocalFirst bool
}

// Mode tells which path persisted a change.
type Mode string

const (
	ModeDryRun Mode = "dry-run"
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

// Result describes what Apply did.
type Result struct {
	Mode Mode

	// Preview is the dry-run payload.
	Preview []byte

	// Local path fields.
	LocalPath  string
	SyncOutput string
	Patch      string

	// Remote path fields. LocalSkipped holds the reason the local path was
	// not taken for a local-first op.
	Response     []byte
	LocalSkipped string
}

// Text renders the result for a tool caller.
func (r *Result) Text(showPatch bool) string {
	switch r.Mode {
	case ModeDryRun:
		return string(r.Preview)
	case ModeLocal:
		var sb strings.Builder
		sb.WriteString("Hybrid Sync completed.\n")
		sb.WriteString(fmt.Sprintf("Local file updated at %s.\n", r.LocalPath))
		sb.WriteString("Cloud sync:\n")
		sb.WriteString(r.SyncOutput)
		if showPatch && r.Patch != "" {
			sb.WriteString("\n\nLocal changes:\n")
			sb.WriteString(r.Patch)
		}
		return sb.String()
	default:
		var sb strings.Builder
		if r.LocalSkipped != "" {
			sb.WriteString(fmt.Sprintf("(local sync skipped: %s)\n", r.LocalSkipped))
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, r.Response, "", "  "); err == nil {
			sb.Write(buf.Bytes())
		} else {
			sb.Write(r.Response)
		}
		return sb.String()
	}
}

// Reconciler persists a mutation either through the local file and its sync
// script or directly to the remote store. Exactly one path persists per call.
type Reconciler struct {
	store    Store
	resolver *Resolver
	sync     *SyncScript
	logger   zerolog.Logger
}

// New creates a reconciler. resolver and sync may be nil, which disables the
// local path.
func New(store Store, resolver *Resolver, sync *SyncScript, logger zerolog.Logger) *Reconciler {
	return &Reconciler{store: store, resolver: resolver, sync: sync, logger: logger}
}

// Apply loads the remote collection, applies op.Mutation and persists it.
// Structural errors from the mutation and remote failures are returned;
// problems on the local path only route the change to the remote.
func (r *Reconciler) Apply(ctx context.Context, op Op) (*Result, error) {
	if op.Mutation == nil {
		return nil, errors.New(errors.ErrInvalidInput, "no change requested")
	}
	logger := r.logger.With().
		Str("collection", op.CollectionID).
		Str("op", op.Mutation.String()).
		Logger()

	doc, err := r.store.Get(ctx, op.CollectionID)
	if err != nil {
		if errors.GetErrorCode(err) == errors.ErrUnknown {
			return nil, errors.Wrap(err, errors.ErrRemoteUnavailable, "failed to load collection")
		}
		return nil, err
	}

	before := doc.Tree.Clone()
	if err := op.Mutation.Apply(doc.Tree); err != nil {
		if details := errors.GetErrorDetails(err); details != nil && errors.IsErrorCode(err, errors.ErrNotFound) {
			details["candidates"] = entryPaths(before)
		}
		return nil, err
	}

	if op.DryRun {
		preview, err := collection.Preview(before, doc.Tree, op.Mutation.Note())
		if err != nil {
			return nil, fmt.Errorf("failed to render preview: %w", err)
		}
		logger.Info().Msg("Dry-run computed")
		return &Result{Mode: ModeDryRun, Preview: preview}, nil
	}

	var skipped string
	if op.LocalFirst {
		res, err := r.applyLocal(ctx, doc.Name(), op.Mutation)
		if err == nil {
			logger.Info().Str("path", res.LocalPath).Msg("Local collection updated")
			return res, nil
		}
		skipped = err.Error()
		if errors.IsErrorCode(err, errors.ErrLocalWriteFailed) {
			logger.Warn().Err(err).Msg("Local write failed, writing to remote")
		} else {
			logger.Info().Err(err).Msg("Local path unavailable, writing to remote")
		}
	}

	resp, err := r.store.Put(ctx, op.CollectionID, doc)
	if err != nil {
		if errors.GetErrorCode(err) == errors.ErrUnknown {
			return nil, errors.Wrap(err, errors.ErrRemoteUnavailable, "failed to update collection")
		}
		return nil, err
	}
	logger.Info().Msg("Remote collection updated")
	return &Result{Mode: ModeRemote, Response: resp, LocalSkipped: skipped}, nil
}

func (r *Reconciler) applyLocal(ctx context.Context, name string, m collection.Mutation) (*Result, error) {
	if r.resolver == nil {
		return nil, errors.New(errors.ErrLocalUnavailable, "local sync is not configured")
	}
	path, err := r.resolver.Resolve(name)
	if err != nil {
		return nil, err
	}
	patch, err := ApplyLocal(path, m)
	if err != nil {
		return nil, err
	}

	res := &Result{Mode: ModeLocal, LocalPath: path, Patch: patch, SyncOutput: scriptMissing}
	if r.sync != nil {
		res.SyncOutput = r.sync.Trigger(ctx, r.resolver.ProjectRoot(path))
	}
	return res, nil
}

func entryPaths(t *collection.Tree) []string {
	entries := collection.Flatten(t)
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}
