// Package rundir materializes one fresh, isolated directory per run,
// combining workspace files, request-supplied files, and stdin.
package rundir

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/programme-lv/runner/api"
	"github.com/programme-lv/runner/internal/langs"
	"github.com/programme-lv/runner/internal/paths"
	"github.com/programme-lv/runner/internal/workspace"
	"golang.org/x/sync/errgroup"
)

const copyConcurrency = 4

// Builder creates run directories under a single configured execution
// root. The root is explicit construction state, never ambient.
type Builder struct {
	execRoot string
	store    workspace.Store
	log      *slog.Logger
}

func NewBuilder(execRoot string, store workspace.Store, log *slog.Logger) (*Builder, error) {
	if err := os.MkdirAll(execRoot, 0755); err != nil {
		return nil, fmt.Errorf("create execution root: %w", err)
	}
	return &Builder{execRoot: execRoot, store: store, log: log}, nil
}

// RunDir is an ephemeral directory owned by exactly one run. Remove is
// safe to call more than once; the directory is deleted at most once.
type RunDir struct {
	ID   string
	Path string

	log    *slog.Logger
	remove sync.Once
}

// Build assembles the directory for one run. After it returns, no
// further external reads happen for that run.
func (b *Builder) Build(ctx context.Context, req api.RunRequest) (*RunDir, error) {
	id := uuid.NewString()
	dir, err := paths.Resolve(b.execRoot, id)
	if err != nil {
		return nil, err
	}
	if err := os.Mkdir(dir, 0777); err != nil {
		return nil, fmt.Errorf("create run directory: %w", err)
	}

	d := &RunDir{ID: id, Path: dir, log: b.log}

	if err := b.fill(ctx, d, req); err != nil {
		d.Remove()
		return nil, err
	}
	return d, nil
}

func (b *Builder) fill(ctx context.Context, d *RunDir, req api.RunRequest) error {
	if req.WorkspaceId != "" {
		b.copyWorkspace(ctx, d, paths.Sanitize(req.WorkspaceId))
	}

	for i, f := range req.Files {
		name := paths.Sanitize(f.Name)
		if name == "" {
			name = fmt.Sprintf("file_%d", i)
		}
		path, err := paths.Resolve(d.Path, name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(f.Content), 0644); err != nil {
			return fmt.Errorf("write supplied file %s: %w", name, err)
		}
	}

	// The stdin artifact is always present, even when empty, so the run
	// script can redirect from it unconditionally.
	stdinPath := filepath.Join(d.Path, langs.StdinFile)
	if err := os.WriteFile(stdinPath, []byte(req.Stdin), 0644); err != nil {
		return fmt.Errorf("write stdin artifact: %w", err)
	}
	return nil
}

// copyWorkspace copies workspace files best-effort: the workspace is a
// convenience layer, so an individual copy failure is logged and skipped
// rather than failing the run.
func (b *Builder) copyWorkspace(ctx context.Context, d *RunDir, workspaceId string) {
	names, err := b.store.List(workspaceId)
	if err != nil {
		b.log.Warn("workspace listing failed, proceeding without workspace files",
			"workspace", workspaceId, "run", d.ID, "error", err)
		return
	}

	errs, _ := errgroup.WithContext(ctx)
	errs.SetLimit(copyConcurrency)
	for _, name := range names {
		errs.Go(func() error {
			dst, err := paths.Resolve(d.Path, paths.Sanitize(name))
			if err != nil {
				b.log.Warn("skipping workspace file",
					"workspace", workspaceId, "file", name, "error", err)
				return nil
			}
			content, err := b.store.Read(workspaceId, name)
			if err != nil {
				b.log.Warn("skipping workspace file",
					"workspace", workspaceId, "file", name, "error", err)
				return nil
			}
			if err := os.WriteFile(dst, content, 0644); err != nil {
				b.log.Warn("skipping workspace file",
					"workspace", workspaceId, "file", name, "error", err)
			}
			return nil
		})
	}
	_ = errs.Wait()
}

// Files lists the regular files currently in the run directory.
func (d *RunDir) Files() ([]string, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return nil, fmt.Errorf("list run directory: %w", err)
	}
	names := []string{}
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Remove deletes the run directory. Failures are logged, never
// escalated; a failed cleanup must not replace the run's actual result.
func (d *RunDir) Remove() {
	d.remove.Do(func() {
		if err := os.RemoveAll(d.Path); err != nil {
			d.log.Error("failed to remove run directory",
				"run", d.ID, "path", d.Path, "error", err)
		}
	})
}
