// Package runner is the run orchestration engine: it turns one
// RunRequest into one isolated execution and one classified result, and
// reclaims the run directory on every exit path.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/programme-lv/runner/api"
	"github.com/programme-lv/runner/internal/langs"
	"github.com/programme-lv/runner/internal/rundir"
	"github.com/programme-lv/runner/internal/sandbox"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/semaphore"
)

// Runner executes run requests independently and in parallel, gated by
// an admission semaphore so concurrency stays bounded under load.
type Runner struct {
	log      *slog.Logger
	profiles *langs.Registry
	builder  *rundir.Builder
	exec     sandbox.Executor

	sem      *semaphore.Weighted
	inflight *xsync.MapOf[string, time.Time]
}

func New(log *slog.Logger, profiles *langs.Registry, builder *rundir.Builder,
	exec sandbox.Executor, maxConcurrent int) *Runner {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Runner{
		log:      log,
		profiles: profiles,
		builder:  builder,
		exec:     exec,
		sem:      semaphore.NewWeighted(int64(maxConcurrent)),
		inflight: xsync.NewMapOf[string, time.Time](),
	}
}

// InFlight reports how many runs are currently executing.
func (r *Runner) InFlight() int {
	return r.inflight.Size()
}

// Run executes one request end to end. User-program misbehavior (bad
// exit codes, runtime crashes, timeouts) comes back as a RunResult; an
// error return always means the engine itself could not run the request.
func (r *Runner) Run(ctx context.Context, req api.RunRequest, gath RunGatherer) (api.RunResult, error) {
	// Fail fast before any directory or sandbox work.
	prof, err := r.profiles.Resolve(req.Language)
	if err != nil {
		return api.RunResult{}, err
	}
	limits := req.Limits.Clamped()

	if err := r.sem.Acquire(ctx, 1); err != nil {
		return api.RunResult{}, fmt.Errorf("admission wait interrupted: %w", err)
	}
	defer r.sem.Release(1)

	dir, err := r.builder.Build(ctx, req)
	if err != nil {
		return api.RunResult{}, err
	}
	// The one place the run directory is reclaimed, on every path out.
	defer dir.Remove()

	runUuid := req.RunUuid
	if runUuid == "" {
		runUuid = dir.ID
	}

	r.inflight.Store(dir.ID, time.Now())
	defer r.inflight.Delete(dir.ID)

	if gath != nil {
		gath.StartRun(runUuid, prof.ID)
	}
	r.log.Info("run started", "run", runUuid, "language", prof.ID,
		"time_sec", limits.TimeSec, "memory_mb", limits.MemoryMB, "cpus", limits.Cpus)

	listing, err := dir.Files()
	if err != nil {
		if gath != nil {
			gath.InternalError(runUuid, err.Error())
		}
		return api.RunResult{}, err
	}
	entry := r.profiles.PickEntry(prof, listing)
	timeLimSec := int(math.Ceil(limits.TimeSec))
	script := langs.Script(prof, entry, timeLimSec)

	res, err := r.exec.Execute(ctx, sandbox.ExecSpec{
		RunID:      dir.ID,
		Dir:        dir.Path,
		Image:      prof.Image,
		Script:     script,
		TimeLimSec: timeLimSec,
		MemoryMB:   limits.MemoryMB,
		Cpus:       limits.Cpus,
		Compiled:   prof.Compiled(),
	})
	if err != nil {
		r.log.Error("run failed at host level", "run", runUuid, "error", err)
		if gath != nil {
			gath.InternalError(runUuid, err.Error())
		}
		return api.RunResult{}, err
	}

	res.RunUuid = runUuid
	r.log.Info("run finished", "run", runUuid, "outcome", res.Outcome,
		"exit_code", res.ExitCode, "wall_ms", res.WallMillis)
	if gath != nil {
		gath.FinishRun(res)
	}
	return res, nil
}
