package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/nats-io/nats.go"
	"github.com/programme-lv/runner/internal/environment"
	"github.com/programme-lv/runner/internal/gatherer/natsgath"
	"github.com/programme-lv/runner/internal/langs"
	"github.com/programme-lv/runner/internal/rundir"
	"github.com/programme-lv/runner/internal/runner"
	"github.com/programme-lv/runner/internal/sandbox"
	"github.com/programme-lv/runner/internal/workspace"
	"github.com/urfave/cli/v3"
)

func main() {
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(log)

	cfg := environment.ReadEnvConfig()

	cmd := &cli.Command{
		Name:  "runner",
		Usage: "execute untrusted code inside a resource-bounded sandbox",
		Commands: []*cli.Command{
			execCommand(cfg, log),
			sqsCommand(cfg, log),
			workspaceCommand(cfg, log),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Error("command failed", "error", err)
		os.Exit(1)
	}
}

type services struct {
	store  *workspace.DiskStore
	engine *runner.Runner
	nc     *nats.Conn
}

// setup wires the engine from the environment config: disk workspace
// store, run directory builder, language registry (with optional TOML
// overrides), docker executor, admission gate, optional NATS connection.
func setup(cfg *environment.EnvConfig, log *slog.Logger) (*services, error) {
	store, err := workspace.NewDiskStore(cfg.WorkspaceRoot)
	if err != nil {
		return nil, err
	}

	builder, err := rundir.NewBuilder(cfg.ExecRoot, store, log)
	if err != nil {
		return nil, err
	}

	profiles := langs.NewRegistry()
	if cfg.LangConfigPath != "" {
		if err := profiles.LoadOverrides(cfg.LangConfigPath); err != nil {
			return nil, err
		}
	}

	exec := sandbox.NewDockerExecutor(cfg.DockerBin, cfg.WatchdogMarginSec,
		cfg.MaxOutputBytes, log)
	engine := runner.New(log, profiles, builder, exec, cfg.MaxConcurrent)

	svc := &services{store: store, engine: engine}
	if cfg.NatsUrl != "" {
		nc, err := nats.Connect(cfg.NatsUrl)
		if err != nil {
			return nil, fmt.Errorf("connect to NATS at %s: %w", cfg.NatsUrl, err)
		}
		svc.nc = nc
	}
	return svc, nil
}

// gatherers builds the notification fan-out for one run: the given base
// (terminal or SQS) plus the NATS event stream when configured.
func (s *services) gatherers(base runner.RunGatherer, subject string) runner.RunGatherer {
	if s.nc == nil {
		return base
	}
	return runner.Multi{base, natsgath.New(s.nc, subject)}
}
