package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/programme-lv/runner/api"
	"github.com/programme-lv/runner/internal/environment"
	"github.com/programme-lv/runner/internal/gatherer/termgath"
	"github.com/urfave/cli/v3"
)

// execCommand runs local source files through the engine once and
// prints the outcome. Useful for smoke-testing a sandbox setup.
func execCommand(cfg *environment.EnvConfig, log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Usage:     "run local source files once inside the sandbox",
		ArgsUsage: "<source file> [more files...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "lang", Usage: "language id", Required: true},
			&cli.StringFlag{Name: "workspace", Usage: "workspace id to copy files from"},
			&cli.StringFlag{Name: "stdin", Usage: "text piped to the program"},
			&cli.FloatFlag{Name: "time", Usage: "time limit in seconds"},
			&cli.IntFlag{Name: "memory", Usage: "memory ceiling in MB"},
			&cli.FloatFlag{Name: "cpus", Usage: "cpu share"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, err := setup(cfg, log)
			if err != nil {
				return err
			}

			req := api.RunRequest{
				RunUuid:     uuid.NewString(),
				WorkspaceId: cmd.String("workspace"),
				Language:    cmd.String("lang"),
				Stdin:       cmd.String("stdin"),
				Limits: api.Limits{
					TimeSec:  cmd.Float("time"),
					MemoryMB: int(cmd.Int("memory")),
					Cpus:     cmd.Float("cpus"),
				},
			}
			for _, path := range cmd.Args().Slice() {
				content, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read source file %s: %w", path, err)
				}
				req.Files = append(req.Files, api.ReqFile{
					Name:    filepath.Base(path),
					Content: string(content),
				})
			}

			gath := svc.gatherers(termgath.New(), "runner.events."+req.RunUuid)
			res, err := svc.engine.Run(ctx, req, gath)
			if err != nil {
				return err
			}
			if res.Outcome != api.OutcomeFinished || res.ExitCode != 0 {
				os.Exit(1)
			}
			return nil
		},
	}
}
