package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/programme-lv/runner/internal/environment"
	"github.com/programme-lv/runner/internal/paths"
	"github.com/urfave/cli/v3"
)

// workspaceCommand manages the durable file storage runs copy from.
func workspaceCommand(cfg *environment.EnvConfig, log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "workspace",
		Usage: "manage workspace file storage",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create an empty workspace and print its id",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					svc, err := setup(cfg, log)
					if err != nil {
						return err
					}
					id, err := svc.store.Create()
					if err != nil {
						return err
					}
					fmt.Println(id)
					return nil
				},
			},
			{
				Name:      "put",
				Usage:     "copy local files into a workspace",
				ArgsUsage: "<workspace id> <file> [more files...]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					args := cmd.Args().Slice()
					if len(args) < 2 {
						return fmt.Errorf("usage: workspace put <workspace id> <file>...")
					}
					svc, err := setup(cfg, log)
					if err != nil {
						return err
					}
					id := paths.Sanitize(args[0])
					for _, path := range args[1:] {
						content, err := os.ReadFile(path)
						if err != nil {
							return fmt.Errorf("read %s: %w", path, err)
						}
						name := paths.Sanitize(filepath.Base(path))
						if err := svc.store.Write(id, name, content); err != nil {
							return err
						}
					}
					return nil
				},
			},
			{
				Name:      "ls",
				Usage:     "list the files of a workspace",
				ArgsUsage: "<workspace id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return fmt.Errorf("usage: workspace ls <workspace id>")
					}
					svc, err := setup(cfg, log)
					if err != nil {
						return err
					}
					names, err := svc.store.List(paths.Sanitize(cmd.Args().First()))
					if err != nil {
						return err
					}
					for _, name := range names {
						fmt.Println(name)
					}
					return nil
				},
			},
			{
				Name:      "export",
				Usage:     "write a workspace as a zstd-compressed tar archive",
				ArgsUsage: "<workspace id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file", Required: true},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return fmt.Errorf("usage: workspace export <workspace id> -o <file>")
					}
					svc, err := setup(cfg, log)
					if err != nil {
						return err
					}
					out, err := os.Create(cmd.String("out"))
					if err != nil {
						return fmt.Errorf("create archive file: %w", err)
					}
					defer out.Close()
					return svc.store.Export(paths.Sanitize(cmd.Args().First()), out)
				},
			},
		},
	}
}
