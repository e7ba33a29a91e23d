// Package sandbox runs one prepared command inside an isolated container
// and classifies the outcome.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/programme-lv/runner/api"
	"github.com/programme-lv/runner/internal/langs"
)

// ErrHostExecution marks failures of the isolation technology itself,
// as opposed to anything the user's program did.
var ErrHostExecution = errors.New("sandbox could not be started")

// BoxDir is the fixed path the run directory is mounted at inside the
// sandbox; it is the only host filesystem surface the program can see.
const BoxDir = "/box"

// ExecSpec is one fully resolved sandbox invocation. Compiled records
// whether the script carries a build stage, which gates how the
// build-failure sentinel exit code is read.
type ExecSpec struct {
	RunID  string
	Dir    string
	Image  string
	Script string

	TimeLimSec int
	MemoryMB   int
	Cpus       float64
	Compiled   bool
}

// Executor runs one spec to completion and classifies the result. It
// must never return an error for user-program misbehavior.
type Executor interface {
	Execute(ctx context.Context, spec ExecSpec) (api.RunResult, error)
}

// DockerExecutor drives the docker CLI. The container gets no network,
// a memory and cpu ceiling, and the run directory bind-mounted at BoxDir
// as its working directory.
type DockerExecutor struct {
	bin       string
	marginSec int
	maxOutput int
	log       *slog.Logger
}

var _ Executor = (*DockerExecutor)(nil)

func NewDockerExecutor(bin string, marginSec int, maxOutput int, log *slog.Logger) *DockerExecutor {
	return &DockerExecutor{bin: bin, marginSec: marginSec, maxOutput: maxOutput, log: log}
}

func (d *DockerExecutor) Execute(ctx context.Context, spec ExecSpec) (api.RunResult, error) {
	// Outer watchdog: coarser than the in-sandbox timeout wrapper, set a
	// margin above it to catch the wrapper itself hanging.
	deadline := time.Duration(spec.TimeLimSec+d.marginSec) * time.Second
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	name := "runbox-" + spec.RunID
	args := []string{
		"run", "--rm",
		"--name", name,
		"--network", "none",
		fmt.Sprintf("--memory=%dm", spec.MemoryMB),
		fmt.Sprintf("--memory-swap=%dm", spec.MemoryMB),
		fmt.Sprintf("--cpus=%.2f", spec.Cpus),
		"-v", spec.Dir + ":" + BoxDir + ":rw",
		"-w", BoxDir,
		spec.Image,
		"/bin/sh", "-c", spec.Script,
	}

	cmd := exec.CommandContext(ctx, d.bin, args...)
	stdout := newBoundedBuffer(d.maxOutput)
	stderr := newBoundedBuffer(d.maxOutput)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Cancel = func() error {
		d.killContainer(name)
		return cmd.Process.Kill()
	}
	// Leave the client a moment to observe the container's death before
	// the process tree is reaped.
	cmd.WaitDelay = 2 * time.Second

	started := time.Now()
	runErr := cmd.Run()
	wall := time.Since(started).Milliseconds()

	res := api.RunResult{
		RunUuid:    spec.RunID,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		WallMillis: wall,
	}

	if ctx.Err() == context.DeadlineExceeded {
		d.log.Warn("host watchdog fired", "run", spec.RunID, "deadline", deadline)
		res.Outcome = api.OutcomeTimeout
		return res, nil
	}
	if ctx.Err() != nil {
		return api.RunResult{}, ctx.Err()
	}

	exitCode := int64(0)
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return api.RunResult{}, fmt.Errorf("%w: %v", ErrHostExecution, runErr)
		}
		exitCode = int64(exitErr.ExitCode())
	}

	res.Outcome, res.Detail = classifyExit(exitCode, res.Stderr, spec.Compiled)
	res.ExitCode = exitCode
	return res, nil
}

// Exit codes the docker client reserves for its own failures; anything
// else comes from inside the container.
const dockerRunFailedExitCode = 125

// classifyExit maps a container exit code onto an outcome tag, in the
// priority order: build-failure sentinel, inner timeout, docker-level
// launch failure, then a plain finished run (any exit code).
//
// The convention is inherently ambiguous: a program that itself exits
// with the timeout wrapper's code reads as a timeout. The build sentinel
// is only honored when the script carries a build stage, so interpreted
// programs keep the full exit-code range.
func classifyExit(exitCode int64, stderr string, compiled bool) (api.Outcome, string) {
	switch exitCode {
	case langs.BuildFailureExitCode:
		if compiled {
			return api.OutcomeBuildError, ""
		}
		return api.OutcomeFinished, ""
	case langs.InnerTimeoutExitCode:
		return api.OutcomeTimeout, ""
	case dockerRunFailedExitCode:
		return api.OutcomeHostError, stderr
	default:
		return api.OutcomeFinished, ""
	}
}

// killContainer force-removes the named container after the watchdog
// fires. Killing the docker client alone would leave it running.
func (d *DockerExecutor) killContainer(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, d.bin, "rm", "-f", name).CombinedOutput()
	if err != nil {
		d.log.Error("failed to remove container", "container", name,
			"error", err, "output", string(out))
	}
}
