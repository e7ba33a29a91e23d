package termgath

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/programme-lv/runner/api"
	"github.com/programme-lv/runner/internal/runner"
)

// TerminalGatherer prints run progress for the interactive CLI.
type TerminalGatherer struct {
	StartedAt time.Time
}

var _ runner.RunGatherer = (*TerminalGatherer)(nil)

func New() *TerminalGatherer { return &TerminalGatherer{StartedAt: time.Now()} }

func (t *TerminalGatherer) StartRun(runUuid string, language string) {
	fmt.Printf("== Run %s started (%s) ==\n", runUuid, language)
}

func (t *TerminalGatherer) FinishRun(res api.RunResult) {
	dur := time.Since(t.StartedAt).Round(time.Millisecond)
	switch res.Outcome {
	case api.OutcomeFinished:
		if res.ExitCode == 0 {
			color.Green("== finished in %s ==", dur)
		} else {
			color.Yellow("== finished with exit code %d in %s ==", res.ExitCode, dur)
		}
	case api.OutcomeBuildError:
		color.Red("== build failed ==")
	case api.OutcomeTimeout:
		color.Red("== timed out after %dms ==", res.WallMillis)
	case api.OutcomeHostError:
		color.Red("== sandbox error: %s ==", res.Detail)
	}
	if res.Stdout != "" {
		fmt.Printf("stdout:\n%s\n", res.Stdout)
	}
	if res.Stderr != "" {
		fmt.Printf("stderr:\n%s\n", res.Stderr)
	}
}

func (t *TerminalGatherer) InternalError(runUuid string, msg string) {
	color.Red("== internal error: %s ==", msg)
}
