package runner_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/programme-lv/runner/api"
	"github.com/programme-lv/runner/internal/langs"
	"github.com/programme-lv/runner/internal/rundir"
	"github.com/programme-lv/runner/internal/runner"
	"github.com/programme-lv/runner/internal/sandbox"
	"github.com/stretchr/testify/require"
)

type fakeStore struct{}

func (fakeStore) Create() (string, error) { return "", errors.New("not implemented") }

func (fakeStore) List(string) ([]string, error) { return nil, errors.New("no such workspace") }

func (fakeStore) Read(string, string) ([]byte, error) { return nil, errors.New("no such workspace") }

func (fakeStore) Write(string, string, []byte) error { return errors.New("not implemented") }

func (fakeStore) Delete(string, string) error { return errors.New("not implemented") }

// fakeExecutor records the specs it receives and replies from a script.
type fakeExecutor struct {
	mu    sync.Mutex
	specs []sandbox.ExecSpec

	result api.RunResult
	err    error
	block  chan struct{}
}

func (f *fakeExecutor) Execute(ctx context.Context, spec sandbox.ExecSpec) (api.RunResult, error) {
	f.mu.Lock()
	f.specs = append(f.specs, spec)
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return api.RunResult{}, f.err
	}
	res := f.result
	res.RunUuid = spec.RunID
	return res, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRunner(t *testing.T, exec sandbox.Executor, maxConcurrent int) (*runner.Runner, string) {
	t.Helper()
	root := t.TempDir()
	builder, err := rundir.NewBuilder(root, fakeStore{}, discard())
	require.NoError(t, err)
	return runner.New(discard(), langs.NewRegistry(), builder, exec, maxConcurrent), root
}

func dirCount(t *testing.T, root string) int {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	return len(entries)
}

func TestRunHappyPath(t *testing.T) {
	exec := &fakeExecutor{result: api.RunResult{
		Outcome: api.OutcomeFinished,
		Stdout:  "hi\n",
	}}
	r, root := newRunner(t, exec, 2)

	res, err := r.Run(context.Background(), api.RunRequest{
		RunUuid:  "run-1",
		Language: "python",
		Files:    []api.ReqFile{{Name: "main.py", Content: "print('hi')\n"}},
	}, nil)
	require.NoError(t, err)
	require.Equal(t, api.OutcomeFinished, res.Outcome)
	require.Equal(t, "hi\n", res.Stdout)
	require.Equal(t, "run-1", res.RunUuid)

	// The run directory is gone once Run has returned.
	require.Equal(t, 0, dirCount(t, root))

	require.Len(t, exec.specs, 1)
	spec := exec.specs[0]
	require.Equal(t, "python:3.12-slim", spec.Image)
	require.Contains(t, spec.Script, "python3 main.py")
	require.Equal(t, api.DefaultTimeSec, spec.TimeLimSec)
	require.Equal(t, api.DefaultMemoryMB, spec.MemoryMB)
	require.False(t, spec.Compiled)
}

func TestRunIsRepeatable(t *testing.T) {
	exec := &fakeExecutor{result: api.RunResult{
		Outcome: api.OutcomeFinished,
		Stdout:  "hi\n",
	}}
	r, _ := newRunner(t, exec, 1)

	req := api.RunRequest{
		Language: "python",
		Files:    []api.ReqFile{{Name: "main.py", Content: "print('hi')\n"}},
	}
	first, err := r.Run(context.Background(), req, nil)
	require.NoError(t, err)
	second, err := r.Run(context.Background(), req, nil)
	require.NoError(t, err)

	require.Equal(t, first.Stdout, second.Stdout)
	require.Equal(t, first.Outcome, second.Outcome)
	require.Equal(t, exec.specs[0].Script, exec.specs[1].Script)
}

func TestRunUnsupportedLanguageFailsBeforeDirectoryWork(t *testing.T) {
	exec := &fakeExecutor{}
	r, root := newRunner(t, exec, 2)

	_, err := r.Run(context.Background(), api.RunRequest{Language: "cobol"}, nil)
	require.ErrorIs(t, err, langs.ErrUnsupportedLanguage)
	require.Equal(t, 0, dirCount(t, root))
	require.Empty(t, exec.specs)
}

func TestRunCleansUpOnExecutorError(t *testing.T) {
	exec := &fakeExecutor{err: sandbox.ErrHostExecution}
	r, root := newRunner(t, exec, 2)

	_, err := r.Run(context.Background(), api.RunRequest{
		Language: "python",
		Files:    []api.ReqFile{{Name: "main.py", Content: "x"}},
	}, nil)
	require.ErrorIs(t, err, sandbox.ErrHostExecution)
	require.Equal(t, 0, dirCount(t, root))
}

func TestRunResultOutcomesPassThrough(t *testing.T) {
	for _, outcome := range []api.Outcome{
		api.OutcomeFinished, api.OutcomeBuildError,
		api.OutcomeTimeout, api.OutcomeHostError,
	} {
		exec := &fakeExecutor{result: api.RunResult{Outcome: outcome}}
		r, root := newRunner(t, exec, 1)

		res, err := r.Run(context.Background(), api.RunRequest{
			Language: "cpp",
			Files:    []api.ReqFile{{Name: "main.cpp", Content: "int main(){}"}},
		}, nil)
		require.NoError(t, err)
		require.Equal(t, outcome, res.Outcome)
		require.Equal(t, 0, dirCount(t, root))
	}
}

func TestRunConcurrentRunsGetDistinctDirectories(t *testing.T) {
	block := make(chan struct{})
	exec := &fakeExecutor{
		result: api.RunResult{Outcome: api.OutcomeFinished},
		block:  block,
	}
	r, _ := newRunner(t, exec, 4)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Run(context.Background(), api.RunRequest{
				Language: "python",
				Files:    []api.ReqFile{{Name: "main.py", Content: "x"}},
			}, nil)
			require.NoError(t, err)
		}()
	}

	require.Eventually(t, func() bool { return r.InFlight() == 3 },
		2*time.Second, 10*time.Millisecond)
	close(block)
	wg.Wait()

	seen := map[string]bool{}
	for _, spec := range exec.specs {
		require.False(t, seen[spec.Dir], "run directory %s reused", spec.Dir)
		seen[spec.Dir] = true
	}
	require.Equal(t, 0, r.InFlight())
}

func TestRunAdmissionGateBounds(t *testing.T) {
	block := make(chan struct{})
	exec := &fakeExecutor{
		result: api.RunResult{Outcome: api.OutcomeFinished},
		block:  block,
	}
	r, _ := newRunner(t, exec, 1)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Run(context.Background(), api.RunRequest{
				Language: "python",
				Files:    []api.ReqFile{{Name: "main.py", Content: "x"}},
			}, nil)
		}()
	}

	require.Eventually(t, func() bool {
		exec.mu.Lock()
		defer exec.mu.Unlock()
		return len(exec.specs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// The second run is held at the gate while the first executes.
	time.Sleep(50 * time.Millisecond)
	exec.mu.Lock()
	require.Len(t, exec.specs, 1)
	exec.mu.Unlock()

	close(block)
	wg.Wait()
	exec.mu.Lock()
	require.Len(t, exec.specs, 2)
	exec.mu.Unlock()
}

func TestRunAdmissionWaitRespectsContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	exec := &fakeExecutor{
		result: api.RunResult{Outcome: api.OutcomeFinished},
		block:  block,
	}
	r, _ := newRunner(t, exec, 1)

	go func() {
		_, _ = r.Run(context.Background(), api.RunRequest{
			Language: "python",
			Files:    []api.ReqFile{{Name: "main.py", Content: "x"}},
		}, nil)
	}()
	require.Eventually(t, func() bool {
		exec.mu.Lock()
		defer exec.mu.Unlock()
		return len(exec.specs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := r.Run(ctx, api.RunRequest{
		Language: "python",
		Files:    []api.ReqFile{{Name: "main.py", Content: "x"}},
	}, nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

type recordingGatherer struct {
	mu       sync.Mutex
	started  []string
	finished []api.RunResult
	internal []string
}

func (g *recordingGatherer) StartRun(runUuid string, language string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.started = append(g.started, runUuid)
}

func (g *recordingGatherer) FinishRun(res api.RunResult) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.finished = append(g.finished, res)
}

func (g *recordingGatherer) InternalError(runUuid string, msg string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.internal = append(g.internal, msg)
}

func TestRunReportsLifecycleToGatherer(t *testing.T) {
	exec := &fakeExecutor{result: api.RunResult{Outcome: api.OutcomeFinished}}
	r, _ := newRunner(t, exec, 1)

	gath := &recordingGatherer{}
	_, err := r.Run(context.Background(), api.RunRequest{
		RunUuid:  "run-9",
		Language: "python",
		Files:    []api.ReqFile{{Name: "main.py", Content: "x"}},
	}, gath)
	require.NoError(t, err)
	require.Equal(t, []string{"run-9"}, gath.started)
	require.Len(t, gath.finished, 1)
	require.Equal(t, "run-9", gath.finished[0].RunUuid)
	require.Empty(t, gath.internal)
}

func TestRunReportsInternalErrorToGatherer(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("docker daemon unreachable")}
	r, _ := newRunner(t, exec, 1)

	gath := &recordingGatherer{}
	_, err := r.Run(context.Background(), api.RunRequest{
		Language: "python",
		Files:    []api.ReqFile{{Name: "main.py", Content: "x"}},
	}, gath)
	require.Error(t, err)
	require.Len(t, gath.internal, 1)
	require.Empty(t, gath.finished)
}
