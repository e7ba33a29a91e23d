package api

// Outcome classifies how one sandboxed run ended.
type Outcome string

const (
	// OutcomeFinished means the program ran to completion inside the
	// sandbox. Its exit code may be non-zero; that is a runtime result,
	// not an engine error.
	OutcomeFinished Outcome = "finished"
	// OutcomeBuildError means the compiler produced diagnostics; they are
	// carried in Stdout.
	OutcomeBuildError Outcome = "build_error"
	// OutcomeTimeout means the inner time wrapper or the host watchdog
	// killed the process tree.
	OutcomeTimeout Outcome = "timeout"
	// OutcomeHostError means the sandbox itself could not run the
	// program (container runtime unavailable, image missing).
	OutcomeHostError Outcome = "host_error"
)

// RunResult is the complete result of one run. Exactly one is produced
// per request that reaches the executor.
type RunResult struct {
	RunUuid string `json:"run_uuid"`

	Outcome Outcome `json:"outcome"`

	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`

	// ExitCode is meaningful for the finished outcome only.
	ExitCode int64 `json:"exit_code"`

	WallMillis int64 `json:"wall_ms"`

	// Detail is a human-readable explanation for the host_error outcome.
	Detail string `json:"detail,omitempty"`
}
