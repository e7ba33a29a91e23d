package runner

import "github.com/programme-lv/runner/api"

// RunGatherer receives run lifecycle notifications. Implementations
// stream them to a terminal, a NATS subject, or an SQS queue.
type RunGatherer interface {
	StartRun(runUuid string, language string)
	FinishRun(res api.RunResult)
	InternalError(runUuid string, msg string)
}

// Multi fans every notification out to each gatherer in order.
type Multi []RunGatherer

var _ RunGatherer = (Multi)(nil)

func (m Multi) StartRun(runUuid string, language string) {
	for _, g := range m {
		g.StartRun(runUuid, language)
	}
}

func (m Multi) FinishRun(res api.RunResult) {
	for _, g := range m {
		g.FinishRun(res)
	}
}

func (m Multi) InternalError(runUuid string, msg string) {
	for _, g := range m {
		g.InternalError(runUuid, msg)
	}
}
