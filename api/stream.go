package api

// MsgType is a message type for streaming run progress to gatherers
type MsgType string

const (
	StartRunMsg    MsgType = "run_start"
	FinishRunMsg   MsgType = "run_finish"
	InternalErrMsg MsgType = "internal_error"
)

// Output size constraints applied before a result leaves the host
const (
	MaxStreamHeight = 40
	MaxStreamWidth  = 80
)

// Header is the common header for all streaming messages
type Header struct {
	RunUuid string  `json:"run_uuid"`
	MsgType MsgType `json:"msg_type"`
}

// StartRun message sent when a run begins executing
type StartRun struct {
	Header
	Language    string `json:"language"`
	StartedTime string `json:"started_time"`
}

// FinishRun message sent when a run completes with any outcome
type FinishRun struct {
	Header
	Result RunResult `json:"result"`
}

// InternalError message sent when the engine itself failed
type InternalError struct {
	Header
	Message string `json:"message"`
}
