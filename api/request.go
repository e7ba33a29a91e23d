package api

// RunRequest describes a single code execution request. It is immutable
// once constructed and lives only for the duration of one run.
type RunRequest struct {
	RunUuid string `json:"run_uuid"`

	// WorkspaceId optionally references durable workspace storage whose
	// files are copied into the run directory before the inline files.
	WorkspaceId string `json:"workspace_id,omitempty"`

	// Files are written in order after the workspace copy; a later entry
	// overwrites an earlier one with the same name.
	Files []ReqFile `json:"files"`

	Language string `json:"language"`
	Stdin    string `json:"stdin"`

	Limits Limits `json:"limits"`

	// ResSqsUrl is the queue the outcome is sent to when the request
	// arrives through the SQS intake loop.
	ResSqsUrl string `json:"res_sqs_url,omitempty"`
}

// ReqFile is one inline source file supplied with the request.
type ReqFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}
