package natsgath

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/programme-lv/runner/api"
)

func (s *natsGatherer) StartRun(runUuid string, language string) {
	s.send(api.StartRun{
		Header:      api.Header{RunUuid: runUuid, MsgType: api.StartRunMsg},
		Language:    language,
		StartedTime: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *natsGatherer) FinishRun(res api.RunResult) {
	res.Stdout = trimStrToRect(res.Stdout, api.MaxStreamHeight, api.MaxStreamWidth)
	res.Stderr = trimStrToRect(res.Stderr, api.MaxStreamHeight, api.MaxStreamWidth)
	s.send(api.FinishRun{
		Header: api.Header{RunUuid: res.RunUuid, MsgType: api.FinishRunMsg},
		Result: res,
	})
}

func (s *natsGatherer) InternalError(runUuid string, msg string) {
	s.send(api.InternalError{
		Header:  api.Header{RunUuid: runUuid, MsgType: api.InternalErrMsg},
		Message: msg,
	})
}

func (s *natsGatherer) send(msg interface{}) {
	b, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal run event", "error", err)
		return
	}

	if err := s.nc.Publish(s.subject, b); err != nil {
		slog.Error("failed to publish run event to NATS", "error", err)
	}
}
