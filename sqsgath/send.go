package sqsgath

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/programme-lv/runner/api"
)

func (s *sqsResQueueGatherer) StartRun(runUuid string, language string) {
	s.send(api.StartRun{
		Header:      api.Header{RunUuid: runUuid, MsgType: api.StartRunMsg},
		Language:    language,
		StartedTime: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *sqsResQueueGatherer) FinishRun(res api.RunResult) {
	res.Stdout = trimStrToRect(res.Stdout, api.MaxStreamHeight, api.MaxStreamWidth)
	res.Stderr = trimStrToRect(res.Stderr, api.MaxStreamHeight, api.MaxStreamWidth)
	s.send(api.FinishRun{
		Header: api.Header{RunUuid: res.RunUuid, MsgType: api.FinishRunMsg},
		Result: res,
	})
}

func (s *sqsResQueueGatherer) InternalError(runUuid string, msg string) {
	s.send(api.InternalError{
		Header:  api.Header{RunUuid: runUuid, MsgType: api.InternalErrMsg},
		Message: msg,
	})
}

func (s *sqsResQueueGatherer) send(msg interface{}) {
	b, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal run event", "error", err)
		return
	}

	_, err = s.sqsClient.SendMessage(context.TODO(), &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueUrl),
		MessageBody: aws.String(string(b)),
	})
	if err != nil {
		slog.Error("failed to send run event to SQS", "error", err, "queue", s.queueUrl)
	}
}
