package sqsgath

import (
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/programme-lv/runner/internal/runner"
)

type sqsResQueueGatherer struct {
	sqsClient *sqs.Client
	queueUrl  string
}

var _ runner.RunGatherer = (*sqsResQueueGatherer)(nil)
