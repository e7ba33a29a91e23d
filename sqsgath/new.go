package sqsgath

import (
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// NewSqsResponseQueueGatherer sends run events to the response queue the
// request named.
func NewSqsResponseQueueGatherer(sqsClient *sqs.Client, responseSqsUrl string) *sqsResQueueGatherer {
	return &sqsResQueueGatherer{
		sqsClient: sqsClient,
		queueUrl:  responseSqsUrl,
	}
}
