package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/programme-lv/runner/api"
	"github.com/programme-lv/runner/internal/environment"
	"github.com/programme-lv/runner/internal/runner"
	"github.com/programme-lv/runner/sqsgath"
	"github.com/urfave/cli/v3"
)

// messageSettler is the slice of the SQS client the receive loop needs
// to settle a message it has taken responsibility for.
type messageSettler interface {
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput,
		optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

type runEngine interface {
	Run(ctx context.Context, req api.RunRequest, gath runner.RunGatherer) (api.RunResult, error)
}

// sqsCommand consumes run requests from an SQS queue and sends each
// outcome to the response queue named in the request.
func sqsCommand(cfg *environment.EnvConfig, log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "sqs",
		Usage: "serve run requests from an SQS queue",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "queue", Usage: "request queue url (overrides RUNNER_REQ_SQS_URL)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			queueUrl := cmd.String("queue")
			if queueUrl == "" {
				queueUrl = cfg.ReqSqsUrl
			}
			if queueUrl == "" {
				return fmt.Errorf("no request queue configured")
			}

			svc, err := setup(cfg, log)
			if err != nil {
				return err
			}

			awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
				awsconfig.WithRegion(cfg.AwsRegion))
			if err != nil {
				return fmt.Errorf("load AWS config: %w", err)
			}
			sqsClient := sqs.NewFromConfig(awsCfg)

			log.Info("listening for run requests", "queue", queueUrl)
			for {
				output, err := sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
					QueueUrl:            aws.String(queueUrl),
					MaxNumberOfMessages: 1,
					WaitTimeSeconds:     5,
				})
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					log.Error("failed to receive messages", "error", err)
					time.Sleep(1 * time.Second)
					continue
				}

				for _, message := range output.Messages {
					var req api.RunRequest
					if err := json.Unmarshal([]byte(*message.Body), &req); err != nil {
						log.Error("failed to unmarshal run request", "error", err)
						continue
					}
					gath := svc.gatherers(
						sqsgath.NewSqsResponseQueueGatherer(sqsClient, req.ResSqsUrl),
						"runner.events."+req.RunUuid)
					go handleRunRequest(ctx, sqsClient, queueUrl,
						message.ReceiptHandle, req, svc.engine, gath, log)
				}
			}
		},
	}
}

// handleRunRequest settles one queue message and executes its run. The
// message is deleted before the run starts: a run near the time cap can
// outlive the queue's visibility timeout, and a redelivered request must
// not execute a second time. If the delete fails the run is skipped and
// the redelivery retries it instead.
func handleRunRequest(ctx context.Context, queue messageSettler, queueUrl string,
	receiptHandle *string, req api.RunRequest, engine runEngine,
	gath runner.RunGatherer, log *slog.Logger) {
	_, err := queue.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueUrl),
		ReceiptHandle: receiptHandle,
	})
	if err != nil {
		log.Error("failed to delete message", "run", req.RunUuid, "error", err)
		return
	}
	if _, err := engine.Run(ctx, req, gath); err != nil {
		log.Error("run failed", "run", req.RunUuid, "error", err)
	}
}
