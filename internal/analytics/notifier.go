package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/flordomaracuja/lead-capture/pkg/logging"
)

// Notifier delivers analytics events to a sink. Implementations must be
// fire-and-forget: errors are logged, never returned to the pipeline.
type Notifier interface {
	Publish(ctx context.Context, event Event)
}

// LogNotifier writes events to the structured log. Default sink in
// development and when no queue is configured.
type LogNotifier struct {
	logger *logging.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Publish(ctx context.Context, event Event) {
	n.logger.Info("analytics event", "event", event.Name, "params", event.Params)
}

// NopNotifier discards every event.
type NopNotifier struct{}

func (NopNotifier) Publish(ctx context.Context, event Event) {}

// sqsAPI is the slice of the SQS client the notifier uses.
type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSNotifier publishes events to an SQS queue consumed by the analytics
// warehouse loader.
type SQSNotifier struct {
	client   sqsAPI
	queueURL string
	logger   *logging.Logger
}

// NewSQSNotifier creates an SQS-backed notifier.
func NewSQSNotifier(client *sqs.Client, queueURL string, logger *logging.Logger) *SQSNotifier {
	if client == nil {
		panic("analytics: SQS client cannot be nil")
	}
	if queueURL == "" {
		panic("analytics: SQS queueURL cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SQSNotifier{client: client, queueURL: queueURL, logger: logger}
}

func (n *SQSNotifier) Publish(ctx context.Context, event Event) {
	body, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("analytics: marshal event", "error", err, "event", event.Name)
		return
	}
	_, err = n.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(n.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		// Analytics loss is acceptable; the submission result is not affected.
		n.logger.Warn("analytics: publish failed", "error", err, "event", event.Name)
	}
}

// PublishAll delivers an ordered event trail to the sink.
func PublishAll(ctx context.Context, n Notifier, events []Event) {
	if n == nil {
		return
	}
	for _, event := range events {
		n.Publish(ctx, event)
	}
}

// String renders the event for debug logs.
func (e Event) String() string {
	return fmt.Sprintf("%s %v", e.Name, e.Params)
}
