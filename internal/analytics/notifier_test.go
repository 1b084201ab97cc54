package analytics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/flordomaracuja/lead-capture/internal/localstore"
	"github.com/flordomaracuja/lead-capture/pkg/logging"
)

type stubSQS struct {
	sent []string
	err  error
}

func (s *stubSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.sent = append(s.sent, aws.ToString(params.MessageBody))
	return &sqs.SendMessageOutput{}, nil
}

func TestSQSNotifierPublish(t *testing.T) {
	stub := &stubSQS{}
	notifier := &SQSNotifier{client: stub, queueURL: "https://sqs.test/leads", logger: logging.Default()}

	notifier.Publish(context.Background(), GenerateLead("instagram"))

	if len(stub.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(stub.sent))
	}
	if body := stub.sent[0]; body == "" || !contains(body, "generate_lead") {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestSQSNotifierSwallowsErrors(t *testing.T) {
	stub := &stubSQS{err: errors.New("queue gone")}
	notifier := &SQSNotifier{client: stub, queueURL: "https://sqs.test/leads", logger: logging.Default()}

	// Must not panic or propagate; analytics is best-effort.
	notifier.Publish(context.Background(), FormError("store_error", "insert failed"))
}

func TestPublishAllPreservesOrder(t *testing.T) {
	stub := &stubSQS{}
	notifier := &SQSNotifier{client: stub, queueURL: "https://sqs.test/leads", logger: logging.Default()}

	events := []Event{FormSubmit(3), GenerateLead("direct"), HighIntentLead(TierHigh, ScoreInputs{})}
	PublishAll(context.Background(), notifier, events)

	if len(stub.sent) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(stub.sent))
	}
	if !contains(stub.sent[0], "form_submit") || !contains(stub.sent[2], "high_intent_lead") {
		t.Errorf("events out of order: %v", stub.sent)
	}
}

func TestCaptureAttributionKeepsFirstCapture(t *testing.T) {
	store := localstore.NewMemoryStore()
	ctx := context.Background()

	first := CaptureAttribution(ctx, store, map[string]string{"utm_source": "instagram"}, "https://instagram.com", "/promo", "Mozilla (iPhone)")
	if first.UTMSource != "instagram" {
		t.Errorf("utm_source = %q", first.UTMSource)
	}
	if first.DeviceType != "mobile" {
		t.Errorf("device_type = %q, want mobile", first.DeviceType)
	}

	// A later capture in the same session must not overwrite the first.
	second := CaptureAttribution(ctx, store, map[string]string{"utm_source": "google"}, "", "/", "Mozilla")
	if second.UTMSource != "instagram" {
		t.Errorf("expected first capture preserved, got %q", second.UTMSource)
	}
}

func TestCaptureAttributionDefaults(t *testing.T) {
	attr := CaptureAttribution(context.Background(), localstore.NewMemoryStore(), nil, "", "", "Mozilla (X11; Linux)")
	if attr.UTMSource != "direct" || attr.UTMMedium != "none" || attr.UTMCampaign != "none" {
		t.Errorf("unexpected defaults: %+v", attr)
	}
	if attr.Referrer != "direct" || attr.DeviceType != "desktop" {
		t.Errorf("unexpected defaults: %+v", attr)
	}
}

func contains(s, sub string) bool {
	return strings.Contains(s, sub)
}
