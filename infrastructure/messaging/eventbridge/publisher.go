package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"schoolhub-backend/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

const (
	eventSource              = "schoolhub.backend"
	detailTypeUploadComplete = "UploadCompleted"
)

// Publisher implements ports.EventPublisher on AWS EventBridge.
type Publisher struct {
	client       *eventbridge.Client
	eventBusName string
	logger       *zap.Logger
}

// NewPublisher creates an EventBridge publisher.
func NewPublisher(client *eventbridge.Client, eventBusName string, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:       client,
		eventBusName: eventBusName,
		logger:       logger,
	}
}

// PublishUploadCompleted sends the upload tally as a single event.
func (p *Publisher) PublishUploadCompleted(ctx context.Context, event ports.UploadEvent) error {
	detail, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal upload event: %w", err)
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(p.eventBusName),
				Source:       aws.String(eventSource),
				DetailType:   aws.String(detailTypeUploadComplete),
				Detail:       aws.String(string(detail)),
				Time:         aws.Time(event.Timestamp),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish upload event: %w", err)
	}
	if result.FailedEntryCount > 0 {
		return fmt.Errorf("event bus rejected the upload event")
	}

	p.logger.Debug("Published upload event",
		zap.String("uploadID", event.UploadID),
		zap.String("entity", event.Entity),
	)
	return nil
}
