package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"rental-hub-service/internal/constants"
	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port"
	"rental-hub-service/internal/pkg/rabbitmq"
)

// PriceChangePublisher публикует события изменения цены в topic-обменник.
type PriceChangePublisher struct {
	publisher *rabbitmq.Publisher
}

func NewPriceChangePublisher(connManager *rabbitmq.ConnectionManager, logger rabbitmq.Logger) (*PriceChangePublisher, error) {
	publisher, err := rabbitmq.NewPublisher(rabbitmq.PublisherConfig{
		ExchangeName:             constants.EventsExchange,
		ExchangeType:             "topic",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   logger,
	}, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create price change publisher: %w", err)
	}
	return &PriceChangePublisher{publisher: publisher}, nil
}

func (p *PriceChangePublisher) PublishPriceChange(ctx context.Context, event domain.PriceChangeEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal price change event: %w", err)
	}

	return p.publisher.Publish(ctx, constants.RoutingKeyPriceChanged, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

func (p *PriceChangePublisher) Close() error {
	return p.publisher.Close()
}

var _ port.PriceChangeEventsPort = (*PriceChangePublisher)(nil)
