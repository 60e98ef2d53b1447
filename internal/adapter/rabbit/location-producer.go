package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
	"github.com/Temutjin2k/pivot-location/pkg/metrics"
)

const (
	LocationExchange = "location_topic"
	driverName       = "rabbitmq"
)

type Publisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte) error
}

type LocationProducer struct {
	client Publisher
}

func NewLocationProducer(client Publisher) *LocationProducer {
	return &LocationProducer{
		client: client,
	}
}

// RoutingKey returns location.verified.<status>, e.g. location.verified.green.
func RoutingKey(event models.LocationVerifiedEvent) string {
	return "location.verified." + strings.ToLower(event.ProductivityStatus)
}

// PublishLocationVerified publishes the event to the location topic exchange.
func (p *LocationProducer) PublishLocationVerified(ctx context.Context, event models.LocationVerifiedEvent) (err error) {
	const op = "LocationProducer.PublishLocationVerified"
	defer func() { metrics.RecordEventPublish(driverName, err) }()

	body, err := json.Marshal(event)
	if err != nil {
		ctx = wrap.WithAction(ctx, "marshal_location_event")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to marshal message: %w", op, err))
	}

	if err = p.client.Publish(ctx, LocationExchange, RoutingKey(event), body); err != nil {
		ctx = wrap.WithAction(ctx, "publish_message")
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return nil
}
