package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
	"github.com/Temutjin2k/pivot-location/pkg/metrics"
)

const driverName = "mqtt"

type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

type LocationProducer struct {
	client Publisher
	prefix string
}

// NewLocationProducer publishes under <prefix>/users/<id>/verifications.
func NewLocationProducer(client Publisher, prefix string) *LocationProducer {
	if prefix == "" {
		prefix = "pivot"
	}
	return &LocationProducer{client: client, prefix: prefix}
}

func (p *LocationProducer) Topic(event models.LocationVerifiedEvent) string {
	return fmt.Sprintf("%s/users/%s/verifications", p.prefix, event.UserID)
}

func (p *LocationProducer) PublishLocationVerified(ctx context.Context, event models.LocationVerifiedEvent) (err error) {
	const op = "mqtt.LocationProducer.PublishLocationVerified"
	defer func() { metrics.RecordEventPublish(driverName, err) }()

	payload, err := json.Marshal(event)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: marshal: %w", op, err))
	}

	if err = p.client.Publish(ctx, p.Topic(event), payload); err != nil {
		ctx = wrap.WithAction(ctx, "publish_message")
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}
