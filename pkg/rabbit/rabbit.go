package rabbit

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Temutjin2k/pivot-location/internal/domain/types"
	"github.com/Temutjin2k/pivot-location/pkg/logger"
	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	ErrClosed = errors.New("rabbitmq channel is closed")
	ErrNacked = errors.New("rabbitmq broker rejected the message")
)

const heartbeat = 10 * time.Second

// RabbitMQ publishes on a single channel in confirm mode.
// Publish returns only after the broker acknowledged the message.
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  atomic.Bool

	log logger.Logger
}

func New(ctx context.Context, dsn string, log logger.Logger) (*RabbitMQ, error) {
	conn, err := amqp.DialConfig(dsn, amqp.Config{Heartbeat: heartbeat})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	if err := channel.Confirm(false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	r := &RabbitMQ{
		conn:    conn,
		channel: channel,
		log:     log,
	}

	go r.watch(conn.NotifyClose(make(chan *amqp.Error, 1)), channel.NotifyClose(make(chan *amqp.Error, 1)))

	log.Info(wrap.WithAction(ctx, types.ActionRabbitMQConnected), "connected to rabbitMQ")

	return r, nil
}

// watch marks the client closed as soon as the connection or the channel goes away.
func (r *RabbitMQ) watch(connClosed, chClosed <-chan *amqp.Error) {
	var (
		closeErr *amqp.Error
		what     string
	)
	select {
	case closeErr = <-connClosed:
		what = "connection"
	case closeErr = <-chClosed:
		what = "channel"
	}
	r.closed.Store(true)

	ctx := wrap.WithAction(context.Background(), types.ActionRabbitConnectionClosed)
	if closeErr != nil {
		r.log.Error(ctx, "rabbitMQ "+what+" closed", closeErr)
		return
	}
	r.log.Debug(ctx, "rabbitMQ "+what+" closed gracefully")
}

func (r *RabbitMQ) IsConnectionClosed() bool {
	return r.closed.Load() || r.conn.IsClosed() || r.channel.IsClosed()
}

// DeclareTopicExchange declares a durable topic exchange.
func (r *RabbitMQ) DeclareTopicExchange(name string) error {
	if r.IsConnectionClosed() {
		return ErrClosed
	}

	if err := r.channel.ExchangeDeclare(
		name,    // name
		"topic", // kind
		true,    // durable
		false,   // auto-deleted
		false,   // internal
		false,   // no-wait
		nil,     // arguments
	); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", name, err)
	}
	return nil
}

// Publish sends a persistent JSON message and waits for the broker confirm or ctx.
func (r *RabbitMQ) Publish(ctx context.Context, exchange, key string, body []byte) error {
	if r.IsConnectionClosed() {
		return ErrClosed
	}

	confirm, err := r.channel.PublishWithDeferredConfirmWithContext(
		ctx,
		exchange, // exchange
		key,      // routing key
		false,    // mandatory
		false,    // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now().UTC(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to %s/%s: %w", exchange, key, err)
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("waiting for confirm: %w", err)
	}
	if !acked {
		return ErrNacked
	}

	return nil
}

// Close closes the channel and then the connection. Subsequent calls are no-ops.
func (r *RabbitMQ) Close(ctx context.Context) error {
	if r.closed.Swap(true) && r.conn.IsClosed() {
		return nil
	}
	ctx = wrap.WithAction(ctx, types.ActionRabbitConnectionClosing)

	if err := closeWithCtx(ctx, r.channel.Close); err != nil && !errors.Is(err, amqp.ErrClosed) {
		r.log.Warn(ctx, "error closing channel", "error", err.Error())
	}

	if err := closeWithCtx(ctx, r.conn.Close); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return fmt.Errorf("failed to close connection: %w", err)
	}

	r.log.Info(wrap.WithAction(ctx, types.ActionRabbitConnectionClosed), "rabbitMQ closed")

	return nil
}

// closeWithCtx gives up waiting on fn when ctx is done. fn keeps running in the background.
func closeWithCtx(ctx context.Context, fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
