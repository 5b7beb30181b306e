// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package consumer

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-logr/logr"
	pkgerrors "github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/reanahub/reana-commons/pkg/mq"
)

// ErrDeliveriesClosed is returned if the broker closes the delivery channel.
var ErrDeliveriesClosed = errors.New("delivery channel closed")

// Handler processes a message.
// Messages are acknowledged if the handler returns nil and rejected otherwise.
// Errors wrapped with Requeue are returned to the queue.
type Handler interface {
	OnMessage(ctx context.Context, delivery amqp.Delivery) error
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(ctx context.Context, delivery amqp.Delivery) error

func (f HandlerFunc) OnMessage(ctx context.Context, delivery amqp.Delivery) error {
	return f(ctx, delivery)
}

type requeueError struct {
	err error
}

func (e *requeueError) Error() string { return e.err.Error() }
func (e *requeueError) Unwrap() error { return e.err }

// Requeue marks a handler error as temporary so that the message is delivered again.
func Requeue(err error) error {
	return &requeueError{err: err}
}

// Options configure a consumer.
type Options struct {
	URL string
	// ConsumerTag identifies the consumer at the broker.
	ConsumerTag string
	// Prefetch limits the number of unacknowledged messages.
	Prefetch int
	// RetryInterval is the delay between two connection attempts of RunForever.
	RetryInterval time.Duration
	// Dialer defaults to mq.Dial.
	Dialer mq.Dialer
}

// BaseConsumer consumes a single queue.
type BaseConsumer struct {
	log     logr.Logger
	queue   mq.Queue
	handler Handler
	opts    Options
}

// New creates a consumer for the given queue.
func New(log logr.Logger, queue mq.Queue, handler Handler, opts Options) *BaseConsumer {
	if opts.Dialer == nil {
		opts.Dialer = mq.Dial
	}
	if opts.Prefetch == 0 {
		opts.Prefetch = 1
	}
	if opts.RetryInterval == 0 {
		opts.RetryInterval = 10 * time.Second
	}
	return &BaseConsumer{
		log:     log,
		queue:   queue,
		handler: handler,
		opts:    opts,
	}
}

// NewForQueue creates a consumer for one of the default queues.
func NewForQueue(log logr.Logger, queueName string, handler Handler, opts Options) (*BaseConsumer, error) {
	queue, ok := mq.DefaultQueues[queueName]
	if !ok {
		return nil, pkgerrors.Errorf("unknown queue %s", queueName)
	}
	return New(log, queue, handler, opts), nil
}

// Run consumes messages until the context is cancelled or the connection is lost.
func (c *BaseConsumer) Run(ctx context.Context) error {
	conn, err := c.opts.Dialer(c.opts.URL)
	if err != nil {
		return pkgerrors.Wrap(err, "unable to connect to message broker")
	}
	defer conn.Close()
	ch, err := conn.Channel()
	if err != nil {
		return pkgerrors.Wrap(err, "unable to open channel")
	}
	defer ch.Close()

	if err := c.queue.Declare(ch); err != nil {
		return pkgerrors.Wrapf(err, "unable to declare queue %s", c.queue.Name)
	}
	if err := ch.Qos(c.opts.Prefetch, 0, false); err != nil {
		return pkgerrors.Wrap(err, "unable to set prefetch count")
	}
	deliveries, err := ch.ConsumeWithContext(ctx, c.queue.Name, c.opts.ConsumerTag, false, false, false, false, nil)
	if err != nil {
		return pkgerrors.Wrapf(err, "unable to consume queue %s", c.queue.Name)
	}

	c.log.Info("consuming", "queue", c.queue.Name)
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return ErrDeliveriesClosed
			}
			c.handle(ctx, d)
		}
	}
}

// RunForever runs the consumer and reconnects after lost connections until the context is cancelled.
func (c *BaseConsumer) RunForever(ctx context.Context) error {
	err := retry.Do(func() error { return c.Run(ctx) },
		retry.Context(ctx),
		retry.UntilSucceeded(),
		retry.Delay(c.opts.RetryInterval),
		retry.DelayType(retry.FixedDelay),
		retry.OnRetry(func(n uint, err error) {
			c.log.Error(err, "consumer stopped, reconnecting", "queue", c.queue.Name, "attempt", n+1)
		}),
	)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (c *BaseConsumer) handle(ctx context.Context, d amqp.Delivery) {
	err := c.handler.OnMessage(ctx, d)
	if err == nil {
		if ackErr := d.Ack(false); ackErr != nil {
			c.log.Error(ackErr, "unable to acknowledge message", "queue", c.queue.Name)
		}
		return
	}

	var requeue *requeueError
	doRequeue := errors.As(err, &requeue)
	c.log.Error(err, "unable to process message", "queue", c.queue.Name, "requeue", doRequeue)
	if rejectErr := d.Reject(doRequeue); rejectErr != nil {
		c.log.Error(rejectErr, "unable to reject message", "queue", c.queue.Name)
	}
}
