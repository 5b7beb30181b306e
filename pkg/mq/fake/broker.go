// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package fake contains an in-memory broker for tests of publishers and consumers.
package fake

import (
	"context"
	"errors"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/reanahub/reana-commons/pkg/mq"
)

// Declaration records a queue declaration.
type Declaration struct {
	Name    string
	Durable bool
	Args    amqp.Table
}

// Published is a message sent to the broker.
type Published struct {
	Exchange   string
	RoutingKey string
	Publishing amqp.Publishing
}

// Broker is an in-memory message broker.
type Broker struct {
	mu sync.Mutex

	// FailDials is the number of dials that fail before connections succeed.
	FailDials int
	// FailPublishes is the number of publishes that fail.
	FailPublishes int

	Dials        int
	Declarations []Declaration
	Published    []Published
	Qos          int

	deliveries chan amqp.Delivery
	acks       *Acknowledger
	nextTag    uint64
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{
		deliveries: make(chan amqp.Delivery, 100),
		acks:       &Acknowledger{},
	}
}

// Dial implements mq.Dialer.
func (b *Broker) Dial(_ string) (mq.Connection, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Dials++
	if b.FailDials > 0 {
		b.FailDials--
		return nil, errors.New("connection refused")
	}
	return &connection{broker: b}, nil
}

// Deliver queues a message for consumers.
func (b *Broker) Deliver(body []byte) {
	b.mu.Lock()
	b.nextTag++
	tag := b.nextTag
	b.mu.Unlock()
	b.deliveries <- amqp.Delivery{
		Acknowledger: b.acks,
		DeliveryTag:  tag,
		ContentType:  mq.ContentType,
		Body:         body,
	}
}

// CloseDeliveries closes the delivery channel like a lost connection does.
func (b *Broker) CloseDeliveries() {
	close(b.deliveries)
}

// Acks returns the acknowledger of all delivered messages.
func (b *Broker) Acks() *Acknowledger {
	return b.acks
}

// Messages returns a copy of all published messages.
func (b *Broker) Messages() []Published {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Published(nil), b.Published...)
}

type connection struct {
	broker *Broker
	closed bool
}

func (c *connection) Channel() (mq.Channel, error) {
	return &channel{broker: c.broker}, nil
}

func (c *connection) IsClosed() bool {
	return c.closed
}

func (c *connection) Close() error {
	c.closed = true
	return nil
}

type channel struct {
	broker *Broker
}

func (ch *channel) QueueDeclare(name string, durable, _, _, _ bool, args amqp.Table) (amqp.Queue, error) {
	ch.broker.mu.Lock()
	defer ch.broker.mu.Unlock()
	ch.broker.Declarations = append(ch.broker.Declarations, Declaration{Name: name, Durable: durable, Args: args})
	return amqp.Queue{Name: name}, nil
}

func (ch *channel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	ch.broker.mu.Lock()
	defer ch.broker.mu.Unlock()
	if ch.broker.FailPublishes > 0 {
		ch.broker.FailPublishes--
		return amqp.ErrClosed
	}
	ch.broker.Published = append(ch.broker.Published, Published{Exchange: exchange, RoutingKey: key, Publishing: msg})
	return nil
}

func (ch *channel) ConsumeWithContext(_ context.Context, _, _ string, _, _, _, _ bool, _ amqp.Table) (<-chan amqp.Delivery, error) {
	return ch.broker.deliveries, nil
}

func (ch *channel) Qos(prefetchCount, _ int, _ bool) error {
	ch.broker.mu.Lock()
	defer ch.broker.mu.Unlock()
	ch.broker.Qos = prefetchCount
	return nil
}

func (ch *channel) Close() error {
	return nil
}

// Acknowledger records acknowledgements of deliveries.
type Acknowledger struct {
	mu       sync.Mutex
	Acked    []uint64
	Rejected []uint64
	Requeued []uint64
}

func (a *Acknowledger) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Acked = append(a.Acked, tag)
	return nil
}

func (a *Acknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	return a.Reject(tag, requeue)
}

func (a *Acknowledger) Reject(tag uint64, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if requeue {
		a.Requeued = append(a.Requeued, tag)
		return nil
	}
	a.Rejected = append(a.Rejected, tag)
	return nil
}

// Counts returns the number of acked, rejected and requeued deliveries.
func (a *Acknowledger) Counts() (acked, rejected, requeued int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.Acked), len(a.Rejected), len(a.Requeued)
}
