// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package mq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ContentType of all messages exchanged between REANA components.
const ContentType = "application/json"

// Queue describes a queue on the default exchange.
type Queue struct {
	Name       string
	RoutingKey string
	Exchange   string
	Durable    bool
	// MaxPriority enables priority queuing if greater than 0.
	MaxPriority uint8
}

var (
	// JobsStatusQueue carries workflow status updates.
	JobsStatusQueue = Queue{
		Name:        "jobs-status",
		RoutingKey:  "jobs-status",
		Durable:     false,
		MaxPriority: 4,
	}
	// WorkflowSubmissionQueue carries workflows waiting to be scheduled.
	WorkflowSubmissionQueue = Queue{
		Name:        "workflow-submission",
		RoutingKey:  "workflow-submission",
		Durable:     true,
		MaxPriority: 100,
	}
)

// DefaultQueues are the queues known by all components.
var DefaultQueues = map[string]Queue{
	JobsStatusQueue.Name:         JobsStatusQueue,
	WorkflowSubmissionQueue.Name: WorkflowSubmissionQueue,
}

// Args returns the queue arguments used to declare the queue.
func (q Queue) Args() amqp.Table {
	if q.MaxPriority == 0 {
		return nil
	}
	return amqp.Table{"x-max-priority": int32(q.MaxPriority)}
}

// Declare declares the queue. Declaring an existing queue with the same settings is a no-op.
func (q Queue) Declare(ch Channel) error {
	_, err := ch.QueueDeclare(q.Name, q.Durable, false, false, false, q.Args())
	return err
}

// Channel is the subset of an amqp channel used by REANA components.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	ConsumeWithContext(ctx context.Context, queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
	Close() error
}

// Connection is a connection to the message broker.
type Connection interface {
	Channel() (Channel, error)
	IsClosed() bool
	Close() error
}

// Dialer opens a connection to the broker at the given url.
type Dialer func(url string) (Connection, error)

type amqpConnection struct {
	*amqp.Connection
}

func (c amqpConnection) Channel() (Channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// Dial connects to a RabbitMQ broker.
func Dial(url string) (Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return amqpConnection{conn}, nil
}
