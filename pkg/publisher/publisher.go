// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package publisher

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/reanahub/reana-commons/pkg/mq"
)

// DefaultMaxRetries is the number of retries of a failed publish.
const DefaultMaxRetries = 3

// Options configure a publisher.
type Options struct {
	// URL of the broker.
	URL string
	// MaxRetries of a failed publish.
	MaxRetries uint
	// RetryDelay is the initial delay between two attempts.
	RetryDelay time.Duration
	// Dialer defaults to mq.Dial.
	Dialer mq.Dialer
}

// BasePublisher publishes json messages to a single queue.
// The connection is opened on the first publish and reopened after failures.
type BasePublisher struct {
	log   logr.Logger
	queue mq.Queue
	opts  Options

	mu   sync.Mutex
	conn mq.Connection
	ch   mq.Channel
}

// NewBasePublisher creates a publisher for the given queue.
func NewBasePublisher(log logr.Logger, queue mq.Queue, opts Options) *BasePublisher {
	if opts.Dialer == nil {
		opts.Dialer = mq.Dial
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = time.Second
	}
	return &BasePublisher{
		log:   log,
		queue: queue,
		opts:  opts,
	}
}

// Queue returns the queue the publisher sends messages to.
func (p *BasePublisher) Queue() mq.Queue {
	return p.queue
}

func (p *BasePublisher) channel() (mq.Channel, error) {
	if p.ch != nil && p.conn != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}
	p.reset()
	conn, err := p.opts.Dialer(p.opts.URL)
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect to message broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "unable to open channel")
	}
	if err := p.queue.Declare(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errors.Wrapf(err, "unable to declare queue %s", p.queue.Name)
	}
	p.conn = conn
	p.ch = ch
	return ch, nil
}

func (p *BasePublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch = nil
	p.conn = nil
}

// Publish sends the json encoded message with the given priority.
// A nil priority publishes the message without priority.
func (p *BasePublisher) Publish(ctx context.Context, msg interface{}, priority *uint8) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "unable to encode message")
	}
	publishing := amqp.Publishing{
		ContentType: mq.ContentType,
		Body:        body,
	}
	if p.queue.Durable {
		publishing.DeliveryMode = amqp.Persistent
	}
	if priority != nil {
		publishing.Priority = *priority
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = retry.Do(func() error {
		ch, err := p.channel()
		if err != nil {
			return err
		}
		if err := ch.PublishWithContext(ctx, p.queue.Exchange, p.queue.RoutingKey, false, false, publishing); err != nil {
			p.reset()
			return err
		}
		return nil
	},
		retry.Context(ctx),
		retry.Attempts(p.opts.MaxRetries+1),
		retry.Delay(p.opts.RetryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			p.log.Error(err, "error while publishing", "queue", p.queue.Name)
			p.log.Info("retry publishing", "queue", p.queue.Name, "attempt", n+1)
		}),
	)
	if err != nil {
		return errors.Wrapf(err, "unable to publish message to %s", p.queue.Name)
	}
	p.log.V(5).Info("message sent", "queue", p.queue.Name, "message", string(body))
	return nil
}

// Close closes the connection to the broker.
func (p *BasePublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log.V(5).Info("closing queue connection", "queue", p.queue.Name)
	p.reset()
}

// WorkflowStatusPublisher publishes workflow status updates.
type WorkflowStatusPublisher struct {
	*BasePublisher
}

// NewWorkflowStatusPublisher creates a publisher for the jobs-status queue.
func NewWorkflowStatusPublisher(log logr.Logger, opts Options) *WorkflowStatusPublisher {
	return &WorkflowStatusPublisher{NewBasePublisher(log, mq.JobsStatusQueue, opts)}
}

// PublishWorkflowStatus publishes the status of a workflow.
// The status is also used as message priority so that later states are processed first.
func (p *WorkflowStatusPublisher) PublishWorkflowStatus(ctx context.Context, workflowUUID string, status int, logs string, message map[string]interface{}) error {
	return p.Publish(ctx, mq.WorkflowStatusMessage{
		WorkflowUUID: workflowUUID,
		Logs:         logs,
		Status:       status,
		Priority:     status,
		Message:      message,
	}, nil)
}

// WorkflowSubmissionPublisher publishes workflows that are ready to be scheduled.
type WorkflowSubmissionPublisher struct {
	*BasePublisher
}

// NewWorkflowSubmissionPublisher creates a publisher for the workflow-submission queue.
func NewWorkflowSubmissionPublisher(log logr.Logger, opts Options) *WorkflowSubmissionPublisher {
	return &WorkflowSubmissionPublisher{NewBasePublisher(log, mq.WorkflowSubmissionQueue, opts)}
}

// PublishWorkflowSubmission publishes a workflow submission with the given priority.
func (p *WorkflowSubmissionPublisher) PublishWorkflowSubmission(ctx context.Context, userID, workflowIDOrName string, parameters map[string]interface{}, priority int, minJobMemory float64) error {
	if priority < 0 || priority > int(p.queue.MaxPriority) {
		return errors.Errorf("priority %d is out of range [0, %d]", priority, p.queue.MaxPriority)
	}
	amqpPriority := uint8(priority)
	return p.Publish(ctx, mq.WorkflowSubmissionMessage{
		User:             userID,
		WorkflowIDOrName: workflowIDOrName,
		Parameters:       parameters,
		Priority:         priority,
		MinJobMemory:     minJobMemory,
	}, &amqpPriority)
}
