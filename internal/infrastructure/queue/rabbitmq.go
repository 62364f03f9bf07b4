package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nexus/jobboard/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// RabbitConfig describes the email queue topology
type RabbitConfig struct {
	URL                string
	Queue              string
	DeadLetterExchange string
	Prefetch           int
}

// RabbitMQ implements domain.EmailQueue on a durable queue
type RabbitMQ struct {
	cfg  RabbitConfig
	conn *amqp.Connection
	ch   *amqp.Channel
	log  logrus.FieldLogger

	mu     sync.Mutex
	closed bool
}

// NewRabbitMQ dials the broker and declares the queue.
func NewRabbitMQ(cfg RabbitConfig, log logrus.FieldLogger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	args := amqp.Table{}
	if cfg.DeadLetterExchange != "" {
		if err := ch.ExchangeDeclare(cfg.DeadLetterExchange, "fanout", true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("declare dlx: %w", err)
		}
		dlq := cfg.Queue + ".dead"
		if _, err := ch.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("declare dlq: %w", err)
		}
		if err := ch.QueueBind(dlq, "", cfg.DeadLetterExchange, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("bind dlq: %w", err)
		}
		args["x-dead-letter-exchange"] = cfg.DeadLetterExchange
	}

	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, args); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	return &RabbitMQ{cfg: cfg, conn: conn, ch: ch, log: log}, nil
}

// Enqueue implements domain.EmailQueue
func (r *RabbitMQ) Enqueue(ctx context.Context, job domain.EmailJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return domain.ErrQueueClosed
	}
	return r.ch.PublishWithContext(ctx, "", r.cfg.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Consume delivers queued jobs to handle until ctx is done. Successful jobs are
// acked; failures are rejected without requeue so they reach the dead letter
// exchange when one is configured.
func (r *RabbitMQ) Consume(ctx context.Context, handle func(context.Context, domain.EmailJob) error) error {
	prefetch := r.cfg.Prefetch
	if prefetch <= 0 {
		prefetch = 8
	}
	if err := r.ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	deliveries, err := r.ch.ConsumeWithContext(ctx, r.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			HandleDelivery(ctx, d, handle, r.log)
		}
	}
}

type delivery interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
	payload() []byte
}

type amqpDelivery struct{ amqp.Delivery }

func (d amqpDelivery) payload() []byte { return d.Body }

// HandleDelivery decodes one message, runs handle and settles it.
func HandleDelivery(ctx context.Context, d amqp.Delivery, handle func(context.Context, domain.EmailJob) error, log logrus.FieldLogger) {
	settle(ctx, amqpDelivery{d}, handle, log)
}

func settle(ctx context.Context, d delivery, handle func(context.Context, domain.EmailJob) error, log logrus.FieldLogger) {
	var job domain.EmailJob
	if err := json.Unmarshal(d.payload(), &job); err != nil {
		log.WithError(err).Warn("dropping malformed email job")
		_ = d.Nack(false, false)
		return
	}
	if err := handle(ctx, job); err != nil {
		log.WithError(err).WithField("to", job.Recipient).Warn("email job failed")
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

// Close implements domain.EmailQueue
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if r.ch != nil {
		_ = r.ch.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
