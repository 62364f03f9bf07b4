package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nexus/jobboard/domain"
	"github.com/nexus/jobboard/internal/app"
	"github.com/nexus/jobboard/internal/config"
	"github.com/nexus/jobboard/internal/infrastructure/queue"
)

// emailworker drains the RabbitMQ email queue and hands each job to the
// configured mailer.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.QueueURL == "" {
		log.Fatalf("config: queue.url must be set for the email worker")
	}

	logger := app.NewLogger(cfg)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer, err := queue.NewRabbitMQ(queue.RabbitConfig{
		URL:                cfg.QueueURL,
		Queue:              cfg.QueueName,
		DeadLetterExchange: cfg.QueueDeadLetterEx,
		Prefetch:           cfg.QueueWorkers,
	}, logger.WithField("component", "queue"))
	if err != nil {
		logger.WithError(err).Fatal("could not connect to the email queue")
	}
	defer consumer.Close()

	mailer := app.NewMailer(cfg, logger)
	logger.WithField("queue", cfg.QueueName).Info("email worker started")

	err = consumer.Consume(ctx, func(ctx context.Context, job domain.EmailJob) error {
		return mailer.Send(ctx, job)
	})
	if err != nil {
		logger.WithError(err).Fatal("email worker stopped")
	}
	logger.Info("email worker stopped")
}
