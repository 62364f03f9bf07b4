package queue

import (
	"context"
	"sync"

	"github.com/nexus/jobboard/domain"
	"github.com/sirupsen/logrus"
)

// InProcess implements domain.EmailQueue with a bounded channel drained by
// worker goroutines. Used when no broker is configured.
type InProcess struct {
	jobs   chan domain.EmailJob
	mailer domain.Mailer
	log    logrus.FieldLogger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewInProcess starts workers that send queued jobs through mailer.
func NewInProcess(mailer domain.Mailer, workers, buffer int, log logrus.FieldLogger) *InProcess {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	q := &InProcess{
		jobs:   make(chan domain.EmailJob, buffer),
		mailer: mailer,
		log:    log,
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.work()
	}
	return q
}

func (q *InProcess) work() {
	defer q.wg.Done()
	for job := range q.jobs {
		if err := q.mailer.Send(context.Background(), job); err != nil {
			q.log.WithError(err).WithField("to", job.Recipient).Warn("email delivery failed")
		}
	}
}

// Enqueue implements domain.EmailQueue
func (q *InProcess) Enqueue(ctx context.Context, job domain.EmailJob) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return domain.ErrQueueClosed
	}
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close implements domain.EmailQueue. Queued jobs are drained before it returns.
func (q *InProcess) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}
