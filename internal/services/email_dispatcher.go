package services

import (
	"context"
	"sync"
	"time"

	"github.com/nexus/jobboard/domain"
	"github.com/sirupsen/logrus"
)

const defaultDispatchTimeout = 10 * time.Second

// EmailDispatcher hands emails to the queue off the request path. Failures are
// logged and reported on the returned channel, never to the caller's request.
type EmailDispatcher struct {
	queue       domain.EmailQueue
	defaultFrom string
	timeout     time.Duration
	log         logrus.FieldLogger
	wg          sync.WaitGroup
}

// NewEmailDispatcher creates a dispatcher. defaultFrom receives mail for
// recipients that only resolve to a display name.
func NewEmailDispatcher(queue domain.EmailQueue, defaultFrom string, timeout time.Duration, log logrus.FieldLogger) *EmailDispatcher {
	if timeout <= 0 {
		timeout = defaultDispatchTimeout
	}
	return &EmailDispatcher{
		queue:       queue,
		defaultFrom: defaultFrom,
		timeout:     timeout,
		log:         log.WithField("component", "email"),
	}
}

// BuildJob turns a resolved recipient into a queue message.
func (d *EmailDispatcher) BuildJob(r domain.Recipient, subject, body string) (domain.EmailJob, error) {
	switch r.Kind {
	case domain.ValidEmail:
		return domain.EmailJob{Recipient: r.Address, Subject: subject, Body: body}, nil
	case domain.FallbackRequired:
		if d.defaultFrom == "" {
			return domain.EmailJob{}, domain.ErrEmailSkipped
		}
		return domain.EmailJob{
			Recipient: d.defaultFrom,
			Subject:   subject,
			Body:      body + "\n\nIntended recipient: " + r.DisplayName,
		}, nil
	default:
		return domain.EmailJob{}, domain.ErrEmailSkipped
	}
}

// Dispatch schedules delivery and returns immediately. The channel yields
// exactly one result and is then closed.
func (d *EmailDispatcher) Dispatch(r domain.Recipient, subject, body string) <-chan error {
	done := make(chan error, 1)

	job, err := d.BuildJob(r, subject, body)
	if err != nil {
		d.log.WithFields(logrus.Fields{
			"subject":   subject,
			"recipient": r.Kind.String(),
			"name":      r.DisplayName,
		}).Info("email skipped: no deliverable recipient")
		done <- err
		close(done)
		return done
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(done)

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.queue.Enqueue(ctx, job); err != nil {
			d.log.WithError(err).WithFields(logrus.Fields{
				"to":      job.Recipient,
				"subject": job.Subject,
			}).Warn("email enqueue failed")
			done <- err
			return
		}
		done <- nil
	}()
	return done
}

// Wait blocks until every scheduled dispatch has finished.
func (d *EmailDispatcher) Wait() {
	d.wg.Wait()
}
