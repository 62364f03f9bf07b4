package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nexus/jobboard/domain"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []domain.EmailJob
	err  error
}

func (m *recordingMailer) Send(_ context.Context, job domain.EmailJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, job)
	return m.err
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func TestInProcess_DeliversAndDrainsOnClose(t *testing.T) {
	logger, _ := test.NewNullLogger()
	mailer := &recordingMailer{}
	q := NewInProcess(mailer, 2, 16, logger)

	for i := 0; i < 10; i++ {
		require.NoError(t, q.Enqueue(context.Background(), domain.EmailJob{Recipient: "a@example.com", Subject: "s"}))
	}
	require.NoError(t, q.Close())
	assert.Equal(t, 10, mailer.count())

	err := q.Enqueue(context.Background(), domain.EmailJob{})
	assert.ErrorIs(t, err, domain.ErrQueueClosed)
	assert.NoError(t, q.Close())
}

func TestInProcess_SendFailureIsLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	mailer := &recordingMailer{err: errors.New("smtp down")}
	q := NewInProcess(mailer, 1, 1, logger)

	require.NoError(t, q.Enqueue(context.Background(), domain.EmailJob{Recipient: "a@example.com"}))
	require.NoError(t, q.Close())

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "email delivery failed", hook.LastEntry().Message)
}

func TestInProcess_EnqueueHonorsContext(t *testing.T) {
	logger, _ := test.NewNullLogger()
	block := make(chan struct{})
	mailer := &blockingMailer{release: block}
	q := NewInProcess(mailer, 1, 0, logger)

	// first job occupies the only worker
	require.NoError(t, q.Enqueue(context.Background(), domain.EmailJob{}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Enqueue(ctx, domain.EmailJob{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(block)
	require.NoError(t, q.Close())
}

type blockingMailer struct{ release chan struct{} }

func (m *blockingMailer) Send(context.Context, domain.EmailJob) error {
	<-m.release
	return nil
}

type fakeDelivery struct {
	body   []byte
	acked  bool
	nacked bool
}

func (d *fakeDelivery) Ack(bool) error        { d.acked = true; return nil }
func (d *fakeDelivery) Nack(bool, bool) error { d.nacked = true; return nil }
func (d *fakeDelivery) payload() []byte       { return d.body }

func TestSettle(t *testing.T) {
	logger, _ := test.NewNullLogger()
	valid, _ := json.Marshal(domain.EmailJob{Recipient: "a@example.com", Subject: "s", Body: "b"})

	tests := []struct {
		name       string
		body       []byte
		handleErr  error
		wantAck    bool
		wantNack   bool
		wantCalled bool
	}{
		{name: "delivered", body: valid, wantAck: true, wantCalled: true},
		{name: "handler failure", body: valid, handleErr: errors.New("boom"), wantNack: true, wantCalled: true},
		{name: "malformed payload", body: []byte("{"), wantNack: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDelivery{body: tt.body}
			called := false
			settle(context.Background(), d, func(_ context.Context, job domain.EmailJob) error {
				called = true
				assert.Equal(t, "a@example.com", job.Recipient)
				return tt.handleErr
			}, logger)

			assert.Equal(t, tt.wantCalled, called)
			assert.Equal(t, tt.wantAck, d.acked)
			assert.Equal(t, tt.wantNack, d.nacked)
		})
	}
}
