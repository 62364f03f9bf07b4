package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/nexus/jobboard/domain"
)

// MockEmailQueue implements domain.EmailQueue and records enqueued jobs
type MockEmailQueue struct {
	EnqueueFunc func(ctx context.Context, job domain.EmailJob) error

	mu   sync.Mutex
	jobs []domain.EmailJob
}

// NewMockEmailQueue creates a new MockEmailQueue that accepts every job
func NewMockEmailQueue() *MockEmailQueue {
	return &MockEmailQueue{}
}

// Enqueue records the job
func (m *MockEmailQueue) Enqueue(ctx context.Context, job domain.EmailJob) error {
	if m.EnqueueFunc != nil {
		if err := m.EnqueueFunc(ctx, job); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
	return nil
}

// Close is a no-op
func (m *MockEmailQueue) Close() error { return nil }

// Jobs returns a copy of the recorded jobs
func (m *MockEmailQueue) Jobs() []domain.EmailJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.EmailJob(nil), m.jobs...)
}

// MockSMSSender implements domain.SMSSender interface for testing
type MockSMSSender struct {
	SendSMSFunc func(to, message string) error

	mu   sync.Mutex
	Sent []string
}

// NewMockSMSSender creates a new MockSMSSender
func NewMockSMSSender() *MockSMSSender {
	return &MockSMSSender{}
}

// SendSMS records the destination number
func (m *MockSMSSender) SendSMS(to, message string) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, to)
	m.mu.Unlock()
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(to, message)
	}
	return nil
}

// MockResumeStore implements domain.ResumeStore interface for testing
type MockResumeStore struct {
	SaveFunc   func(ctx context.Context, r io.Reader) (string, error)
	DeleteFunc func(ctx context.Context, path string) error
	Deleted    []string
}

// NewMockResumeStore creates a new MockResumeStore
func NewMockResumeStore() *MockResumeStore {
	return &MockResumeStore{}
}

// Save stores nothing and returns a fixed path
func (m *MockResumeStore) Save(ctx context.Context, r io.Reader) (string, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, r)
	}
	return "resumes/mock.pdf", nil
}

// Delete records the path
func (m *MockResumeStore) Delete(ctx context.Context, path string) error {
	m.Deleted = append(m.Deleted, path)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, path)
	}
	return nil
}

// MockAuditLogger implements domain.AuditLogger and records events
type MockAuditLogger struct {
	mu     sync.Mutex
	Events []*domain.AuditEvent
}

// NewMockAuditLogger creates a new MockAuditLogger
func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

// LogEvent records the event
func (m *MockAuditLogger) LogEvent(_ context.Context, event *domain.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

// Types returns the recorded event types in order
func (m *MockAuditLogger) Types() []domain.AuditEventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AuditEventType, len(m.Events))
	for i, e := range m.Events {
		out[i] = e.EventType
	}
	return out
}

// Compile-time interface compliance verification
var (
	_ domain.EmailQueue  = (*MockEmailQueue)(nil)
	_ domain.SMSSender   = (*MockSMSSender)(nil)
	_ domain.ResumeStore = (*MockResumeStore)(nil)
	_ domain.AuditLogger = (*MockAuditLogger)(nil)
)
