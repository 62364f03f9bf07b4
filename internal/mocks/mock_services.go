package mocks

import (
	"context"

	"github.com/nexus/jobboard/domain"
)

// MockApplicationService implements domain.ApplicationService interface for testing
type MockApplicationService struct {
	SubmitFunc       func(ctx context.Context, input domain.SubmitInput) (*domain.JobApplication, error)
	UpdateStatusFunc func(ctx context.Context, applicationID uint, newStatus string, actor *domain.User) (*domain.JobApplication, error)
	GetFunc          func(ctx context.Context, applicationID uint, actor *domain.User) (*domain.JobApplication, error)
	ListFunc         func(ctx context.Context, user *domain.User) ([]domain.JobApplication, error)
	ListForJobFunc   func(ctx context.Context, jobID uint, actor *domain.User) ([]domain.JobApplication, error)
}

// Submit creates an application
func (m *MockApplicationService) Submit(ctx context.Context, input domain.SubmitInput) (*domain.JobApplication, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, input)
	}
	if input.User == nil {
		return nil, domain.ErrUnauthenticated
	}
	return &domain.JobApplication{
		ID:          1,
		JobID:       input.JobID,
		UserID:      input.User.ID,
		CoverLetter: input.CoverLetter,
		Status:      domain.StatusPending,
	}, nil
}

// UpdateStatus moves an application to a new status
func (m *MockApplicationService) UpdateStatus(ctx context.Context, applicationID uint, newStatus string, actor *domain.User) (*domain.JobApplication, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, applicationID, newStatus, actor)
	}
	status, err := domain.ParseApplicationStatus(newStatus)
	if err != nil {
		return nil, err
	}
	return &domain.JobApplication{ID: applicationID, Status: status}, nil
}

// Get returns one application
func (m *MockApplicationService) Get(ctx context.Context, applicationID uint, actor *domain.User) (*domain.JobApplication, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, applicationID, actor)
	}
	return nil, domain.ErrApplicationNotFound
}

// List returns the user's applications
func (m *MockApplicationService) List(ctx context.Context, user *domain.User) ([]domain.JobApplication, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, user)
	}
	return nil, nil
}

// ListForJob returns a job's applications
func (m *MockApplicationService) ListForJob(ctx context.Context, jobID uint, actor *domain.User) ([]domain.JobApplication, error) {
	if m.ListForJobFunc != nil {
		return m.ListForJobFunc(ctx, jobID, actor)
	}
	return nil, nil
}

// MockNotificationService implements domain.NotificationService interface for testing
type MockNotificationService struct {
	ListForRecipientFunc func(ctx context.Context, user *domain.User) ([]domain.Notification, error)
	MarkReadFunc         func(ctx context.Context, notificationID uint, user *domain.User) (*domain.Notification, error)
}

// ListForRecipient returns the user's notifications
func (m *MockNotificationService) ListForRecipient(ctx context.Context, user *domain.User) ([]domain.Notification, error) {
	if m.ListForRecipientFunc != nil {
		return m.ListForRecipientFunc(ctx, user)
	}
	return nil, nil
}

// MarkRead flags a notification as read
func (m *MockNotificationService) MarkRead(ctx context.Context, notificationID uint, user *domain.User) (*domain.Notification, error) {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, notificationID, user)
	}
	return nil, domain.ErrNotificationNotFound
}

// MockJobService implements domain.JobService interface for testing
type MockJobService struct {
	CreateFunc func(ctx context.Context, job *domain.Job, tagIDs []uint, actor *domain.User) (*domain.Job, error)
	GetFunc    func(ctx context.Context, id uint) (*domain.Job, error)
	UpdateFunc func(ctx context.Context, id uint, patch domain.JobPatch, actor *domain.User) (*domain.Job, error)
	DeleteFunc func(ctx context.Context, id uint, actor *domain.User) error
	ListFunc   func(ctx context.Context, filter domain.JobFilter) (*domain.JobPage, error)
}

// Create posts a job
func (m *MockJobService) Create(ctx context.Context, job *domain.Job, tagIDs []uint, actor *domain.User) (*domain.Job, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, job, tagIDs, actor)
	}
	job.ID = 1
	job.ApplyDefaults()
	if actor != nil {
		job.PostedByID = actor.ID
	}
	return job, nil
}

// Get returns a job
func (m *MockJobService) Get(ctx context.Context, id uint) (*domain.Job, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, domain.ErrJobNotFound
}

// Update patches a job
func (m *MockJobService) Update(ctx context.Context, id uint, patch domain.JobPatch, actor *domain.User) (*domain.Job, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch, actor)
	}
	return nil, domain.ErrJobNotFound
}

// Delete removes a job
func (m *MockJobService) Delete(ctx context.Context, id uint, actor *domain.User) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, actor)
	}
	return nil
}

// List returns a page of jobs
func (m *MockJobService) List(ctx context.Context, filter domain.JobFilter) (*domain.JobPage, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	filter.Normalize()
	return &domain.JobPage{Page: filter.Page, PageSize: filter.PageSize}, nil
}

// Compile-time interface compliance verification
var (
	_ domain.ApplicationService  = (*MockApplicationService)(nil)
	_ domain.NotificationService = (*MockNotificationService)(nil)
	_ domain.JobService          = (*MockJobService)(nil)
)
