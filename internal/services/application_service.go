package services

import (
	"context"
	"fmt"

	"github.com/nexus/jobboard/domain"
	"github.com/nexus/jobboard/internal/infrastructure/cache"
	"github.com/sirupsen/logrus"
)

// ListInvalidator drops cached list responses under the given prefixes.
type ListInvalidator interface {
	Invalidate(ctx context.Context, prefixes ...string)
}

// ApplicationServiceImpl implements domain.ApplicationService
type ApplicationServiceImpl struct {
	appRepo    domain.ApplicationRepository
	jobRepo    domain.JobRepository
	resumes    domain.ResumeStore
	dispatcher *EmailDispatcher
	lists      ListInvalidator
	audit      domain.AuditLogger
	log        logrus.FieldLogger
}

// NewApplicationService creates the application engine
func NewApplicationService(
	appRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	resumes domain.ResumeStore,
	dispatcher *EmailDispatcher,
	lists ListInvalidator,
	audit domain.AuditLogger,
	log logrus.FieldLogger,
) domain.ApplicationService {
	return &ApplicationServiceImpl{
		appRepo:    appRepo,
		jobRepo:    jobRepo,
		resumes:    resumes,
		dispatcher: dispatcher,
		lists:      lists,
		audit:      audit,
		log:        log.WithField("component", "applications"),
	}
}

// Submit implements domain.ApplicationService
func (s *ApplicationServiceImpl) Submit(ctx context.Context, in domain.SubmitInput) (*domain.JobApplication, error) {
	if in.User == nil {
		return nil, domain.ErrUnauthenticated
	}

	job, err := s.jobRepo.FindByID(ctx, in.JobID)
	if err != nil {
		return nil, err
	}

	exists, err := s.appRepo.Exists(ctx, job.ID, in.User.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing application: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateApplication
	}

	var resumePath string
	if in.Resume != nil {
		if resumePath, err = s.resumes.Save(ctx, in.Resume); err != nil {
			return nil, err
		}
	}

	app := &domain.JobApplication{
		JobID:       job.ID,
		UserID:      in.User.ID,
		CoverLetter: in.CoverLetter,
		ResumePath:  resumePath,
		Status:      domain.StatusPending,
	}
	message := fmt.Sprintf("%s applied for %s.", domain.ApplicantIdentity(in.User), job.Title)

	var notif *domain.Notification
	if job.PostedByID != 0 {
		notif = &domain.Notification{RecipientID: job.PostedByID, Message: message}
	}

	// the unique (job, user) index decides concurrent duplicates
	if err := s.appRepo.CreateWithNotification(ctx, app, notif); err != nil {
		if resumePath != "" {
			if derr := s.resumes.Delete(ctx, resumePath); derr != nil {
				s.log.WithError(derr).WithField("path", resumePath).Warn("orphaned resume not removed")
			}
		}
		return nil, err
	}
	app.Job = job
	app.User = in.User

	s.dispatcher.Dispatch(domain.ResolveRecipient(job), fmt.Sprintf("New Application for %s", job.Title), message)
	s.lists.Invalidate(ctx, cache.EngineListPrefixes...)
	s.logEvent(ctx, domain.NewAuditEvent(domain.ApplicationSubmittedEvent, in.User.ID).
		WithEmail(in.User.Email).
		WithMetadata("job_id", job.ID).
		WithMetadata("application_id", app.ID))

	return app, nil
}

// UpdateStatus implements domain.ApplicationService
func (s *ApplicationServiceImpl) UpdateStatus(ctx context.Context, applicationID uint, newStatus string, actor *domain.User) (*domain.JobApplication, error) {
	app, err := s.appRepo.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if !domain.PosterOrAdmin(actor, app.Job) {
		s.logEvent(ctx, s.denied(actor, "application_status", applicationID))
		return nil, domain.ErrForbidden
	}

	next, err := domain.ParseApplicationStatus(newStatus)
	if err != nil {
		return nil, err
	}
	if !app.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, app.Status, next)
	}

	title := ""
	if app.Job != nil {
		title = app.Job.Title
	}
	message := fmt.Sprintf("Your application for '%s' has been %s.", title, next)
	notif := &domain.Notification{RecipientID: app.UserID, Message: message}

	if err := s.appRepo.UpdateStatusWithNotification(ctx, app.ID, app.Status, next, notif); err != nil {
		return nil, err
	}
	previous := app.Status
	app.Status = next

	body := fmt.Sprintf("Hello %s,\n\n%s\n\nPlease log in to view more details.", domain.ApplicantIdentity(app.User), message)
	s.dispatcher.Dispatch(domain.ApplicantRecipient(app.User), fmt.Sprintf("Application Status Updated: %s", title), body)
	s.lists.Invalidate(ctx, cache.EngineListPrefixes...)
	s.logEvent(ctx, domain.NewAuditEvent(domain.ApplicationStatusChangedEvent, actor.ID).
		WithMetadata("application_id", app.ID).
		WithMetadata("from", string(previous)).
		WithMetadata("to", string(next)))

	return app, nil
}

// Get implements domain.ApplicationService
func (s *ApplicationServiceImpl) Get(ctx context.Context, applicationID uint, actor *domain.User) (*domain.JobApplication, error) {
	app, err := s.appRepo.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !domain.ApplicantPosterOrAdmin(actor, app) {
		return nil, domain.ErrForbidden
	}
	return app, nil
}

// List implements domain.ApplicationService
func (s *ApplicationServiceImpl) List(ctx context.Context, user *domain.User) ([]domain.JobApplication, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.appRepo.ListByUser(ctx, user.ID)
}

// ListForJob implements domain.ApplicationService
func (s *ApplicationServiceImpl) ListForJob(ctx context.Context, jobID uint, actor *domain.User) ([]domain.JobApplication, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !domain.PosterOrAdmin(actor, job) {
		return nil, domain.ErrForbidden
	}
	return s.appRepo.ListByJob(ctx, job.ID)
}

func (s *ApplicationServiceImpl) denied(actor *domain.User, resource string, id uint) *domain.AuditEvent {
	var uid uint
	if actor != nil {
		uid = actor.ID
	}
	return domain.NewAuditEvent(domain.AccessDeniedEvent, uid).
		WithError(domain.ErrForbidden).
		WithMetadata("resource", resource).
		WithMetadata("id", id)
}

func (s *ApplicationServiceImpl) logEvent(ctx context.Context, event *domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogEvent(ctx, event); err != nil {
		s.log.WithError(err).Warn("audit log failed")
	}
}
