package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nexus/jobboard/domain"
	"github.com/nexus/jobboard/internal/infrastructure/database"
	"github.com/nexus/jobboard/internal/infrastructure/repositories"
	"github.com/nexus/jobboard/internal/mocks"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testDefaultFrom = "noreply@nexusjobboard.com"

var dbCounter int64

// setupTestDB creates an isolated in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	logger, _ := test.NewNullLogger()
	dsn := fmt.Sprintf("file:services_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := database.Open("sqlite", dsn, logger)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func nullLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

// createTestContext creates a context for testing with timeout
func createTestContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func seedUser(t *testing.T, db *gorm.DB, email, phone, role string) *domain.User {
	t.Helper()
	user := &domain.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		Phone:        phone,
		PasswordHash: "hashed",
		Role:         role,
		IsActive:     true,
		IsVerified:   true,
	}
	require.NoError(t, repositories.NewUserRepository(db).Create(context.Background(), user))
	return user
}

func seedJob(t *testing.T, db *gorm.DB, poster *domain.User, title, companyName, companyEmail string) *domain.Job {
	t.Helper()
	job := &domain.Job{
		Title:        title,
		Description:  "Build and run services",
		CompanyName:  companyName,
		CompanyEmail: companyEmail,
		Location:     "Remote",
		PostedByID:   poster.ID,
	}
	job.ApplyDefaults()
	require.NoError(t, repositories.NewJobRepository(db).Create(context.Background(), job))
	return job
}

// recordingInvalidator implements ListInvalidator and remembers every prefix
type recordingInvalidator struct {
	mu       sync.Mutex
	prefixes []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, prefixes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefixes = append(r.prefixes, prefixes...)
}

func (r *recordingInvalidator) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.prefixes...)
}

type engineFixture struct {
	db         *gorm.DB
	queue      *mocks.MockEmailQueue
	dispatcher *EmailDispatcher
	audit      *mocks.MockAuditLogger
	resumes    *mocks.MockResumeStore
	lists      *recordingInvalidator
	apps       domain.ApplicationService
	notifs     domain.NotificationService
	notifRepo  domain.NotificationRepository
}

// newEngineFixture wires the application engine to SQLite and recording mocks
func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	db := setupTestDB(t)
	f := &engineFixture{
		db:        db,
		queue:     mocks.NewMockEmailQueue(),
		audit:     mocks.NewMockAuditLogger(),
		resumes:   mocks.NewMockResumeStore(),
		lists:     &recordingInvalidator{},
		notifRepo: repositories.NewNotificationRepository(db),
	}
	f.dispatcher = NewEmailDispatcher(f.queue, testDefaultFrom, time.Second, nullLogger())
	f.apps = NewApplicationService(
		repositories.NewApplicationRepository(db),
		repositories.NewJobRepository(db),
		f.resumes,
		f.dispatcher,
		f.lists,
		f.audit,
		nullLogger(),
	)
	f.notifs = NewNotificationService(f.notifRepo, f.lists)
	return f
}

// emails waits for pending dispatches and returns what reached the queue
func (f *engineFixture) emails() []domain.EmailJob {
	f.dispatcher.Wait()
	return f.queue.Jobs()
}
