package repositories

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/nexus/jobboard/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter int64

// setupTestDB creates an isolated in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Models()...), "failed to migrate database")
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:        email,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "hashed",
		Role:         domain.RoleUser,
		IsActive:     true,
		IsVerified:   true,
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func createJob(t *testing.T, db *gorm.DB, poster *domain.User, title string) *domain.Job {
	t.Helper()
	job := &domain.Job{
		Title:       title,
		Description: "Build things",
		CompanyName: "Acme",
		Location:    "Remote",
		PostedByID:  poster.ID,
	}
	job.ApplyDefaults()
	require.NoError(t, NewJobRepository(db).Create(context.Background(), job))
	return job
}
