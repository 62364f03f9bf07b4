package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/nexus/jobboard/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBJobApplication is the application row. The composite unique index is
// what keeps concurrent duplicate submissions from both succeeding.
type DBJobApplication struct {
	ID          uint      `gorm:"primaryKey"`
	JobID       uint      `gorm:"uniqueIndex:idx_job_user;not null"`
	Job         *DBJob    `gorm:"constraint:OnDelete:CASCADE"`
	UserID      uint      `gorm:"uniqueIndex:idx_job_user;index;not null"`
	User        *DBUser   `gorm:"constraint:OnDelete:CASCADE"`
	CoverLetter string    `gorm:"type:text"`
	ResumePath  string    `gorm:"size:255"`
	Status      string    `gorm:"size:10;index;not null"`
	AppliedAt   time.Time `gorm:"autoCreateTime;index"`
}

func (DBJobApplication) TableName() string { return "job_applications" }

// ApplicationRepositoryImpl implements domain.ApplicationRepository using GORM
type ApplicationRepositoryImpl struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) domain.ApplicationRepository {
	return &ApplicationRepositoryImpl{db: db}
}

// Exists implements domain.ApplicationRepository
func (r *ApplicationRepositoryImpl) Exists(ctx context.Context, jobID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBJobApplication{}).
		Where("job_id = ? AND user_id = ?", jobID, userID).
		Count(&count).Error
	return count > 0, err
}

// CreateWithNotification implements domain.ApplicationRepository
func (r *ApplicationRepositoryImpl) CreateWithNotification(ctx context.Context, app *domain.JobApplication, notif *domain.Notification) error {
	row := applicationToDB(app)
	var notifRow *DBNotification
	if notif != nil {
		notifRow = notificationToDB(notif)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(row).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateApplication
			}
			return err
		}
		if notifRow == nil {
			return nil
		}
		return tx.Omit(clause.Associations).Create(notifRow).Error
	})
	if err != nil {
		return err
	}

	app.ID = row.ID
	app.AppliedAt = row.AppliedAt
	if notifRow != nil {
		notif.ID = notifRow.ID
		notif.CreatedAt = notifRow.CreatedAt
	}
	return nil
}

// FindByID implements domain.ApplicationRepository
func (r *ApplicationRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.JobApplication, error) {
	var row DBJobApplication
	err := r.db.WithContext(ctx).
		Preload("Job.PostedBy").
		Preload("User").
		First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	return applicationToDomain(&row), nil
}

// UpdateStatusWithNotification implements domain.ApplicationRepository. The
// status only changes if the row still holds from, so a concurrent reviewer
// cannot move an application out of a terminal state.
func (r *ApplicationRepositoryImpl) UpdateStatusWithNotification(ctx context.Context, id uint, from, to domain.ApplicationStatus, notif *domain.Notification) error {
	var notifRow *DBNotification
	if notif != nil {
		notifRow = notificationToDB(notif)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&DBJobApplication{}).
			Where("id = ? AND status = ?", id, string(from)).
			Update("status", string(to))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrInvalidTransition
		}
		if notifRow == nil {
			return nil
		}
		return tx.Omit(clause.Associations).Create(notifRow).Error
	})
	if err != nil {
		return err
	}

	if notifRow != nil {
		notif.ID = notifRow.ID
		notif.CreatedAt = notifRow.CreatedAt
	}
	return nil
}

// ListByUser implements domain.ApplicationRepository
func (r *ApplicationRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]domain.JobApplication, error) {
	return r.list(ctx, "user_id = ?", userID)
}

// ListByJob implements domain.ApplicationRepository
func (r *ApplicationRepositoryImpl) ListByJob(ctx context.Context, jobID uint) ([]domain.JobApplication, error) {
	return r.list(ctx, "job_id = ?", jobID)
}

func (r *ApplicationRepositoryImpl) list(ctx context.Context, query string, arg uint) ([]domain.JobApplication, error) {
	var rows []DBJobApplication
	err := r.db.WithContext(ctx).
		Preload("Job").
		Preload("User").
		Where(query, arg).
		Order("applied_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.JobApplication, 0, len(rows))
	for i := range rows {
		out = append(out, *applicationToDomain(&rows[i]))
	}
	return out, nil
}

func applicationToDB(app *domain.JobApplication) *DBJobApplication {
	status := app.Status
	if status == "" {
		status = domain.StatusPending
	}
	return &DBJobApplication{
		ID:          app.ID,
		JobID:       app.JobID,
		UserID:      app.UserID,
		CoverLetter: app.CoverLetter,
		ResumePath:  app.ResumePath,
		Status:      string(status),
		AppliedAt:   app.AppliedAt,
	}
}

func applicationToDomain(row *DBJobApplication) *domain.JobApplication {
	return &domain.JobApplication{
		ID:          row.ID,
		JobID:       row.JobID,
		Job:         jobToDomain(row.Job),
		UserID:      row.UserID,
		User:        userToDomain(row.User),
		CoverLetter: row.CoverLetter,
		ResumePath:  row.ResumePath,
		Status:      domain.ApplicationStatus(row.Status),
		AppliedAt:   row.AppliedAt,
	}
}
