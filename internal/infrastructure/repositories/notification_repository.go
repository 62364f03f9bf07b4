package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/nexus/jobboard/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBNotification is the in-app notification row
type DBNotification struct {
	ID          uint      `gorm:"primaryKey"`
	RecipientID uint      `gorm:"index;not null"`
	Recipient   *DBUser   `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
	Message     string    `gorm:"type:text;not null"`
	IsRead      bool      `gorm:"index"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

func (DBNotification) TableName() string { return "notifications" }

// NotificationRepositoryImpl implements domain.NotificationRepository
type NotificationRepositoryImpl struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) domain.NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

// Create implements domain.NotificationRepository
func (r *NotificationRepositoryImpl) Create(ctx context.Context, n *domain.Notification) error {
	row := notificationToDB(n)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		return err
	}
	n.ID, n.CreatedAt = row.ID, row.CreatedAt
	return nil
}

// ListByRecipient implements domain.NotificationRepository
func (r *NotificationRepositoryImpl) ListByRecipient(ctx context.Context, recipientID uint) ([]domain.Notification, error) {
	var rows []DBNotification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Notification, 0, len(rows))
	for i := range rows {
		out = append(out, *notificationToDomain(&rows[i]))
	}
	return out, nil
}

// FindForRecipient implements domain.NotificationRepository. A notification
// owned by someone else is reported as missing.
func (r *NotificationRepositoryImpl) FindForRecipient(ctx context.Context, id, recipientID uint) (*domain.Notification, error) {
	var row DBNotification
	err := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, err
	}
	return notificationToDomain(&row), nil
}

// MarkRead implements domain.NotificationRepository
func (r *NotificationRepositoryImpl) MarkRead(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&DBNotification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func notificationToDB(n *domain.Notification) *DBNotification {
	return &DBNotification{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Message:     n.Message,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
	}
}

func notificationToDomain(row *DBNotification) *domain.Notification {
	return &domain.Notification{
		ID:          row.ID,
		RecipientID: row.RecipientID,
		Message:     row.Message,
		IsRead:      row.IsRead,
		CreatedAt:   row.CreatedAt,
	}
}
