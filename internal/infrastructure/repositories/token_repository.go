package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nexus/jobboard/domain"
	"gorm.io/gorm"
)

// DBEmailToken is the signup verification token row
type DBEmailToken struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    uint      `gorm:"index;not null"`
	User      DBUser    `gorm:"constraint:OnDelete:CASCADE"`
	Token     string    `gorm:"uniqueIndex;size:64;not null"`
	Purpose   string    `gorm:"size:20;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	ExpiresAt time.Time `gorm:"index"`
}

func (DBEmailToken) TableName() string { return "email_tokens" }

// DBEmailOTP is the password reset code row
type DBEmailOTP struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    uint      `gorm:"uniqueIndex:idx_user_purpose_code;not null"`
	User      DBUser    `gorm:"constraint:OnDelete:CASCADE"`
	Purpose   string    `gorm:"uniqueIndex:idx_user_purpose_code;size:20;not null"`
	Code      string    `gorm:"uniqueIndex:idx_user_purpose_code;size:6;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	ExpiresAt time.Time `gorm:"index"`
	Used      bool      `gorm:"index"`
}

func (DBEmailOTP) TableName() string { return "email_otps" }

// EmailTokenRepositoryImpl implements domain.EmailTokenRepository
type EmailTokenRepositoryImpl struct {
	db *gorm.DB
}

// NewEmailTokenRepository creates a new verification token repository
func NewEmailTokenRepository(db *gorm.DB) domain.EmailTokenRepository {
	return &EmailTokenRepositoryImpl{db: db}
}

// Create implements domain.EmailTokenRepository
func (r *EmailTokenRepositoryImpl) Create(ctx context.Context, token *domain.EmailToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	row := &DBEmailToken{
		ID:        token.ID.String(),
		UserID:    token.UserID,
		Token:     token.Token,
		Purpose:   token.Purpose,
		ExpiresAt: token.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Omit("User").Create(row).Error; err != nil {
		return err
	}
	token.CreatedAt = row.CreatedAt
	return nil
}

// FindByToken implements domain.EmailTokenRepository
func (r *EmailTokenRepositoryImpl) FindByToken(ctx context.Context, token string) (*domain.EmailToken, error) {
	var row DBEmailToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}
	id, _ := uuid.Parse(row.ID)
	return &domain.EmailToken{
		ID:        id,
		UserID:    row.UserID,
		Token:     row.Token,
		Purpose:   row.Purpose,
		CreatedAt: row.CreatedAt,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

// Delete implements domain.EmailTokenRepository
func (r *EmailTokenRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&DBEmailToken{}).Error
}

// EmailOTPRepositoryImpl implements domain.EmailOTPRepository
type EmailOTPRepositoryImpl struct {
	db *gorm.DB
}

// NewEmailOTPRepository creates a new reset code repository
func NewEmailOTPRepository(db *gorm.DB) domain.EmailOTPRepository {
	return &EmailOTPRepositoryImpl{db: db}
}

// Create implements domain.EmailOTPRepository. A code that collides with an
// existing (user, purpose, code) row reports domain.ErrTokenExpiredOrUsed so
// the caller can draw a fresh one.
func (r *EmailOTPRepositoryImpl) Create(ctx context.Context, otp *domain.EmailOTP) error {
	if otp.ID == uuid.Nil {
		otp.ID = uuid.New()
	}
	row := &DBEmailOTP{
		ID:        otp.ID.String(),
		UserID:    otp.UserID,
		Purpose:   otp.Purpose,
		Code:      otp.Code,
		ExpiresAt: otp.ExpiresAt,
		Used:      otp.Used,
	}
	if err := r.db.WithContext(ctx).Omit("User").Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTokenExpiredOrUsed
		}
		return err
	}
	otp.CreatedAt = row.CreatedAt
	return nil
}

// FindActive implements domain.EmailOTPRepository
func (r *EmailOTPRepositoryImpl) FindActive(ctx context.Context, userID uint, purpose, code string) (*domain.EmailOTP, error) {
	var row DBEmailOTP
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND purpose = ? AND code = ? AND used = ?", userID, purpose, code, false).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenExpiredOrUsed
		}
		return nil, err
	}
	id, _ := uuid.Parse(row.ID)
	return &domain.EmailOTP{
		ID:        id,
		UserID:    row.UserID,
		Code:      row.Code,
		Purpose:   row.Purpose,
		CreatedAt: row.CreatedAt,
		ExpiresAt: row.ExpiresAt,
		Used:      row.Used,
	}, nil
}

// MarkUsed implements domain.EmailOTPRepository. Only the first caller wins.
func (r *EmailOTPRepositoryImpl) MarkUsed(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&DBEmailOTP{}).
		Where("id = ? AND used = ?", id, false).
		Update("used", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTokenExpiredOrUsed
	}
	return nil
}
