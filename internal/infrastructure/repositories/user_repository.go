package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nexus/jobboard/domain"
	"gorm.io/gorm"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags).
// Email and Phone are nullable so that unique indexes admit many blanks.
type DBUser struct {
	ID           uint      `gorm:"primaryKey"`
	FirstName    string    `gorm:"size:150"`
	LastName     string    `gorm:"size:150"`
	Email        *string   `gorm:"uniqueIndex;size:255"`
	Phone        *string   `gorm:"uniqueIndex;size:32"`
	Location     string    `gorm:"size:255"`
	PasswordHash string    `gorm:"column:password;size:255"`
	Role         string    `gorm:"index;size:16"`
	IsActive     bool      `gorm:"index"`
	IsStaff      bool      `gorm:"index"`
	IsVerified   bool      `gorm:"index"`
	DateJoined   time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := userToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	user.ID = dbUser.ID
	user.DateJoined = dbUser.DateJoined
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", strings.TrimSpace(email))
}

// FindByPhone implements domain.UserRepository
func (r *UserRepositoryImpl) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, "phone = ?", strings.TrimSpace(phone))
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where(query, arg).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return userToDomain(&dbUser), nil
}

// Update implements domain.UserRepository
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Save(userToDB(user)).Error
	if isUniqueViolation(err) {
		return domain.ErrUserAlreadyExists
	}
	return err
}

// MarkVerified implements domain.UserRepository
func (r *UserRepositoryImpl) MarkVerified(ctx context.Context, userID uint) error {
	return r.updateColumn(ctx, userID, "is_verified", true)
}

// UpdatePassword implements domain.UserRepository
func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	return r.updateColumn(ctx, userID, "password", passwordHash)
}

func (r *UserRepositoryImpl) updateColumn(ctx context.Context, userID uint, column string, value interface{}) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", userID).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func userToDB(user *domain.User) *DBUser {
	role := user.Role
	if role == "" {
		role = domain.RoleUser
	}
	return &DBUser{
		ID:           user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        nullable(user.Email),
		Phone:        nullable(user.Phone),
		Location:     user.Location,
		PasswordHash: user.PasswordHash,
		Role:         role,
		IsActive:     user.IsActive,
		IsStaff:      user.IsStaff,
		IsVerified:   user.IsVerified,
		DateJoined:   user.DateJoined,
		UpdatedAt:    user.UpdatedAt,
	}
}

func userToDomain(dbUser *DBUser) *domain.User {
	if dbUser == nil {
		return nil
	}
	return &domain.User{
		ID:           dbUser.ID,
		FirstName:    dbUser.FirstName,
		LastName:     dbUser.LastName,
		Email:        deref(dbUser.Email),
		Phone:        deref(dbUser.Phone),
		Location:     dbUser.Location,
		PasswordHash: dbUser.PasswordHash,
		Role:         dbUser.Role,
		IsActive:     dbUser.IsActive,
		IsStaff:      dbUser.IsStaff,
		IsVerified:   dbUser.IsVerified,
		DateJoined:   dbUser.DateJoined,
		UpdatedAt:    dbUser.UpdatedAt,
	}
}
