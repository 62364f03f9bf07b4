package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nexus/jobboard/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	GenerateFunc  func(ctx context.Context, user *domain.User, purpose string) (*domain.EmailOTP, error)
	VerifyFunc    func(ctx context.Context, userID uint, purpose, code string) error
	CanResendFunc func(ctx context.Context, userID uint) (bool, int64, error)
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

// Generate issues a new code for the user
func (m *MockOTPService) Generate(ctx context.Context, user *domain.User, purpose string) (*domain.EmailOTP, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, user, purpose)
	}
	// Default behavior: fixed code "123456"
	now := time.Now()
	return &domain.EmailOTP{
		ID:        uuid.New(),
		UserID:    user.ID,
		Code:      "123456",
		Purpose:   purpose,
		CreatedAt: now,
		ExpiresAt: now.Add(10 * time.Minute),
	}, nil
}

// Verify checks and consumes a code
func (m *MockOTPService) Verify(ctx context.Context, userID uint, purpose, code string) error {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, userID, purpose, code)
	}
	if code != "123456" {
		return domain.ErrTokenExpiredOrUsed
	}
	return nil
}

// CanResend reports whether a new code may be issued
func (m *MockOTPService) CanResend(ctx context.Context, userID uint) (bool, int64, error) {
	if m.CanResendFunc != nil {
		return m.CanResendFunc(ctx, userID)
	}
	return true, 0, nil
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)
