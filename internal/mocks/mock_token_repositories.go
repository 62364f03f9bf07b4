package mocks

import (
	"context"

	"github.com/nexus/jobboard/domain"
)

// MockEmailTokenRepository implements domain.EmailTokenRepository interface for testing
type MockEmailTokenRepository struct {
	CreateFunc      func(ctx context.Context, token *domain.EmailToken) error
	FindByTokenFunc func(ctx context.Context, token string) (*domain.EmailToken, error)
	DeleteFunc      func(ctx context.Context, id string) error
}

// NewMockEmailTokenRepository creates a new MockEmailTokenRepository with default behaviors
func NewMockEmailTokenRepository() *MockEmailTokenRepository {
	return &MockEmailTokenRepository{}
}

// Create stores a verification token
func (m *MockEmailTokenRepository) Create(ctx context.Context, token *domain.EmailToken) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, token)
	}
	return nil
}

// FindByToken looks a verification token up by value
func (m *MockEmailTokenRepository) FindByToken(ctx context.Context, token string) (*domain.EmailToken, error) {
	if m.FindByTokenFunc != nil {
		return m.FindByTokenFunc(ctx, token)
	}
	return nil, domain.ErrTokenNotFound
}

// Delete removes a verification token
func (m *MockEmailTokenRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockEmailOTPRepository implements domain.EmailOTPRepository interface for testing
type MockEmailOTPRepository struct {
	CreateFunc     func(ctx context.Context, otp *domain.EmailOTP) error
	FindActiveFunc func(ctx context.Context, userID uint, purpose, code string) (*domain.EmailOTP, error)
	MarkUsedFunc   func(ctx context.Context, id string) error
}

// NewMockEmailOTPRepository creates a new MockEmailOTPRepository with default behaviors
func NewMockEmailOTPRepository() *MockEmailOTPRepository {
	return &MockEmailOTPRepository{}
}

// Create stores a one-time code
func (m *MockEmailOTPRepository) Create(ctx context.Context, otp *domain.EmailOTP) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, otp)
	}
	return nil
}

// FindActive finds an unused code
func (m *MockEmailOTPRepository) FindActive(ctx context.Context, userID uint, purpose, code string) (*domain.EmailOTP, error) {
	if m.FindActiveFunc != nil {
		return m.FindActiveFunc(ctx, userID, purpose, code)
	}
	return nil, domain.ErrTokenExpiredOrUsed
}

// MarkUsed consumes a code
func (m *MockEmailOTPRepository) MarkUsed(ctx context.Context, id string) error {
	if m.MarkUsedFunc != nil {
		return m.MarkUsedFunc(ctx, id)
	}
	return nil
}

// Compile-time interface compliance verification
var (
	_ domain.EmailTokenRepository = (*MockEmailTokenRepository)(nil)
	_ domain.EmailOTPRepository   = (*MockEmailOTPRepository)(nil)
)
