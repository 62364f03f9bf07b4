package mocks

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nexus/jobboard/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, input domain.RegisterInput) (*domain.Registration, error)
	VerifyEmailFunc    func(ctx context.Context, token string) (*domain.User, error)
	LoginFunc          func(ctx context.Context, identifier, password string) (*domain.AuthResult, error)
	RefreshTokenFunc   func(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	LogoutFunc         func(ctx context.Context, refreshToken string) error
	ForgotPasswordFunc func(ctx context.Context, identifier string) (*domain.EmailOTP, error)
	ResetPasswordFunc  func(ctx context.Context, identifier, code, newPassword string) error
	GetUserProfileFunc func(ctx context.Context, userID uint) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Register registers a new, unverified user
func (m *MockAuthService) Register(ctx context.Context, input domain.RegisterInput) (*domain.Registration, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, input)
	}
	now := time.Now()
	user := &domain.User{
		ID:         1,
		Email:      strings.ToLower(input.Email),
		Phone:      input.Phone,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Role:       domain.RoleUser,
		IsActive:   true,
		DateJoined: now,
	}
	return &domain.Registration{
		User: user,
		Token: &domain.EmailToken{
			ID:        uuid.New(),
			UserID:    user.ID,
			Token:     "mock_verification_token",
			Purpose:   domain.PurposeSignup,
			CreatedAt: now,
			ExpiresAt: now.Add(24 * time.Hour),
		},
	}, nil
}

// VerifyEmail consumes a verification token
func (m *MockAuthService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(ctx, token)
	}
	if token != "mock_verification_token" {
		return nil, domain.ErrTokenNotFound
	}
	return &domain.User{ID: 1, Email: "user@example.com", Role: domain.RoleUser, IsActive: true, IsVerified: true}, nil
}

// Login authenticates a user and returns auth result
func (m *MockAuthService) Login(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, identifier, password)
	}
	return &domain.AuthResult{
		User: &domain.User{
			ID:         1,
			Email:      identifier,
			Role:       domain.RoleUser,
			IsActive:   true,
			IsVerified: true,
		},
		AccessToken:  "mock_access_token",
		RefreshToken: "mock_refresh_token",
		SessionID:    "mock_session_id",
		ExpiresIn:    900,
	}, nil
}

// RefreshToken issues a new access token
func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	return &domain.AuthResult{
		User:         &domain.User{ID: 1, Email: "user@example.com", Role: domain.RoleUser, IsActive: true, IsVerified: true},
		AccessToken:  "new_mock_access_token",
		RefreshToken: refreshToken,
		SessionID:    "mock_session_id",
		ExpiresIn:    900,
	}, nil
}

// Logout revokes the session behind a refresh token
func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, refreshToken)
	}
	if strings.TrimSpace(refreshToken) == "" {
		return domain.NewValidationError("refresh token required")
	}
	return nil
}

// ForgotPassword issues a reset code
func (m *MockAuthService) ForgotPassword(ctx context.Context, identifier string) (*domain.EmailOTP, error) {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, identifier)
	}
	now := time.Now()
	return &domain.EmailOTP{
		ID:        uuid.New(),
		UserID:    1,
		Code:      "123456",
		Purpose:   domain.PurposeReset,
		CreatedAt: now,
		ExpiresAt: now.Add(10 * time.Minute),
	}, nil
}

// ResetPassword sets a new password when the code matches
func (m *MockAuthService) ResetPassword(ctx context.Context, identifier, code, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, identifier, code, newPassword)
	}
	if code != "123456" {
		return domain.ErrTokenExpiredOrUsed
	}
	return nil
}

// GetUserProfile retrieves user profile by ID
func (m *MockAuthService) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return &domain.User{
		ID:         userID,
		Email:      "user@example.com",
		FirstName:  "Test",
		LastName:   "User",
		Role:       domain.RoleUser,
		IsActive:   true,
		IsVerified: true,
		DateJoined: time.Now(),
	}, nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
