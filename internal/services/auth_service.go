package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nexus/jobboard/domain"
	"github.com/sirupsen/logrus"
)

// AuthConfig holds token lifetimes and link settings for AuthServiceImpl
type AuthConfig struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	EmailTokenTTL time.Duration
	VerifyBaseURL string
}

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	tokenRepo   domain.EmailTokenRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	otpSvc      domain.OTPService
	dispatcher  *EmailDispatcher
	sms         domain.SMSSender
	audit       domain.AuditLogger
	cfg         AuthConfig
	log         logrus.FieldLogger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	tokenRepo domain.EmailTokenRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	otpSvc domain.OTPService,
	dispatcher *EmailDispatcher,
	sms domain.SMSSender,
	audit domain.AuditLogger,
	cfg AuthConfig,
	log logrus.FieldLogger,
) domain.AuthService {
	if cfg.EmailTokenTTL <= 0 {
		cfg.EmailTokenTTL = 24 * time.Hour
	}
	return &AuthServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokenRepo:   tokenRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		otpSvc:      otpSvc,
		dispatcher:  dispatcher,
		sms:         sms,
		audit:       audit,
		cfg:         cfg,
		log:         log.WithField("component", "auth"),
	}
}

// Register implements domain.AuthService
func (s *AuthServiceImpl) Register(ctx context.Context, in domain.RegisterInput) (*domain.Registration, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	phone := strings.TrimSpace(in.Phone)
	if email == "" && phone == "" {
		return nil, domain.ErrIdentifierRequired
	}
	if email != "" && !domain.IsValidEmail(email) {
		return nil, domain.NewValidationError("enter a valid email address")
	}

	if email != "" {
		if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil && existing != nil {
			return nil, domain.ErrUserAlreadyExists
		}
	}
	if phone != "" {
		if existing, err := s.userRepo.FindByPhone(ctx, phone); err == nil && existing != nil {
			return nil, domain.ErrUserAlreadyExists
		}
	}

	hashedPassword, err := s.passwordSvc.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		Phone:        phone,
		Location:     strings.TrimSpace(in.Location),
		PasswordHash: hashedPassword,
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueSignupToken(ctx, user)
	if err != nil {
		return nil, err
	}

	base := s.cfg.VerifyBaseURL
	if in.VerifyURL != "" {
		base = in.VerifyURL
	}
	link := strings.TrimRight(base, "/") + "/auth/verify?token=" + url.QueryEscape(token.Token)
	message := "Click the link to verify your account: " + link

	if user.Email != "" {
		s.dispatcher.Dispatch(domain.ApplicantRecipient(user), "Verify Your Email", message)
	} else if err := s.sms.SendSMS(user.Phone, message); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("verification sms failed")
	}

	s.logEvent(ctx, domain.NewAuditEvent(domain.UserRegistrationEvent, user.ID).WithEmail(user.Email))
	return &domain.Registration{User: user, Token: token}, nil
}

func (s *AuthServiceImpl) issueSignupToken(ctx context.Context, user *domain.User) (*domain.EmailToken, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}
	now := time.Now()
	token := &domain.EmailToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     base64.RawURLEncoding.EncodeToString(raw),
		Purpose:   domain.PurposeSignup,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.EmailTokenTTL),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to store verification token: %w", err)
	}
	return token, nil
}

// VerifyEmail implements domain.AuthService
func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrTokenNotFound
	}
	t, err := s.tokenRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if t.Purpose != domain.PurposeSignup {
		return nil, domain.ErrTokenNotFound
	}
	if !t.IsValid(time.Now()) {
		return nil, domain.ErrTokenExpiredOrUsed
	}

	if err := s.userRepo.MarkVerified(ctx, t.UserID); err != nil {
		return nil, err
	}
	if err := s.tokenRepo.Delete(ctx, t.ID.String()); err != nil {
		return nil, fmt.Errorf("failed to consume verification token: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, t.UserID)
	if err != nil {
		return nil, err
	}
	s.logEvent(ctx, domain.NewAuditEvent(domain.EmailVerifiedEvent, user.ID).WithEmail(user.Email))
	return user, nil
}

// findByIdentifier resolves an email address or a phone number
func (s *AuthServiceImpl) findByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, domain.ErrIdentifierRequired
	}
	if strings.Contains(identifier, "@") {
		return s.userRepo.FindByEmail(ctx, strings.ToLower(identifier))
	}
	return s.userRepo.FindByPhone(ctx, identifier)
}

// Login implements domain.AuthService
func (s *AuthServiceImpl) Login(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
	user, err := s.findByIdentifier(ctx, identifier)
	if errors.Is(err, domain.ErrIdentifierRequired) {
		return nil, err
	}
	if err != nil || !user.IsActive || !s.passwordSvc.Verify(user.PasswordHash, password) {
		s.logEvent(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, 0).
			WithError(domain.ErrInvalidCredentials).
			WithMetadata("identifier", identifier))
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, domain.ErrEmailNotVerified
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.cfg.RefreshTTL),
		CreatedAt: now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := s.tokenSvc.GenerateAccessToken(user.ID, user.Role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.tokenSvc.GenerateRefreshToken(user.ID, user.Role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	s.logEvent(ctx, domain.NewAuditEvent(domain.UserLoginEvent, user.ID).WithEmail(user.Email))
	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    session.ID,
		ExpiresIn:    int64(s.cfg.AccessTTL.Seconds()),
	}, nil
}

// RefreshToken implements domain.AuthService
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	claims, err := s.tokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	session, err := s.sessionRepo.FindByID(ctx, claims.SessionID)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}
	if session.ExpiresAt.Before(time.Now()) {
		return nil, domain.ErrSessionExpired
	}
	if session.UserID != claims.UserID {
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	accessToken, err := s.tokenSvc.GenerateAccessToken(user.ID, user.Role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    session.ID,
		ExpiresIn:    int64(s.cfg.AccessTTL.Seconds()),
	}, nil
}

// Logout implements domain.AuthService. Deleting the session revokes the refresh token.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return domain.NewValidationError("refresh token required")
	}
	claims, err := s.tokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return domain.ErrTokenInvalid
	}
	if err := s.sessionRepo.Delete(ctx, claims.SessionID); err != nil {
		return err
	}
	s.logEvent(ctx, domain.NewAuditEvent(domain.UserLogoutEvent, claims.UserID))
	return nil
}

// ForgotPassword implements domain.AuthService. Users without an email get the code by SMS.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, identifier string) (*domain.EmailOTP, error) {
	user, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	otp, err := s.otpSvc.Generate(ctx, user, domain.PurposeReset)
	if err != nil {
		return nil, err
	}

	message := "Your password reset code is: " + otp.Code
	if user.Email != "" {
		s.dispatcher.Dispatch(domain.ApplicantRecipient(user), "Password Reset Code", message)
	} else if err := s.sms.SendSMS(user.Phone, message); err != nil {
		return nil, fmt.Errorf("failed to send reset code: %w", err)
	}
	return otp, nil
}

// ResetPassword implements domain.AuthService
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, identifier, code, newPassword string) error {
	user, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		return err
	}

	// hash first so a rejected password does not burn the code
	hash, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.otpSvc.Verify(ctx, user.ID, domain.PurposeReset, strings.TrimSpace(code)); err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.logEvent(ctx, domain.NewAuditEvent(domain.PasswordResetEvent, user.ID).WithEmail(user.Email))
	return nil
}

// GetUserProfile implements domain.AuthService
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *AuthServiceImpl) logEvent(ctx context.Context, event *domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogEvent(ctx, event); err != nil {
		s.log.WithError(err).Warn("audit log failed")
	}
}
