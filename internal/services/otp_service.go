package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/nexus/jobboard/domain"
	"github.com/redis/go-redis/v9"
)

const maxCodeDraws = 5

// OTPServiceImpl implements domain.OTPService. Codes live in the database;
// Redis carries the resend throttle and the attempt counter.
type OTPServiceImpl struct {
	repo        domain.EmailOTPRepository
	redisClient *redis.Client
	config      OTPConfig
}

type OTPConfig struct {
	Length       int
	TTL          time.Duration
	MaxAttempts  int
	ResendWindow time.Duration
}

// NewOTPService creates a new OTP service. A nil redis client disables
// throttling and attempt counting.
func NewOTPService(repo domain.EmailOTPRepository, redisClient *redis.Client, config OTPConfig) domain.OTPService {
	if config.Length <= 0 {
		config.Length = 6
	}
	if config.TTL <= 0 {
		config.TTL = 10 * time.Minute
	}
	return &OTPServiceImpl{
		repo:        repo,
		redisClient: redisClient,
		config:      config,
	}
}

func resendKey(userID uint) string   { return fmt.Sprintf("otp:res:%d", userID) }
func attemptsKey(userID uint) string { return fmt.Sprintf("otp:att:%d", userID) }

// Generate implements domain.OTPService
func (s *OTPServiceImpl) Generate(ctx context.Context, user *domain.User, purpose string) (*domain.EmailOTP, error) {
	if canResend, wait, err := s.CanResend(ctx, user.ID); err != nil {
		return nil, err
	} else if !canResend {
		return nil, fmt.Errorf("%w: wait %d seconds", domain.ErrOTPResendLimit, wait)
	}

	for i := 0; i < maxCodeDraws; i++ {
		code, err := s.generateSecureCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate OTP code: %w", err)
		}

		now := time.Now()
		otp := &domain.EmailOTP{
			ID:        uuid.New(),
			UserID:    user.ID,
			Code:      code,
			Purpose:   purpose,
			CreatedAt: now,
			ExpiresAt: now.Add(s.config.TTL),
		}
		err = s.repo.Create(ctx, otp)
		if errors.Is(err, domain.ErrTokenExpiredOrUsed) {
			// (user, purpose, code) already taken, draw again
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to store OTP: %w", err)
		}

		if s.redisClient != nil {
			pipe := s.redisClient.TxPipeline()
			pipe.Del(ctx, attemptsKey(user.ID))
			if s.config.ResendWindow > 0 {
				pipe.Set(ctx, resendKey(user.ID), 1, s.config.ResendWindow)
			}
			if _, err := pipe.Exec(ctx); err != nil {
				return nil, fmt.Errorf("failed to set resend throttle: %w", err)
			}
		}
		return otp, nil
	}
	return nil, errors.New("failed to allocate a unique OTP code")
}

// Verify implements domain.OTPService. A matching code is consumed.
func (s *OTPServiceImpl) Verify(ctx context.Context, userID uint, purpose, code string) error {
	if s.redisClient != nil && s.config.MaxAttempts > 0 {
		key := attemptsKey(userID)
		attempts, err := s.redisClient.Incr(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("failed to increment attempts: %w", err)
		}
		if attempts == 1 {
			s.redisClient.Expire(ctx, key, s.config.TTL)
		}
		if attempts > int64(s.config.MaxAttempts) {
			return domain.ErrTokenExpiredOrUsed
		}
	}

	otp, err := s.repo.FindActive(ctx, userID, purpose, code)
	if err != nil {
		return err
	}
	if !otp.IsValid(time.Now()) {
		return domain.ErrTokenExpiredOrUsed
	}
	if err := s.repo.MarkUsed(ctx, otp.ID.String()); err != nil {
		return err
	}

	if s.redisClient != nil {
		s.redisClient.Del(ctx, attemptsKey(userID))
	}
	return nil
}

// CanResend implements domain.OTPService with Redis-based throttling
func (s *OTPServiceImpl) CanResend(ctx context.Context, userID uint) (bool, int64, error) {
	if s.redisClient == nil {
		return true, 0, nil
	}

	ttl, err := s.redisClient.TTL(ctx, resendKey(userID)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to check resend TTL: %w", err)
	}

	// If TTL <= 0, key doesn't exist or has expired - can resend
	if ttl <= 0 {
		return true, 0, nil
	}
	return false, int64(ttl.Seconds()), nil
}

// generateSecureCode generates a cryptographically secure numeric code
func (s *OTPServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.Length)
	for i := range digits {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}
	return string(digits), nil
}
