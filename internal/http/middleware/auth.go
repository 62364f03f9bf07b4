package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/nexus/jobboard/domain"
)

// AuthMW wraps the token service and the session and user repositories for middleware
type AuthMW struct {
	tokenSvc    domain.TokenService
	sessionRepo domain.SessionRepository
	userRepo    domain.UserRepository
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository, userRepo domain.UserRepository) *AuthMW {
	return &AuthMW{
		tokenSvc:    tokenSvc,
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
	}
}

// WithJWT returns the JWT middleware function
func (mw *AuthMW) WithJWT() gin.HandlerFunc {
	return AuthMiddleware(mw.tokenSvc, mw.sessionRepo, mw.userRepo)
}

// OptionalJWT authenticates requests that carry an Authorization header and
// lets the rest through anonymously. A bad token is still rejected.
func (mw *AuthMW) OptionalJWT() gin.HandlerFunc {
	required := mw.WithJWT()
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		required(c)
	}
}
