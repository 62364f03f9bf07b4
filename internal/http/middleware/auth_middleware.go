package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nexus/jobboard/domain"
)

// Context keys set by AuthMiddleware
const (
	ContextUserID    = "user_id"
	ContextUserRole  = "user_role"
	ContextSessionID = "session_id"
	ContextUser      = "user"
)

// CurrentUser returns the authenticated user, or nil on public routes.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

func unauthorized(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}

// AuthMiddleware creates authentication middleware
func AuthMiddleware(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository, userRepo domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authentication credentials were not provided.")
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			unauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := tokenSvc.ValidateAccessToken(tokenParts[1])
		if err != nil {
			if errors.Is(err, domain.ErrTokenExpired) {
				unauthorized(c, "Token expired")
			} else {
				unauthorized(c, "Invalid token")
			}
			return
		}

		// a deleted session revokes its access tokens too
		if claims.SessionID != "" {
			session, err := sessionRepo.FindByID(c.Request.Context(), claims.SessionID)
			if err != nil || session == nil {
				unauthorized(c, "Session invalid or expired")
				return
			}
			if session.UserID != claims.UserID {
				unauthorized(c, "Session user mismatch")
				return
			}
		}

		user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil || !user.IsActive {
			unauthorized(c, "User not found or inactive")
			return
		}

		c.Set(ContextUserID, strconv.FormatUint(uint64(user.ID), 10))
		c.Set(ContextUserRole, user.Role)
		c.Set(ContextUser, user)
		if claims.SessionID != "" {
			c.Set(ContextSessionID, claims.SessionID)
		}
		c.Next()
	}
}
