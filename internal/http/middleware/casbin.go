package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexus/jobboard/domain"
	"github.com/nexus/jobboard/internal/infrastructure/auth"
	"github.com/sirupsen/logrus"
)

// CasbinMW enforces route-level role policies. Objects are gin route
// templates, so one policy covers every id of a resource.
type CasbinMW struct {
	policy domain.PolicyService
	log    logrus.FieldLogger
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(policy domain.PolicyService, log logrus.FieldLogger) *CasbinMW {
	return &CasbinMW{policy: policy, log: log.WithField("component", "casbin")}
}

// Enforce returns the casbin authorization middleware. It must run after AuthMiddleware.
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			unauthorized(c, "Authentication credentials were not provided.")
			return
		}

		role := user.Role
		if domain.IsAdmin(user) {
			role = domain.RoleAdmin
		}
		subject := auth.RoleSubject(role)
		object := c.FullPath()

		allowed, err := mw.policy.CheckPermission(subject, object, c.Request.Method)
		if err != nil {
			mw.log.WithError(err).WithFields(logrus.Fields{
				"subject": subject,
				"object":  object,
			}).Error("authorization check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Authorization check failed"})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": domain.ErrForbidden.Error()})
			return
		}
		c.Next()
	}
}
