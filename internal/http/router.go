package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexus/jobboard/internal/http/handlers"
	"github.com/nexus/jobboard/internal/http/middleware"
	"github.com/sirupsen/logrus"
)

// Handlers groups the HTTP handlers mounted by BuildRouter
type Handlers struct {
	Auth          *handlers.AuthHandlers
	Jobs          *handlers.JobHandlers
	Companies     *handlers.CompanyHandlers
	Taxonomy      *handlers.TaxonomyHandlers
	Applications  *handlers.ApplicationHandlers
	Notifications *handlers.NotificationHandlers
	Policies      *handlers.PolicyHandlers
}

// BuildRouter mounts every route. A nil limiter disables throttling.
func BuildRouter(h Handlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW, rl *middleware.RateLimiter, log logrus.FieldLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	throttle := func(c *gin.Context) { c.Next() }
	if rl != nil {
		throttle = rl.Handler()
	}

	// public; a bearer token is optional and keys throttling by user
	pub := r.Group("/", jwtmw.OptionalJWT(), throttle)
	pub.POST("/auth/register", h.Auth.Register)
	pub.GET("/auth/verify", h.Auth.Verify)
	pub.POST("/auth/login", h.Auth.Login)
	pub.POST("/auth/refresh", h.Auth.Refresh)
	pub.POST("/auth/logout", h.Auth.Logout)
	pub.POST("/auth/forgot-password", h.Auth.ForgotPassword)
	pub.POST("/auth/reset-password", h.Auth.ResetPassword)
	pub.GET("/jobs/", h.Jobs.List)
	pub.GET("/jobs/:id/", h.Jobs.Get)
	pub.GET("/companies/", h.Companies.List)
	pub.GET("/companies/:id/", h.Companies.Get)
	pub.GET("/categories/", h.Taxonomy.ListCategories)
	pub.GET("/tags/", h.Taxonomy.ListTags)

	// authenticated, role policy enforced per route template
	v := r.Group("/", jwtmw.WithJWT(), throttle, cb.Enforce())
	v.GET("/auth/me", h.Auth.Me)
	v.POST("/jobs/", h.Jobs.Create)
	v.PATCH("/jobs/:id/", h.Jobs.Update)
	v.DELETE("/jobs/:id/", h.Jobs.Delete)
	v.GET("/jobs/:id/applications/", h.Jobs.Applications)
	v.POST("/companies/", h.Companies.Create)
	v.PATCH("/companies/:id/", h.Companies.Update)
	v.POST("/categories/", h.Taxonomy.CreateCategory)
	v.POST("/tags/", h.Taxonomy.CreateTag)
	v.POST("/applications/", h.Applications.Apply)
	v.GET("/applications/my/", h.Applications.My)
	v.GET("/applications/:id/", h.Applications.Get)
	v.PATCH("/applications/:id/status/", h.Applications.UpdateStatus)
	v.GET("/notifications/", h.Notifications.List)
	v.PATCH("/notifications/:id/read/", h.Notifications.MarkRead)

	adm := r.Group("/admin", jwtmw.WithJWT(), throttle, cb.Enforce())
	adm.GET("/policies", h.Policies.List)
	adm.POST("/policies", h.Policies.Add)
	adm.DELETE("/policies", h.Policies.Remove)

	return r
}
