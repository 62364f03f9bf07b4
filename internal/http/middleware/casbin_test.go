package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
	"github.com/nexus/jobboard/domain"
	"github.com/nexus/jobboard/internal/infrastructure/auth"
	"github.com/nexus/jobboard/internal/mocks"
	"github.com/nexus/jobboard/internal/services"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultPolicyService(t *testing.T) domain.PolicyService {
	t.Helper()
	m, err := model.NewModelFromString(auth.DefaultModel)
	require.NoError(t, err)
	e, err := casbin.NewEnforcer(m)
	require.NoError(t, err)
	for _, p := range auth.DefaultPolicies {
		_, err := e.AddPolicy(p[0], p[1], p[2])
		require.NoError(t, err)
	}
	_, err = e.AddGroupingPolicy(auth.RoleSubject(domain.RoleAdmin), auth.RoleSubject(domain.RoleUser))
	require.NoError(t, err)
	return services.NewPolicyService(e)
}

func casbinRouter(policy domain.PolicyService, user *domain.User) *gin.Engine {
	log, _ := test.NewNullLogger()
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(ContextUser, user)
		}
		c.Next()
	})
	mw := NewCasbinMW(policy, log)
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.POST("/categories/", mw.Enforce(), ok)
	r.PATCH("/applications/:id/status/", mw.Enforce(), ok)
	r.GET("/admin/policies", mw.Enforce(), ok)
	return r
}

func TestCasbinMW_Enforce(t *testing.T) {
	policy := defaultPolicyService(t)
	staff := &domain.User{ID: 3, Role: domain.RoleUser, IsStaff: true, IsActive: true}
	admin := &domain.User{ID: 4, Role: domain.RoleAdmin, IsActive: true}

	tests := []struct {
		name   string
		user   *domain.User
		method string
		path   string
		want   int
	}{
		{"user updates status on any id", activeUser(1), http.MethodPatch, "/applications/17/status/", http.StatusOK},
		{"user cannot create categories", activeUser(1), http.MethodPost, "/categories/", http.StatusForbidden},
		{"admin creates categories", admin, http.MethodPost, "/categories/", http.StatusOK},
		{"staff counts as admin", staff, http.MethodGet, "/admin/policies", http.StatusOK},
		{"admin inherits user routes", admin, http.MethodPatch, "/applications/1/status/", http.StatusOK},
		{"user cannot manage policies", activeUser(1), http.MethodGet, "/admin/policies", http.StatusForbidden},
		{"anonymous", nil, http.MethodPost, "/categories/", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(casbinRouter(policy, tt.user), tt.method, tt.path, "")
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestCasbinMW_ChecksRouteTemplate(t *testing.T) {
	policy := mocks.NewMockPolicyService()
	var gotSub, gotObj, gotAct string
	policy.CheckPermissionFunc = func(role, resource, action string) (bool, error) {
		gotSub, gotObj, gotAct = role, resource, action
		return true, nil
	}

	w := serve(casbinRouter(policy, activeUser(1)), http.MethodPatch, "/applications/99/status/", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "role_user", gotSub)
	assert.Equal(t, "/applications/:id/status/", gotObj)
	assert.Equal(t, http.MethodPatch, gotAct)
}

func TestCasbinMW_EnforcerError(t *testing.T) {
	policy := mocks.NewMockPolicyService()
	policy.CheckPermissionFunc = func(string, string, string) (bool, error) { return false, errors.New("adapter offline") }
	log, hook := test.NewNullLogger()

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(ContextUser, activeUser(1)); c.Next() })
	r.POST("/categories/", NewCasbinMW(policy, log).Enforce(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodPost, "/categories/", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "authorization check failed", hook.LastEntry().Message)
	assert.Equal(t, "casbin", hook.LastEntry().Data["component"])
}

func TestCasbinMW_GrantTakesEffect(t *testing.T) {
	policy := mocks.NewMockPolicyService()
	admin := &domain.User{ID: 4, Role: domain.RoleAdmin, IsActive: true}

	w := serve(casbinRouter(policy, admin), http.MethodPost, "/categories/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = serve(casbinRouter(policy, activeUser(1)), http.MethodPost, "/categories/", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, policy.AddPolicy("role_user", "/categories/", http.MethodPost))
	w = serve(casbinRouter(policy, activeUser(1)), http.MethodPost, "/categories/", "")
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, policy.RemovePolicy("role_user", "/categories/", http.MethodPost))
	w = serve(casbinRouter(policy, activeUser(1)), http.MethodPost, "/categories/", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
