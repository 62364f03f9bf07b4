package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

// DefaultModel is the RBAC model used when no model file is configured.
// Objects are gin route templates, actions are HTTP methods.
const DefaultModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// RoleSubject maps a user role to its Casbin subject.
func RoleSubject(role string) string {
	return "role_" + role
}

// DefaultPolicies grant the routes each role may reach. Ownership checks
// (poster, applicant, profile owner) happen in the services.
var DefaultPolicies = [][]string{
	{"role_user", "/auth/me", "GET"},
	{"role_user", "/jobs/", "POST"},
	{"role_user", "/jobs/:id/", "(PATCH)|(DELETE)"},
	{"role_user", "/jobs/:id/applications/", "GET"},
	{"role_user", "/companies/", "POST"},
	{"role_user", "/companies/:id/", "PATCH"},
	{"role_user", "/applications/", "POST"},
	{"role_user", "/applications/my/", "GET"},
	{"role_user", "/applications/:id/", "GET"},
	{"role_user", "/applications/:id/status/", "PATCH"},
	{"role_user", "/notifications/", "GET"},
	{"role_user", "/notifications/:id/read/", "PATCH"},
	{"role_admin", "/categories/", "POST"},
	{"role_admin", "/tags/", "POST"},
	{"role_admin", "/admin/*", "(GET)|(POST)|(DELETE)"},
}

// CasbinService owns the enforcer backed by the gorm adapter.
type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService loads policies from db. An empty modelPath uses DefaultModel.
func NewCasbinService(db *gorm.DB, modelPath string) (*CasbinService, error) {
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("casbin adapter: %w", err)
	}

	var e *casbin.Enforcer
	if modelPath == "" {
		m, err := model.NewModelFromString(DefaultModel)
		if err != nil {
			return nil, err
		}
		e, err = casbin.NewEnforcer(m, adp)
		if err != nil {
			return nil, err
		}
	} else {
		e, err = casbin.NewEnforcer(modelPath, adp)
		if err != nil {
			return nil, err
		}
	}

	if err := e.LoadPolicy(); err != nil {
		return nil, err
	}
	return &CasbinService{E: e}, nil
}

// SeedDefaultPolicies adds the default grants and the admin→user inheritance.
// Existing rules are left alone.
func (s *CasbinService) SeedDefaultPolicies() error {
	for _, p := range DefaultPolicies {
		if _, err := s.E.AddPolicy(p[0], p[1], p[2]); err != nil {
			return fmt.Errorf("add policy %v: %w", p, err)
		}
	}
	if _, err := s.E.AddGroupingPolicy(RoleSubject("admin"), RoleSubject("user")); err != nil {
		return fmt.Errorf("add role inheritance: %w", err)
	}
	return nil
}
