package mocks

import (
	"regexp"
	"strings"

	"github.com/nexus/jobboard/domain"
)

// MockCasbinEnforcer implements the CasbinEnforcer interface for testing.
// Without overrides it keeps policies in memory and matches them with exact
// subjects, "/*" suffix wildcards and regex actions.
type MockCasbinEnforcer struct {
	AddPolicyFunc    func(params ...interface{}) (bool, error)
	RemovePolicyFunc func(params ...interface{}) (bool, error)
	EnforceFunc      func(rvals ...interface{}) (bool, error)
	GetPolicyFunc    func() ([][]string, error)
	SavePolicyFunc   func() error
	SaveCalls        int
	policies         [][]string
}

// Compile-time interface compliance verification
var _ domain.CasbinEnforcer = (*MockCasbinEnforcer)(nil)

// NewMockCasbinEnforcer creates a new MockCasbinEnforcer with a small default policy set
func NewMockCasbinEnforcer() *MockCasbinEnforcer {
	return &MockCasbinEnforcer{
		policies: [][]string{
			{"role_admin", "/admin/*", "(GET)|(POST)|(DELETE)"},
			{"role_admin", "/categories/", "POST"},
			{"role_user", "/applications/", "POST"},
		},
	}
}

func toStrings(params []interface{}) []string {
	out := make([]string, 0, len(params))
	for _, p := range params {
		if s, ok := p.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func samePolicy(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// AddPolicy adds a new policy rule
func (m *MockCasbinEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(params...)
	}
	rule := toStrings(params)
	if len(rule) < 3 {
		return false, nil
	}
	for _, p := range m.policies {
		if samePolicy(p, rule) {
			return false, nil
		}
	}
	m.policies = append(m.policies, rule)
	return true, nil
}

// RemovePolicy removes a policy rule
func (m *MockCasbinEnforcer) RemovePolicy(params ...interface{}) (bool, error) {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(params...)
	}
	rule := toStrings(params)
	for i, p := range m.policies {
		if samePolicy(p, rule) {
			m.policies = append(m.policies[:i], m.policies[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Enforce checks whether the request is allowed
func (m *MockCasbinEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	if m.EnforceFunc != nil {
		return m.EnforceFunc(rvals...)
	}
	req := toStrings(rvals)
	if len(req) < 3 {
		return false, nil
	}
	for _, p := range m.policies {
		if p[0] != req[0] {
			continue
		}
		if p[1] != req[1] && !(strings.HasSuffix(p[1], "/*") && strings.HasPrefix(req[1], strings.TrimSuffix(p[1], "*"))) {
			continue
		}
		if ok, _ := regexp.MatchString("^("+p[2]+")$", req[2]); ok {
			return true, nil
		}
	}
	return false, nil
}

// GetPolicy returns a copy of all policies
func (m *MockCasbinEnforcer) GetPolicy() ([][]string, error) {
	if m.GetPolicyFunc != nil {
		return m.GetPolicyFunc()
	}
	result := make([][]string, len(m.policies))
	for i, policy := range m.policies {
		result[i] = append([]string(nil), policy...)
	}
	return result, nil
}

// SavePolicy persists policies
func (m *MockCasbinEnforcer) SavePolicy() error {
	m.SaveCalls++
	if m.SavePolicyFunc != nil {
		return m.SavePolicyFunc()
	}
	return nil
}
