package mocks

import (
	"slices"
	"sync"

	"github.com/nexus/jobboard/domain"
)

// MockPolicyService keeps an in-memory (role, route, method) table.
// Unset func fields fall back to that table, so handler tests can see
// their own writes without a Casbin enforcer.
type MockPolicyService struct {
	AddPolicyFunc       func(role, resource, action string) error
	RemovePolicyFunc    func(role, resource, action string) error
	CheckPermissionFunc func(role, resource, action string) (bool, error)
	GetPoliciesFunc     func() [][]string

	mu    sync.Mutex
	rules [][]string
}

// NewMockPolicyService seeds the table with one user grant and one admin grant
func NewMockPolicyService() *MockPolicyService {
	return &MockPolicyService{
		rules: [][]string{
			{"role_user", "/applications/", "POST"},
			{"role_admin", "/categories/", "POST"},
		},
	}
}

func (m *MockPolicyService) indexOf(role, resource, action string) int {
	return slices.IndexFunc(m.rules, func(r []string) bool {
		return r[0] == role && r[1] == resource && r[2] == action
	})
}

func (m *MockPolicyService) AddPolicy(role, resource, action string) error {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(role, resource, action)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(role, resource, action) < 0 {
		m.rules = append(m.rules, []string{role, resource, action})
	}
	return nil
}

func (m *MockPolicyService) RemovePolicy(role, resource, action string) error {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(role, resource, action)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(role, resource, action); i >= 0 {
		m.rules = slices.Delete(m.rules, i, i+1)
	}
	return nil
}

// CheckPermission matches exactly; no wildcards or role inheritance
func (m *MockPolicyService) CheckPermission(role, resource, action string) (bool, error) {
	if m.CheckPermissionFunc != nil {
		return m.CheckPermissionFunc(role, resource, action)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexOf(role, resource, action) >= 0, nil
}

func (m *MockPolicyService) GetPolicies() [][]string {
	if m.GetPoliciesFunc != nil {
		return m.GetPoliciesFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.rules))
	for i, r := range m.rules {
		out[i] = slices.Clone(r)
	}
	return out
}

var _ domain.PolicyService = (*MockPolicyService)(nil)
