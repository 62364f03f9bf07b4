package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRecipient(t *testing.T) {
	tests := []struct {
		name     string
		job      *Job
		expected Recipient
	}{
		{
			name:     "poster email wins",
			job:      &Job{PostedBy: &User{Email: "p@x.com"}, CompanyEmail: "hr@acme.com", CompanyName: "Acme"},
			expected: Recipient{Kind: ValidEmail, Address: "p@x.com"},
		},
		{
			name:     "company email when poster has none",
			job:      &Job{PostedBy: &User{Phone: "+15550001"}, CompanyEmail: "hr@acme.com", CompanyName: "Acme"},
			expected: Recipient{Kind: ValidEmail, Address: "hr@acme.com"},
		},
		{
			name:     "company name falls back",
			job:      &Job{PostedBy: &User{Phone: "+15550001"}, CompanyName: "Acme"},
			expected: Recipient{Kind: FallbackRequired, DisplayName: "Acme"},
		},
		{
			name:     "company name that is an address",
			job:      &Job{CompanyName: "jobs@acme.com"},
			expected: Recipient{Kind: ValidEmail, Address: "jobs@acme.com"},
		},
		{
			name:     "malformed company email is not sent directly",
			job:      &Job{CompanyEmail: "hr at acme", CompanyName: "Acme"},
			expected: Recipient{Kind: FallbackRequired, DisplayName: "hr at acme"},
		},
		{
			name:     "nothing usable",
			job:      &Job{PostedBy: &User{}, CompanyName: "   "},
			expected: Recipient{Kind: NoRecipient},
		},
		{
			name:     "nil job",
			job:      nil,
			expected: Recipient{Kind: NoRecipient},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveRecipient(tt.job))
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("a@b.co"))
	assert.True(t, IsValidEmail(" padded@example.com "))
	assert.False(t, IsValidEmail(""))
	assert.False(t, IsValidEmail("Acme"))
	assert.False(t, IsValidEmail("a@"))
}

func TestApplicantIdentity(t *testing.T) {
	tests := []struct {
		name     string
		user     *User
		expected string
	}{
		{name: "email", user: &User{Email: "a@x.com", Phone: "+1", FirstName: "A"}, expected: "a@x.com"},
		{name: "phone", user: &User{Phone: "+15550002", FirstName: "A"}, expected: "+15550002"},
		{name: "name", user: &User{FirstName: "Ada", LastName: "L"}, expected: "Ada L"},
		{name: "anonymous", user: &User{}, expected: "A user"},
		{name: "nil", user: nil, expected: "A user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ApplicantIdentity(tt.user))
		})
	}
}

func TestApplicantRecipient(t *testing.T) {
	assert.Equal(t, Recipient{Kind: ValidEmail, Address: "a@x.com"}, ApplicantRecipient(&User{Email: "a@x.com"}))
	assert.Equal(t, Recipient{Kind: NoRecipient}, ApplicantRecipient(&User{Phone: "+1"}))
	assert.Equal(t, Recipient{Kind: NoRecipient}, ApplicantRecipient(nil))
	assert.Equal(t, "fallback_required", FallbackRequired.String())
}
