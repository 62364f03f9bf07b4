package domain

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// RecipientKind tags the outcome of recipient resolution.
type RecipientKind int

const (
	NoRecipient RecipientKind = iota
	ValidEmail
	FallbackRequired
)

func (k RecipientKind) String() string {
	switch k {
	case ValidEmail:
		return "valid_email"
	case FallbackRequired:
		return "fallback_required"
	default:
		return "no_recipient"
	}
}

// Recipient is the tagged result of resolving who should receive an email.
// Address is set for ValidEmail, DisplayName for FallbackRequired.
type Recipient struct {
	Kind        RecipientKind
	Address     string
	DisplayName string
}

var emailValidator = validator.New()

// IsValidEmail reports whether s is a syntactically valid email address.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return emailValidator.Var(s, "email") == nil
}

// ResolveRecipient picks the email target for a job: poster email, then the
// declared company email, then the company name as a display string.
func ResolveRecipient(job *Job) Recipient {
	if job == nil {
		return Recipient{Kind: NoRecipient}
	}
	candidates := make([]string, 0, 3)
	if job.PostedBy != nil {
		candidates = append(candidates, job.PostedBy.Email)
	}
	candidates = append(candidates, job.CompanyEmail, job.CompanyName)

	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if IsValidEmail(c) {
			return Recipient{Kind: ValidEmail, Address: c}
		}
		return Recipient{Kind: FallbackRequired, DisplayName: c}
	}
	return Recipient{Kind: NoRecipient}
}

// ApplicantRecipient resolves the applicant's own address for status emails.
func ApplicantRecipient(u *User) Recipient {
	if u != nil && IsValidEmail(u.Email) {
		return Recipient{Kind: ValidEmail, Address: strings.TrimSpace(u.Email)}
	}
	return Recipient{Kind: NoRecipient}
}

// ApplicantIdentity names an applicant in messages: email, phone, full name, or "A user".
func ApplicantIdentity(u *User) string {
	if u == nil {
		return "A user"
	}
	for _, v := range []string{u.Email, u.Phone, u.FullName()} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return "A user"
}
