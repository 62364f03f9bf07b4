package domain

import (
	"testing"
	"time"
)

func TestUser_FullName(t *testing.T) {
	tests := []struct {
		name     string
		user     *User
		expected string
	}{
		{name: "first and last", user: &User{FirstName: "Ada", LastName: "Lovelace"}, expected: "Ada Lovelace"},
		{name: "first only", user: &User{FirstName: "Ada"}, expected: "Ada"},
		{name: "last only with padding", user: &User{LastName: "  Lovelace "}, expected: "Lovelace"},
		{name: "empty", user: &User{}, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.FullName(); got != tt.expected {
				t.Errorf("FullName() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestJob_SyncCompanyName(t *testing.T) {
	t.Run("copies profile name when blank", func(t *testing.T) {
		job := &Job{Company: &CompanyProfile{Name: "Acme"}}
		job.SyncCompanyName()
		if job.CompanyName != "Acme" {
			t.Errorf("CompanyName = %q, want Acme", job.CompanyName)
		}
	})

	t.Run("keeps explicit name", func(t *testing.T) {
		job := &Job{CompanyName: "Initech", Company: &CompanyProfile{Name: "Acme"}}
		job.SyncCompanyName()
		if job.CompanyName != "Initech" {
			t.Errorf("CompanyName = %q, want Initech", job.CompanyName)
		}
	})

	t.Run("no profile leaves blank", func(t *testing.T) {
		job := &Job{}
		job.SyncCompanyName()
		if job.CompanyName != "" {
			t.Errorf("CompanyName = %q, want empty", job.CompanyName)
		}
	})
}

func TestJob_ApplyDefaults(t *testing.T) {
	job := &Job{}
	job.ApplyDefaults()

	if job.EmploymentType != EmploymentFullTime {
		t.Errorf("EmploymentType = %q", job.EmploymentType)
	}
	if job.SalaryCurrency != "USD" {
		t.Errorf("SalaryCurrency = %q", job.SalaryCurrency)
	}
	if job.Status != JobStatusOpen {
		t.Errorf("Status = %q", job.Status)
	}

	kept := &Job{EmploymentType: EmploymentRemote, SalaryCurrency: "EUR", Status: JobStatusDraft}
	kept.ApplyDefaults()
	if kept.EmploymentType != EmploymentRemote || kept.SalaryCurrency != "EUR" || kept.Status != JobStatusDraft {
		t.Errorf("explicit values overwritten: %+v", kept)
	}
}

func TestParseApplicationStatus(t *testing.T) {
	tests := []struct {
		raw       string
		expected  ApplicationStatus
		expectErr bool
	}{
		{raw: "pending", expected: StatusPending},
		{raw: "accepted", expected: StatusAccepted},
		{raw: " Rejected ", expected: StatusRejected},
		{raw: "hired", expectErr: true},
		{raw: "", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseApplicationStatus(tt.raw)
			if tt.expectErr {
				if err != ErrInvalidStatus {
					t.Fatalf("expected ErrInvalidStatus, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestApplicationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to ApplicationStatus
		allowed  bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusPending, false},
		{StatusAccepted, StatusPending, false},
		{StatusAccepted, StatusRejected, false},
		{StatusRejected, StatusPending, false},
		{StatusRejected, StatusAccepted, false},
		{StatusAccepted, StatusAccepted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
				t.Errorf("CanTransitionTo = %v, want %v", got, tt.allowed)
			}
		})
	}
}

func TestEmailToken_IsValid(t *testing.T) {
	now := time.Now()
	token := &EmailToken{ExpiresAt: now.Add(time.Hour)}
	if !token.IsValid(now) {
		t.Error("unexpired token should be valid")
	}
	if token.IsValid(now.Add(2 * time.Hour)) {
		t.Error("expired token should be invalid")
	}
}

func TestEmailOTP_IsValid(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		otp   *EmailOTP
		valid bool
	}{
		{name: "fresh", otp: &EmailOTP{ExpiresAt: now.Add(10 * time.Minute)}, valid: true},
		{name: "used", otp: &EmailOTP{ExpiresAt: now.Add(10 * time.Minute), Used: true}, valid: false},
		{name: "expired", otp: &EmailOTP{ExpiresAt: now.Add(-time.Second)}, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.otp.IsValid(now); got != tt.valid {
				t.Errorf("IsValid = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestJobFilter_Normalize(t *testing.T) {
	f := JobFilter{Page: 0, PageSize: 500, Ordering: "title"}
	f.Normalize()
	if f.Page != 1 || f.PageSize != MaxPageSize || f.Ordering != "-created_at" {
		t.Errorf("unexpected normalized filter: %+v", f)
	}

	f = JobFilter{Page: 3, Ordering: "salary_min"}
	f.Normalize()
	if f.Page != 3 || f.PageSize != DefaultPageSize || f.Ordering != "salary_min" {
		t.Errorf("unexpected normalized filter: %+v", f)
	}
}
