package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an account on the job board
type User struct {
	ID           uint
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Location     string
	PasswordHash string
	Role         string
	IsActive     bool
	IsStaff      bool
	IsVerified   bool
	DateJoined   time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name, trimming blanks.
func (u *User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// CompanyProfile is an employer profile owned by a single user
type CompanyProfile struct {
	ID          uint
	UserID      uint
	Name        string
	Description string
	Website     string
	Location    string
	LogoURL     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// JobCategory groups jobs by field
type JobCategory struct {
	ID        uint
	Name      string
	Slug      string
	CreatedAt time.Time
}

// JobTag is a free-form label attached to jobs
type JobTag struct {
	ID        uint
	Name      string
	Slug      string
	CreatedAt time.Time
}

// Employment types
const (
	EmploymentFullTime   = "full-time"
	EmploymentPartTime   = "part-time"
	EmploymentContract   = "contract"
	EmploymentInternship = "internship"
	EmploymentTemporary  = "temporary"
	EmploymentRemote     = "remote"
	EmploymentHybrid     = "hybrid"
)

// EmploymentTypes lists every accepted employment type.
var EmploymentTypes = []string{
	EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentInternship,
	EmploymentTemporary, EmploymentRemote, EmploymentHybrid,
}

// Job statuses
const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
	JobStatusDraft  = "draft"
)

// Job is a posting created by a poster
type Job struct {
	ID             uint
	Title          string
	Description    string
	Requirements   string
	CompanyName    string
	CompanyEmail   string
	Location       string
	EmploymentType string
	SalaryMin      *float64
	SalaryMax      *float64
	SalaryCurrency string
	Status         string
	PostedByID     uint
	PostedBy       *User
	CompanyID      *uint
	Company        *CompanyProfile
	CategoryID     *uint
	Category       *JobCategory
	Tags           []JobTag
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Deadline       *time.Time
}

// SyncCompanyName copies the linked profile name when company_name is blank.
func (j *Job) SyncCompanyName() {
	if j.Company != nil && strings.TrimSpace(j.CompanyName) == "" {
		j.CompanyName = j.Company.Name
	}
}

// ApplyDefaults fills the values a new posting gets when the client omits them.
func (j *Job) ApplyDefaults() {
	if j.EmploymentType == "" {
		j.EmploymentType = EmploymentFullTime
	}
	if j.SalaryCurrency == "" {
		j.SalaryCurrency = "USD"
	}
	if j.Status == "" {
		j.Status = JobStatusOpen
	}
}

// ApplicationStatus is the review state of a job application
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

// ParseApplicationStatus validates a raw status value.
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	switch s := ApplicationStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusPending, StatusAccepted, StatusRejected:
		return s, nil
	}
	return "", ErrInvalidStatus
}

// CanTransitionTo reports whether the engine allows moving from s to next.
// Only pending applications move, and only to a terminal state.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	return s == StatusPending && (next == StatusAccepted || next == StatusRejected)
}

// JobApplication is a user's request to be considered for a job
type JobApplication struct {
	ID          uint
	JobID       uint
	Job         *Job
	UserID      uint
	User        *User
	CoverLetter string
	ResumePath  string
	Status      ApplicationStatus
	AppliedAt   time.Time
}

// Notification is an in-app message for a single recipient
type Notification struct {
	ID          uint
	RecipientID uint
	Message     string
	IsRead      bool
	CreatedAt   time.Time
}

// Token purposes
const (
	PurposeSignup = "signup"
	PurposeReset  = "reset"
)

// EmailToken proves control of an email address at signup
type EmailToken struct {
	ID        uuid.UUID
	UserID    uint
	Token     string
	Purpose   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsValid reports whether the token has not expired at now.
func (t *EmailToken) IsValid(now time.Time) bool {
	return !now.After(t.ExpiresAt)
}

// EmailOTP is a one-time numeric code authorizing a password reset
type EmailOTP struct {
	ID        uuid.UUID
	UserID    uint
	Code      string
	Purpose   string
	CreatedAt time.Time
	ExpiresAt time.Time
	Used      bool
}

// IsValid reports whether the code is unused and not expired at now.
func (o *EmailOTP) IsValid(now time.Time) bool {
	return !o.Used && !now.After(o.ExpiresAt)
}

// EmailJob is the payload handed to the asynchronous mail queue
type EmailJob struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// AuthResult represents authentication outcome
type AuthResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
	SessionID    string
	ExpiresIn    int64
}

// Session represents a user session
type Session struct {
	ID        string
	UserID    uint
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Role      string `json:"role"`
	SessionID string `json:"session_id,omitempty"`
	TokenType string `json:"typ"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// JobFilter narrows and orders the job listing.
type JobFilter struct {
	EmploymentType string
	Location       string
	CategoryID     *uint
	TagID          *uint
	SalaryMinGTE   *float64
	SalaryMinLTE   *float64
	SalaryMaxGTE   *float64
	SalaryMaxLTE   *float64
	CreatedAfter   *time.Time
	CreatedBefore  *time.Time
	HasDeadline    *bool
	Search         string
	Ordering       string
	Page           int
	PageSize       int
}

// Pagination bounds
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize clamps paging and ordering to accepted values.
func (f *JobFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	switch f.Ordering {
	case "created_at", "-created_at", "salary_min", "-salary_min":
	default:
		f.Ordering = "-created_at"
	}
}

// JobPage is one page of the job listing
type JobPage struct {
	Items    []Job
	Total    int64
	Page     int
	PageSize int
}
