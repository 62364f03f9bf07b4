package domain

import (
	"context"
	"io"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	Update(ctx context.Context, user *User) error
	MarkVerified(ctx context.Context, userID uint) error
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
}

// SessionRepository defines session data access operations
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// EmailTokenRepository stores signup verification tokens
type EmailTokenRepository interface {
	Create(ctx context.Context, token *EmailToken) error
	FindByToken(ctx context.Context, token string) (*EmailToken, error)
	Delete(ctx context.Context, id string) error
}

// EmailOTPRepository stores password reset codes
type EmailOTPRepository interface {
	Create(ctx context.Context, otp *EmailOTP) error
	FindActive(ctx context.Context, userID uint, purpose, code string) (*EmailOTP, error)
	MarkUsed(ctx context.Context, id string) error
}

// CompanyRepository defines company profile data access
type CompanyRepository interface {
	Create(ctx context.Context, company *CompanyProfile) error
	FindByID(ctx context.Context, id uint) (*CompanyProfile, error)
	List(ctx context.Context) ([]CompanyProfile, error)
	Update(ctx context.Context, company *CompanyProfile) error
}

// TaxonomyRepository defines category and tag data access
type TaxonomyRepository interface {
	CreateCategory(ctx context.Context, c *JobCategory) error
	ListCategories(ctx context.Context) ([]JobCategory, error)
	FindCategory(ctx context.Context, id uint) (*JobCategory, error)
	CreateTag(ctx context.Context, t *JobTag) error
	ListTags(ctx context.Context) ([]JobTag, error)
	FindTags(ctx context.Context, ids []uint) ([]JobTag, error)
}

// JobRepository defines job posting data access
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	FindByID(ctx context.Context, id uint) (*Job, error)
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter JobFilter) (*JobPage, error)
}

// ApplicationRepository defines job application data access. Writes that
// produce a notification persist both rows in one transaction.
type ApplicationRepository interface {
	Exists(ctx context.Context, jobID, userID uint) (bool, error)
	CreateWithNotification(ctx context.Context, app *JobApplication, notif *Notification) error
	FindByID(ctx context.Context, id uint) (*JobApplication, error)
	UpdateStatusWithNotification(ctx context.Context, id uint, from, to ApplicationStatus, notif *Notification) error
	ListByUser(ctx context.Context, userID uint) ([]JobApplication, error)
	ListByJob(ctx context.Context, jobID uint) ([]JobApplication, error)
}

// NotificationRepository defines notification data access
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListByRecipient(ctx context.Context, recipientID uint) ([]Notification, error)
	FindForRecipient(ctx context.Context, id, recipientID uint) (*Notification, error)
	MarkRead(ctx context.Context, id uint) error
}

// Cache is the best-effort key/value port behind read-through list caching
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// EmailQueue hands email jobs to an asynchronous worker
type EmailQueue interface {
	Enqueue(ctx context.Context, job EmailJob) error
	Close() error
}

// Mailer delivers a single email
type Mailer interface {
	Send(ctx context.Context, job EmailJob) error
}

// SMSSender delivers text messages
type SMSSender interface {
	SendSMS(to, message string) error
}

// ResumeStore persists uploaded resume documents
type ResumeStore interface {
	Save(ctx context.Context, r io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
}

// AuthService defines authentication business logic
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*Registration, error)
	VerifyEmail(ctx context.Context, token string) (*User, error)
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	ForgotPassword(ctx context.Context, identifier string) (*EmailOTP, error)
	ResetPassword(ctx context.Context, identifier, code, newPassword string) error
	GetUserProfile(ctx context.Context, userID uint) (*User, error)
}

// RegisterInput carries the fields accepted at signup
type RegisterInput struct {
	Email     string
	Phone     string
	Password  string
	FirstName string
	LastName  string
	Location  string
	VerifyURL string
}

// Registration is the outcome of a signup
type Registration struct {
	User  *User
	Token *EmailToken
}

// OTPService defines password reset code operations
type OTPService interface {
	Generate(ctx context.Context, user *User, purpose string) (*EmailOTP, error)
	Verify(ctx context.Context, userID uint, purpose, code string) error
	CanResend(ctx context.Context, userID uint) (bool, int64, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines token operations
type TokenService interface {
	GenerateAccessToken(userID uint, role string, sessionID string) (string, error)
	GenerateRefreshToken(userID uint, role string, sessionID string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
}

// ApplicationService is the application lifecycle engine
type ApplicationService interface {
	Submit(ctx context.Context, input SubmitInput) (*JobApplication, error)
	UpdateStatus(ctx context.Context, applicationID uint, newStatus string, actor *User) (*JobApplication, error)
	Get(ctx context.Context, applicationID uint, actor *User) (*JobApplication, error)
	List(ctx context.Context, user *User) ([]JobApplication, error)
	ListForJob(ctx context.Context, jobID uint, actor *User) ([]JobApplication, error)
}

// SubmitInput carries a new application. Resume is optional.
type SubmitInput struct {
	JobID       uint
	User        *User
	CoverLetter string
	Resume      io.Reader
}

// NotificationService exposes a recipient's in-app notifications
type NotificationService interface {
	ListForRecipient(ctx context.Context, user *User) ([]Notification, error)
	MarkRead(ctx context.Context, notificationID uint, user *User) (*Notification, error)
}

// JobService defines job catalog operations
type JobService interface {
	Create(ctx context.Context, job *Job, tagIDs []uint, actor *User) (*Job, error)
	Get(ctx context.Context, id uint) (*Job, error)
	Update(ctx context.Context, id uint, patch JobPatch, actor *User) (*Job, error)
	Delete(ctx context.Context, id uint, actor *User) error
	List(ctx context.Context, filter JobFilter) (*JobPage, error)
}

// JobPatch holds the fields a partial job update may change
type JobPatch struct {
	Title          *string
	Description    *string
	Requirements   *string
	CompanyName    *string
	CompanyEmail   *string
	Location       *string
	EmploymentType *string
	SalaryMin      *float64
	SalaryMax      *float64
	SalaryCurrency *string
	Status         *string
	CompanyID      *uint
	CategoryID     *uint
	TagIDs         []uint
	Deadline       *time.Time
}

// CompanyService defines company profile operations
type CompanyService interface {
	Create(ctx context.Context, c *CompanyProfile, actor *User) (*CompanyProfile, error)
	Get(ctx context.Context, id uint) (*CompanyProfile, error)
	List(ctx context.Context) ([]CompanyProfile, error)
	Update(ctx context.Context, id uint, patch CompanyProfile, actor *User) (*CompanyProfile, error)
}

// TaxonomyService defines category and tag operations
type TaxonomyService interface {
	ListCategories(ctx context.Context) ([]JobCategory, error)
	CreateCategory(ctx context.Context, c *JobCategory, actor *User) (*JobCategory, error)
	ListTags(ctx context.Context) ([]JobTag, error)
	CreateTag(ctx context.Context, t *JobTag, actor *User) (*JobTag, error)
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
