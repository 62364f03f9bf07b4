package handlers

import (
	"time"

	"github.com/nexus/jobboard/domain"
)

// UserResponse is the public view of an account
type UserResponse struct {
	ID         uint      `json:"id"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Location   string    `json:"location,omitempty"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	DateJoined time.Time `json:"date_joined"`
}

func newUserResponse(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Phone:      u.Phone,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Location:   u.Location,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		DateJoined: u.DateJoined,
	}
}

// CompanyResponse is a company profile
type CompanyResponse struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Website     string    `json:"website"`
	Location    string    `json:"location"`
	LogoURL     string    `json:"logo,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newCompanyResponse(c *domain.CompanyProfile) *CompanyResponse {
	if c == nil {
		return nil
	}
	return &CompanyResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		Name:        c.Name,
		Description: c.Description,
		Website:     c.Website,
		Location:    c.Location,
		LogoURL:     c.LogoURL,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// TermResponse is a category or a tag
type TermResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func newCategoryResponse(c *domain.JobCategory) *TermResponse {
	if c == nil {
		return nil
	}
	return &TermResponse{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

func newTagResponses(tags []domain.JobTag) []TermResponse {
	out := make([]TermResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, TermResponse{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}
	return out
}

// JobResponse is a job posting with its relations
type JobResponse struct {
	ID             uint             `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Requirements   string           `json:"requirements"`
	CompanyName    string           `json:"company_name"`
	CompanyEmail   string           `json:"company_email,omitempty"`
	Location       string           `json:"location"`
	EmploymentType string           `json:"employment_type"`
	SalaryMin      *float64         `json:"salary_min"`
	SalaryMax      *float64         `json:"salary_max"`
	SalaryCurrency string           `json:"salary_currency"`
	Status         string           `json:"status"`
	PostedBy       *UserResponse    `json:"posted_by,omitempty"`
	Company        *CompanyResponse `json:"company,omitempty"`
	Category       *TermResponse    `json:"category,omitempty"`
	Tags           []TermResponse   `json:"tags"`
	Deadline       *time.Time       `json:"deadline"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func newJobResponse(j *domain.Job) *JobResponse {
	if j == nil {
		return nil
	}
	return &JobResponse{
		ID:             j.ID,
		Title:          j.Title,
		Description:    j.Description,
		Requirements:   j.Requirements,
		CompanyName:    j.CompanyName,
		CompanyEmail:   j.CompanyEmail,
		Location:       j.Location,
		EmploymentType: j.EmploymentType,
		SalaryMin:      j.SalaryMin,
		SalaryMax:      j.SalaryMax,
		SalaryCurrency: j.SalaryCurrency,
		Status:         j.Status,
		PostedBy:       newUserResponse(j.PostedBy),
		Company:        newCompanyResponse(j.Company),
		Category:       newCategoryResponse(j.Category),
		Tags:           newTagResponses(j.Tags),
		Deadline:       j.Deadline,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
	}
}

// JobPageResponse is one page of the job listing
type JobPageResponse struct {
	Count    int64         `json:"count"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Results  []JobResponse `json:"results"`
}

func newJobPageResponse(p *domain.JobPage) JobPageResponse {
	out := JobPageResponse{
		Count:    p.Total,
		Page:     p.Page,
		PageSize: p.PageSize,
		Results:  make([]JobResponse, 0, len(p.Items)),
	}
	for i := range p.Items {
		out.Results = append(out.Results, *newJobResponse(&p.Items[i]))
	}
	return out
}

// ApplicationResponse is a job application
type ApplicationResponse struct {
	ID          uint          `json:"id"`
	JobID       uint          `json:"job"`
	JobTitle    string        `json:"job_title,omitempty"`
	UserID      uint          `json:"user"`
	Applicant   *UserResponse `json:"applicant,omitempty"`
	CoverLetter string        `json:"cover_letter"`
	Resume      string        `json:"resume,omitempty"`
	Status      string        `json:"status"`
	AppliedAt   time.Time     `json:"applied_at"`
}

func newApplicationResponse(a *domain.JobApplication) *ApplicationResponse {
	out := &ApplicationResponse{
		ID:          a.ID,
		JobID:       a.JobID,
		UserID:      a.UserID,
		Applicant:   newUserResponse(a.User),
		CoverLetter: a.CoverLetter,
		Resume:      a.ResumePath,
		Status:      string(a.Status),
		AppliedAt:   a.AppliedAt,
	}
	if a.Job != nil {
		out.JobTitle = a.Job.Title
	}
	return out
}

func newApplicationResponses(apps []domain.JobApplication) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, *newApplicationResponse(&apps[i]))
	}
	return out
}

// NotificationResponse is an in-app notification
type NotificationResponse struct {
	ID        uint      `json:"id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func newNotificationResponse(n *domain.Notification) *NotificationResponse {
	return &NotificationResponse{ID: n.ID, Message: n.Message, IsRead: n.IsRead, CreatedAt: n.CreatedAt}
}

func newNotificationResponses(ns []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(ns))
	for i := range ns {
		out = append(out, *newNotificationResponse(&ns[i]))
	}
	return out
}
