package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexus/jobboard/domain"
	"github.com/nexus/jobboard/internal/http/middleware"
	"github.com/nexus/jobboard/internal/infrastructure/cache"
)

// ListCache serves list endpoints through the read-through cache
type ListCache struct {
	RT      *cache.ReadThrough
	JobsTTL time.Duration
	ListTTL time.Duration
}

// JobHandlers handles job catalog requests
type JobHandlers struct {
	jobs  domain.JobService
	apps  domain.ApplicationService
	cache ListCache
}

// NewJobHandlers creates new job handlers
func NewJobHandlers(jobs domain.JobService, apps domain.ApplicationService, lc ListCache) *JobHandlers {
	return &JobHandlers{jobs: jobs, apps: apps, cache: lc}
}

// JobRequest is the body of a job create. Unset fields take their defaults.
type JobRequest struct {
	Title          string     `json:"title" binding:"required"`
	Description    string     `json:"description"`
	Requirements   string     `json:"requirements"`
	CompanyName    string     `json:"company_name"`
	CompanyEmail   string     `json:"company_email"`
	Location       string     `json:"location"`
	EmploymentType string     `json:"employment_type"`
	SalaryMin      *float64   `json:"salary_min"`
	SalaryMax      *float64   `json:"salary_max"`
	SalaryCurrency string     `json:"salary_currency"`
	Status         string     `json:"status"`
	Company        *uint      `json:"company"`
	Category       *uint      `json:"category"`
	Tags           []uint     `json:"tags"`
	Deadline       *time.Time `json:"deadline"`
}

// JobPatchRequest is the body of a partial job update. An absent tags field
// keeps the current tags; an empty list clears them.
type JobPatchRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Requirements   *string    `json:"requirements"`
	CompanyName    *string    `json:"company_name"`
	CompanyEmail   *string    `json:"company_email"`
	Location       *string    `json:"location"`
	EmploymentType *string    `json:"employment_type"`
	SalaryMin      *float64   `json:"salary_min"`
	SalaryMax      *float64   `json:"salary_max"`
	SalaryCurrency *string    `json:"salary_currency"`
	Status         *string    `json:"status"`
	Company        *uint      `json:"company"`
	Category       *uint      `json:"category"`
	Tags           []uint     `json:"tags"`
	Deadline       *time.Time `json:"deadline"`
}

// List returns one filtered page of jobs. Anonymous.
func (h *JobHandlers) List(c *gin.Context) {
	filter, err := parseJobFilter(c)
	if err != nil {
		writeError(c, err)
		return
	}

	key := cache.Key(cache.PrefixJobsList, "all", c.Request.URL.RequestURI())
	page, err := cache.Fetch(c.Request.Context(), h.cache.RT, key, h.cache.JobsTTL,
		func(ctx context.Context) (JobPageResponse, error) {
			p, err := h.jobs.List(ctx, filter)
			if err != nil {
				return JobPageResponse{}, err
			}
			return newJobPageResponse(p), nil
		})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": page})
}

// Create posts a job as the current user
func (h *JobHandlers) Create(c *gin.Context) {
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	job := &domain.Job{
		Title:          req.Title,
		Description:    req.Description,
		Requirements:   req.Requirements,
		CompanyName:    req.CompanyName,
		CompanyEmail:   req.CompanyEmail,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		SalaryCurrency: req.SalaryCurrency,
		Status:         req.Status,
		CompanyID:      req.Company,
		CategoryID:     req.Category,
		Deadline:       req.Deadline,
	}
	created, err := h.jobs.Create(c.Request.Context(), job, req.Tags, middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": newJobResponse(created)})
}

// Get returns a single job. Anonymous.
func (h *JobHandlers) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	job, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newJobResponse(job)})
}

// Update patches a job. Poster or admin only.
func (h *JobHandlers) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req JobPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	patch := domain.JobPatch{
		Title:          req.Title,
		Description:    req.Description,
		Requirements:   req.Requirements,
		CompanyName:    req.CompanyName,
		CompanyEmail:   req.CompanyEmail,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		SalaryCurrency: req.SalaryCurrency,
		Status:         req.Status,
		CompanyID:      req.Company,
		CategoryID:     req.Category,
		TagIDs:         req.Tags,
		Deadline:       req.Deadline,
	}
	job, err := h.jobs.Update(c.Request.Context(), id, patch, middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newJobResponse(job)})
}

// Delete removes a job and its applications. Poster or admin only.
func (h *JobHandlers) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.jobs.Delete(c.Request.Context(), id, middleware.CurrentUser(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Applications lists the applications to a job. Poster or admin only.
func (h *JobHandlers) Applications(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		writeError(c, domain.ErrUnauthenticated)
		return
	}

	key := cache.Key(cache.PrefixApplicationsList, strconv.FormatUint(uint64(user.ID), 10), c.Request.URL.RequestURI())
	apps, err := cache.Fetch(c.Request.Context(), h.cache.RT, key, h.cache.ListTTL,
		func(ctx context.Context) ([]ApplicationResponse, error) {
			apps, err := h.apps.ListForJob(ctx, id, user)
			if err != nil {
				return nil, err
			}
			return newApplicationResponses(apps), nil
		})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": apps})
}

// parseJobFilter reads the listing query parameters.
func parseJobFilter(c *gin.Context) (domain.JobFilter, error) {
	f := domain.JobFilter{
		EmploymentType: strings.TrimSpace(c.Query("employment_type")),
		Location:       strings.TrimSpace(c.Query("location")),
		Search:         strings.TrimSpace(c.Query("search")),
		Ordering:       c.Query("ordering"),
	}

	var err error
	if f.Page, err = queryInt(c, "page"); err != nil {
		return f, err
	}
	if f.PageSize, err = queryInt(c, "page_size"); err != nil {
		return f, err
	}
	if f.CategoryID, err = queryUint(c, "category"); err != nil {
		return f, err
	}
	if f.TagID, err = queryUint(c, "tag"); err != nil {
		return f, err
	}
	for name, dst := range map[string]**float64{
		"salary_min_gte": &f.SalaryMinGTE,
		"salary_min_lte": &f.SalaryMinLTE,
		"salary_max_gte": &f.SalaryMaxGTE,
		"salary_max_lte": &f.SalaryMaxLTE,
	} {
		if *dst, err = queryFloat(c, name); err != nil {
			return f, err
		}
	}
	if f.CreatedAfter, err = queryTime(c, "created_at_after"); err != nil {
		return f, err
	}
	if f.CreatedBefore, err = queryTime(c, "created_at_before"); err != nil {
		return f, err
	}
	if raw := c.Query("has_deadline"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return f, domain.NewValidationError("has_deadline must be a boolean")
		}
		f.HasDeadline = &b
	}
	return f, nil
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError("%s must be an integer", name)
	}
	return n, nil
}

func queryUint(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, domain.NewValidationError("%s must be an id", name)
	}
	id := uint(n)
	return &id, nil
}

func queryFloat(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, domain.NewValidationError("%s must be a number", name)
	}
	return &v, nil
}

// queryTime accepts RFC 3339 timestamps or plain dates.
func queryTime(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, domain.NewValidationError("%s must be a date or RFC 3339 timestamp", name)
}
