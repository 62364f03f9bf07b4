package services

import (
	"context"
	"slices"
	"strings"

	"github.com/nexus/jobboard/domain"
	"github.com/nexus/jobboard/internal/infrastructure/cache"
)

// JobServiceImpl implements domain.JobService
type JobServiceImpl struct {
	jobs      domain.JobRepository
	companies domain.CompanyRepository
	taxonomy  domain.TaxonomyRepository
	lists     ListInvalidator
}

// NewJobService creates a new job catalog service
func NewJobService(jobs domain.JobRepository, companies domain.CompanyRepository, taxonomy domain.TaxonomyRepository, lists ListInvalidator) domain.JobService {
	return &JobServiceImpl{jobs: jobs, companies: companies, taxonomy: taxonomy, lists: lists}
}

// Create implements domain.JobService
func (s *JobServiceImpl) Create(ctx context.Context, job *domain.Job, tagIDs []uint, actor *domain.User) (*domain.Job, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	job.ApplyDefaults()
	job.PostedByID = actor.ID
	job.PostedBy = actor

	if err := s.resolveRelations(ctx, job, tagIDs, actor); err != nil {
		return nil, err
	}
	job.SyncCompanyName()
	if err := validateJob(job); err != nil {
		return nil, err
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	s.lists.Invalidate(ctx, cache.PrefixJobsList)
	return job, nil
}

// Get implements domain.JobService
func (s *JobServiceImpl) Get(ctx context.Context, id uint) (*domain.Job, error) {
	return s.jobs.FindByID(ctx, id)
}

// Update implements domain.JobService
func (s *JobServiceImpl) Update(ctx context.Context, id uint, patch domain.JobPatch, actor *domain.User) (*domain.Job, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.PosterOrAdmin(actor, job) {
		return nil, domain.ErrForbidden
	}

	applyJobPatch(job, patch)
	if patch.CompanyID != nil {
		job.CompanyID = patch.CompanyID
		job.Company = nil
	}
	if patch.CategoryID != nil {
		job.CategoryID = patch.CategoryID
		job.Category = nil
	}
	if err := s.resolveRelations(ctx, job, patch.TagIDs, actor); err != nil {
		return nil, err
	}
	job.SyncCompanyName()
	if err := validateJob(job); err != nil {
		return nil, err
	}

	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	// application lists embed the job
	s.lists.Invalidate(ctx, append([]string{cache.PrefixJobsList}, cache.EngineListPrefixes...)...)
	return s.jobs.FindByID(ctx, id)
}

// Delete implements domain.JobService. Applications to the job go with it.
func (s *JobServiceImpl) Delete(ctx context.Context, id uint, actor *domain.User) error {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.PosterOrAdmin(actor, job) {
		return domain.ErrForbidden
	}
	if err := s.jobs.Delete(ctx, id); err != nil {
		return err
	}
	s.lists.Invalidate(ctx, append([]string{cache.PrefixJobsList}, cache.EngineListPrefixes...)...)
	return nil
}

// List implements domain.JobService
func (s *JobServiceImpl) List(ctx context.Context, filter domain.JobFilter) (*domain.JobPage, error) {
	if filter.EmploymentType != "" && !slices.Contains(domain.EmploymentTypes, filter.EmploymentType) {
		return nil, domain.NewValidationError("unknown employment type %q", filter.EmploymentType)
	}
	return s.jobs.List(ctx, filter)
}

// resolveRelations loads the company, category and tags referenced by id.
// A nil tagIDs keeps the job's current tags.
func (s *JobServiceImpl) resolveRelations(ctx context.Context, job *domain.Job, tagIDs []uint, actor *domain.User) error {
	if job.CompanyID != nil && job.Company == nil {
		company, err := s.companies.FindByID(ctx, *job.CompanyID)
		if err != nil {
			return err
		}
		if company.UserID != actor.ID && !domain.IsAdmin(actor) {
			return domain.ErrForbidden
		}
		job.Company = company
	}
	if job.CategoryID != nil && job.Category == nil {
		category, err := s.taxonomy.FindCategory(ctx, *job.CategoryID)
		if err != nil {
			return err
		}
		job.Category = category
	}
	if tagIDs != nil {
		tags, err := s.taxonomy.FindTags(ctx, tagIDs)
		if err != nil {
			return err
		}
		job.Tags = tags
	}
	return nil
}

func applyJobPatch(job *domain.Job, p domain.JobPatch) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&job.Title, p.Title)
	set(&job.Description, p.Description)
	set(&job.Requirements, p.Requirements)
	set(&job.CompanyName, p.CompanyName)
	set(&job.CompanyEmail, p.CompanyEmail)
	set(&job.Location, p.Location)
	set(&job.EmploymentType, p.EmploymentType)
	set(&job.SalaryCurrency, p.SalaryCurrency)
	set(&job.Status, p.Status)
	if p.SalaryMin != nil {
		job.SalaryMin = p.SalaryMin
	}
	if p.SalaryMax != nil {
		job.SalaryMax = p.SalaryMax
	}
	if p.Deadline != nil {
		job.Deadline = p.Deadline
	}
}

func validateJob(job *domain.Job) error {
	if strings.TrimSpace(job.Title) == "" {
		return domain.NewValidationError("title is required")
	}
	if !slices.Contains(domain.EmploymentTypes, job.EmploymentType) {
		return domain.NewValidationError("unknown employment type %q", job.EmploymentType)
	}
	switch job.Status {
	case domain.JobStatusOpen, domain.JobStatusClosed, domain.JobStatusDraft:
	default:
		return domain.NewValidationError("unknown job status %q", job.Status)
	}
	if job.SalaryMin != nil && *job.SalaryMin < 0 || job.SalaryMax != nil && *job.SalaryMax < 0 {
		return domain.NewValidationError("salary must not be negative")
	}
	if job.SalaryMin != nil && job.SalaryMax != nil && *job.SalaryMin > *job.SalaryMax {
		return domain.NewValidationError("salary_min must not exceed salary_max")
	}
	if job.CompanyEmail != "" && !domain.IsValidEmail(job.CompanyEmail) {
		return domain.NewValidationError("company_email is not a valid email address")
	}
	return nil
}

// CompanyServiceImpl implements domain.CompanyService
type CompanyServiceImpl struct {
	repo  domain.CompanyRepository
	lists ListInvalidator
}

// NewCompanyService creates a new company profile service
func NewCompanyService(repo domain.CompanyRepository, lists ListInvalidator) domain.CompanyService {
	return &CompanyServiceImpl{repo: repo, lists: lists}
}

// Create implements domain.CompanyService. Each user owns at most one profile.
func (s *CompanyServiceImpl) Create(ctx context.Context, c *domain.CompanyProfile, actor *domain.User) (*domain.CompanyProfile, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	if strings.TrimSpace(c.Name) == "" {
		return nil, domain.NewValidationError("name is required")
	}
	c.UserID = actor.ID
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get implements domain.CompanyService
func (s *CompanyServiceImpl) Get(ctx context.Context, id uint) (*domain.CompanyProfile, error) {
	return s.repo.FindByID(ctx, id)
}

// List implements domain.CompanyService
func (s *CompanyServiceImpl) List(ctx context.Context) ([]domain.CompanyProfile, error) {
	return s.repo.List(ctx)
}

// Update implements domain.CompanyService. Blank patch fields keep their value.
func (s *CompanyServiceImpl) Update(ctx context.Context, id uint, patch domain.CompanyProfile, actor *domain.User) (*domain.CompanyProfile, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.OwnerOrReadOnly(actor, existing.UserID, true) {
		return nil, domain.ErrForbidden
	}

	for _, f := range []struct{ dst, v *string }{
		{&existing.Name, &patch.Name},
		{&existing.Description, &patch.Description},
		{&existing.Website, &patch.Website},
		{&existing.Location, &patch.Location},
		{&existing.LogoURL, &patch.LogoURL},
	} {
		if strings.TrimSpace(*f.v) != "" {
			*f.dst = *f.v
		}
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.lists.Invalidate(ctx, cache.PrefixJobsList)
	return existing, nil
}

// TaxonomyServiceImpl implements domain.TaxonomyService
type TaxonomyServiceImpl struct {
	repo domain.TaxonomyRepository
}

// NewTaxonomyService creates a new category and tag service
func NewTaxonomyService(repo domain.TaxonomyRepository) domain.TaxonomyService {
	return &TaxonomyServiceImpl{repo: repo}
}

// ListCategories implements domain.TaxonomyService
func (s *TaxonomyServiceImpl) ListCategories(ctx context.Context) ([]domain.JobCategory, error) {
	return s.repo.ListCategories(ctx)
}

// CreateCategory implements domain.TaxonomyService
func (s *TaxonomyServiceImpl) CreateCategory(ctx context.Context, c *domain.JobCategory, actor *domain.User) (*domain.JobCategory, error) {
	if !domain.IsAdmin(actor) {
		return nil, domain.ErrForbidden
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListTags implements domain.TaxonomyService
func (s *TaxonomyServiceImpl) ListTags(ctx context.Context) ([]domain.JobTag, error) {
	return s.repo.ListTags(ctx)
}

// CreateTag implements domain.TaxonomyService
func (s *TaxonomyServiceImpl) CreateTag(ctx context.Context, t *domain.JobTag, actor *domain.User) (*domain.JobTag, error) {
	if !domain.IsAdmin(actor) {
		return nil, domain.ErrForbidden
	}
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	if err := s.repo.CreateTag(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
