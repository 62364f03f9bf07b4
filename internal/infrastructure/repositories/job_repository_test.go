package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/nexus/jobboard/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func f64(v float64) *float64 { return &v }

func seedCatalog(t *testing.T, db *gorm.DB) (poster *domain.User, cat *domain.JobCategory, tag *domain.JobTag) {
	t.Helper()
	ctx := context.Background()
	taxonomy := NewTaxonomyRepository(db)
	jobs := NewJobRepository(db)

	poster = createUser(t, db, "poster@example.com")
	cat = &domain.JobCategory{Name: "Software Engineering"}
	require.NoError(t, taxonomy.CreateCategory(ctx, cat))
	tag = &domain.JobTag{Name: "Golang"}
	require.NoError(t, taxonomy.CreateTag(ctx, tag))

	deadline := time.Now().Add(72 * time.Hour)
	fixtures := []*domain.Job{
		{Title: "Backend Go Developer", Description: "APIs", CompanyName: "Acme", Location: "Berlin, DE",
			EmploymentType: domain.EmploymentFullTime, SalaryMin: f64(60000), SalaryMax: f64(90000),
			CategoryID: &cat.ID, Tags: []domain.JobTag{*tag}, Deadline: &deadline},
		{Title: "Frontend Engineer", Description: "React work", CompanyName: "Initech", Location: "Remote",
			EmploymentType: domain.EmploymentContract, SalaryMin: f64(40000), SalaryMax: f64(55000)},
		{Title: "Data Intern", Description: "Notebooks", Requirements: "python", CompanyName: "Globex", Location: "berlin",
			EmploymentType: domain.EmploymentInternship},
	}
	for _, job := range fixtures {
		job.PostedByID = poster.ID
		job.ApplyDefaults()
		require.NoError(t, jobs.Create(ctx, job))
	}
	return poster, cat, tag
}

func TestJobRepositoryImpl_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	poster, cat, tag := seedCatalog(t, db)
	repo := NewJobRepository(db)

	page, err := repo.List(context.Background(), domain.JobFilter{Ordering: "created_at"})
	require.NoError(t, err)
	require.NotEmpty(t, page.Items)

	job, err := repo.FindByID(context.Background(), page.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Backend Go Developer", job.Title)
	require.NotNil(t, job.PostedBy)
	assert.Equal(t, poster.Email, job.PostedBy.Email)
	require.NotNil(t, job.Category)
	assert.Equal(t, "software-engineering", job.Category.Slug)
	require.Len(t, job.Tags, 1)
	assert.Equal(t, tag.ID, job.Tags[0].ID)
	assert.Equal(t, cat.ID, *job.CategoryID)
	assert.Equal(t, "USD", job.SalaryCurrency)

	_, err = repo.FindByID(context.Background(), 9999)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestJobRepositoryImpl_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	_, cat, tag := seedCatalog(t, db)
	repo := NewJobRepository(db)

	yes, no := true, false
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name     string
		filter   domain.JobFilter
		expected []string
	}{
		{name: "employment type", filter: domain.JobFilter{EmploymentType: domain.EmploymentContract}, expected: []string{"Frontend Engineer"}},
		{name: "location icontains", filter: domain.JobFilter{Location: "BERLIN", Ordering: "created_at"}, expected: []string{"Backend Go Developer", "Data Intern"}},
		{name: "category", filter: domain.JobFilter{CategoryID: &cat.ID}, expected: []string{"Backend Go Developer"}},
		{name: "tag", filter: domain.JobFilter{TagID: &tag.ID}, expected: []string{"Backend Go Developer"}},
		{name: "salary min gte", filter: domain.JobFilter{SalaryMinGTE: f64(50000)}, expected: []string{"Backend Go Developer"}},
		{name: "salary max lte", filter: domain.JobFilter{SalaryMaxLTE: f64(60000)}, expected: []string{"Frontend Engineer"}},
		{name: "has deadline", filter: domain.JobFilter{HasDeadline: &yes}, expected: []string{"Backend Go Developer"}},
		{name: "no deadline", filter: domain.JobFilter{HasDeadline: &no, Ordering: "created_at"}, expected: []string{"Frontend Engineer", "Data Intern"}},
		{name: "search requirements", filter: domain.JobFilter{Search: "PYTHON"}, expected: []string{"Data Intern"}},
		{name: "search company", filter: domain.JobFilter{Search: "initech"}, expected: []string{"Frontend Engineer"}},
		{name: "created window", filter: domain.JobFilter{CreatedAfter: &past, CreatedBefore: &future, Ordering: "created_at"},
			expected: []string{"Backend Go Developer", "Frontend Engineer", "Data Intern"}},
		{name: "created after future", filter: domain.JobFilter{CreatedAfter: &future}, expected: []string{}},
		{name: "order salary desc", filter: domain.JobFilter{SalaryMinGTE: f64(1), Ordering: "-salary_min"},
			expected: []string{"Backend Go Developer", "Frontend Engineer"}},
		{name: "default newest first", filter: domain.JobFilter{}, expected: []string{"Data Intern", "Frontend Engineer", "Backend Go Developer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.List(context.Background(), tt.filter)
			require.NoError(t, err)

			titles := make([]string, 0, len(page.Items))
			for _, j := range page.Items {
				titles = append(titles, j.Title)
			}
			assert.Equal(t, tt.expected, titles)
			assert.Equal(t, int64(len(tt.expected)), page.Total)
		})
	}
}

func TestJobRepositoryImpl_Pagination(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := NewJobRepository(db)

	page, err := repo.List(context.Background(), domain.JobFilter{Page: 2, PageSize: 2, Ordering: "created_at"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Data Intern", page.Items[0].Title)
}

func TestJobRepositoryImpl_UpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	poster, _, tag := seedCatalog(t, db)
	repo := NewJobRepository(db)
	ctx := context.Background()

	job := createJob(t, db, poster, "Temporary Role")
	job.Title = "Permanent Role"
	job.Status = domain.JobStatusClosed
	job.Tags = []domain.JobTag{*tag}
	require.NoError(t, repo.Update(ctx, job))

	found, err := repo.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Permanent Role", found.Title)
	assert.Equal(t, domain.JobStatusClosed, found.Status)
	require.Len(t, found.Tags, 1)

	found.Tags = nil
	require.NoError(t, repo.Update(ctx, found))
	found, err = repo.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Tags)

	applicant := createUser(t, db, "applicant@example.com")
	require.NoError(t, NewApplicationRepository(db).CreateWithNotification(ctx,
		&domain.JobApplication{JobID: job.ID, UserID: applicant.ID}, nil))

	require.NoError(t, repo.Delete(ctx, job.ID))
	_, err = repo.FindByID(ctx, job.ID)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, job.ID), domain.ErrJobNotFound)

	missing := &domain.Job{ID: 4242, Title: "ghost"}
	assert.ErrorIs(t, repo.Update(ctx, missing), domain.ErrJobNotFound)
}
