package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nexus/jobboard/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBJob is the job posting row
type DBJob struct {
	ID             uint     `gorm:"primaryKey"`
	Title          string   `gorm:"size:255;not null"`
	Description    string   `gorm:"type:text"`
	Requirements   string   `gorm:"type:text"`
	CompanyName    string   `gorm:"size:255;index"`
	CompanyEmail   string   `gorm:"size:255"`
	Location       string   `gorm:"size:255;index"`
	EmploymentType string   `gorm:"size:20;index"`
	SalaryMin      *float64 `gorm:"index"`
	SalaryMax      *float64
	SalaryCurrency string            `gorm:"size:10"`
	Status         string            `gorm:"size:10;index"`
	PostedByID     uint              `gorm:"index;not null"`
	PostedBy       *DBUser           `gorm:"foreignKey:PostedByID;constraint:OnDelete:CASCADE"`
	CompanyID      *uint             `gorm:"index"`
	Company        *DBCompanyProfile `gorm:"constraint:OnDelete:SET NULL"`
	CategoryID     *uint             `gorm:"index"`
	Category       *DBJobCategory    `gorm:"constraint:OnDelete:SET NULL"`
	Tags           []DBJobTag        `gorm:"many2many:job_tags;joinForeignKey:JobID;joinReferences:TagID"`
	CreatedAt      time.Time         `gorm:"index"`
	UpdatedAt      time.Time
	Deadline       *time.Time
}

func (DBJob) TableName() string { return "jobs" }

// JobRepositoryImpl implements domain.JobRepository using GORM
type JobRepositoryImpl struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *gorm.DB) domain.JobRepository {
	return &JobRepositoryImpl{db: db}
}

// Create implements domain.JobRepository
func (r *JobRepositoryImpl) Create(ctx context.Context, job *domain.Job) error {
	row := jobToDB(job)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(row).Error; err != nil {
			return err
		}
		if len(row.Tags) == 0 {
			return nil
		}
		return tx.Model(row).Association("Tags").Replace(row.Tags)
	})
	if err != nil {
		return err
	}
	job.ID = row.ID
	job.CreatedAt = row.CreatedAt
	job.UpdatedAt = row.UpdatedAt
	return nil
}

// FindByID implements domain.JobRepository
func (r *JobRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Job, error) {
	var row DBJob
	err := r.preloaded(r.db.WithContext(ctx)).First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}
	return jobToDomain(&row), nil
}

// Update implements domain.JobRepository. Tags are replaced wholesale.
func (r *JobRepositoryImpl) Update(ctx context.Context, job *domain.Job) error {
	row := jobToDB(job)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&DBJob{ID: row.ID}).
			Select("title", "description", "requirements", "company_name", "company_email", "location",
				"employment_type", "salary_min", "salary_max", "salary_currency", "status",
				"company_id", "category_id", "deadline").
			Updates(row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrJobNotFound
		}
		return tx.Model(row).Association("Tags").Replace(row.Tags)
	})
	if err != nil {
		return err
	}
	job.UpdatedAt = row.UpdatedAt
	return nil
}

// Delete implements domain.JobRepository
func (r *JobRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := &DBJob{ID: id}
		if err := tx.Model(row).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", id).Delete(&DBJobApplication{}).Error; err != nil {
			return err
		}
		res := tx.Delete(row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrJobNotFound
		}
		return nil
	})
}

// List implements domain.JobRepository
func (r *JobRepositoryImpl) List(ctx context.Context, filter domain.JobFilter) (*domain.JobPage, error) {
	filter.Normalize()
	db := r.db.WithContext(ctx)

	var total int64
	if err := applyJobFilter(db.Model(&DBJob{}), filter).Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []DBJob
	q := applyJobFilter(r.preloaded(db), filter).
		Order(jobOrdering(filter.Ordering)).
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize)
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]domain.Job, 0, len(rows))
	for i := range rows {
		items = append(items, *jobToDomain(&rows[i]))
	}
	return &domain.JobPage{Items: items, Total: total, Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (r *JobRepositoryImpl) preloaded(db *gorm.DB) *gorm.DB {
	return db.Preload("PostedBy").Preload("Company").Preload("Category").Preload("Tags")
}

func applyJobFilter(q *gorm.DB, f domain.JobFilter) *gorm.DB {
	if f.EmploymentType != "" {
		q = q.Where("jobs.employment_type = ?", f.EmploymentType)
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		q = q.Where("LOWER(jobs.location) LIKE ?", "%"+strings.ToLower(loc)+"%")
	}
	if f.CategoryID != nil {
		q = q.Where("jobs.category_id = ?", *f.CategoryID)
	}
	if f.TagID != nil {
		q = q.Where("jobs.id IN (SELECT job_id FROM job_tags WHERE tag_id = ?)", *f.TagID)
	}
	if f.SalaryMinGTE != nil {
		q = q.Where("jobs.salary_min >= ?", *f.SalaryMinGTE)
	}
	if f.SalaryMinLTE != nil {
		q = q.Where("jobs.salary_min <= ?", *f.SalaryMinLTE)
	}
	if f.SalaryMaxGTE != nil {
		q = q.Where("jobs.salary_max >= ?", *f.SalaryMaxGTE)
	}
	if f.SalaryMaxLTE != nil {
		q = q.Where("jobs.salary_max <= ?", *f.SalaryMaxLTE)
	}
	if f.CreatedAfter != nil {
		q = q.Where("jobs.created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		q = q.Where("jobs.created_at <= ?", *f.CreatedBefore)
	}
	if f.HasDeadline != nil {
		if *f.HasDeadline {
			q = q.Where("jobs.deadline IS NOT NULL")
		} else {
			q = q.Where("jobs.deadline IS NULL")
		}
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(jobs.title) LIKE ? OR LOWER(jobs.description) LIKE ? OR LOWER(jobs.requirements) LIKE ? OR LOWER(jobs.company_name) LIKE ?)",
			like, like, like, like)
	}
	return q
}

func jobOrdering(ordering string) string {
	switch ordering {
	case "created_at":
		return "jobs.created_at ASC, jobs.id ASC"
	case "salary_min":
		return "jobs.salary_min ASC, jobs.id ASC"
	case "-salary_min":
		return "jobs.salary_min DESC, jobs.id DESC"
	default:
		return "jobs.created_at DESC, jobs.id DESC"
	}
}

func jobToDB(job *domain.Job) *DBJob {
	return &DBJob{
		ID:             job.ID,
		Title:          job.Title,
		Description:    job.Description,
		Requirements:   job.Requirements,
		CompanyName:    job.CompanyName,
		CompanyEmail:   job.CompanyEmail,
		Location:       job.Location,
		EmploymentType: job.EmploymentType,
		SalaryMin:      job.SalaryMin,
		SalaryMax:      job.SalaryMax,
		SalaryCurrency: job.SalaryCurrency,
		Status:         job.Status,
		PostedByID:     job.PostedByID,
		CompanyID:      job.CompanyID,
		CategoryID:     job.CategoryID,
		Tags:           tagsToDB(job.Tags),
		CreatedAt:      job.CreatedAt,
		UpdatedAt:      job.UpdatedAt,
		Deadline:       job.Deadline,
	}
}

func jobToDomain(row *DBJob) *domain.Job {
	if row == nil {
		return nil
	}
	return &domain.Job{
		ID:             row.ID,
		Title:          row.Title,
		Description:    row.Description,
		Requirements:   row.Requirements,
		CompanyName:    row.CompanyName,
		CompanyEmail:   row.CompanyEmail,
		Location:       row.Location,
		EmploymentType: row.EmploymentType,
		SalaryMin:      row.SalaryMin,
		SalaryMax:      row.SalaryMax,
		SalaryCurrency: row.SalaryCurrency,
		Status:         row.Status,
		PostedByID:     row.PostedByID,
		PostedBy:       userToDomain(row.PostedBy),
		CompanyID:      row.CompanyID,
		Company:        companyToDomain(row.Company),
		CategoryID:     row.CategoryID,
		Category:       categoryToDomain(row.Category),
		Tags:           tagsToDomain(row.Tags),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
		Deadline:       row.Deadline,
	}
}
