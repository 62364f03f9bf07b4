package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/nexus/jobboard/domain"
	"gorm.io/gorm"
)

// DBJobCategory is the category row
type DBJobCategory struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:100;not null"`
	Slug      string    `gorm:"uniqueIndex;size:120;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (DBJobCategory) TableName() string { return "job_categories" }

// DBJobTag is the tag row
type DBJobTag struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:50;not null"`
	Slug      string    `gorm:"uniqueIndex;size:60;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (DBJobTag) TableName() string { return "tags" }

// TaxonomyRepositoryImpl implements domain.TaxonomyRepository
type TaxonomyRepositoryImpl struct {
	db *gorm.DB
}

// NewTaxonomyRepository creates a new category and tag repository
func NewTaxonomyRepository(db *gorm.DB) domain.TaxonomyRepository {
	return &TaxonomyRepositoryImpl{db: db}
}

// CreateCategory implements domain.TaxonomyRepository
func (r *TaxonomyRepositoryImpl) CreateCategory(ctx context.Context, c *domain.JobCategory) error {
	if c.Slug == "" {
		c.Slug = domain.Slugify(c.Name)
	}
	row := &DBJobCategory{Name: c.Name, Slug: c.Slug}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTaxonomyExists
		}
		return err
	}
	c.ID, c.CreatedAt = row.ID, row.CreatedAt
	return nil
}

// ListCategories implements domain.TaxonomyRepository
func (r *TaxonomyRepositoryImpl) ListCategories(ctx context.Context) ([]domain.JobCategory, error) {
	var rows []DBJobCategory
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.JobCategory, 0, len(rows))
	for i := range rows {
		out = append(out, *categoryToDomain(&rows[i]))
	}
	return out, nil
}

// FindCategory implements domain.TaxonomyRepository
func (r *TaxonomyRepositoryImpl) FindCategory(ctx context.Context, id uint) (*domain.JobCategory, error) {
	var row DBJobCategory
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return categoryToDomain(&row), nil
}

// CreateTag implements domain.TaxonomyRepository
func (r *TaxonomyRepositoryImpl) CreateTag(ctx context.Context, t *domain.JobTag) error {
	if t.Slug == "" {
		t.Slug = domain.Slugify(t.Name)
	}
	row := &DBJobTag{Name: t.Name, Slug: t.Slug}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTaxonomyExists
		}
		return err
	}
	t.ID, t.CreatedAt = row.ID, row.CreatedAt
	return nil
}

// ListTags implements domain.TaxonomyRepository
func (r *TaxonomyRepositoryImpl) ListTags(ctx context.Context) ([]domain.JobTag, error) {
	var rows []DBJobTag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return tagsToDomain(rows), nil
}

// FindTags implements domain.TaxonomyRepository. Every id must exist.
func (r *TaxonomyRepositoryImpl) FindTags(ctx context.Context, ids []uint) ([]domain.JobTag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []DBJobTag
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) != len(uniqueIDs(ids)) {
		return nil, domain.ErrTagNotFound
	}
	return tagsToDomain(rows), nil
}

func uniqueIDs(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func categoryToDomain(row *DBJobCategory) *domain.JobCategory {
	if row == nil {
		return nil
	}
	return &domain.JobCategory{ID: row.ID, Name: row.Name, Slug: row.Slug, CreatedAt: row.CreatedAt}
}

func tagsToDomain(rows []DBJobTag) []domain.JobTag {
	out := make([]domain.JobTag, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.JobTag{ID: row.ID, Name: row.Name, Slug: row.Slug, CreatedAt: row.CreatedAt})
	}
	return out
}

func tagsToDB(tags []domain.JobTag) []DBJobTag {
	out := make([]DBJobTag, 0, len(tags))
	for _, t := range tags {
		out = append(out, DBJobTag{ID: t.ID, Name: t.Name, Slug: t.Slug, CreatedAt: t.CreatedAt})
	}
	return out
}
