package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/nexus/jobboard/domain"
	"gorm.io/gorm"
)

// DBCompanyProfile is the employer profile row; one per user.
type DBCompanyProfile struct {
	ID          uint    `gorm:"primaryKey"`
	UserID      uint    `gorm:"uniqueIndex;not null"`
	User        *DBUser `gorm:"constraint:OnDelete:CASCADE"`
	Name        string  `gorm:"size:255;not null"`
	Description string  `gorm:"type:text"`
	Website     string  `gorm:"size:255"`
	Location    string  `gorm:"size:255"`
	LogoURL     string  `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (DBCompanyProfile) TableName() string { return "company_profiles" }

// CompanyRepositoryImpl implements domain.CompanyRepository
type CompanyRepositoryImpl struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new company profile repository
func NewCompanyRepository(db *gorm.DB) domain.CompanyRepository {
	return &CompanyRepositoryImpl{db: db}
}

// Create implements domain.CompanyRepository
func (r *CompanyRepositoryImpl) Create(ctx context.Context, company *domain.CompanyProfile) error {
	row := companyToDB(company)
	if err := r.db.WithContext(ctx).Omit("User").Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCompanyExists
		}
		return err
	}
	*company = *companyToDomain(row)
	return nil
}

// FindByID implements domain.CompanyRepository
func (r *CompanyRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.CompanyProfile, error) {
	var row DBCompanyProfile
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, err
	}
	return companyToDomain(&row), nil
}

// List implements domain.CompanyRepository
func (r *CompanyRepositoryImpl) List(ctx context.Context) ([]domain.CompanyProfile, error) {
	var rows []DBCompanyProfile
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.CompanyProfile, 0, len(rows))
	for i := range rows {
		out = append(out, *companyToDomain(&rows[i]))
	}
	return out, nil
}

// Update implements domain.CompanyRepository
func (r *CompanyRepositoryImpl) Update(ctx context.Context, company *domain.CompanyProfile) error {
	row := companyToDB(company)
	res := r.db.WithContext(ctx).Model(&DBCompanyProfile{ID: company.ID}).
		Select("name", "description", "website", "location", "logo_url").
		Updates(row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCompanyNotFound
	}
	company.UpdatedAt = row.UpdatedAt
	return nil
}

func companyToDB(c *domain.CompanyProfile) *DBCompanyProfile {
	return &DBCompanyProfile{
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

func companyToDomain(row *DBCompanyProfile) *domain.CompanyProfile {
	if row == nil {
		return nil
	}
	return &domain.CompanyProfile{
		ID:          row.ID,
		UserID:      row.UserID,
		Name:        row.Name,
		Description: row.Description,
		Website:     row.Website,
		Location:    row.Location,
		LogoURL:     row.LogoURL,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
