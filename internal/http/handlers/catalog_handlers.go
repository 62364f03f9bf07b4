package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexus/jobboard/domain"
	"github.com/nexus/jobboard/internal/http/middleware"
)

// CompanyHandlers handles company profile requests
type CompanyHandlers struct {
	companies domain.CompanyService
}

// NewCompanyHandlers creates new company handlers
func NewCompanyHandlers(companies domain.CompanyService) *CompanyHandlers {
	return &CompanyHandlers{companies: companies}
}

// CompanyRequest is the body of company create and update
type CompanyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website" binding:"omitempty,url"`
	Location    string `json:"location"`
	Logo        string `json:"logo"`
}

func (r CompanyRequest) profile() domain.CompanyProfile {
	return domain.CompanyProfile{
		Name:        r.Name,
		Description: r.Description,
		Website:     r.Website,
		Location:    r.Location,
		LogoURL:     r.Logo,
	}
}

// List returns every company profile
func (h *CompanyHandlers) List(c *gin.Context) {
	companies, err := h.companies.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]CompanyResponse, 0, len(companies))
	for i := range companies {
		out = append(out, *newCompanyResponse(&companies[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// Create adds the current user's company profile
func (h *CompanyHandlers) Create(c *gin.Context) {
	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	profile := req.profile()
	created, err := h.companies.Create(c.Request.Context(), &profile, middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": newCompanyResponse(created)})
}

// Get returns one company profile
func (h *CompanyHandlers) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	company, err := h.companies.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newCompanyResponse(company)})
}

// Update patches a company profile. Owner only.
func (h *CompanyHandlers) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	updated, err := h.companies.Update(c.Request.Context(), id, req.profile(), middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newCompanyResponse(updated)})
}

// TaxonomyHandlers handles category and tag requests
type TaxonomyHandlers struct {
	taxonomy domain.TaxonomyService
}

// NewTaxonomyHandlers creates new taxonomy handlers
func NewTaxonomyHandlers(taxonomy domain.TaxonomyService) *TaxonomyHandlers {
	return &TaxonomyHandlers{taxonomy: taxonomy}
}

// TermRequest names a new category or tag
type TermRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListCategories returns every category
func (h *TaxonomyHandlers) ListCategories(c *gin.Context) {
	categories, err := h.taxonomy.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]TermResponse, 0, len(categories))
	for i := range categories {
		out = append(out, *newCategoryResponse(&categories[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// CreateCategory adds a category. Admin only.
func (h *TaxonomyHandlers) CreateCategory(c *gin.Context) {
	var req TermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.taxonomy.CreateCategory(c.Request.Context(), &domain.JobCategory{Name: req.Name}, middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": newCategoryResponse(created)})
}

// ListTags returns every tag
func (h *TaxonomyHandlers) ListTags(c *gin.Context) {
	tags, err := h.taxonomy.ListTags(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newTagResponses(tags)})
}

// CreateTag adds a tag. Admin only.
func (h *TaxonomyHandlers) CreateTag(c *gin.Context) {
	var req TermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.taxonomy.CreateTag(c.Request.Context(), &domain.JobTag{Name: req.Name}, middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": newTagResponses([]domain.JobTag{*created})[0]})
}
