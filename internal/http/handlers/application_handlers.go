package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nexus/jobboard/domain"
	"github.com/nexus/jobboard/internal/http/middleware"
	"github.com/nexus/jobboard/internal/infrastructure/cache"
)

// ApplicationHandlers handles job application requests
type ApplicationHandlers struct {
	apps  domain.ApplicationService
	cache ListCache
}

// NewApplicationHandlers creates new application handlers
func NewApplicationHandlers(apps domain.ApplicationService, lc ListCache) *ApplicationHandlers {
	return &ApplicationHandlers{apps: apps, cache: lc}
}

// ApplyRequest is the JSON body of an application without a resume
type ApplyRequest struct {
	Job         uint   `json:"job" binding:"required"`
	CoverLetter string `json:"cover_letter"`
}

// StatusRequest carries the new application status
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Apply submits an application. Multipart bodies may carry a PDF resume in the "resume" field.
func (h *ApplicationHandlers) Apply(c *gin.Context) {
	input := domain.SubmitInput{User: middleware.CurrentUser(c)}

	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		jobID, err := strconv.ParseUint(c.PostForm("job"), 10, 64)
		if err != nil || jobID == 0 {
			writeError(c, domain.NewValidationError("job is required"))
			return
		}
		input.JobID = uint(jobID)
		input.CoverLetter = c.PostForm("cover_letter")

		header, err := c.FormFile("resume")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			badRequest(c, err)
			return
		default:
			file, err := header.Open()
			if err != nil {
				badRequest(c, err)
				return
			}
			defer file.Close()
			input.Resume = file
		}
	} else {
		var req ApplyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		input.JobID = req.Job
		input.CoverLetter = req.CoverLetter
	}

	app, err := h.apps.Submit(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": newApplicationResponse(app)})
}

// My lists the current user's applications
func (h *ApplicationHandlers) My(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		writeError(c, domain.ErrUnauthenticated)
		return
	}

	key := cache.Key(cache.PrefixApplicationsMy, strconv.FormatUint(uint64(user.ID), 10), c.Request.URL.RequestURI())
	apps, err := cache.Fetch(c.Request.Context(), h.cache.RT, key, h.cache.ListTTL,
		func(ctx context.Context) ([]ApplicationResponse, error) {
			apps, err := h.apps.List(ctx, user)
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

// Get returns one application to its applicant, the job's poster or an admin
func (h *ApplicationHandlers) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	app, err := h.apps.Get(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newApplicationResponse(app)})
}

// UpdateStatus accepts or rejects an application. Poster or admin only.
func (h *ApplicationHandlers) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	app, err := h.apps.UpdateStatus(c.Request.Context(), id, req.Status, middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newApplicationResponse(app)})
}
