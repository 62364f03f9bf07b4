package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexus/jobboard/domain"
)

// PolicyHandlers manages route policies. Admin only.
type PolicyHandlers struct {
	policies domain.PolicyService
}

// NewPolicyHandlers creates new policy handlers
func NewPolicyHandlers(policies domain.PolicyService) *PolicyHandlers {
	return &PolicyHandlers{policies: policies}
}

// PolicyRequest names one policy rule
type PolicyRequest struct {
	Sub string `json:"sub" binding:"required"`
	Obj string `json:"obj" binding:"required"`
	Act string `json:"act" binding:"required"`
}

// List returns every policy rule
func (h *PolicyHandlers) List(c *gin.Context) {
	policies := h.policies.GetPolicies()
	if policies == nil {
		policies = [][]string{}
	}
	c.JSON(http.StatusOK, gin.H{"data": policies})
}

// Add stores a policy rule
func (h *PolicyHandlers) Add(c *gin.Context) {
	var r PolicyRequest
	if err := c.ShouldBindJSON(&r); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.policies.AddPolicy(r.Sub, r.Obj, r.Act); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": r})
}

// Remove deletes a policy rule
func (h *PolicyHandlers) Remove(c *gin.Context) {
	var r PolicyRequest
	if err := c.ShouldBindJSON(&r); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.policies.RemovePolicy(r.Sub, r.Obj, r.Act); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
