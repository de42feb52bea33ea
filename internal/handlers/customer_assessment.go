package handlers

import (
	"bytes"
	"fmt"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/services"
	"github.com/Tharnickanth/credit-ratings-model-sub000/pkg/response"
	"github.com/gin-gonic/gin"
)

type AssessmentHandler struct {
	assessmentService *services.AssessmentService
}

func NewAssessmentHandler(assessmentService *services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService}
}

type rejectAssessmentRequest struct {
	Remarks string `json:"remarks"`
}

type editAssessmentRequest struct {
	Selections services.Selections `json:"selections" binding:"required"`
}

// List returns paginated customer assessments
// GET /api/customer-assessments
func (h *AssessmentHandler) List(c *gin.Context) {
	var req services.AssessmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.assessmentService.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, resp)
}

// GET /api/customer-assessments/:id
func (h *AssessmentHandler) GetByID(c *gin.Context) {
	a, err := h.assessmentService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, a)
}

// POST /api/customer-assessments
func (h *AssessmentHandler) Submit(c *gin.Context) {
	var req services.SubmitAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	a, err := h.assessmentService.Submit(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, a)
}

// POST /api/customer-assessments/:id/approve
func (h *AssessmentHandler) Approve(c *gin.Context) {
	a, err := h.assessmentService.Approve(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, a)
}

// POST /api/customer-assessments/:id/reject
func (h *AssessmentHandler) Reject(c *gin.Context) {
	var req rejectAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	a, err := h.assessmentService.Reject(c.Request.Context(), actorFrom(c), c.Param("id"), req.Remarks)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, a)
}

// EditAndResubmit replaces the answers of a rejected assessment
// PUT /api/customer-assessments/:id
func (h *AssessmentHandler) EditAndResubmit(c *gin.Context) {
	var req editAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	a, err := h.assessmentService.EditAndResubmit(c.Request.Context(), actorFrom(c), c.Param("id"), req.Selections)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, a)
}

// Export streams the assessment as PDF
// GET /api/customer-assessments/:id/export
func (h *AssessmentHandler) Export(c *gin.Context) {
	id := c.Param("id")
	var buf bytes.Buffer
	if err := h.assessmentService.Export(c.Request.Context(), id, &buf); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="assessment-%s.pdf"`, id))
	c.Data(200, "application/pdf", buf.Bytes())
}

// Preview computes scores without storing anything
// POST /api/scoring/preview
func (h *AssessmentHandler) Preview(c *gin.Context) {
	var req services.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.assessmentService.Preview(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"result":  result,
		"display": result.Display(),
	})
}

// LookupCustomer
// GET /api/customers/lookup?customer_id=&nic=
func (h *AssessmentHandler) LookupCustomer(c *gin.Context) {
	lookup, err := h.assessmentService.LookupCustomer(c.Request.Context(), c.Query("customer_id"), c.Query("nic"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"found":         lookup.Found,
		"customer_type": lookup.CustomerType,
		"customer":      lookup.Customer,
	})
}

// ListByCustomer
// GET /api/customers/:customer_id/assessments
func (h *AssessmentHandler) ListByCustomer(c *gin.Context) {
	items, err := h.assessmentService.ListByCustomer(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, items)
}
