package handlers

import (
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/services"
	"github.com/Tharnickanth/credit-ratings-model-sub000/pkg/response"
	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	templateService *services.TemplateService
}

func NewTemplateHandler(templateService *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

type decisionRequest struct {
	Comments string `json:"comments"`
}

type resubmitTemplateRequest struct {
	Content *services.TemplateContent `json:"content"`
}

type templateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive"`
}

// List returns paginated templates
// GET /api/templates
func (h *TemplateHandler) List(c *gin.Context) {
	var req services.TemplateListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.templateService.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, resp)
}

// ListSelectable returns approved, active templates
// GET /api/templates/selectable
func (h *TemplateHandler) ListSelectable(c *gin.Context) {
	items, err := h.templateService.ListSelectable(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, items)
}

// GET /api/templates/:id
func (h *TemplateHandler) GetByID(c *gin.Context) {
	tpl, err := h.templateService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, tpl)
}

// POST /api/templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var req services.TemplateContent
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tpl, err := h.templateService.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, tpl)
}

// PUT /api/templates/:id
func (h *TemplateHandler) Update(c *gin.Context) {
	var req services.TemplateContent
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tpl, err := h.templateService.Update(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, tpl)
}

// POST /api/templates/:id/approve
func (h *TemplateHandler) Approve(c *gin.Context) {
	var req decisionRequest
	// comments are optional on approval
	_ = c.ShouldBindJSON(&req)

	tpl, err := h.templateService.Approve(c.Request.Context(), actorFrom(c), c.Param("id"), req.Comments)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, tpl)
}

// POST /api/templates/:id/reject
func (h *TemplateHandler) Reject(c *gin.Context) {
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tpl, err := h.templateService.Reject(c.Request.Context(), actorFrom(c), c.Param("id"), req.Comments)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, tpl)
}

// POST /api/templates/:id/resubmit
func (h *TemplateHandler) Resubmit(c *gin.Context) {
	var req resubmitTemplateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	tpl, err := h.templateService.Resubmit(c.Request.Context(), actorFrom(c), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, tpl)
}

// PUT /api/templates/:id/status
func (h *TemplateHandler) SetStatus(c *gin.Context) {
	var req templateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tpl, err := h.templateService.SetStatus(c.Request.Context(), actorFrom(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, tpl)
}

// DELETE /api/templates/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.templateService.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "deleted"})
}
