package handlers

import (
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/services"
	"github.com/Tharnickanth/credit-ratings-model-sub000/pkg/response"
	"github.com/gin-gonic/gin"
)

type ActivityLogHandler struct {
	service *services.ActivityLogService
}

func NewActivityLogHandler(service *services.ActivityLogService) *ActivityLogHandler {
	return &ActivityLogHandler{service: service}
}

// GET /api/activity-logs
func (h *ActivityLogHandler) List(c *gin.Context) {
	var req services.ActivityLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.List(c.Request.Context(), &req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, resp)
}

// GET /api/activity-logs/modules
func (h *ActivityLogHandler) GetModules(c *gin.Context) {
	modules, err := h.service.GetModules(c.Request.Context())
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, modules)
}
