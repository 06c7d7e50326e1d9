package handlers

import (
	"net/http"

	"github.com/apresmonbac/orientation/internal/services"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	svc services.ApplicationService
}

func NewAdminHandler(svc services.ApplicationService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) ListApplications(c *gin.Context) {
	const op = "AdminHandler.ListApplications"

	limit, ok := queryInt(c, op, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(c, op, "offset")
	if !ok {
		return
	}

	page, err := h.svc.List(c.Request.Context(), c.Query("stage_id"), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *AdminHandler) GetApplication(c *gin.Context) {
	v, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}
