package handlers

import (
	"net/http"
	"time"

	"github.com/apresmonbac/orientation/internal/catalog"
	"github.com/apresmonbac/orientation/internal/services"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	svc services.CatalogService
	now func() time.Time
}

func NewCatalogHandler(svc services.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc, now: time.Now}
}

func (h *CatalogHandler) Universities(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Universities(c.Request.Context(), catalog.UniversityFilter{
		Q:        c.Query("q"),
		Type:     c.Query("type"),
		Location: c.Query("location"),
	}))
}

func (h *CatalogHandler) University(c *gin.Context) {
	u, err := h.svc.University(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *CatalogHandler) Filieres(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Filieres(c.Request.Context(), catalog.FiliereFilter{
		Q:        c.Query("q"),
		Category: c.Query("category"),
	}))
}

func (h *CatalogHandler) Filiere(c *gin.Context) {
	d, err := h.svc.Filiere(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *CatalogHandler) Concours(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Concours(c.Request.Context(), catalog.ConcoursFilter{
		Q:      c.Query("q"),
		Domain: c.Query("domain"),
		Now:    h.now(),
	}))
}

func (h *CatalogHandler) Stages(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Stages(c.Request.Context(), catalog.StageFilter{
		Q:      c.Query("q"),
		Domain: c.Query("domain"),
		Type:   c.Query("type"),
	}))
}

func (h *CatalogHandler) Stage(c *gin.Context) {
	p, err := h.svc.Stage(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) Formations(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Formations(c.Request.Context(), catalog.FormationFilter{
		Q:        c.Query("q"),
		Category: c.Query("category"),
		Level:    c.Query("level"),
	}))
}

func (h *CatalogHandler) Conseils(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Conseils(c.Request.Context(), catalog.ConseilFilter{
		Q:        c.Query("q"),
		Category: c.Query("category"),
	}))
}
