package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/apresmonbac/orientation/internal/models"
	"github.com/apresmonbac/orientation/internal/services"
	"github.com/apresmonbac/orientation/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type NotificationHandler struct {
	svc services.NotificationService
}

func NewNotificationHandler(svc services.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// applicationPayload mirrors models.Application with the dates kept as
// strings: clients send either plain dates or full timestamps.
type applicationPayload struct {
	ID               string  `json:"id"`
	StageID          string  `json:"stage_id"`
	Nom              string  `json:"nom"`
	Prenoms          string  `json:"prenoms"`
	Sexe             string  `json:"sexe"`
	Email            string  `json:"email"`
	Telephone        string  `json:"telephone"`
	Ecole            string  `json:"ecole"`
	Universite       *string `json:"universite"`
	Filiere          string  `json:"filiere"`
	AnneeEtude       string  `json:"annee_etude"`
	TempsStage       string  `json:"temps_stage"`
	DateDebut        string  `json:"date_debut"`
	LettreMotivation string  `json:"lettre_motivation"`
	LettreDemandeURL *string `json:"lettre_demande_url"`
	CreatedAt        string  `json:"created_at"`
}

type NotifyRequest struct {
	Application *applicationPayload `json:"application"`
	Posting     *models.Posting     `json:"posting"`
	Stage       *models.Posting     `json:"stage"` // older clients
}

func (h *NotificationHandler) Send(c *gin.Context) {
	const op = "NotificationHandler.Send"

	var req NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}
	posting := req.Posting
	if posting == nil {
		posting = req.Stage
	}
	if req.Application == nil || posting == nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "application and posting are required", nil))
		return
	}

	report := h.svc.Notify(c.Request.Context(), req.Application.toModel(), *posting)

	status := http.StatusOK
	switch {
	case report.ValidationFailed:
		status = http.StatusBadRequest
	case report.SuccessfulEmails == 0:
		status = http.StatusBadGateway
	}
	c.JSON(status, report)
}

func (p applicationPayload) toModel() models.Application {
	a := models.Application{
		ID:               p.ID,
		StageID:          p.StageID,
		Nom:              p.Nom,
		Prenoms:          p.Prenoms,
		Sexe:             models.Sexe(p.Sexe),
		Email:            strings.TrimSpace(p.Email),
		Telephone:        p.Telephone,
		Ecole:            p.Ecole,
		Universite:       p.Universite,
		Filiere:          p.Filiere,
		AnneeEtude:       p.AnneeEtude,
		TempsStage:       p.TempsStage,
		LettreMotivation: p.LettreMotivation,
		LettreDemandeURL: p.LettreDemandeURL,
	}
	if t, ok := parseLenientTime(p.DateDebut); ok {
		a.DateDebut = datatypes.Date(t)
	}
	a.CreatedAt = time.Now().UTC()
	if t, ok := parseLenientTime(p.CreatedAt); ok {
		a.CreatedAt = t
	}
	return a
}

var lenientLayouts = []string{time.RFC3339Nano, time.DateTime, time.DateOnly}

func parseLenientTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range lenientLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
