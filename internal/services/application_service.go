package services

import (
	"context"
	"errors"
	"time"

	"github.com/apresmonbac/orientation/internal/models"
	pgrepo "github.com/apresmonbac/orientation/internal/repositories/postgres"
	"github.com/apresmonbac/orientation/internal/storage"
	"github.com/apresmonbac/orientation/internal/utils"
	"github.com/sirupsen/logrus"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
	signedURLTTL     = 15 * time.Minute
)

type ApplicationPage struct {
	Items  []models.Application `json:"items"`
	Total  int64                `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

type ApplicationView struct {
	models.Application
	LettreDemandeSignedURL string     `json:"lettre_demande_signed_url,omitempty"`
	SignedURLExpiresAt     *time.Time `json:"signed_url_expires_at,omitempty"`
}

// ApplicationService is the read side used by administrators.
type ApplicationService interface {
	List(ctx context.Context, stageID string, limit, offset int) (*ApplicationPage, error)
	Get(ctx context.Context, id string) (*ApplicationView, error)
}

type applicationService struct {
	repo   pgrepo.ApplicationRepository
	signer storage.Signer
	log    *logrus.Logger
}

// NewApplicationService takes an optional signer; without one no download
// link is produced.
func NewApplicationService(repo pgrepo.ApplicationRepository, signer storage.Signer, log *logrus.Logger) ApplicationService {
	return &applicationService{repo: repo, signer: signer, log: log}
}

func (s *applicationService) List(ctx context.Context, stageID string, limit, offset int) (*ApplicationPage, error) {
	const op = "ApplicationService.List"

	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, total, err := s.repo.List(ctx, pgrepo.ApplicationFilter{StageID: stageID, Limit: limit, Offset: offset})
	if err != nil {
		return nil, utils.E(utils.CodePersistence, op, "failed to list applications", err)
	}
	return &ApplicationPage{Items: rows, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *applicationService) Get(ctx context.Context, id string) (*ApplicationView, error) {
	const op = "ApplicationService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "id is required", nil)
	}
	row, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodePersistence, op, "failed to load application", err)
	}

	view := &ApplicationView{Application: *row}
	if s.signer == nil || row.LettreDemandeURL == nil {
		return view, nil
	}

	url, err := s.signer.SignedGetURL(ctx, *row.LettreDemandeURL, signedURLTTL)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"op": op, "application_id": id}).Warn("failed to sign attachment url")
		return view, nil
	}
	exp := time.Now().Add(signedURLTTL).UTC()
	view.LettreDemandeSignedURL = url
	view.SignedURLExpiresAt = &exp
	return view, nil
}
