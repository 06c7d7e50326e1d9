package services

import (
	"context"
	"time"

	"github.com/apresmonbac/orientation/internal/metrics"
	"github.com/apresmonbac/orientation/internal/models"
	pgrepo "github.com/apresmonbac/orientation/internal/repositories/postgres"
	"github.com/apresmonbac/orientation/internal/storage"
	"github.com/apresmonbac/orientation/internal/utils"
	"github.com/sirupsen/logrus"
)

type SubmissionService interface {
	// Submit validates, persists the record, stores the letter and links it.
	// Either both the record and the object survive, or neither does.
	Submit(ctx context.Context, form ApplicationForm, file Attachment) (*models.Application, error)
}

// PostingLookup resolves internship postings from the catalog.
type PostingLookup interface {
	Posting(id string) (models.Posting, bool)
}

type submissionService struct {
	repo        pgrepo.ApplicationRepository
	store       storage.ObjectStore
	postings    PostingLookup
	log         *logrus.Logger
	metrics     *metrics.Metrics
	callTimeout time.Duration
}

func NewSubmissionService(
	repo pgrepo.ApplicationRepository,
	store storage.ObjectStore,
	postings PostingLookup,
	log *logrus.Logger,
	m *metrics.Metrics,
	callTimeout time.Duration,
) SubmissionService {
	return &submissionService{
		repo:        repo,
		store:       store,
		postings:    postings,
		log:         log,
		metrics:     m,
		callTimeout: callTimeout,
	}
}

func (s *submissionService) Submit(ctx context.Context, form ApplicationForm, file Attachment) (*models.Application, error) {
	const op = "SubmissionService.Submit"

	form.trim()
	if fields := validateSubmission(form, file); fields != nil {
		s.metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return nil, utils.Invalid(op, "invalid application", fields)
	}
	if _, ok := s.postings.Posting(form.StageID); !ok {
		s.metrics.SubmissionsTotal.WithLabelValues("not_found").Inc()
		return nil, utils.E(utils.CodeNotFound, op, "stage not found", nil)
	}

	rec := form.toModel()
	cctx, cancel := detachedCall(ctx, s.callTimeout)
	err := s.repo.Create(cctx, rec)
	cancel()
	if err != nil {
		s.metrics.SubmissionsTotal.WithLabelValues("persistence_error").Inc()
		return nil, utils.E(utils.CodePersistence, op, "failed to save application", err)
	}

	entry := s.log.WithFields(logrus.Fields{
		"op":             op,
		"application_id": rec.ID,
		"stage_id":       rec.StageID,
	})

	var objectName string
	done := false
	defer func() {
		if !done {
			s.rollback(ctx, entry, rec.ID, objectName)
		}
	}()

	key := rec.ID + "/" + utils.SanitizeFilename(file.Filename)
	uctx, cancel := detachedCall(ctx, s.callTimeout)
	storedPath, err := s.store.Upload(uctx, key, pdfContentType, file.Reader)
	cancel()
	if err != nil {
		s.metrics.SubmissionsTotal.WithLabelValues("storage_error").Inc()
		return nil, utils.E(utils.CodeStorage, op, "failed to upload attachment", err)
	}
	objectName = storedPath

	lctx, cancel := detachedCall(ctx, s.callTimeout)
	err = s.repo.AttachFile(lctx, rec.ID, storedPath)
	cancel()
	if err != nil {
		s.metrics.SubmissionsTotal.WithLabelValues("storage_error").Inc()
		return nil, utils.E(utils.CodeStorage, op, "failed to link attachment", err)
	}

	rec.LettreDemandeURL = &storedPath
	done = true

	s.metrics.SubmissionsTotal.WithLabelValues("created").Inc()
	s.metrics.AttachmentSize.Observe(float64(file.Size))
	entry.WithField("object", storedPath).Info("application submitted")
	return rec, nil
}

// rollback undoes the insert, and the upload when there was one. Failures are
// logged only; the caller keeps reporting the original error.
func (s *submissionService) rollback(ctx context.Context, entry *logrus.Entry, id, objectName string) {
	dctx, cancel := detachedCall(ctx, s.callTimeout)
	defer cancel()

	if err := s.repo.Delete(dctx, id); err != nil {
		s.metrics.CompensationsTotal.WithLabelValues("record", "failed").Inc()
		entry.WithError(err).Error("rollback: failed to delete application record")
	} else {
		s.metrics.CompensationsTotal.WithLabelValues("record", "deleted").Inc()
		entry.Warn("rollback: application record deleted")
	}

	if objectName == "" {
		return
	}
	if err := s.store.Delete(dctx, objectName); err != nil {
		s.metrics.CompensationsTotal.WithLabelValues("object", "failed").Inc()
		entry.WithError(err).WithField("object", objectName).Error("rollback: failed to delete uploaded object")
		return
	}
	s.metrics.CompensationsTotal.WithLabelValues("object", "deleted").Inc()
}
