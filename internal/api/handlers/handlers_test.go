package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/apresmonbac/orientation/internal/catalog"
	"github.com/apresmonbac/orientation/internal/logger"
	"github.com/apresmonbac/orientation/internal/metrics"
	"github.com/apresmonbac/orientation/internal/models"
	"github.com/apresmonbac/orientation/internal/services"
	"github.com/apresmonbac/orientation/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

type fakeSubmission struct {
	mu       sync.Mutex
	calls    int
	form     services.ApplicationForm
	att      services.Attachment
	body     []byte
	err      error
	received *models.Application
}

func (f *fakeSubmission) Submit(_ context.Context, form services.ApplicationForm, att services.Attachment) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.form = form
	f.att = att
	if att.Reader != nil {
		f.body, _ = io.ReadAll(att.Reader)
	}
	if f.err != nil {
		return nil, f.err
	}
	path := "app-1/lettre.pdf"
	f.received = &models.Application{
		ID:               "app-1",
		StageID:          form.StageID,
		Nom:              form.Nom,
		Prenoms:          form.Prenoms,
		Email:            form.Email,
		LettreDemandeURL: &path,
		CreatedAt:        time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	return f.received, nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	calls   int
	app     models.Application
	posting models.Posting
	report  models.DispatchReport
}

func (f *fakeNotifier) Notify(_ context.Context, app models.Application, posting models.Posting) models.DispatchReport {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.app = app
	f.posting = posting
	return f.report
}

func sentReport(successful int) models.DispatchReport {
	return models.DispatchReport{
		Success:          successful > 0,
		TotalEmails:      3,
		SuccessfulEmails: successful,
		FailedEmails:     3 - successful,
		Errors:           []string{},
	}
}

func newCatalogService(t *testing.T) services.CatalogService {
	t.Helper()
	store, err := catalog.Load("")
	require.NoError(t, err)
	return services.NewCatalogService(store, nil, time.Minute, logger.Discard(), metrics.New())
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// multipartBody builds a submission form. A nil file omits the letter part.
func multipartBody(t *testing.T, fields map[string]string, filename, contentType string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="lettre_demande"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{
		"nom":               "Houngbo",
		"prenoms":           "Afi Reine",
		"sexe":              "feminin",
		"email":             "afi@example.com",
		"telephone":         "+22997000000",
		"ecole":             "EPAC",
		"filiere":           "Génie Informatique",
		"annee_etude":       "Licence 3",
		"temps_stage":       "3 mois",
		"date_debut":        "2026-07-01",
		"lettre_motivation": "Je souhaite rejoindre votre équipe pour mettre en pratique mes compétences.",
	}
}

func assertAPIError(t *testing.T, rec *httptest.ResponseRecorder, status int, code utils.Code) APIError {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	e := decode[APIError](t, rec)
	require.Equal(t, code, e.Code)
	return e
}
