package handlers

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/apresmonbac/orientation/internal/models"
	"github.com/apresmonbac/orientation/internal/services"
	"github.com/apresmonbac/orientation/internal/utils"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	letterField = "lettre_demande"

	// requests above this are rejected before parsing; letters between the
	// attachment limit and this still get a field-level message.
	maxSubmissionBody = 2*services.MaxAttachmentSize + 1<<20

	sniffLen = 3072
)

const noEmailWarning = "Votre candidature a bien été enregistrée, mais aucun email de confirmation n'a pu être envoyé."

type SubmissionHandler struct {
	submit  services.SubmissionService
	notify  services.NotificationService
	catalog services.CatalogService
}

func NewSubmissionHandler(submit services.SubmissionService, notify services.NotificationService, catalog services.CatalogService) *SubmissionHandler {
	return &SubmissionHandler{submit: submit, notify: notify, catalog: catalog}
}

type SubmissionResponse struct {
	Application         *models.Application   `json:"application"`
	Notification        models.DispatchReport `json:"notification"`
	NotificationWarning string                `json:"notification_warning,omitempty"`
}

func (h *SubmissionHandler) Submit(c *gin.Context) {
	const op = "SubmissionHandler.Submit"

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmissionBody)

	var form services.ApplicationForm
	if err := c.ShouldBindWith(&form, binding.FormMultipart); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(c, utils.Invalid(op, "request too large", map[string]string{
				letterField: "Le fichier ne doit pas dépasser 5MB",
			}))
			return
		}
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid multipart body", err))
		return
	}
	form.StageID = c.Param("id")

	var att services.Attachment
	fh, err := c.FormFile(letterField)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// left empty, reported by validation with the other fields
	case err != nil:
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid multipart body", err))
		return
	default:
		file, err := fh.Open()
		if err != nil {
			writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
			return
		}
		defer file.Close()

		att, err = openAttachment(fh, file)
		if err != nil {
			writeError(c, utils.E(utils.CodeInternal, op, "failed to read upload", err))
			return
		}
	}

	rec, err := h.submit.Submit(c.Request.Context(), form, att)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := SubmissionResponse{Application: rec}
	posting, err := h.catalog.Stage(c.Request.Context(), rec.StageID)
	if err != nil {
		// the posting resolved a moment ago; only a catalog swap gets here
		resp.NotificationWarning = noEmailWarning
		c.JSON(http.StatusCreated, resp)
		return
	}

	resp.Notification = h.notify.Notify(c.Request.Context(), *rec, *posting)
	if resp.Notification.SuccessfulEmails == 0 {
		resp.NotificationWarning = noEmailWarning
	}
	c.JSON(http.StatusCreated, resp)
}

// openAttachment sniffs the head of the upload and rebuilds the full stream.
// A declared non-PDF type wins; otherwise the content decides.
func openAttachment(fh *multipart.FileHeader, file io.Reader) (services.Attachment, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return services.Attachment{}, err
	}
	head = head[:n]

	declared := strings.ToLower(strings.TrimSpace(strings.SplitN(fh.Header.Get("Content-Type"), ";", 2)[0]))

	ct := mimetype.Detect(head).String()
	if declared != "" && declared != "application/pdf" && declared != "application/octet-stream" {
		ct = declared
	}

	return services.Attachment{
		Filename:    fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
		Reader:      &readJoin{a: bytes.NewReader(head), b: file},
	}, nil
}

type readJoin struct {
	a *bytes.Reader
	b io.Reader
}

func (r *readJoin) Read(p []byte) (int, error) {
	if r.a != nil && r.a.Len() > 0 {
		return r.a.Read(p)
	}
	return r.b.Read(p)
}
