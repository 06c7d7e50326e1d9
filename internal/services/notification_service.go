package services

import (
	"context"
	"fmt"
	"time"

	"github.com/apresmonbac/orientation/internal/metrics"
	"github.com/apresmonbac/orientation/internal/models"
	"github.com/apresmonbac/orientation/internal/providers/email"
	"github.com/apresmonbac/orientation/internal/utils"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
)

const (
	DefaultMaxAttempts = 2
	DefaultBackoffUnit = time.Second
)

type NotificationService interface {
	// Notify sends the company, candidate and admin e-mails. It never fails:
	// every problem ends up in the returned report.
	Notify(ctx context.Context, app models.Application, posting models.Posting) models.DispatchReport
}

type NotificationConfig struct {
	From         string
	AdminAddress string
	MaxAttempts  int
	BackoffUnit  time.Duration
	CallTimeout  time.Duration
}

type notificationService struct {
	sender  email.Sender
	cfg     NotificationConfig
	log     *logrus.Logger
	metrics *metrics.Metrics
}

func NewNotificationService(sender email.Sender, cfg NotificationConfig, log *logrus.Logger, m *metrics.Metrics) NotificationService {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BackoffUnit < 0 {
		cfg.BackoffUnit = DefaultBackoffUnit
	}
	return &notificationService{sender: sender, cfg: cfg, log: log, metrics: m}
}

func (s *notificationService) Notify(ctx context.Context, app models.Application, posting models.Posting) models.DispatchReport {
	const op = "NotificationService.Notify"

	entry := s.log.WithFields(logrus.Fields{
		"op":             op,
		"application_id": app.ID,
		"stage_id":       posting.ID,
	})

	report := models.DispatchReport{TotalEmails: len(models.Roles)}
	for _, role := range models.Roles {
		report.Outcome(role).Status = models.DeliveryPending
	}

	if bad := s.checkAddresses(app, posting); len(bad) > 0 {
		report.ValidationFailed = true
		for _, role := range models.Roles {
			msg, ok := bad[role]
			if !ok {
				continue
			}
			o := report.Outcome(role)
			o.Status = models.DeliveryFailed
			o.Error = msg
			report.Errors = append(report.Errors, string(role)+": "+msg)
		}
		entry.WithField("errors", report.Errors).Warn("notification skipped: invalid address")
		return report
	}

	msgs, err := s.compose(app, posting)
	if err != nil {
		for _, role := range models.Roles {
			o := report.Outcome(role)
			o.Status = models.DeliveryFailed
			o.Error = "render: " + err.Error()
		}
		s.tally(&report)
		entry.WithError(err).Error("notification skipped: template rendering failed")
		return report
	}

	base := context.WithoutCancel(ctx)
	outcomes := make([]models.NotificationOutcome, len(models.Roles))

	var wg conc.WaitGroup
	for i, role := range models.Roles {
		outcomes[i] = models.NotificationOutcome{Role: role, Status: models.DeliveryPending}
		msg := msgs[role]
		wg.Go(func() {
			outcomes[i] = s.deliver(base, entry, role, msg)
		})
	}
	if rec := wg.WaitAndRecover(); rec != nil {
		entry.WithField("panic", rec.String()).Error("notification send panicked")
	}

	for _, o := range outcomes {
		if o.Status != models.DeliverySent && o.Status != models.DeliveryFailed {
			o.Status = models.DeliveryFailed
			o.Error = "send aborted"
		}
		*report.Outcome(o.Role) = o
		s.metrics.EmailsTotal.WithLabelValues(string(o.Role), string(o.Status)).Inc()
	}
	s.tally(&report)

	entry.WithFields(logrus.Fields{
		"successful": report.SuccessfulEmails,
		"failed":     report.FailedEmails,
	}).Info("notification dispatched")
	return report
}

func (s *notificationService) checkAddresses(app models.Application, posting models.Posting) map[models.RecipientRole]string {
	bad := map[models.RecipientRole]string{}
	if !utils.ValidEmail(posting.ContactEmail) {
		bad[models.RoleCompany] = fmt.Sprintf("invalid email address %q", posting.ContactEmail)
	}
	if !utils.ValidEmail(app.Email) {
		bad[models.RoleCandidate] = fmt.Sprintf("invalid email address %q", app.Email)
	}
	return bad
}

func (s *notificationService) compose(app models.Application, posting models.Posting) (map[models.RecipientRole]email.Message, error) {
	view := newMailView(app, posting)

	company, err := render(companyMail, view)
	if err != nil {
		return nil, err
	}
	candidate, err := render(candidateMail, view)
	if err != nil {
		return nil, err
	}
	admin, err := render(adminMail, view)
	if err != nil {
		return nil, err
	}

	name := app.Prenoms + " " + app.Nom
	return map[models.RecipientRole]email.Message{
		models.RoleCompany: {
			From:    s.cfg.From,
			To:      []string{posting.ContactEmail},
			ReplyTo: app.Email,
			Subject: "Nouvelle candidature de stage - " + name,
			HTML:    company,
		},
		models.RoleCandidate: {
			From:    s.cfg.From,
			To:      []string{app.Email},
			Subject: "Confirmation de votre candidature de stage",
			HTML:    candidate,
		},
		models.RoleAdmin: {
			From:    s.cfg.From,
			To:      []string{s.cfg.AdminAddress},
			Subject: "Nouvelle candidature reçue - " + name,
			HTML:    admin,
		},
	}, nil
}

// deliver sends one message with bounded retries: pending -> sending -> sent|failed.
func (s *notificationService) deliver(ctx context.Context, entry *logrus.Entry, role models.RecipientRole, msg email.Message) models.NotificationOutcome {
	out := models.NotificationOutcome{Role: role, Status: models.DeliverySending}
	log := entry.WithField("role", role)

	var id string
	attempt := func() error {
		out.Attempts++
		cctx, cancel := detachedCall(ctx, s.cfg.CallTimeout)
		defer cancel()

		var err error
		id, err = s.sender.Send(cctx, msg)
		return err
	}
	onRetry := func(err error, wait time.Duration) {
		log.WithError(err).WithFields(logrus.Fields{
			"attempt": out.Attempts,
			"wait_ms": wait.Milliseconds(),
		}).Warn("email send failed, retrying")
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(&linearBackOff{unit: s.cfg.BackoffUnit}, uint64(s.cfg.MaxAttempts-1)),
		ctx,
	)
	err := backoff.RetryNotify(attempt, policy, onRetry)

	s.metrics.EmailAttempts.WithLabelValues(string(role)).Observe(float64(out.Attempts))
	if err != nil {
		out.Status = models.DeliveryFailed
		out.Error = err.Error()
		log.WithError(err).WithField("attempts", out.Attempts).Error("email send failed")
		return out
	}
	out.Status = models.DeliverySent
	out.ID = id
	return out
}

func (s *notificationService) tally(r *models.DispatchReport) {
	r.SuccessfulEmails, r.FailedEmails = 0, 0
	r.Errors = nil
	for _, role := range models.Roles {
		o := r.Outcome(role)
		if o.Sent() {
			r.SuccessfulEmails++
			continue
		}
		r.FailedEmails++
		if o.Error != "" {
			r.Errors = append(r.Errors, string(role)+": "+o.Error)
		}
	}
	r.Success = r.SuccessfulEmails > 0
}

// linearBackOff waits n*unit before retry n.
type linearBackOff struct {
	unit time.Duration
	n    int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return time.Duration(b.n) * b.unit
}

func (b *linearBackOff) Reset() { b.n = 0 }
