package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blood-donation/config"
	"github.com/oksasatya/go-blood-donation/pkg/helpers"
	"github.com/oksasatya/go-blood-donation/pkg/mailer"
	mailtpl "github.com/oksasatya/go-blood-donation/pkg/mailer/templates"
)

// ErrPermanent marks a message that will never succeed and must not be requeued.
var ErrPermanent = errors.New("permanent email job failure")

// EmailWorker renders queued notification emails and hands them to a Sender.
type EmailWorker struct {
	Sender      mailer.Sender
	Cfg         *config.Config
	Location    *time.Location
	Logger      *logrus.Logger
	SendTimeout time.Duration
}

func NewEmailWorker(sender mailer.Sender, cfg *config.Config, logger *logrus.Logger) *EmailWorker {
	loc := time.UTC
	if cfg != nil && cfg.MailTimezone != "" {
		if l, err := time.LoadLocation(cfg.MailTimezone); err == nil {
			loc = l
		} else if logger != nil {
			logger.WithError(err).WithField("tz", cfg.MailTimezone).Warn("unknown mail timezone, using UTC")
		}
	}
	return &EmailWorker{Sender: sender, Cfg: cfg, Location: loc, Logger: logger, SendTimeout: 15 * time.Second}
}

// Render turns a job into subject, text and html. Raw jobs pass through.
func (w *EmailWorker) Render(job *mailer.EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		return job.Subject, job.Text, job.HTML, nil
	}
	helpers.EnsureRecipientAndEmail(job)
	mailtpl.ApplyBranding(w.Cfg, job.Data)
	helpers.LocalizeTimes(job.Data, w.Location)
	return mailtpl.Render(job.Template, job.Data)
}

// Handle processes one queue message body. Errors wrapping ErrPermanent
// mean the message should be dropped; any other error asks for a retry.
func (w *EmailWorker) Handle(ctx context.Context, body []byte) error {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrPermanent, err)
	}
	if err := helpers.ValidateEmailJob(job); err != nil {
		return fmt.Errorf("%w: %v", ErrPermanent, err)
	}
	subject, text, html, err := w.Render(&job)
	if err != nil {
		return fmt.Errorf("%w: render %s: %v", ErrPermanent, job.Template, err)
	}

	c, cancel := context.WithTimeout(ctx, w.SendTimeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	if w.Logger != nil {
		w.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	}
	return nil
}
