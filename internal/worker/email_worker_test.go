package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blood-donation/config"
	"github.com/oksasatya/go-blood-donation/pkg/mailer"
	mailtpl "github.com/oksasatya/go-blood-donation/pkg/mailer/templates"
)

type sentMail struct{ to, subject, text, html string }

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, text, html})
	return nil
}

func newWorker(sender mailer.Sender) *EmailWorker {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := &config.Config{AppName: "BloodLink", CompanyName: "PMI Bandung", DashboardURL: "https://app.example/dashboard", MailTimezone: "UTC"}
	return NewEmailWorker(sender, cfg, logger)
}

func encode(t *testing.T, job mailer.EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestHandle_RendersNotification(t *testing.T) {
	sender := &fakeSender{}
	w := newWorker(sender)
	w.Location = time.FixedZone("WIB", 7*3600)
	at := time.Date(2024, 5, 1, 3, 30, 0, 0, time.UTC)

	job := mailer.EmailJob{
		To:       "budi@example.com",
		Template: mailtpl.Notification,
		Data: mailtpl.NewNotificationData("Budi", "", "Urgent Blood Request - O-",
			"Patient Andi needs 2 units of O- blood at RS Harapan. Urgency: Critical",
			mailtpl.WithSeverity("critical"), mailtpl.WithTime(at)),
	}
	require.NoError(t, w.Handle(context.Background(), encode(t, job)))
	require.Len(t, sender.sent, 1)

	m := sender.sent[0]
	assert.Equal(t, "budi@example.com", m.to)
	assert.Equal(t, "[BloodLink] Urgent Blood Request - O-", m.subject)
	assert.Contains(t, m.text, "Hi Budi,")
	assert.Contains(t, m.text, "Urgency: Critical")
	assert.Contains(t, m.text, "01 May 2024, 10:30 WIB")
	assert.Contains(t, m.text, "https://app.example/dashboard")
	assert.Contains(t, m.html, "#c62828")
	assert.Contains(t, m.html, "PMI Bandung")
}

func TestHandle_RawJobPassesThrough(t *testing.T) {
	sender := &fakeSender{}
	w := newWorker(sender)
	job := mailer.EmailJob{To: "a@example.com", Subject: "Hello", Text: "plain"}

	require.NoError(t, w.Handle(context.Background(), encode(t, job)))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Hello", sender.sent[0].subject)
	assert.Equal(t, "plain", sender.sent[0].text)
}

func TestHandle_PermanentFailures(t *testing.T) {
	w := newWorker(&fakeSender{})
	cases := map[string][]byte{
		"bad json":       []byte("{"),
		"no recipient":   encode(t, mailer.EmailJob{Template: mailtpl.Notification}),
		"empty raw job":  encode(t, mailer.EmailJob{To: "a@example.com"}),
		"missing layout": encode(t, mailer.EmailJob{To: "a@example.com", Template: "nope"}),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			err := w.Handle(context.Background(), body)
			assert.ErrorIs(t, err, ErrPermanent)
		})
	}
}

func TestHandle_SendErrorIsRetryable(t *testing.T) {
	w := newWorker(&fakeSender{err: errors.New("mailgun 503")})
	err := w.Handle(context.Background(), encode(t, mailer.EmailJob{To: "a@example.com", Subject: "s", Text: "t"}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPermanent)
}

func TestNewEmailWorker_UnknownTimezone(t *testing.T) {
	w := NewEmailWorker(&fakeSender{}, &config.Config{MailTimezone: "Mars/Olympus"}, nil)
	assert.Equal(t, time.UTC, w.Location)
}
