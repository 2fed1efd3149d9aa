package templates

import (
	"fmt"
	"strings"
	"time"

	"github.com/oksasatya/go-blood-donation/config"
)

// TimeLayout is how times are printed in emails.
const TimeLayout = "02 January 2006, 15:04 MST"

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format(TimeLayout)
	}
}

func WithSeverity(s string) Option     { return func(d *EmailData) { d.Severity = s } }
func WithDashboardURL(u string) Option { return func(d *EmailData) { d.DashboardURL = u } }

// NewNotificationData builds the payload for the notification template.
// Branding is added later by the worker, see ApplyBranding.
func NewNotificationData(name, email, title, message string, opts ...Option) map[string]any {
	d := EmailData{
		Name:    name,
		Email:   email,
		Title:   title,
		Message: message,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}

// ApplyBranding fills empty company and link fields from cfg.
func ApplyBranding(cfg *config.Config, data map[string]any) {
	if cfg == nil || data == nil {
		return
	}
	set := func(key, val string) {
		if v, ok := data[key]; !ok || v == nil || strings.TrimSpace(fmt.Sprint(v)) == "" {
			data[key] = val
		}
	}
	set("AppName", cfg.AppName)
	set("CompanyName", cfg.CompanyName)
	set("CompanyAddress", cfg.CompanyAddress)
	set("LogoURL", cfg.LogoURL)
	set("SupportURL", cfg.SupportURL)
	set("DashboardURL", cfg.DashboardURL)
}
