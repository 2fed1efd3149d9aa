package entity

import "time"

// Severity is stored in notifications.type.
type Severity string

const (
	SeverityCritical      Severity = "critical"
	SeverityInformational Severity = "informational"
	SeveritySuccess       Severity = "success"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityInformational, SeveritySuccess:
		return true
	}
	return false
}

// SeverityFor maps request urgency to the notification severity.
func SeverityFor(u Urgency) Severity {
	if u.IsHighest() {
		return SeverityCritical
	}
	return SeverityInformational
}

type Notification struct {
	ID        int64
	UserID    int64
	Title     string
	Message   string
	Type      Severity
	IsRead    bool
	CreatedAt time.Time
}
