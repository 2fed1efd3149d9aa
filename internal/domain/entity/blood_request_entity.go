package entity

import (
	"errors"
	"strings"
	"time"
)

// Urgency is ordered: Critical > High > Normal.
type Urgency string

const (
	UrgencyNormal   Urgency = "Normal"
	UrgencyHigh     Urgency = "High"
	UrgencyCritical Urgency = "Critical"
)

var ErrInvalidUrgency = errors.New("invalid urgency level")

func Urgencies() []Urgency {
	return []Urgency{UrgencyCritical, UrgencyHigh, UrgencyNormal}
}

func ParseUrgency(s string) (Urgency, error) {
	for _, u := range Urgencies() {
		if strings.EqualFold(strings.TrimSpace(s), string(u)) {
			return u, nil
		}
	}
	return "", ErrInvalidUrgency
}

// Rank gives the severity order; 0 means invalid.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyCritical:
		return 3
	case UrgencyHigh:
		return 2
	case UrgencyNormal:
		return 1
	}
	return 0
}

func (u Urgency) Valid() bool { return u.Rank() > 0 }

// IsHighest reports whether u is the top severity level.
func (u Urgency) IsHighest() bool { return u == UrgencyCritical }

// RequestStatus is the lifecycle state of a BloodRequest.
type RequestStatus string

const (
	RequestActive    RequestStatus = "Active"
	RequestFulfilled RequestStatus = "Fulfilled"
	RequestCancelled RequestStatus = "Cancelled"
)

var ErrInvalidRequestStatus = errors.New("invalid request status")

func ParseRequestStatus(s string) (RequestStatus, error) {
	for _, st := range []RequestStatus{RequestActive, RequestFulfilled, RequestCancelled} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", ErrInvalidRequestStatus
}

// Closed reports whether the status ends the request lifecycle.
func (s RequestStatus) Closed() bool {
	return s == RequestFulfilled || s == RequestCancelled
}

// BloodRequest is immutable after creation except for Status.
type BloodRequest struct {
	ID               int64
	RequesterID      int64
	PatientName      string
	BloodGroup       BloodGroup
	QuantityRequired int
	UrgencyLevel     Urgency
	HospitalName     string
	HospitalAddress  string
	ContactNumber    string
	Notes            string
	Status           RequestStatus
	CreatedAt        time.Time
}
