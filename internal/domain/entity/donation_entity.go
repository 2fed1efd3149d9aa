package entity

import "time"

type DonationStatus string

const (
	DonationPending   DonationStatus = "Pending"
	DonationConfirmed DonationStatus = "Confirmed"
	DonationCompleted DonationStatus = "Completed"
	DonationCancelled DonationStatus = "Cancelled"
)

// Donation is a donor's response to a blood request, not a transfusion.
// At most one exists per (RequestID, DonorID).
type Donation struct {
	ID        int64
	RequestID int64
	DonorID   int64
	Status    DonationStatus
	CreatedAt time.Time
}
