package entity

import "time"

// DonorProfile holds the donation details of a donor account.
// A user owns at most one profile (unique on UserID).
type DonorProfile struct {
	ID               int64
	UserID           int64
	BloodGroup       BloodGroup
	Address          string
	IsAvailable      bool
	MedicalNotes     string
	LastDonationDate *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DonorContact joins a profile with the owning user's public details.
type DonorContact struct {
	Profile     DonorProfile
	FirstName   string
	LastName    string
	PhoneNumber string
	IsVerified  bool
}
