package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-blood-donation/internal/application"
	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
)

func userView(u *entity.User) gin.H {
	return gin.H{
		"id":           u.ID,
		"email":        u.Email,
		"first_name":   u.FirstName,
		"last_name":    u.LastName,
		"phone_number": u.PhoneNumber,
		"role":         u.Role.String(),
		"is_verified":  u.IsVerified,
		"avatar_url":   u.AvatarURL,
		"created_at":   u.CreatedAt,
		"updated_at":   u.UpdatedAt,
	}
}

func usersView(us []entity.User) []gin.H {
	out := make([]gin.H, 0, len(us))
	for i := range us {
		out = append(out, userView(&us[i]))
	}
	return out
}

func donorProfileView(p *entity.DonorProfile) gin.H {
	if p == nil {
		return nil
	}
	var last *string
	if p.LastDonationDate != nil {
		s := p.LastDonationDate.Format(time.DateOnly)
		last = &s
	}
	return gin.H{
		"id":                 p.ID,
		"user_id":            p.UserID,
		"blood_group":        p.BloodGroup.String(),
		"address":            p.Address,
		"is_available":       p.IsAvailable,
		"medical_notes":      p.MedicalNotes,
		"last_donation_date": last,
		"created_at":         p.CreatedAt,
		"updated_at":         p.UpdatedAt,
	}
}

func donorContactsView(ds []entity.DonorContact) []gin.H {
	out := make([]gin.H, 0, len(ds))
	for _, d := range ds {
		out = append(out, gin.H{
			"user_id":      d.Profile.UserID,
			"first_name":   d.FirstName,
			"last_name":    d.LastName,
			"phone_number": d.PhoneNumber,
			"blood_group":  d.Profile.BloodGroup.String(),
			"address":      d.Profile.Address,
			"is_available": d.Profile.IsAvailable,
			"is_verified":  d.IsVerified,
		})
	}
	return out
}

func requestView(r *entity.BloodRequest) gin.H {
	return gin.H{
		"id":                r.ID,
		"requester_id":      r.RequesterID,
		"patient_name":      r.PatientName,
		"blood_group":       r.BloodGroup.String(),
		"quantity_required": r.QuantityRequired,
		"urgency_level":     string(r.UrgencyLevel),
		"hospital_name":     r.HospitalName,
		"hospital_address":  r.HospitalAddress,
		"contact_number":    r.ContactNumber,
		"notes":             r.Notes,
		"status":            string(r.Status),
		"created_at":        r.CreatedAt,
	}
}

func requestsView(rs []entity.BloodRequest) []gin.H {
	out := make([]gin.H, 0, len(rs))
	for i := range rs {
		out = append(out, requestView(&rs[i]))
	}
	return out
}

func donationsView(ds []entity.Donation) []gin.H {
	out := make([]gin.H, 0, len(ds))
	for _, d := range ds {
		out = append(out, gin.H{
			"id":         d.ID,
			"request_id": d.RequestID,
			"donor_id":   d.DonorID,
			"status":     string(d.Status),
			"created_at": d.CreatedAt,
		})
	}
	return out
}

func notificationsView(ns []entity.Notification) []gin.H {
	out := make([]gin.H, 0, len(ns))
	for _, n := range ns {
		out = append(out, gin.H{
			"id":         n.ID,
			"title":      n.Title,
			"message":    n.Message,
			"type":       string(n.Type),
			"is_read":    n.IsRead,
			"created_at": n.CreatedAt,
		})
	}
	return out
}

func dashboardView(d *application.Dashboard) gin.H {
	out := gin.H{"role": d.Role.String()}
	switch {
	case d.Donor != nil:
		out["profile"] = donorProfileView(d.Donor.Profile)
		out["profile_required"] = d.Donor.Profile == nil
		out["recent_requests"] = requestsView(d.Donor.RecentRequests)
		out["my_donations"] = donationsView(d.Donor.MyDonations)
	case d.Requester != nil:
		out["my_requests"] = requestsView(d.Requester.MyRequests)
	case d.Admin != nil:
		out["total_users"] = d.Admin.TotalUsers
		out["total_donors"] = d.Admin.TotalDonors
		out["active_requests"] = d.Admin.ActiveRequests
		out["recent_donations"] = donationsView(d.Admin.RecentDonations)
	}
	return out
}
