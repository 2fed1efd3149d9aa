package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blood-donation/internal/application"
	"github.com/oksasatya/go-blood-donation/pkg/response"
	"github.com/oksasatya/go-blood-donation/pkg/validation"
)

type DonorHandler struct {
	Donors    *application.DonorService
	Donations *application.DonationService
	Logger    *logrus.Logger
}

func NewDonorHandler(donors *application.DonorService, donations *application.DonationService, logger *logrus.Logger) *DonorHandler {
	return &DonorHandler{Donors: donors, Donations: donations, Logger: logger}
}

type donorProfileRequest struct {
	BloodGroup       string `json:"blood_group" binding:"required,bloodgroup"`
	Address          string `json:"address" binding:"max=500"`
	IsAvailable      *bool  `json:"is_available"`
	MedicalNotes     string `json:"medical_notes" binding:"max=2000"`
	LastDonationDate string `json:"last_donation_date" binding:"omitempty,datetime=2006-01-02"`
}

// GetProfile GET /api/donor/profile
func (h *DonorHandler) GetProfile(c *gin.Context) {
	a, ok := actorOrAbort(c)
	if !ok {
		return
	}
	p, err := h.Donors.GetProfile(c.Request.Context(), a)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, donorProfileView(p), "donor profile", nil))
}

// UpsertProfile PUT /api/donor/profile
func (h *DonorHandler) UpsertProfile(c *gin.Context) {
	a, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req donorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Send(c, response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err)))
		return
	}
	in := application.UpsertDonorProfileInput{
		BloodGroup:   req.BloodGroup,
		Address:      req.Address,
		IsAvailable:  req.IsAvailable,
		MedicalNotes: req.MedicalNotes,
	}
	if req.LastDonationDate != "" {
		// already checked by the datetime tag
		d, _ := time.Parse(time.DateOnly, req.LastDonationDate)
		in.LastDonationDate = &d
	}
	p, err := h.Donors.UpsertProfile(c.Request.Context(), a, in)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, donorProfileView(p), "donor profile saved", nil))
}

// ToggleAvailability POST /api/donor/availability/toggle
func (h *DonorHandler) ToggleAvailability(c *gin.Context) {
	a, ok := actorOrAbort(c)
	if !ok {
		return
	}
	p, err := h.Donors.ToggleAvailability(c.Request.Context(), a)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	msg := "you are now unavailable for donations"
	if p.IsAvailable {
		msg = "you are now available for donations"
	}
	response.Send(c, response.Success(c, http.StatusOK, gin.H{"is_available": p.IsAvailable}, msg, nil))
}

// Search GET /api/donors/search?blood_group=&q=
func (h *DonorHandler) Search(c *gin.Context) {
	donors, err := h.Donors.Search(c.Request.Context(), c.Query("blood_group"), c.Query("q"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, donorContactsView(donors), "donors", map[string]any{"count": len(donors)}))
}

// MyDonations GET /api/donations/mine?limit=
func (h *DonorHandler) MyDonations(c *gin.Context) {
	a, ok := actorOrAbort(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	ds, err := h.Donations.ListMine(c.Request.Context(), a, limit)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, donationsView(ds), "donations", nil))
}
