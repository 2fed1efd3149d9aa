package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blood-donation/internal/application"
	"github.com/oksasatya/go-blood-donation/pkg/response"
	"github.com/oksasatya/go-blood-donation/pkg/validation"
)

type RequestHandler struct {
	Requests  *application.BloodRequestService
	Donations *application.DonationService
	Logger    *logrus.Logger
}

func NewRequestHandler(requests *application.BloodRequestService, donations *application.DonationService, logger *logrus.Logger) *RequestHandler {
	return &RequestHandler{Requests: requests, Donations: donations, Logger: logger}
}

type createRequestRequest struct {
	PatientName      string `json:"patient_name" binding:"required,max=200"`
	BloodGroup       string `json:"blood_group" binding:"required,bloodgroup"`
	QuantityRequired int    `json:"quantity_required" binding:"required,gt=0"`
	UrgencyLevel     string `json:"urgency_level" binding:"required,urgency"`
	HospitalName     string `json:"hospital_name" binding:"required,max=200"`
	HospitalAddress  string `json:"hospital_address" binding:"max=500"`
	ContactNumber    string `json:"contact_number" binding:"max=20"`
	Notes            string `json:"notes" binding:"max=2000"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,reqstatus"`
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Send(c, response.Error[any](c, http.StatusBadRequest, "invalid id", map[string]string{"id": "must be a positive integer"}))
		return 0, false
	}
	return id, true
}

// Create POST /api/requests
func (h *RequestHandler) Create(c *gin.Context) {
	a, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req createRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Send(c, response.Error[any](c, http.StatusBadRequest, application.ErrInvalidRequestDetails.Error(), validation.ToDetails(err)))
		return
	}
	res, err := h.Requests.Create(c.Request.Context(), a, application.CreateBloodRequestInput{
		PatientName:      req.PatientName,
		BloodGroup:       req.BloodGroup,
		QuantityRequired: req.QuantityRequired,
		UrgencyLevel:     req.UrgencyLevel,
		HospitalName:     req.HospitalName,
		HospitalAddress:  req.HospitalAddress,
		ContactNumber:    req.ContactNumber,
		Notes:            req.Notes,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusCreated, res, "blood request created", nil))
}

// List GET /api/requests?mine=true&limit=
func (h *RequestHandler) List(c *gin.Context) {
	a, ok := actorOrAbort(c)
	if !ok {
		return
	}
	mine, _ := strconv.ParseBool(c.Query("mine"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	var (
		data []gin.H
		err  error
	)
	if mine {
		rs, lErr := h.Requests.ListByRequester(c.Request.Context(), a.ID)
		data, err = requestsView(rs), lErr
	} else {
		rs, lErr := h.Requests.ListActive(c.Request.Context(), limit)
		data, err = requestsView(rs), lErr
	}
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, data, "blood requests", nil))
}

// Get GET /api/requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	br, err := h.Requests.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, requestView(br), "blood request", nil))
}

// UpdateStatus PATCH /api/requests/:id/status
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	a, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Send(c, response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err)))
		return
	}
	br, err := h.Requests.UpdateStatus(c.Request.Context(), a, id, req.Status)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, requestView(br), "blood request updated", nil))
}

// Respond POST /api/requests/:id/respond
// A repeated response is not an error for the client.
func (h *RequestHandler) Respond(c *gin.Context) {
	a, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	donationID, err := h.Donations.Respond(c.Request.Context(), a, id)
	if errors.Is(err, application.ErrAlreadyResponded) {
		response.Send(c, response.Success(c, http.StatusOK, gin.H{"already_responded": true}, err.Error(), nil))
		return
	}
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusCreated, gin.H{"donation_id": donationID}, "thank you for responding, the requester has been notified", nil))
}
