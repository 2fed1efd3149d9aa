package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	repo "github.com/oksasatya/go-blood-donation/internal/domain/repository"
)

type BloodRequestService struct {
	Store        repo.Store
	Notifier     *NotificationService
	Logger       *logrus.Logger
	VerifiedOnly bool
}

func NewBloodRequestService(store repo.Store, notifier *NotificationService, logger *logrus.Logger, verifiedOnly bool) *BloodRequestService {
	return &BloodRequestService{Store: store, Notifier: notifier, Logger: logger, VerifiedOnly: verifiedOnly}
}

type CreateBloodRequestInput struct {
	PatientName      string
	BloodGroup       string
	QuantityRequired int
	UrgencyLevel     string
	HospitalName     string
	HospitalAddress  string
	ContactNumber    string
	Notes            string
}

// toEntity validates every field and reports all failures at once.
func (in CreateBloodRequestInput) toEntity(requesterID int64) (*entity.BloodRequest, error) {
	errs := fieldErrors{}
	patient := strings.TrimSpace(in.PatientName)
	if patient == "" {
		errs.add("patient_name", "is required")
	}
	group, err := entity.ParseBloodGroup(in.BloodGroup)
	if err != nil {
		errs.add("blood_group", "must be one of: "+strings.Join(entity.GroupStrings(entity.BloodGroups()), ", "))
	}
	if in.QuantityRequired <= 0 {
		errs.add("quantity_required", "must be greater than 0")
	}
	urgency, err := entity.ParseUrgency(in.UrgencyLevel)
	if err != nil {
		errs.add("urgency_level", "must be one of: Critical, High, Normal")
	}
	hospital := strings.TrimSpace(in.HospitalName)
	if hospital == "" {
		errs.add("hospital_name", "is required")
	}
	if err := errs.err(ErrInvalidRequestDetails); err != nil {
		return nil, err
	}
	return &entity.BloodRequest{
		RequesterID:      requesterID,
		PatientName:      patient,
		BloodGroup:       group,
		QuantityRequired: in.QuantityRequired,
		UrgencyLevel:     urgency,
		HospitalName:     hospital,
		HospitalAddress:  strings.TrimSpace(in.HospitalAddress),
		ContactNumber:    strings.TrimSpace(in.ContactNumber),
		Notes:            strings.TrimSpace(in.Notes),
		Status:           entity.RequestActive,
	}, nil
}

type CreateResult struct {
	RequestID int64 `json:"request_id"`
	Notified  int   `json:"notified"`
}

func canRequest(r entity.Role) bool {
	switch r {
	case entity.RoleRequester, entity.RoleAdmin:
		return true
	case entity.RoleDonor, entity.RoleUnknown:
		return false
	}
	return false
}

func donorAlert(br *entity.BloodRequest) NotifyInput {
	return NotifyInput{
		Title: "Urgent Blood Request - " + br.BloodGroup.String(),
		Message: fmt.Sprintf("Patient %s needs %d units of %s blood at %s. Urgency: %s",
			br.PatientName, br.QuantityRequired, br.BloodGroup, br.HospitalName, br.UrgencyLevel),
		Severity: entity.SeverityFor(br.UrgencyLevel),
	}
}

// Create persists an Active request and notifies every available donor whose
// group can give to it. The request and its notifications commit together.
func (s *BloodRequestService) Create(ctx context.Context, actor entity.Actor, in CreateBloodRequestInput) (CreateResult, error) {
	if !canRequest(actor.Role) {
		return CreateResult{}, ErrUnauthorized
	}
	br, err := in.toEntity(actor.ID)
	if err != nil {
		return CreateResult{}, err
	}
	groups, err := entity.CompatibleDonorGroups(br.BloodGroup)
	if err != nil {
		return CreateResult{}, err
	}

	var sent []Dispatched
	err = s.Store.WithTx(ctx, func(tx repo.Repositories) error {
		sent = sent[:0]
		if err := tx.Requests().Create(ctx, br); err != nil {
			return fmt.Errorf("create blood request: %w", err)
		}
		donors, err := tx.Donors().Find(ctx, repo.DonorFilter{
			Groups:        groups,
			AvailableOnly: true,
			VerifiedOnly:  s.VerifiedOnly,
			ExcludeUserID: actor.ID,
		})
		if err != nil {
			return fmt.Errorf("find compatible donors: %w", err)
		}
		alert := donorAlert(br)
		for _, d := range donors {
			alert.RecipientID = d.Profile.UserID
			out, err := s.Notifier.Notify(ctx, tx, alert)
			if err != nil {
				return fmt.Errorf("notify donor %d: %w", d.Profile.UserID, err)
			}
			sent = append(sent, *out)
		}
		return nil
	})
	if err != nil {
		return CreateResult{}, err
	}

	requestsCreated.Add(1)
	s.Notifier.Committed(len(sent))
	s.Notifier.Mirror(ctx, sent)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"request_id":  br.ID,
			"blood_group": br.BloodGroup,
			"urgency":     br.UrgencyLevel,
			"notified":    len(sent),
		}).Info("blood request created")
	}
	return CreateResult{RequestID: br.ID, Notified: len(sent)}, nil
}

func (s *BloodRequestService) Get(ctx context.Context, id int64) (*entity.BloodRequest, error) {
	br, err := s.Store.Requests().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return br, nil
}

func (s *BloodRequestService) ListActive(ctx context.Context, limit int) ([]entity.BloodRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Store.Requests().ListActive(ctx, limit)
}

func (s *BloodRequestService) ListByRequester(ctx context.Context, requesterID int64) ([]entity.BloodRequest, error) {
	return s.Store.Requests().ListByRequester(ctx, requesterID)
}

// UpdateStatus closes an Active request. Only its requester or an admin may do so.
func (s *BloodRequestService) UpdateStatus(ctx context.Context, actor entity.Actor, id int64, status string) (*entity.BloodRequest, error) {
	next, err := entity.ParseRequestStatus(status)
	if err != nil {
		return nil, &FieldError{Kind: ErrInvalidRequestDetails, Fields: map[string]string{"status": "must be one of: Active, Fulfilled, Cancelled"}}
	}
	br, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != entity.RoleAdmin && br.RequesterID != actor.ID {
		return nil, ErrUnauthorized
	}
	if br.Status.Closed() || !next.Closed() {
		return nil, ErrInvalidStatusTransition
	}
	if err := s.Store.Requests().UpdateStatus(ctx, id, next); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	br.Status = next
	return br, nil
}
