package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	repo "github.com/oksasatya/go-blood-donation/internal/domain/repository"
)

// ContactNotAvailable replaces a missing donor phone number in the requester's notification.
const ContactNotAvailable = "not available"

type DonationService struct {
	Store    repo.Store
	Notifier *NotificationService
	Logger   *logrus.Logger
}

func NewDonationService(store repo.Store, notifier *NotificationService, logger *logrus.Logger) *DonationService {
	return &DonationService{Store: store, Notifier: notifier, Logger: logger}
}

// Respond records a Pending donation for the calling donor and notifies the
// requester. Checks run in order: request exists, caller is a donor, caller
// has a profile, caller has not responded yet.
func (s *DonationService) Respond(ctx context.Context, actor entity.Actor, requestID int64) (int64, error) {
	var donation entity.Donation
	err := s.Store.WithTx(ctx, func(tx repo.Repositories) error {
		br, err := tx.Requests().GetByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("load blood request: %w", err)
		}

		if actor.Role != entity.RoleDonor {
			return ErrNotADonor
		}

		profile, err := tx.Donors().GetByUserID(ctx, actor.ID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrProfileRequired
			}
			return fmt.Errorf("load donor profile: %w", err)
		}

		donation = entity.Donation{RequestID: br.ID, DonorID: profile.ID, Status: entity.DonationPending}
		created, err := tx.Donations().CreateIfAbsent(ctx, &donation)
		if err != nil {
			return fmt.Errorf("create donation: %w", err)
		}
		if !created {
			return ErrAlreadyResponded
		}

		contact := ContactNotAvailable
		donor, err := tx.Users().GetByID(ctx, actor.ID)
		switch {
		case err == nil:
			if donor.PhoneNumber != "" {
				contact = donor.PhoneNumber
			}
		case !errors.Is(err, repo.ErrNotFound):
			return fmt.Errorf("load donor contact: %w", err)
		}
		_, err = s.Notifier.Notify(ctx, tx, NotifyInput{
			RecipientID: br.RequesterID,
			Title:       "Donor Response Received",
			Message:     fmt.Sprintf("A donor has responded to your blood request for %s. Contact: %s", br.PatientName, contact),
			Severity:    entity.SeveritySuccess,
		})
		return err
	})
	if err != nil {
		return 0, err
	}

	donationResponses.Add(1)
	s.Notifier.Committed(1)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"request_id":  requestID,
			"donation_id": donation.ID,
			"user_id":     actor.ID,
		}).Info("donor responded to blood request")
	}
	return donation.ID, nil
}

// ListMine returns the caller's latest donations.
func (s *DonationService) ListMine(ctx context.Context, actor entity.Actor, limit int) ([]entity.Donation, error) {
	if actor.Role != entity.RoleDonor {
		return nil, ErrNotADonor
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Store.Donations().ListByDonorUser(ctx, actor.ID, limit)
}
