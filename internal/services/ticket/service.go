package ticket

import (
	"context"
	goerrors "errors"
	"fmt"
	"log"
	"time"

	"digipehchan/internal/domain/lifecycle"
	"digipehchan/internal/errors"
	"digipehchan/internal/models"
	"digipehchan/internal/repositories"
	"digipehchan/internal/repositories/cache"
	"digipehchan/internal/utils"
	"digipehchan/internal/validation"

	"gorm.io/gorm"
)

type service struct {
	tickets repositories.TicketRepository
	bundles repositories.BundleRepository
	qrs     repositories.QRRepository
	cache   repositories.CacheRepository
}

// NewService creates a payment ticket service instance.
func NewService(
	tickets repositories.TicketRepository,
	bundles repositories.BundleRepository,
	qrs repositories.QRRepository,
	cacheRepo repositories.CacheRepository,
) Service {
	if tickets == nil || bundles == nil || qrs == nil {
		panic("ticket service: repositories are required")
	}
	return &service{
		tickets: tickets,
		bundles: bundles,
		qrs:     qrs,
		cache:   cacheRepo,
	}
}

func (s *service) Create(ctx context.Context, salespersonID uint, req CreateRequest) (*models.PaymentTicket, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	bundle, err := s.bundles.GetByID(ctx, req.BundleID)
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrBundleNotFound
		}
		return nil, err
	}
	if bundle.Status != models.BundleStatusAssigned || bundle.AssignedTo == nil {
		return nil, errors.ErrBundleNotAssigned
	}
	if *bundle.AssignedTo != salespersonID {
		return nil, errors.ErrBundleNotOwned
	}

	// Every requested QR must belong to the bundle and be INACTIVE; a
	// partial match is an error naming the missing ids.
	found, err := s.qrs.ListByIDsInBundle(ctx, bundle.ID, req.QRIDs)
	if err != nil {
		return nil, err
	}
	if len(found) != len(req.QRIDs) {
		return nil, errors.ErrQRNotInBundle.WithDetail("missing QR ids: %v", missingIDs(req.QRIDs, found))
	}
	for _, qr := range found {
		if lifecycle.QRStatus(qr.QRStatus) != lifecycle.QRInactive || qr.IsSold {
			return nil, errors.ErrQRNotInBundle.WithDetail("QR %d is not available for sale", qr.ID)
		}
	}

	// Named-ids check against other pending tickets. Advisory only: the
	// conditional reservation below is what actually prevents the race.
	reserved, err := s.tickets.PendingQRIDs(ctx, req.QRIDs)
	if err != nil {
		return nil, err
	}
	if len(reserved) > 0 {
		return nil, errors.ErrQRsAlreadyReserved.WithDetail("QR ids: %v", reserved)
	}

	ticket := &models.PaymentTicket{
		TicketRef:       newTicketRef(),
		SalespersonID:   salespersonID,
		BundleID:        bundle.ID,
		Amount:          req.Amount,
		PaymentMethod:   req.PaymentMethod,
		PaymentProof:    req.PaymentProof,
		CustomerName:    req.Customer.Name,
		CustomerPhone:   req.Customer.Phone,
		CustomerEmail:   req.Customer.Email,
		CustomerAddress: req.Customer.Address,
	}

	if err := s.tickets.CreateWithReservation(ctx, ticket, req.QRIDs); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, salespersonID)

	log.Printf("ticket %s created: %d QRs reserved in bundle %s", ticket.TicketRef, len(req.QRIDs), bundle.DisplayID())
	return ticket, nil
}

func (s *service) Resolve(ctx context.Context, ticketRef string, adminID uint, decision Decision, adminNotes string) (*models.PaymentTicket, error) {
	ticket, err := s.Get(ctx, ticketRef)
	if err != nil {
		return nil, err
	}

	var target lifecycle.TicketStatus
	switch decision {
	case DecisionApproved:
		target = lifecycle.TicketApproved
	case DecisionRejected:
		target = lifecycle.TicketRejected
	default:
		return nil, errors.ErrValidationFailed.WithDetail("unknown decision %q", decision)
	}

	// Single legality check for every resolution path. APPROVED is
	// terminal, so re-approving an approved ticket fails here and the
	// sold counter cannot double-increment.
	if !lifecycle.CanTransitionTicket(lifecycle.TicketStatus(ticket.Status), target) {
		return nil, errors.ErrInvalidTicketTransition.WithDetail("%s -> %s", ticket.Status, target)
	}

	switch target {
	case lifecycle.TicketApproved:
		err = s.tickets.Approve(ctx, ticket, adminID, adminNotes)
	case lifecycle.TicketRejected:
		err = s.tickets.Reject(ctx, ticket, adminID, adminNotes)
	}
	if err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, ticket.SalespersonID)

	log.Printf("ticket %s resolved: %s", ticket.TicketRef, ticket.Status)
	return ticket, nil
}

func (s *service) Get(ctx context.Context, ticketRef string) (*models.PaymentTicket, error) {
	ticket, err := s.tickets.GetByRef(ctx, ticketRef)
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrTicketNotFound
		}
		return nil, err
	}
	return ticket, nil
}

func (s *service) List(ctx context.Context, status string, offset, limit int) ([]models.PaymentTicket, int64, error) {
	return s.tickets.List(ctx, status, offset, limit)
}

func (s *service) ListBySalesperson(ctx context.Context, salespersonID uint, offset, limit int) ([]models.PaymentTicket, int64, error) {
	return s.tickets.ListBySalesperson(ctx, salespersonID, offset, limit)
}

func (s *service) invalidateStats(ctx context.Context, salespersonID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.StatsKey(salespersonID)); err != nil {
		log.Printf("failed to invalidate stats cache: %v", err)
	}
}

func newTicketRef() string {
	return fmt.Sprintf("TKT-%d-%s", time.Now().Unix(), utils.MustRandomHex(3))
}

func missingIDs(requested []uint, found []models.QR) []uint {
	present := make(map[uint]bool, len(found))
	for _, qr := range found {
		present[qr.ID] = true
	}
	var missing []uint
	for _, id := range requested {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing
}
