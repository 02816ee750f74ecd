package repositories

import (
	"context"
	"time"

	"digipehchan/internal/domain/lifecycle"
	"digipehchan/internal/errors"
	"digipehchan/internal/models"

	"gorm.io/gorm"
)

// TicketRepository provides access to payment tickets. Creation and
// resolution are single transactions: the ticket row, the QR status
// flips, and the salesperson counter move together or not at all.
type TicketRepository interface {
	GetByRef(ctx context.Context, ref string) (*models.PaymentTicket, error)
	List(ctx context.Context, status string, offset, limit int) ([]models.PaymentTicket, int64, error)
	ListBySalesperson(ctx context.Context, salespersonID uint, offset, limit int) ([]models.PaymentTicket, int64, error)

	// PendingQRIDs returns which of the given QR ids are referenced by
	// any ticket still PENDING. Used to produce a named-IDs error before
	// the reservation attempt; the reservation itself is the authority.
	PendingQRIDs(ctx context.Context, qrIDs []uint) ([]uint, error)

	// CreateWithReservation inserts the ticket and reserves its QRs
	// (INACTIVE -> PENDING_PAYMENT) in one transaction. If any QR is no
	// longer reservable the whole transaction rolls back with
	// ErrQRsAlreadyReserved.
	CreateWithReservation(ctx context.Context, ticket *models.PaymentTicket, qrIDs []uint) error

	// Approve moves the ticket to APPROVED, returns its QRs to INACTIVE
	// with is_sold set and the ticket's customer identity copied on, and
	// increments the salesperson's sold counter, all in one transaction.
	// The status flip is conditional on the current status so a second
	// approval fails with ErrInvalidTicketTransition.
	Approve(ctx context.Context, ticket *models.PaymentTicket, adminID uint, notes string) error

	// Reject moves a PENDING ticket to REJECTED and releases its QRs
	// (REJECTED status, unreserved, not sold).
	Reject(ctx context.Context, ticket *models.PaymentTicket, adminID uint, notes string) error
}

type ticketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) GetByRef(ctx context.Context, ref string) (*models.PaymentTicket, error) {
	var ticket models.PaymentTicket
	err := r.db.WithContext(ctx).
		Preload("QRs").
		Where("ticket_ref = ?", ref).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, status string, offset, limit int) ([]models.PaymentTicket, int64, error) {
	var tickets []models.PaymentTicket
	var total int64
	q := r.db.WithContext(ctx).Model(&models.PaymentTicket{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("QRs").Order("created_at DESC").Offset(offset).Limit(limit).Find(&tickets).Error
	return tickets, total, err
}

func (r *ticketRepository) ListBySalesperson(ctx context.Context, salespersonID uint, offset, limit int) ([]models.PaymentTicket, int64, error) {
	var tickets []models.PaymentTicket
	var total int64
	q := r.db.WithContext(ctx).Model(&models.PaymentTicket{}).Where("salesperson_id = ?", salespersonID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("QRs").Order("created_at DESC").Offset(offset).Limit(limit).Find(&tickets).Error
	return tickets, total, err
}

func (r *ticketRepository) PendingQRIDs(ctx context.Context, qrIDs []uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.PaymentTicketQR{}).
		Joins("JOIN payment_tickets ON payment_tickets.id = payment_ticket_qrs.ticket_id").
		Where("payment_tickets.status = ?", lifecycle.TicketPending).
		Where("payment_ticket_qrs.qr_id IN ?", qrIDs).
		Pluck("payment_ticket_qrs.qr_id", &ids).Error
	return ids, err
}

func (r *ticketRepository) CreateWithReservation(ctx context.Context, ticket *models.PaymentTicket, qrIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ticket.Status = string(lifecycle.TicketPending)
		if err := tx.Create(ticket).Error; err != nil {
			return err
		}

		links := make([]models.PaymentTicketQR, 0, len(qrIDs))
		for _, id := range qrIDs {
			links = append(links, models.PaymentTicketQR{TicketID: ticket.ID, QRID: id})
		}
		if err := tx.Create(&links).Error; err != nil {
			return err
		}

		// Conditional reservation: only QRs that are still INACTIVE,
		// unsold and unclaimed flip to PENDING_PAYMENT. A ticket-approved
		// QR sits at INACTIVE with is_sold set, so the is_sold predicate
		// keeps a concurrent approval from re-reserving it. A shortfall
		// means another writer won the race and the creation rolls back.
		res := tx.Model(&models.QR{}).
			Where("id IN ? AND bundle_id = ? AND qr_status = ? AND is_sold = ? AND created_for IS NULL",
				qrIDs, ticket.BundleID, lifecycle.QRInactive, false).
			Updates(map[string]interface{}{
				"qr_status":           lifecycle.QRPendingPayment,
				"sold_by_salesperson": ticket.SalespersonID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(qrIDs)) {
			return errors.ErrQRsAlreadyReserved
		}

		ticket.QRs = links
		return nil
	})
}

func (r *ticketRepository) Approve(ctx context.Context, ticket *models.PaymentTicket, adminID uint, notes string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		// Conditional flip from the status the caller validated against;
		// a concurrent resolution makes this a no-op and the approval fails.
		res := tx.Model(&models.PaymentTicket{}).
			Where("id = ? AND status IN ?", ticket.ID,
				[]string{string(lifecycle.TicketPending), string(lifecycle.TicketRejected)}).
			Updates(map[string]interface{}{
				"status":      lifecycle.TicketApproved,
				"admin_notes": notes,
				"resolved_by": adminID,
				"resolved_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.ErrInvalidTicketTransition
		}

		qrIDs := ticket.QRIDs()

		// Sold but awaiting customer self-activation: back to INACTIVE
		// with is_sold set and the buyer's identity on the QR.
		qrRes := tx.Model(&models.QR{}).
			Where("id IN ? AND qr_status IN ?", qrIDs,
				[]string{string(lifecycle.QRPendingPayment), string(lifecycle.QRRejected)}).
			Updates(map[string]interface{}{
				"qr_status":           lifecycle.QRInactive,
				"is_sold":             true,
				"sold_by_salesperson": ticket.SalespersonID,
				"customer_name":       ticket.CustomerName,
				"customer_phone":      ticket.CustomerPhone,
				"customer_email":      ticket.CustomerEmail,
				"customer_address":    ticket.CustomerAddress,
			})
		if qrRes.Error != nil {
			return qrRes.Error
		}
		if qrRes.RowsAffected != int64(len(qrIDs)) {
			return errors.ErrInvalidTicketTransition.WithDetail(
				"expected %d reserved QRs, found %d", len(qrIDs), qrRes.RowsAffected)
		}

		// Counter moves with the approval, never on its own.
		if err := tx.Model(&models.User{}).
			Where("id = ?", ticket.SalespersonID).
			Update("total_qrs_sold", gorm.Expr("total_qrs_sold + ?", len(qrIDs))).Error; err != nil {
			return err
		}

		ticket.Status = string(lifecycle.TicketApproved)
		ticket.AdminNotes = notes
		ticket.ResolvedBy = &adminID
		ticket.ResolvedAt = &now
		return nil
	})
}

func (r *ticketRepository) Reject(ctx context.Context, ticket *models.PaymentTicket, adminID uint, notes string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		res := tx.Model(&models.PaymentTicket{}).
			Where("id = ? AND status = ?", ticket.ID, lifecycle.TicketPending).
			Updates(map[string]interface{}{
				"status":      lifecycle.TicketRejected,
				"admin_notes": notes,
				"resolved_by": adminID,
				"resolved_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.ErrInvalidTicketTransition
		}

		qrIDs := ticket.QRIDs()
		qrRes := tx.Model(&models.QR{}).
			Where("id IN ? AND qr_status = ?", qrIDs, lifecycle.QRPendingPayment).
			Updates(map[string]interface{}{
				"qr_status":           lifecycle.QRRejected,
				"is_sold":             false,
				"sold_by_salesperson": nil,
			})
		if qrRes.Error != nil {
			return qrRes.Error
		}
		if qrRes.RowsAffected != int64(len(qrIDs)) {
			return errors.ErrInvalidTicketTransition.WithDetail(
				"expected %d reserved QRs, found %d", len(qrIDs), qrRes.RowsAffected)
		}

		ticket.Status = string(lifecycle.TicketRejected)
		ticket.AdminNotes = notes
		ticket.ResolvedBy = &adminID
		ticket.ResolvedAt = &now
		return nil
	})
}
