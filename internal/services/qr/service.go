package qr

import (
	"context"
	goerrors "errors"
	"log"
	"time"

	"digipehchan/internal/domain/lifecycle"
	"digipehchan/internal/errors"
	"digipehchan/internal/models"
	"digipehchan/internal/repositories"
	"digipehchan/internal/repositories/cache"
	"digipehchan/internal/validation"

	"gorm.io/gorm"
)

// Contact channels recorded in call logs.
const (
	ChannelText  = "text"
	ChannelVoice = "voice"
	ChannelVideo = "video"
)

type service struct {
	qrs   repositories.QRRepository
	cache repositories.CacheRepository
}

// NewService creates a QR service instance.
func NewService(qrs repositories.QRRepository, cacheRepo repositories.CacheRepository) Service {
	if qrs == nil {
		panic("qr service: repository is required")
	}
	return &service{qrs: qrs, cache: cacheRepo}
}

func (s *service) SellDirect(ctx context.Context, sellerID *uint, req SellRequest) (*models.QR, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	qr, err := s.getByID(ctx, req.QRID)
	if err != nil {
		return nil, err
	}
	if err := statusBlock(qr); err != nil {
		return nil, err
	}
	// A direct sale needs a never-sold QR; a ticket-approved one already
	// belongs to its offline buyer.
	if qr.IsSold || qr.CreatedFor != nil {
		return nil, errors.ErrQRAlreadySold
	}

	rows, err := s.qrs.SellDirect(ctx, qr.ID, req.CustomerID, sellerID, req.Customer, req.TransactionID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Lost the race since the load above; reload to name the reason.
		return nil, s.blockAfterRace(ctx, qr.ID)
	}

	if sellerID != nil {
		s.invalidateStats(ctx, *sellerID)
	}
	log.Printf("QR %s sold directly to customer %d", qr.SerialNumber, req.CustomerID)
	return s.getByID(ctx, qr.ID)
}

func (s *service) ActivateBySerial(ctx context.Context, req ActivateRequest) (*models.QR, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	qr, err := s.GetBySerial(ctx, req.SerialNumber)
	if err != nil {
		return nil, err
	}
	// Sold-but-not-yet-activated QRs (INACTIVE, is_sold) are exactly the
	// ones waiting for this call, so only the status gates activation.
	if err := statusBlock(qr); err != nil {
		return nil, err
	}

	rows, err := s.qrs.ActivateBySerial(ctx, req.SerialNumber, req.CustomerID, req.Customer)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, s.blockAfterRace(ctx, qr.ID)
	}

	if qr.SoldBySalesperson != nil {
		s.invalidateStats(ctx, *qr.SoldBySalesperson)
	}
	log.Printf("QR %s activated by customer %d", req.SerialNumber, req.CustomerID)
	return s.GetBySerial(ctx, req.SerialNumber)
}

func (s *service) GetBySerial(ctx context.Context, serial string) (*models.QR, error) {
	qr, err := s.qrs.GetBySerial(ctx, serial)
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrQRNotFound
		}
		return nil, err
	}
	return qr, nil
}

func (s *service) UpdatePermissions(ctx context.Context, qrID, ownerID uint, req PermissionsRequest) (*models.QR, error) {
	rows, err := s.qrs.UpdatePermissions(ctx, qrID, ownerID,
		req.TextMessagesAllowed, req.VoiceCallsAllowed, req.VideoCallsAllowed)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, errors.ErrQRNotFound
	}
	return s.getByID(ctx, qrID)
}

func (s *service) AddReview(ctx context.Context, qrID, authorID uint, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return errors.NewValidationError("rating", "must be between 1 and 5")
	}
	if err := s.requireActive(ctx, qrID); err != nil {
		return err
	}
	return s.qrs.AddReview(ctx, &models.QRReview{
		QRID:     qrID,
		AuthorID: authorID,
		Rating:   rating,
		Comment:  comment,
	})
}

func (s *service) AddQuestion(ctx context.Context, qrID uint, askerID *uint, question string) error {
	if question == "" {
		return errors.NewValidationError("question", "must not be empty")
	}
	if err := s.requireActive(ctx, qrID); err != nil {
		return err
	}
	return s.qrs.AddQuestion(ctx, &models.QRQuestion{
		QRID:     qrID,
		AskerID:  askerID,
		Question: question,
	})
}

func (s *service) RecordCall(ctx context.Context, qrID uint, channel, callerRef string) error {
	qr, err := s.getByID(ctx, qrID)
	if err != nil {
		return err
	}
	if lifecycle.QRStatus(qr.QRStatus) != lifecycle.QRActive {
		return errors.ErrQRNotActive
	}

	switch channel {
	case ChannelText:
		if !qr.TextMessagesAllowed {
			return errors.ErrQRNotActive.WithDetail("text messages disabled by owner")
		}
	case ChannelVoice:
		if !qr.VoiceCallsAllowed {
			return errors.ErrQRNotActive.WithDetail("voice calls disabled by owner")
		}
	case ChannelVideo:
		if !qr.VideoCallsAllowed {
			return errors.ErrQRNotActive.WithDetail("video calls disabled by owner")
		}
	default:
		return errors.NewValidationError("channel", "must be text, voice or video")
	}

	return s.qrs.AddCallLog(ctx, &models.QRCallLog{
		QRID:      qrID,
		Channel:   channel,
		CallerRef: callerRef,
		StartedAt: time.Now(),
	})
}

func (s *service) getByID(ctx context.Context, id uint) (*models.QR, error) {
	qr, err := s.qrs.GetByID(ctx, id)
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrQRNotFound
		}
		return nil, err
	}
	return qr, nil
}

func (s *service) requireActive(ctx context.Context, qrID uint) error {
	qr, err := s.getByID(ctx, qrID)
	if err != nil {
		return err
	}
	if lifecycle.QRStatus(qr.QRStatus) != lifecycle.QRActive {
		return errors.ErrQRNotActive
	}
	return nil
}

// blockAfterRace reloads a QR whose conditional update matched no rows
// and converts its current state into the precise blocking error.
func (s *service) blockAfterRace(ctx context.Context, id uint) error {
	qr, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	if err := statusBlock(qr); err != nil {
		return err
	}
	return errors.ErrQRAlreadySold
}

// statusBlock enforces the activation guard: PENDING_PAYMENT and
// REJECTED QRs report distinct reasons, ACTIVE QRs report a sale
// conflict, and the status is never mutated on the failure path.
func statusBlock(qr *models.QR) error {
	switch lifecycle.QRStatus(qr.QRStatus) {
	case lifecycle.QRPendingPayment:
		return errors.ErrQRPaymentPending
	case lifecycle.QRRejected:
		return errors.ErrQRPaymentRequired
	case lifecycle.QRActive:
		return errors.ErrQRAlreadySold
	}
	return nil
}

func (s *service) invalidateStats(ctx context.Context, salespersonID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.StatsKey(salespersonID)); err != nil {
		log.Printf("failed to invalidate stats cache: %v", err)
	}
}
