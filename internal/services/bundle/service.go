package bundle

import (
	"context"
	goerrors "errors"
	"fmt"
	"log"

	"digipehchan/internal/domain/lifecycle"
	"digipehchan/internal/errors"
	"digipehchan/internal/models"
	"digipehchan/internal/repositories"
	"digipehchan/internal/repositories/cache"
	"digipehchan/internal/services/qrimage"
	"digipehchan/internal/validation"

	"gorm.io/gorm"
)

type service struct {
	bundles repositories.BundleRepository
	qrs     repositories.QRRepository
	users   repositories.UserRepository
	serials SerialGenerator
	images  qrimage.Renderer
	cache   repositories.CacheRepository
}

// NewService creates a bundle service instance.
func NewService(
	bundles repositories.BundleRepository,
	qrs repositories.QRRepository,
	users repositories.UserRepository,
	serials SerialGenerator,
	images qrimage.Renderer,
	cacheRepo repositories.CacheRepository,
) Service {
	if bundles == nil || qrs == nil || users == nil {
		panic("bundle service: repositories are required")
	}
	if serials == nil {
		panic("bundle service: serial generator is required")
	}
	return &service{
		bundles: bundles,
		qrs:     qrs,
		users:   users,
		serials: serials,
		images:  images,
		cache:   cacheRepo,
	}
}

func (s *service) Generate(ctx context.Context, adminID uint, req GenerateRequest) (*models.Bundle, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	qrs := make([]models.QR, 0, req.Quantity)
	rendered := make([]string, 0, req.Quantity)
	for i := 0; i < req.Quantity; i++ {
		sn := s.serials.Next(req.QRTypeID)

		imageURL := ""
		if s.images != nil {
			url, err := s.images.Render(sn)
			if err != nil {
				s.discardImages(rendered)
				return nil, fmt.Errorf("failed to render QR image: %w", err)
			}
			imageURL = url
			rendered = append(rendered, url)
		}

		qrs = append(qrs, models.QR{
			SerialNumber: sn,
			QRStatus:     string(lifecycle.QRInactive),
			QRTypeID:     req.QRTypeID,
			CreatedBy:    adminID,
			Price:        req.PricePerQR,
			ImageURL:     imageURL,
		})
	}

	bundle := &models.Bundle{
		QRTypeID:   req.QRTypeID,
		PricePerQR: req.PricePerQR,
	}
	if err := s.bundles.CreateWithQRs(ctx, bundle, qrs); err != nil {
		// The images were written before the transaction; a failed
		// create would otherwise orphan them on disk.
		s.discardImages(rendered)
		return nil, fmt.Errorf("failed to create bundle: %w", err)
	}

	log.Printf("generated bundle %s with %d QRs", bundle.DisplayID(), len(qrs))
	return bundle, nil
}

func (s *service) Assign(ctx context.Context, bundleID, salespersonID uint, deliveryType string) (*models.Bundle, error) {
	if _, err := s.activeSalesperson(salespersonID); err != nil {
		return nil, err
	}

	bundle, err := s.Get(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	// An assigned bundle changes hands only through Transfer, which
	// enforces the pending-payment guard and records the audit row.
	// Re-assigning here would also rewrite the fixed delivery type.
	if bundle.Status != models.BundleStatusUnassigned {
		return nil, errors.ErrBundleAlreadyAssigned
	}

	// Delivery type is fixed for the whole bundle once assigned; the
	// derived order status cascades with it.
	orderStatus := models.OrderStatusShipped
	if deliveryType == models.DeliveryTypeETag {
		orderStatus = models.OrderStatusDelivered
	}

	if err := s.bundles.Assign(ctx, bundle.ID, salespersonID, deliveryType, orderStatus); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, salespersonID)

	return s.Get(ctx, bundleID)
}

func (s *service) Transfer(ctx context.Context, bundleID, targetSalespersonID uint) (*models.Bundle, error) {
	if _, err := s.activeSalesperson(targetSalespersonID); err != nil {
		return nil, err
	}

	bundle, err := s.Get(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	if bundle.Status != models.BundleStatusAssigned || bundle.AssignedTo == nil {
		return nil, errors.ErrBundleNotAssigned
	}
	previousAssignee := *bundle.AssignedTo

	// Friendly pre-check for the caller; the repository re-checks inside
	// the transfer transaction.
	pending, err := s.qrs.CountPendingPayment(ctx, bundle.ID)
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, errors.ErrBundlePendingPayments.WithDetail("%d QRs pending payment", pending)
	}

	if err := s.bundles.Transfer(ctx, bundle.ID, targetSalespersonID); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, previousAssignee, targetSalespersonID)

	return s.Get(ctx, bundleID)
}

func (s *service) Get(ctx context.Context, bundleID uint) (*models.Bundle, error) {
	bundle, err := s.bundles.GetByID(ctx, bundleID)
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrBundleNotFound
		}
		return nil, err
	}
	return bundle, nil
}

func (s *service) List(ctx context.Context, offset, limit int) ([]models.Bundle, int64, error) {
	return s.bundles.List(ctx, offset, limit)
}

func (s *service) ListBySalesperson(ctx context.Context, salespersonID uint, offset, limit int) ([]models.Bundle, int64, error) {
	return s.bundles.ListBySalesperson(ctx, salespersonID, offset, limit)
}

func (s *service) activeSalesperson(id uint) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		return nil, errors.ErrSalespersonNotFound
	}
	if !user.IsSalesperson() {
		return nil, errors.ErrSalespersonNotFound
	}
	if !user.IsActive() {
		return nil, errors.ErrSalespersonInactive
	}
	return user, nil
}

func (s *service) discardImages(urls []string) {
	if s.images == nil {
		return
	}
	for _, url := range urls {
		if err := s.images.Remove(url); err != nil {
			log.Printf("failed to remove orphaned QR image %s: %v", url, err)
		}
	}
}

func (s *service) invalidateStats(ctx context.Context, salespersonIDs ...uint) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(salespersonIDs))
	for _, id := range salespersonIDs {
		keys = append(keys, cache.StatsKey(id))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Printf("failed to invalidate stats cache: %v", err)
	}
}
