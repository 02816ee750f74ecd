package repositories

import (
	"context"
	"time"

	"digipehchan/internal/domain/lifecycle"
	"digipehchan/internal/errors"
	"digipehchan/internal/models"

	"gorm.io/gorm"
)

// BundleRepository provides access to bundles. Multi-row operations
// (creation with its QR batch, assignment cascade, transfer) run inside
// a single transaction.
type BundleRepository interface {
	// CreateWithQRs allocates the next sequential bundle number, creates
	// the bundle and its QR batch atomically, and backfills BundleID on
	// the QR rows.
	CreateWithQRs(ctx context.Context, bundle *models.Bundle, qrs []models.QR) error

	GetByID(ctx context.Context, id uint) (*models.Bundle, error)
	List(ctx context.Context, offset, limit int) ([]models.Bundle, int64, error)
	ListBySalesperson(ctx context.Context, salespersonID uint, offset, limit int) ([]models.Bundle, int64, error)
	CountBySalesperson(ctx context.Context, salespersonID uint) (int64, error)

	// Assign binds the bundle to a salesperson and cascades the delivery
	// type and derived order status onto every member QR.
	Assign(ctx context.Context, bundleID, salespersonID uint, deliveryType, orderStatus string) error

	// Transfer swaps the assignee, appending one assignment-history row.
	// It fails with ErrBundlePendingPayments if any member QR is
	// reserved by an unresolved payment ticket; the check runs inside
	// the transfer transaction.
	Transfer(ctx context.Context, bundleID, targetSalespersonID uint) error
}

type bundleRepository struct {
	db *gorm.DB
}

func NewBundleRepository(db *gorm.DB) BundleRepository {
	return &bundleRepository{db: db}
}

func (r *bundleRepository) CreateWithQRs(ctx context.Context, bundle *models.Bundle, qrs []models.QR) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxNo int
		if err := tx.Model(&models.Bundle{}).
			Select("COALESCE(MAX(bundle_no), 0)").
			Scan(&maxNo).Error; err != nil {
			return err
		}

		bundle.BundleNo = maxNo + 1
		bundle.Status = models.BundleStatusUnassigned
		bundle.QRCount = len(qrs)
		if err := tx.Create(bundle).Error; err != nil {
			return err
		}

		for i := range qrs {
			qrs[i].BundleID = &bundle.ID
		}
		if err := tx.Create(&qrs).Error; err != nil {
			return err
		}

		bundle.QRs = qrs
		return nil
	})
}

func (r *bundleRepository) GetByID(ctx context.Context, id uint) (*models.Bundle, error) {
	var bundle models.Bundle
	err := r.db.WithContext(ctx).
		Preload("AssignmentHistory").
		First(&bundle, id).Error
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (r *bundleRepository) List(ctx context.Context, offset, limit int) ([]models.Bundle, int64, error) {
	var bundles []models.Bundle
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Bundle{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Order("bundle_no DESC").
		Offset(offset).Limit(limit).
		Find(&bundles).Error
	return bundles, total, err
}

func (r *bundleRepository) ListBySalesperson(ctx context.Context, salespersonID uint, offset, limit int) ([]models.Bundle, int64, error) {
	var bundles []models.Bundle
	var total int64
	q := r.db.WithContext(ctx).Model(&models.Bundle{}).Where("assigned_to = ?", salespersonID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("bundle_no DESC").Offset(offset).Limit(limit).Find(&bundles).Error
	return bundles, total, err
}

func (r *bundleRepository) CountBySalesperson(ctx context.Context, salespersonID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Bundle{}).
		Where("assigned_to = ?", salespersonID).
		Count(&count).Error
	return count, err
}

func (r *bundleRepository) Assign(ctx context.Context, bundleID, salespersonID uint, deliveryType, orderStatus string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Bundle{}).
			Where("id = ?", bundleID).
			Updates(map[string]interface{}{
				"status":        models.BundleStatusAssigned,
				"assigned_to":   salespersonID,
				"delivery_type": deliveryType,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.ErrBundleNotFound
		}

		return tx.Model(&models.QR{}).
			Where("bundle_id = ?", bundleID).
			Updates(map[string]interface{}{
				"delivery_type": deliveryType,
				"order_status":  orderStatus,
			}).Error
	})
}

func (r *bundleRepository) Transfer(ctx context.Context, bundleID, targetSalespersonID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bundle models.Bundle
		if err := tx.First(&bundle, bundleID).Error; err != nil {
			return err
		}
		if bundle.AssignedTo == nil {
			return errors.ErrBundleNotAssigned
		}

		// Re-checked inside the transaction: an in-flight payment ticket
		// must resolve before the bundle can change hands.
		var pending int64
		if err := tx.Model(&models.QR{}).
			Where("bundle_id = ? AND qr_status = ?", bundleID, lifecycle.QRPendingPayment).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return errors.ErrBundlePendingPayments
		}

		history := models.BundleAssignment{
			BundleID:         bundle.ID,
			PreviousAssignee: *bundle.AssignedTo,
			TransferredAt:    time.Now(),
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		// The QRs keep their bundle lineage; only the bundle's owner changes.
		return tx.Model(&models.Bundle{}).
			Where("id = ?", bundleID).
			Update("assigned_to", targetSalespersonID).Error
	})
}
