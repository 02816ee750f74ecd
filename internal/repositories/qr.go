package repositories

import (
	"context"

	"digipehchan/internal/domain/lifecycle"
	"digipehchan/internal/models"

	"gorm.io/gorm"
)

// QRRepository provides access to QR codes. State-changing methods are
// conditional updates keyed on the expected prior status; callers must
// check the returned row count instead of assuming success.
type QRRepository interface {
	GetByID(ctx context.Context, id uint) (*models.QR, error)
	GetBySerial(ctx context.Context, serial string) (*models.QR, error)
	ListByBundle(ctx context.Context, bundleID uint) ([]models.QR, error)
	ListByIDsInBundle(ctx context.Context, bundleID uint, ids []uint) ([]models.QR, error)
	CountPendingPayment(ctx context.Context, bundleID uint) (int64, error)

	// SellDirect moves an INACTIVE, unsold QR to ACTIVE and binds the
	// customer. Returns the number of rows updated (0 or 1).
	SellDirect(ctx context.Context, id uint, customerID uint, sellerID *uint, details models.CustomerDetails, transactionID string) (int64, error)

	// ActivateBySerial moves an INACTIVE QR to ACTIVE by serial number.
	// Returns the number of rows updated (0 or 1).
	ActivateBySerial(ctx context.Context, serial string, customerID uint, details models.CustomerDetails) (int64, error)

	UpdatePermissions(ctx context.Context, id uint, ownerID uint, text, voice, video bool) (int64, error)
	AddReview(ctx context.Context, review *models.QRReview) error
	AddQuestion(ctx context.Context, question *models.QRQuestion) error
	AddCallLog(ctx context.Context, entry *models.QRCallLog) error

	// Reconciliation counts for salesperson dashboards (see stats service).
	CountAvailable(ctx context.Context, salespersonID uint) (int64, error)
	CountSold(ctx context.Context, salespersonID uint) (int64, error)
}

type qrRepository struct {
	db *gorm.DB
}

func NewQRRepository(db *gorm.DB) QRRepository {
	return &qrRepository{db: db}
}

func (r *qrRepository) GetByID(ctx context.Context, id uint) (*models.QR, error) {
	var qr models.QR
	if err := r.db.WithContext(ctx).First(&qr, id).Error; err != nil {
		return nil, err
	}
	return &qr, nil
}

func (r *qrRepository) GetBySerial(ctx context.Context, serial string) (*models.QR, error) {
	var qr models.QR
	if err := r.db.WithContext(ctx).Where("serial_number = ?", serial).First(&qr).Error; err != nil {
		return nil, err
	}
	return &qr, nil
}

func (r *qrRepository) ListByBundle(ctx context.Context, bundleID uint) ([]models.QR, error) {
	var qrs []models.QR
	err := r.db.WithContext(ctx).Where("bundle_id = ?", bundleID).Order("id").Find(&qrs).Error
	return qrs, err
}

func (r *qrRepository) ListByIDsInBundle(ctx context.Context, bundleID uint, ids []uint) ([]models.QR, error) {
	var qrs []models.QR
	err := r.db.WithContext(ctx).
		Where("id IN ? AND bundle_id = ?", ids, bundleID).
		Find(&qrs).Error
	return qrs, err
}

func (r *qrRepository) CountPendingPayment(ctx context.Context, bundleID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.QR{}).
		Where("bundle_id = ? AND qr_status = ?", bundleID, lifecycle.QRPendingPayment).
		Count(&count).Error
	return count, err
}

func (r *qrRepository) SellDirect(ctx context.Context, id uint, customerID uint, sellerID *uint, details models.CustomerDetails, transactionID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.QR{}).
		Where("id = ? AND qr_status = ? AND is_sold = ? AND created_for IS NULL",
			id, lifecycle.QRInactive, false).
		Updates(map[string]interface{}{
			"qr_status":           lifecycle.QRActive,
			"created_for":         customerID,
			"sold_by_salesperson": sellerID,
			"is_sold":             true,
			"transaction_id":      transactionID,
			"customer_name":       details.Name,
			"customer_phone":      details.Phone,
			"customer_email":      details.Email,
			"customer_address":    details.Address,
			"vehicle_number":      details.VehicleNumber,
			"gst_number":          details.GSTNumber,
		})
	return res.RowsAffected, res.Error
}

func (r *qrRepository) ActivateBySerial(ctx context.Context, serial string, customerID uint, details models.CustomerDetails) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.QR{}).
		Where("serial_number = ? AND qr_status = ?", serial, lifecycle.QRInactive).
		Updates(map[string]interface{}{
			"qr_status":        lifecycle.QRActive,
			"created_for":      customerID,
			"customer_name":    details.Name,
			"customer_phone":   details.Phone,
			"customer_email":   details.Email,
			"customer_address": details.Address,
			"vehicle_number":   details.VehicleNumber,
			"gst_number":       details.GSTNumber,
		})
	return res.RowsAffected, res.Error
}

func (r *qrRepository) UpdatePermissions(ctx context.Context, id uint, ownerID uint, text, voice, video bool) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.QR{}).
		Where("id = ? AND created_for = ?", id, ownerID).
		Updates(map[string]interface{}{
			"text_messages_allowed": text,
			"voice_calls_allowed":   voice,
			"video_calls_allowed":   video,
		})
	return res.RowsAffected, res.Error
}

func (r *qrRepository) AddReview(ctx context.Context, review *models.QRReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *qrRepository) AddQuestion(ctx context.Context, question *models.QRQuestion) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *qrRepository) AddCallLog(ctx context.Context, entry *models.QRCallLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CountAvailable: INACTIVE, never assigned to a customer and not sold.
func (r *qrRepository) CountAvailable(ctx context.Context, salespersonID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.QR{}).
		Joins("JOIN bundles ON bundles.id = qrs.bundle_id").
		Where("bundles.assigned_to = ?", salespersonID).
		Where("qrs.qr_status = ? AND qrs.created_for IS NULL AND qrs.is_sold = ?",
			lifecycle.QRInactive, false).
		Count(&count).Error
	return count, err
}

// CountSold preserves the dual definition of "sold": customer-activated
// QRs plus approved-but-not-yet-activated ones. The two status
// combinations are disjoint and must not be collapsed into one flag.
func (r *qrRepository) CountSold(ctx context.Context, salespersonID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.QR{}).
		Where("sold_by_salesperson = ?", salespersonID).
		Where("(qr_status = ? AND created_for IS NOT NULL) OR (qr_status = ? AND is_sold = ?)",
			lifecycle.QRActive, lifecycle.QRInactive, true).
		Count(&count).Error
	return count, err
}
