package bundle

import (
	"context"
	goerrors "errors"
	"fmt"
	"testing"

	"digipehchan/internal/domain/lifecycle"
	"digipehchan/internal/errors"
	"digipehchan/internal/models"
	"digipehchan/internal/repositories/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockBundleRepo struct{ mock.Mock }

func (m *mockBundleRepo) CreateWithQRs(ctx context.Context, bundle *models.Bundle, qrs []models.QR) error {
	args := m.Called(ctx, bundle, qrs)
	return args.Error(0)
}

func (m *mockBundleRepo) GetByID(ctx context.Context, id uint) (*models.Bundle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bundle), args.Error(1)
}

func (m *mockBundleRepo) List(ctx context.Context, offset, limit int) ([]models.Bundle, int64, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]models.Bundle), args.Get(1).(int64), args.Error(2)
}

func (m *mockBundleRepo) ListBySalesperson(ctx context.Context, salespersonID uint, offset, limit int) ([]models.Bundle, int64, error) {
	args := m.Called(ctx, salespersonID, offset, limit)
	return args.Get(0).([]models.Bundle), args.Get(1).(int64), args.Error(2)
}

func (m *mockBundleRepo) CountBySalesperson(ctx context.Context, salespersonID uint) (int64, error) {
	args := m.Called(ctx, salespersonID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBundleRepo) Assign(ctx context.Context, bundleID, salespersonID uint, deliveryType, orderStatus string) error {
	args := m.Called(ctx, bundleID, salespersonID, deliveryType, orderStatus)
	return args.Error(0)
}

func (m *mockBundleRepo) Transfer(ctx context.Context, bundleID, targetSalespersonID uint) error {
	args := m.Called(ctx, bundleID, targetSalespersonID)
	return args.Error(0)
}

type mockQRRepo struct{ mock.Mock }

func (m *mockQRRepo) GetByID(ctx context.Context, id uint) (*models.QR, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QR), args.Error(1)
}

func (m *mockQRRepo) GetBySerial(ctx context.Context, serial string) (*models.QR, error) {
	args := m.Called(ctx, serial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QR), args.Error(1)
}

func (m *mockQRRepo) ListByBundle(ctx context.Context, bundleID uint) ([]models.QR, error) {
	args := m.Called(ctx, bundleID)
	return args.Get(0).([]models.QR), args.Error(1)
}

func (m *mockQRRepo) ListByIDsInBundle(ctx context.Context, bundleID uint, ids []uint) ([]models.QR, error) {
	args := m.Called(ctx, bundleID, ids)
	return args.Get(0).([]models.QR), args.Error(1)
}

func (m *mockQRRepo) CountPendingPayment(ctx context.Context, bundleID uint) (int64, error) {
	args := m.Called(ctx, bundleID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQRRepo) SellDirect(ctx context.Context, id uint, customerID uint, sellerID *uint, details models.CustomerDetails, transactionID string) (int64, error) {
	args := m.Called(ctx, id, customerID, sellerID, details, transactionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQRRepo) ActivateBySerial(ctx context.Context, serial string, customerID uint, details models.CustomerDetails) (int64, error) {
	args := m.Called(ctx, serial, customerID, details)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQRRepo) UpdatePermissions(ctx context.Context, id uint, ownerID uint, text, voice, video bool) (int64, error) {
	args := m.Called(ctx, id, ownerID, text, voice, video)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQRRepo) AddReview(ctx context.Context, review *models.QRReview) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockQRRepo) AddQuestion(ctx context.Context, question *models.QRQuestion) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *mockQRRepo) AddCallLog(ctx context.Context, entry *models.QRCallLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockQRRepo) CountAvailable(ctx context.Context, salespersonID uint) (int64, error) {
	args := m.Called(ctx, salespersonID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQRRepo) CountSold(ctx context.Context, salespersonID uint) (int64, error) {
	args := m.Called(ctx, salespersonID)
	return args.Get(0).(int64), args.Error(1)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetByPhone(phone string) (*models.User, error) {
	args := m.Called(phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockUserRepo) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockUserRepo) IncrementTokenVersion(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *mockCache) SetJSON(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

type fakeRenderer struct {
	rendered []string
	removed  []string
}

func (f *fakeRenderer) Render(payload string) (string, error) {
	url := "/static/" + payload + ".png"
	f.rendered = append(f.rendered, url)
	return url, nil
}

func (f *fakeRenderer) Remove(url string) error {
	f.removed = append(f.removed, url)
	return nil
}

type seqSerials struct{ n int }

func (s *seqSerials) Next(qrTypeID uint) string {
	s.n++
	return fmt.Sprintf("DPQR%d-%010d", qrTypeID, s.n)
}

func salesperson(id uint) *models.User {
	u := &models.User{Role: models.RoleSalesperson, Status: models.UserStatusActive}
	u.ID = id
	return u
}

func uintPtr(v uint) *uint { return &v }

type fixture struct {
	bundles *mockBundleRepo
	qrs     *mockQRRepo
	users   *mockUserRepo
	cache   *mockCache
	svc     Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		bundles: new(mockBundleRepo),
		qrs:     new(mockQRRepo),
		users:   new(mockUserRepo),
		cache:   new(mockCache),
	}
	f.svc = NewService(f.bundles, f.qrs, f.users, &seqSerials{}, nil, f.cache)
	return f
}

func TestGenerate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.bundles.On("CreateWithQRs", ctx, mock.Anything, mock.MatchedBy(func(qrs []models.QR) bool {
		if len(qrs) != 5 {
			return false
		}
		seen := make(map[string]bool)
		for _, qr := range qrs {
			if qr.QRStatus != string(lifecycle.QRInactive) || qr.Price != 150 || qr.CreatedBy != 1 {
				return false
			}
			if seen[qr.SerialNumber] {
				return false
			}
			seen[qr.SerialNumber] = true
		}
		return true
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Bundle).BundleNo = 12
	}).Return(nil)

	bundle, err := f.svc.Generate(ctx, 1, GenerateRequest{QRTypeID: 2, Quantity: 5, PricePerQR: 150})
	require.NoError(t, err)
	assert.Equal(t, "BDL-000012", bundle.DisplayID())
	f.bundles.AssertExpectations(t)
}

func TestGenerate_InvalidQuantity(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Generate(context.Background(), 1, GenerateRequest{QRTypeID: 2, Quantity: 0, PricePerQR: 150})
	assert.ErrorIs(t, err, errors.ErrValidationFailed)

	_, err = f.svc.Generate(context.Background(), 1, GenerateRequest{QRTypeID: 2, Quantity: 1001, PricePerQR: 150})
	assert.ErrorIs(t, err, errors.ErrValidationFailed)

	f.bundles.AssertNotCalled(t, "CreateWithQRs", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerate_RemovesImagesOnFailedCreate(t *testing.T) {
	bundles := new(mockBundleRepo)
	renderer := &fakeRenderer{}
	svc := NewService(bundles, new(mockQRRepo), new(mockUserRepo), &seqSerials{}, renderer, nil)
	ctx := context.Background()

	bundles.On("CreateWithQRs", ctx, mock.Anything, mock.Anything).
		Return(goerrors.New("deadlock detected"))

	_, err := svc.Generate(ctx, 1, GenerateRequest{QRTypeID: 2, Quantity: 3, PricePerQR: 150})
	require.Error(t, err)
	assert.Len(t, renderer.rendered, 3)
	assert.Equal(t, renderer.rendered, renderer.removed)
}

func TestAssign_ETagDeliversImmediately(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := &models.Bundle{BundleNo: 3, Status: models.BundleStatusUnassigned}
	b.ID = 3

	f.users.On("GetByID", uint(7)).Return(salesperson(7), nil)
	f.bundles.On("GetByID", ctx, uint(3)).Return(b, nil)
	f.bundles.On("Assign", ctx, uint(3), uint(7), models.DeliveryTypeETag, models.OrderStatusDelivered).Return(nil)
	f.cache.On("Delete", ctx, []string{cache.StatsKey(7)}).Return(nil)

	_, err := f.svc.Assign(ctx, 3, 7, models.DeliveryTypeETag)
	require.NoError(t, err)
	f.bundles.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestAssign_StandardShipsFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := &models.Bundle{BundleNo: 3, Status: models.BundleStatusUnassigned}
	b.ID = 3

	f.users.On("GetByID", uint(7)).Return(salesperson(7), nil)
	f.bundles.On("GetByID", ctx, uint(3)).Return(b, nil)
	f.bundles.On("Assign", ctx, uint(3), uint(7), models.DeliveryTypeStandard, models.OrderStatusShipped).Return(nil)
	f.cache.On("Delete", ctx, []string{cache.StatsKey(7)}).Return(nil)

	_, err := f.svc.Assign(ctx, 3, 7, models.DeliveryTypeStandard)
	require.NoError(t, err)
	f.bundles.AssertExpectations(t)
}

// Re-assigning an assigned bundle would swap owners without the
// pending-payment guard or the audit row; only Transfer may do that.
func TestAssign_RefusesAssignedBundle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := &models.Bundle{
		BundleNo:     3,
		Status:       models.BundleStatusAssigned,
		AssignedTo:   uintPtr(1),
		DeliveryType: models.DeliveryTypeStandard,
	}
	b.ID = 7

	f.users.On("GetByID", uint(2)).Return(salesperson(2), nil)
	f.bundles.On("GetByID", ctx, uint(7)).Return(b, nil)

	_, err := f.svc.Assign(ctx, 7, 2, models.DeliveryTypeETag)
	assert.ErrorIs(t, err, errors.ErrBundleAlreadyAssigned)
	f.bundles.AssertNotCalled(t, "Assign",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAssign_RejectsNonSalesperson(t *testing.T) {
	f := newFixture(t)

	admin := &models.User{Role: models.RoleAdmin, Status: models.UserStatusActive}
	admin.ID = 7
	f.users.On("GetByID", uint(7)).Return(admin, nil)

	_, err := f.svc.Assign(context.Background(), 3, 7, models.DeliveryTypeStandard)
	assert.ErrorIs(t, err, errors.ErrSalespersonNotFound)
}

func TestAssign_RejectsDisabledSalesperson(t *testing.T) {
	f := newFixture(t)

	disabled := salesperson(7)
	disabled.Status = models.UserStatusDisabled
	f.users.On("GetByID", uint(7)).Return(disabled, nil)

	_, err := f.svc.Assign(context.Background(), 3, 7, models.DeliveryTypeStandard)
	assert.ErrorIs(t, err, errors.ErrSalespersonInactive)
}

func TestTransfer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := &models.Bundle{BundleNo: 3, Status: models.BundleStatusAssigned, AssignedTo: uintPtr(7)}
	b.ID = 3

	f.users.On("GetByID", uint(8)).Return(salesperson(8), nil)
	f.bundles.On("GetByID", ctx, uint(3)).Return(b, nil)
	f.qrs.On("CountPendingPayment", ctx, uint(3)).Return(int64(0), nil)
	f.bundles.On("Transfer", ctx, uint(3), uint(8)).Return(nil)
	f.cache.On("Delete", ctx, []string{cache.StatsKey(7), cache.StatsKey(8)}).Return(nil)

	_, err := f.svc.Transfer(ctx, 3, 8)
	require.NoError(t, err)
	f.bundles.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestTransfer_BlockedByPendingPayments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := &models.Bundle{BundleNo: 3, Status: models.BundleStatusAssigned, AssignedTo: uintPtr(7)}
	b.ID = 3

	f.users.On("GetByID", uint(8)).Return(salesperson(8), nil)
	f.bundles.On("GetByID", ctx, uint(3)).Return(b, nil)
	f.qrs.On("CountPendingPayment", ctx, uint(3)).Return(int64(2), nil)

	_, err := f.svc.Transfer(ctx, 3, 8)
	assert.ErrorIs(t, err, errors.ErrBundlePendingPayments)
	f.bundles.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransfer_RequiresAssignedBundle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := &models.Bundle{BundleNo: 3, Status: models.BundleStatusUnassigned}
	b.ID = 3

	f.users.On("GetByID", uint(8)).Return(salesperson(8), nil)
	f.bundles.On("GetByID", ctx, uint(3)).Return(b, nil)

	_, err := f.svc.Transfer(ctx, 3, 8)
	assert.ErrorIs(t, err, errors.ErrBundleNotAssigned)
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.bundles.On("GetByID", ctx, uint(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.Get(ctx, 99)
	assert.ErrorIs(t, err, errors.ErrBundleNotFound)
}

func TestGet_RepoErrorPassthrough(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dbErr := goerrors.New("connection reset")
	f.bundles.On("GetByID", ctx, uint(99)).Return(nil, dbErr)

	_, err := f.svc.Get(ctx, 99)
	assert.ErrorIs(t, err, dbErr)
}
