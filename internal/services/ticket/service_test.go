package ticket

import (
	"context"
	goerrors "errors"
	"testing"

	"digipehchan/internal/domain/lifecycle"
	"digipehchan/internal/errors"
	"digipehchan/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockTicketRepo struct{ mock.Mock }

func (m *mockTicketRepo) GetByRef(ctx context.Context, ref string) (*models.PaymentTicket, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentTicket), args.Error(1)
}

func (m *mockTicketRepo) List(ctx context.Context, status string, offset, limit int) ([]models.PaymentTicket, int64, error) {
	args := m.Called(ctx, status, offset, limit)
	return args.Get(0).([]models.PaymentTicket), args.Get(1).(int64), args.Error(2)
}

func (m *mockTicketRepo) ListBySalesperson(ctx context.Context, salespersonID uint, offset, limit int) ([]models.PaymentTicket, int64, error) {
	args := m.Called(ctx, salespersonID, offset, limit)
	return args.Get(0).([]models.PaymentTicket), args.Get(1).(int64), args.Error(2)
}

func (m *mockTicketRepo) PendingQRIDs(ctx context.Context, qrIDs []uint) ([]uint, error) {
	args := m.Called(ctx, qrIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *mockTicketRepo) CreateWithReservation(ctx context.Context, ticket *models.PaymentTicket, qrIDs []uint) error {
	args := m.Called(ctx, ticket, qrIDs)
	return args.Error(0)
}

func (m *mockTicketRepo) Approve(ctx context.Context, ticket *models.PaymentTicket, adminID uint, notes string) error {
	args := m.Called(ctx, ticket, adminID, notes)
	if args.Error(0) == nil {
		ticket.Status = string(lifecycle.TicketApproved)
	}
	return args.Error(0)
}

func (m *mockTicketRepo) Reject(ctx context.Context, ticket *models.PaymentTicket, adminID uint, notes string) error {
	args := m.Called(ctx, ticket, adminID, notes)
	if args.Error(0) == nil {
		ticket.Status = string(lifecycle.TicketRejected)
	}
	return args.Error(0)
}

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

func uintPtr(v uint) *uint { return &v }

func assignedBundle(id, salespersonID uint) *models.Bundle {
	b := &models.Bundle{
		BundleNo:   int(id),
		Status:     models.BundleStatusAssigned,
		AssignedTo: uintPtr(salespersonID),
	}
	b.ID = id
	return b
}

func inactiveQRs(ids ...uint) []models.QR {
	qrs := make([]models.QR, 0, len(ids))
	for _, id := range ids {
		qr := models.QR{QRStatus: string(lifecycle.QRInactive)}
		qr.ID = id
		qrs = append(qrs, qr)
	}
	return qrs
}

func validCreateRequest(bundleID uint, qrIDs []uint) CreateRequest {
	return CreateRequest{
		BundleID:      bundleID,
		QRIDs:         qrIDs,
		Amount:        300,
		PaymentMethod: "cash",
		Customer: models.CustomerDetails{
			Name:  "Asha Kumar",
			Phone: "+919876543210",
		},
	}
}

func newTestService(t *testing.T) (Service, *mockTicketRepo, *mockBundleRepo, *mockQRRepo) {
	t.Helper()
	tickets := new(mockTicketRepo)
	bundles := new(mockBundleRepo)
	qrs := new(mockQRRepo)
	return NewService(tickets, bundles, qrs, nil), tickets, bundles, qrs
}

func TestCreateTicket_HappyPath(t *testing.T) {
	svc, tickets, bundles, qrs := newTestService(t)
	ctx := context.Background()
	qrIDs := []uint{1, 2, 3}

	bundles.On("GetByID", ctx, uint(10)).Return(assignedBundle(10, 5), nil)
	qrs.On("ListByIDsInBundle", ctx, uint(10), qrIDs).Return(inactiveQRs(1, 2, 3), nil)
	tickets.On("PendingQRIDs", ctx, qrIDs).Return([]uint{}, nil)
	tickets.On("CreateWithReservation", ctx, mock.MatchedBy(func(tk *models.PaymentTicket) bool {
		return tk.SalespersonID == 5 && tk.BundleID == 10 && tk.CustomerName == "Asha Kumar"
	}), qrIDs).Return(nil)

	created, err := svc.Create(ctx, 5, validCreateRequest(10, qrIDs))
	require.NoError(t, err)
	assert.Equal(t, uint(5), created.SalespersonID)
	assert.NotEmpty(t, created.TicketRef)

	tickets.AssertExpectations(t)
	bundles.AssertExpectations(t)
	qrs.AssertExpectations(t)
}

func TestCreateTicket_MissingFields(t *testing.T) {
	svc, tickets, _, _ := newTestService(t)

	req := validCreateRequest(10, []uint{1})
	req.Customer.Phone = ""

	_, err := svc.Create(context.Background(), 5, req)
	assert.ErrorIs(t, err, errors.ErrValidationFailed)
	tickets.AssertNotCalled(t, "CreateWithReservation", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateTicket_BundleNotOwned(t *testing.T) {
	svc, _, bundles, _ := newTestService(t)
	ctx := context.Background()

	bundles.On("GetByID", ctx, uint(10)).Return(assignedBundle(10, 99), nil)

	_, err := svc.Create(ctx, 5, validCreateRequest(10, []uint{1}))
	assert.ErrorIs(t, err, errors.ErrBundleNotOwned)
}

func TestCreateTicket_BundleNotFound(t *testing.T) {
	svc, _, bundles, _ := newTestService(t)
	ctx := context.Background()

	bundles.On("GetByID", ctx, uint(10)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(ctx, 5, validCreateRequest(10, []uint{1}))
	assert.ErrorIs(t, err, errors.ErrBundleNotFound)
}

func TestCreateTicket_PartialMatchNamesMissingIDs(t *testing.T) {
	svc, _, bundles, qrs := newTestService(t)
	ctx := context.Background()
	qrIDs := []uint{1, 2, 3}

	bundles.On("GetByID", ctx, uint(10)).Return(assignedBundle(10, 5), nil)
	qrs.On("ListByIDsInBundle", ctx, uint(10), qrIDs).Return(inactiveQRs(1, 3), nil)

	_, err := svc.Create(ctx, 5, validCreateRequest(10, qrIDs))
	require.ErrorIs(t, err, errors.ErrQRNotInBundle)
	assert.Contains(t, err.Error(), "2")
}

func TestCreateTicket_QRNotInactive(t *testing.T) {
	svc, _, bundles, qrs := newTestService(t)
	ctx := context.Background()
	qrIDs := []uint{1}

	reserved := inactiveQRs(1)
	reserved[0].QRStatus = string(lifecycle.QRPendingPayment)

	bundles.On("GetByID", ctx, uint(10)).Return(assignedBundle(10, 5), nil)
	qrs.On("ListByIDsInBundle", ctx, uint(10), qrIDs).Return(reserved, nil)

	_, err := svc.Create(ctx, 5, validCreateRequest(10, qrIDs))
	assert.ErrorIs(t, err, errors.ErrQRNotInBundle)
}

// An approved ticket leaves its QRs INACTIVE with is_sold set; such a
// QR already belongs to a buyer and must not enter a second ticket.
// The reservation UPDATE carries the same is_sold predicate so a
// concurrent approval cannot slip one past this check.
func TestCreateTicket_RefusesSoldAwaitingActivation(t *testing.T) {
	svc, tickets, bundles, qrs := newTestService(t)
	ctx := context.Background()
	qrIDs := []uint{1}

	sold := inactiveQRs(1)
	sold[0].IsSold = true

	bundles.On("GetByID", ctx, uint(10)).Return(assignedBundle(10, 5), nil)
	qrs.On("ListByIDsInBundle", ctx, uint(10), qrIDs).Return(sold, nil)

	_, err := svc.Create(ctx, 5, validCreateRequest(10, qrIDs))
	assert.ErrorIs(t, err, errors.ErrQRNotInBundle)
	tickets.AssertNotCalled(t, "CreateWithReservation", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateTicket_AlreadyReservedByPendingTicket(t *testing.T) {
	svc, tickets, bundles, qrs := newTestService(t)
	ctx := context.Background()
	qrIDs := []uint{1, 2}

	bundles.On("GetByID", ctx, uint(10)).Return(assignedBundle(10, 5), nil)
	qrs.On("ListByIDsInBundle", ctx, uint(10), qrIDs).Return(inactiveQRs(1, 2), nil)
	tickets.On("PendingQRIDs", ctx, qrIDs).Return([]uint{2}, nil)

	_, err := svc.Create(ctx, 5, validCreateRequest(10, qrIDs))
	assert.ErrorIs(t, err, errors.ErrQRsAlreadyReserved)
	tickets.AssertNotCalled(t, "CreateWithReservation", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateTicket_ReservationRaceRollsBack(t *testing.T) {
	svc, tickets, bundles, qrs := newTestService(t)
	ctx := context.Background()
	qrIDs := []uint{1}

	bundles.On("GetByID", ctx, uint(10)).Return(assignedBundle(10, 5), nil)
	qrs.On("ListByIDsInBundle", ctx, uint(10), qrIDs).Return(inactiveQRs(1), nil)
	tickets.On("PendingQRIDs", ctx, qrIDs).Return([]uint{}, nil)
	tickets.On("CreateWithReservation", ctx, mock.Anything, qrIDs).Return(errors.ErrQRsAlreadyReserved)

	_, err := svc.Create(ctx, 5, validCreateRequest(10, qrIDs))
	assert.ErrorIs(t, err, errors.ErrQRsAlreadyReserved)
}

func pendingTicket(ref string) *models.PaymentTicket {
	tk := &models.PaymentTicket{
		TicketRef:     ref,
		Status:        string(lifecycle.TicketPending),
		SalespersonID: 5,
		BundleID:      10,
	}
	tk.ID = 1
	return tk
}

func TestResolveTicket_Approve(t *testing.T) {
	svc, tickets, _, _ := newTestService(t)
	ctx := context.Background()

	tk := pendingTicket("TKT-1-abc")
	tickets.On("GetByRef", ctx, "TKT-1-abc").Return(tk, nil)
	tickets.On("Approve", ctx, tk, uint(2), "ok").Return(nil)

	resolved, err := svc.Resolve(ctx, "TKT-1-abc", 2, DecisionApproved, "ok")
	require.NoError(t, err)
	assert.Equal(t, string(lifecycle.TicketApproved), resolved.Status)
	tickets.AssertExpectations(t)
}

func TestResolveTicket_Reject(t *testing.T) {
	svc, tickets, _, _ := newTestService(t)
	ctx := context.Background()

	tk := pendingTicket("TKT-1-abc")
	tickets.On("GetByRef", ctx, "TKT-1-abc").Return(tk, nil)
	tickets.On("Reject", ctx, tk, uint(2), "no proof").Return(nil)

	resolved, err := svc.Resolve(ctx, "TKT-1-abc", 2, DecisionRejected, "no proof")
	require.NoError(t, err)
	assert.Equal(t, string(lifecycle.TicketRejected), resolved.Status)
}

func TestResolveTicket_RejectedThenApproved(t *testing.T) {
	svc, tickets, _, _ := newTestService(t)
	ctx := context.Background()

	tk := pendingTicket("TKT-1-abc")
	tk.Status = string(lifecycle.TicketRejected)
	tickets.On("GetByRef", ctx, "TKT-1-abc").Return(tk, nil)
	tickets.On("Approve", ctx, tk, uint(2), "payment arrived").Return(nil)

	resolved, err := svc.Resolve(ctx, "TKT-1-abc", 2, DecisionApproved, "payment arrived")
	require.NoError(t, err)
	assert.Equal(t, string(lifecycle.TicketApproved), resolved.Status)
}

func TestResolveTicket_DoubleApprovalRejected(t *testing.T) {
	svc, tickets, _, _ := newTestService(t)
	ctx := context.Background()

	tk := pendingTicket("TKT-1-abc")
	tk.Status = string(lifecycle.TicketApproved)
	tickets.On("GetByRef", ctx, "TKT-1-abc").Return(tk, nil)

	_, err := svc.Resolve(ctx, "TKT-1-abc", 2, DecisionApproved, "")
	assert.ErrorIs(t, err, errors.ErrInvalidTicketTransition)
	// The sold counter moves inside Approve, so refusing the call is
	// what keeps approval idempotent.
	tickets.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveTicket_ApprovedCannotBeRejected(t *testing.T) {
	svc, tickets, _, _ := newTestService(t)
	ctx := context.Background()

	tk := pendingTicket("TKT-1-abc")
	tk.Status = string(lifecycle.TicketApproved)
	tickets.On("GetByRef", ctx, "TKT-1-abc").Return(tk, nil)

	_, err := svc.Resolve(ctx, "TKT-1-abc", 2, DecisionRejected, "")
	assert.ErrorIs(t, err, errors.ErrInvalidTicketTransition)
}

func TestResolveTicket_UnknownDecision(t *testing.T) {
	svc, tickets, _, _ := newTestService(t)
	ctx := context.Background()

	tickets.On("GetByRef", ctx, "TKT-1-abc").Return(pendingTicket("TKT-1-abc"), nil)

	_, err := svc.Resolve(ctx, "TKT-1-abc", 2, Decision("MAYBE"), "")
	assert.ErrorIs(t, err, errors.ErrValidationFailed)
}

func TestResolveTicket_NotFound(t *testing.T) {
	svc, tickets, _, _ := newTestService(t)
	ctx := context.Background()

	tickets.On("GetByRef", ctx, "TKT-404").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Resolve(ctx, "TKT-404", 2, DecisionApproved, "")
	assert.ErrorIs(t, err, errors.ErrTicketNotFound)
}

func TestCreateTicket_RepoErrorPassthrough(t *testing.T) {
	svc, _, bundles, _ := newTestService(t)
	ctx := context.Background()

	dbErr := goerrors.New("connection reset")
	bundles.On("GetByID", ctx, uint(10)).Return(nil, dbErr)

	_, err := svc.Create(ctx, 5, validCreateRequest(10, []uint{1}))
	assert.ErrorIs(t, err, dbErr)
}
