package order

import (
	"context"
	"errors"
	"testing"

	"github.com/example/multimart/internal/cart"
	"github.com/example/multimart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// fakeRepo records the order passed to Create and serves canned reads.
type fakeRepo struct {
	created      *Order
	couponID     int64
	createErr    error
	nextID       int64
	byID         map[int64]*Order
	cancelled    []int64
	cancelErr    error
	statusWrites map[int64]string
	paid         map[int64]string
	stats        *Stats
	statsVendor  int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		nextID:       1,
		byID:         map[int64]*Order{},
		statusWrites: map[int64]string{},
		paid:         map[int64]string{},
	}
}

func (r *fakeRepo) Create(ctx context.Context, o *Order, couponID int64) (int64, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}
	r.created = o
	r.couponID = couponID
	return r.nextID, nil
}

func (r *fakeRepo) Cancel(ctx context.Context, orderID int64) error {
	if r.cancelErr != nil {
		return r.cancelErr
	}
	r.cancelled = append(r.cancelled, orderID)
	return nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	r.statusWrites[orderID] = status
	return nil
}

func (r *fakeRepo) MarkPaid(ctx context.Context, orderID int64, transactionID string) error {
	r.paid[orderID] = transactionID
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id int64) (*Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (r *fakeRepo) ByUser(ctx context.Context, userID int64, status string, page domain.Page) ([]Order, int, error) {
	var out []Order
	for _, o := range r.byID {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) Stats(ctx context.Context, vendorID int64) (*Stats, error) {
	r.statsVendor = vendorID
	return r.stats, nil
}

// fakeCart serves a fixed set of lines.
type fakeCart struct {
	lines    []cart.Line
	invalid  []cart.Line
	cleared  bool
	clearErr error
}

func (c *fakeCart) Items(ctx context.Context, userID int64) ([]cart.Line, error) {
	return c.lines, nil
}

func (c *fakeCart) InvalidItems(ctx context.Context, userID int64) ([]cart.Line, error) {
	return c.invalid, nil
}

func (c *fakeCart) Clear(ctx context.Context, userID int64) error {
	c.cleared = true
	return c.clearErr
}

type fakeCoupons struct {
	id       int64
	discount decimal.Decimal
	err      error
	code     string
}

func (c *fakeCoupons) Validate(ctx context.Context, code string, total decimal.Decimal) (int64, decimal.Decimal, error) {
	c.code = code
	return c.id, c.discount, c.err
}

type fakeEvents struct {
	published []string
	err       error
}

func (e *fakeEvents) Publish(ctx context.Context, key, eventType string, payload any) error {
	e.published = append(e.published, eventType)
	return e.err
}

func twoLineCart() []cart.Line {
	return []cart.Line{
		{ProductID: 1, Quantity: 2, ProductName: "Keyboard", Price: dec("49.99"), Stock: 10, Status: "active"},
		{ProductID: 2, Quantity: 1, ProductName: "Mouse", Price: dec("19.99"), Stock: 5, Status: "active"},
	}
}

func validInput() CreateInput {
	return CreateInput{
		ShippingAddress: "1 Main St",
		PaymentMethod:   MethodPaypal,
	}
}

func TestCreate_SnapshotsCartIntoOrder(t *testing.T) {
	repo := newFakeRepo()
	repo.nextID = 42
	carts := &fakeCart{lines: twoLineCart()}
	events := &fakeEvents{}
	svc := NewService(repo, carts, &fakeCoupons{}, events)

	id, err := svc.Create(context.Background(), domain.Actor{UserID: 7, Role: domain.RoleUser}, validInput())

	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	require.NotNil(t, repo.created)
	assert.Equal(t, int64(7), repo.created.UserID)
	assert.Equal(t, StatusPending, repo.created.Status)
	assert.Equal(t, PaymentPending, repo.created.PaymentStatus)
	// 2 * 49.99 + 19.99
	assert.True(t, repo.created.TotalAmount.Equal(dec("119.97")), "got %s", repo.created.TotalAmount)
	require.Len(t, repo.created.Items, 2)
	assert.True(t, repo.created.Items[0].Price.Equal(dec("49.99")))
	assert.True(t, carts.cleared)
	assert.Equal(t, []string{EventOrderPlaced}, events.published)
}

func TestCreate_EmptyCart(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeCart{}, &fakeCoupons{}, nil)

	_, err := svc.Create(context.Background(), domain.Actor{UserID: 7}, validInput())

	assert.ErrorIs(t, err, cart.ErrEmptyCart)
}

func TestCreate_MissingAddress(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeCart{lines: twoLineCart()}, &fakeCoupons{}, nil)

	in := validInput()
	in.ShippingAddress = ""
	_, err := svc.Create(context.Background(), domain.Actor{UserID: 7}, in)

	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestCreate_InvalidPaymentMethod(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeCart{lines: twoLineCart()}, &fakeCoupons{}, nil)

	in := validInput()
	in.PaymentMethod = "cheque"
	_, err := svc.Create(context.Background(), domain.Actor{UserID: 7}, in)

	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestCreate_InvalidCartItems(t *testing.T) {
	bad := []cart.Line{{ProductID: 3, Quantity: 9, Stock: 1, Status: "active"}}
	svc := NewService(newFakeRepo(), &fakeCart{lines: twoLineCart(), invalid: bad}, &fakeCoupons{}, nil)

	_, err := svc.Create(context.Background(), domain.Actor{UserID: 7}, validInput())

	var stockErr *StockValidationError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, bad, stockErr.Items)
}

func TestCreate_AppliesCouponDiscount(t *testing.T) {
	repo := newFakeRepo()
	coupons := &fakeCoupons{id: 9, discount: dec("19.97")}
	svc := NewService(repo, &fakeCart{lines: twoLineCart()}, coupons, nil)

	in := validInput()
	in.CouponCode = "SAVE20"
	_, err := svc.Create(context.Background(), domain.Actor{UserID: 7}, in)

	require.NoError(t, err)
	assert.Equal(t, "SAVE20", coupons.code)
	assert.Equal(t, int64(9), repo.couponID)
	assert.True(t, repo.created.TotalAmount.Equal(dec("100.00")), "got %s", repo.created.TotalAmount)
}

func TestCreate_InvalidCouponFailsOrder(t *testing.T) {
	repo := newFakeRepo()
	coupons := &fakeCoupons{err: errors.New("boom")}
	svc := NewService(repo, &fakeCart{lines: twoLineCart()}, coupons, nil)

	in := validInput()
	in.CouponCode = "NOPE"
	_, err := svc.Create(context.Background(), domain.Actor{UserID: 7}, in)

	assert.Error(t, err)
	assert.Nil(t, repo.created)
}

func TestCreate_InsufficientStockPropagates(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = ErrInsufficientStock
	carts := &fakeCart{lines: twoLineCart()}
	svc := NewService(repo, carts, &fakeCoupons{}, nil)

	_, err := svc.Create(context.Background(), domain.Actor{UserID: 7}, validInput())

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.False(t, carts.cleared, "cart must survive a failed order")
}

func TestCreate_FailedCartClearDoesNotFailOrder(t *testing.T) {
	repo := newFakeRepo()
	carts := &fakeCart{lines: twoLineCart(), clearErr: errors.New("db down")}
	svc := NewService(repo, carts, &fakeCoupons{}, nil)

	id, err := svc.Create(context.Background(), domain.Actor{UserID: 7}, validInput())

	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestCancel_OwnerCancelsPending(t *testing.T) {
	repo := newFakeRepo()
	repo.byID[5] = &Order{ID: 5, UserID: 7, Status: StatusPending}
	events := &fakeEvents{}
	svc := NewService(repo, &fakeCart{}, &fakeCoupons{}, events)

	err := svc.Cancel(context.Background(), domain.Actor{UserID: 7, Role: domain.RoleUser}, 5)

	require.NoError(t, err)
	assert.Equal(t, []int64{5}, repo.cancelled)
	assert.Equal(t, []string{EventOrderCancelled}, events.published)
}

func TestCancel_OtherUserForbidden(t *testing.T) {
	repo := newFakeRepo()
	repo.byID[5] = &Order{ID: 5, UserID: 7, Status: StatusPending}
	svc := NewService(repo, &fakeCart{}, &fakeCoupons{}, nil)

	err := svc.Cancel(context.Background(), domain.Actor{UserID: 8, Role: domain.RoleUser}, 5)

	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	assert.Empty(t, repo.cancelled)
}

func TestCancel_AdminMayCancelAnyOrder(t *testing.T) {
	repo := newFakeRepo()
	repo.byID[5] = &Order{ID: 5, UserID: 7, Status: StatusProcessing}
	svc := NewService(repo, &fakeCart{}, &fakeCoupons{}, nil)

	err := svc.Cancel(context.Background(), domain.Actor{UserID: 1, Role: domain.RoleAdmin}, 5)

	assert.NoError(t, err)
}

func TestCancel_RejectedAfterShipment(t *testing.T) {
	for _, status := range []string{StatusShipped, StatusDelivered, StatusCancelled} {
		t.Run(status, func(t *testing.T) {
			repo := newFakeRepo()
			repo.byID[5] = &Order{ID: 5, UserID: 7, Status: status}
			svc := NewService(repo, &fakeCart{}, &fakeCoupons{}, nil)

			err := svc.Cancel(context.Background(), domain.Actor{UserID: 7, Role: domain.RoleUser}, 5)

			assert.ErrorIs(t, err, ErrCannotCancel)
			assert.Empty(t, repo.cancelled)
		})
	}
}

func TestUpdateStatus_AdminOnly(t *testing.T) {
	repo := newFakeRepo()
	repo.byID[5] = &Order{ID: 5, UserID: 7, Status: StatusPending}
	svc := NewService(repo, &fakeCart{}, &fakeCoupons{}, nil)

	err := svc.UpdateStatus(context.Background(), domain.Actor{UserID: 7, Role: domain.RoleUser}, 5, StatusProcessing)

	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestUpdateStatus_ValidTransitions(t *testing.T) {
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	tests := []struct {
		from, to string
	}{
		{StatusPending, StatusProcessing},
		{StatusProcessing, StatusShipped},
		{StatusShipped, StatusDelivered},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			repo := newFakeRepo()
			repo.byID[5] = &Order{ID: 5, UserID: 7, Status: tt.from}
			svc := NewService(repo, &fakeCart{}, &fakeCoupons{}, nil)

			err := svc.UpdateStatus(context.Background(), admin, 5, tt.to)

			require.NoError(t, err)
			assert.Equal(t, tt.to, repo.statusWrites[5])
		})
	}
}

func TestUpdateStatus_InvalidTransitions(t *testing.T) {
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	tests := []struct {
		from, to string
	}{
		{StatusPending, StatusShipped},
		{StatusPending, StatusDelivered},
		{StatusShipped, StatusProcessing},
		{StatusDelivered, StatusShipped},
		{StatusCancelled, StatusProcessing},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			repo := newFakeRepo()
			repo.byID[5] = &Order{ID: 5, UserID: 7, Status: tt.from}
			svc := NewService(repo, &fakeCart{}, &fakeCoupons{}, nil)

			err := svc.UpdateStatus(context.Background(), admin, 5, tt.to)

			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestUpdateStatus_CancelledRoutesThroughCompensation(t *testing.T) {
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	repo := newFakeRepo()
	repo.byID[5] = &Order{ID: 5, UserID: 7, Status: StatusProcessing}
	events := &fakeEvents{}
	svc := NewService(repo, &fakeCart{}, &fakeCoupons{}, events)

	err := svc.UpdateStatus(context.Background(), admin, 5, StatusCancelled)

	require.NoError(t, err)
	assert.Equal(t, []int64{5}, repo.cancelled, "cancellation must restore stock, not just flip the status")
	assert.Empty(t, repo.statusWrites)
	assert.Equal(t, []string{EventOrderCancelled}, events.published)
}

func TestUpdateStatus_CancelDeliveredReportsCannotCancel(t *testing.T) {
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	repo := newFakeRepo()
	repo.byID[5] = &Order{ID: 5, UserID: 7, Status: StatusDelivered}
	svc := NewService(repo, &fakeCart{}, &fakeCoupons{}, nil)

	err := svc.UpdateStatus(context.Background(), admin, 5, StatusCancelled)

	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	repo := newFakeRepo()
	repo.byID[5] = &Order{ID: 5, UserID: 7, Status: StatusPending}
	svc := NewService(repo, &fakeCart{}, &fakeCoupons{}, nil)

	err := svc.UpdateStatus(context.Background(), admin, 5, "refunded")

	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestMarkPaid_GeneratesTransactionID(t *testing.T) {
	repo := newFakeRepo()
	repo.byID[5] = &Order{ID: 5, UserID: 7, Status: StatusPending}
	svc := NewService(repo, &fakeCart{}, &fakeCoupons{}, nil)

	err := svc.MarkPaid(context.Background(), domain.Actor{UserID: 7, Role: domain.RoleUser}, 5, "")

	require.NoError(t, err)
	assert.NotEmpty(t, repo.paid[5])
}

func TestMarkPaid_KeepsProvidedTransactionID(t *testing.T) {
	repo := newFakeRepo()
	repo.byID[5] = &Order{ID: 5, UserID: 7, Status: StatusPending}
	svc := NewService(repo, &fakeCart{}, &fakeCoupons{}, nil)

	err := svc.MarkPaid(context.Background(), domain.Actor{UserID: 7, Role: domain.RoleUser}, 5, "txn-123")

	require.NoError(t, err)
	assert.Equal(t, "txn-123", repo.paid[5])
}

func TestGet_OwnerAndAdminOnly(t *testing.T) {
	repo := newFakeRepo()
	repo.byID[5] = &Order{ID: 5, UserID: 7, Status: StatusPending}
	svc := NewService(repo, &fakeCart{}, &fakeCoupons{}, nil)

	_, err := svc.Get(context.Background(), domain.Actor{UserID: 7, Role: domain.RoleUser}, 5)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), domain.Actor{UserID: 1, Role: domain.RoleAdmin}, 5)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), domain.Actor{UserID: 8, Role: domain.RoleUser}, 5)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestGetStats_ScopedByRole(t *testing.T) {
	repo := newFakeRepo()
	repo.stats = &Stats{TotalOrders: 3}
	svc := NewService(repo, &fakeCart{}, &fakeCoupons{}, nil)

	_, err := svc.GetStats(context.Background(), domain.Actor{UserID: 1, Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, int64(0), repo.statsVendor)

	_, err = svc.GetStats(context.Background(), domain.Actor{UserID: 42, Role: domain.RoleVendor})
	require.NoError(t, err)
	assert.Equal(t, int64(42), repo.statsVendor)

	_, err = svc.GetStats(context.Background(), domain.Actor{UserID: 7, Role: domain.RoleUser})
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestCreate_PublishFailureDoesNotFailOrder(t *testing.T) {
	repo := newFakeRepo()
	events := &fakeEvents{err: errors.New("broker down")}
	svc := NewService(repo, &fakeCart{lines: twoLineCart()}, &fakeCoupons{}, events)

	_, err := svc.Create(context.Background(), domain.Actor{UserID: 7}, validInput())

	assert.NoError(t, err)
}
