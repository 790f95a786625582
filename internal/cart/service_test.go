package cart

import (
	"context"
	"testing"

	"github.com/example/multimart/internal/catalog"
	"github.com/example/multimart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCartRepo struct {
	lines   []Line
	upserts map[int64]int
	updates map[int64]int
	removed []int64
	cleared bool
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{upserts: map[int64]int{}, updates: map[int64]int{}}
}

func (r *fakeCartRepo) Items(ctx context.Context, userID int64) ([]Line, error) {
	return r.lines, nil
}

func (r *fakeCartRepo) Upsert(ctx context.Context, userID, productID int64, quantity int) error {
	r.upserts[productID] += quantity
	return nil
}

func (r *fakeCartRepo) UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) error {
	if _, ok := r.updates[productID]; !ok && len(r.lines) == 0 {
		return ErrItemNotFound
	}
	r.updates[productID] = quantity
	return nil
}

func (r *fakeCartRepo) Remove(ctx context.Context, userID, productID int64) error {
	r.removed = append(r.removed, productID)
	return nil
}

func (r *fakeCartRepo) Clear(ctx context.Context, userID int64) error {
	r.cleared = true
	return nil
}

func (r *fakeCartRepo) InvalidItems(ctx context.Context, userID int64) ([]Line, error) {
	var bad []Line
	for _, l := range r.lines {
		if l.Quantity > l.Stock || l.Status != catalog.ProductActive {
			bad = append(bad, l)
		}
	}
	return bad, nil
}

type fakeProducts struct {
	byID map[int64]*catalog.Product
}

func (p *fakeProducts) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	prod, ok := p.byID[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return prod, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func activeProduct(id int64, stock int) *catalog.Product {
	return &catalog.Product{ID: id, Name: "Widget", Price: dec("9.99"), Stock: stock, Status: catalog.ProductActive}
}

func TestAdd_Success(t *testing.T) {
	repo := newFakeCartRepo()
	products := &fakeProducts{byID: map[int64]*catalog.Product{1: activeProduct(1, 10)}}
	svc := NewService(repo, products)

	err := svc.Add(context.Background(), 7, 1, 3)

	require.NoError(t, err)
	assert.Equal(t, 3, repo.upserts[1])
}

func TestAdd_ZeroQuantity(t *testing.T) {
	svc := NewService(newFakeCartRepo(), &fakeProducts{})

	err := svc.Add(context.Background(), 7, 1, 0)

	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestAdd_UnknownProduct(t *testing.T) {
	svc := NewService(newFakeCartRepo(), &fakeProducts{byID: map[int64]*catalog.Product{}})

	err := svc.Add(context.Background(), 7, 99, 1)

	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestAdd_InactiveProduct(t *testing.T) {
	p := activeProduct(1, 10)
	p.Status = catalog.ProductPending
	svc := NewService(newFakeCartRepo(), &fakeProducts{byID: map[int64]*catalog.Product{1: p}})

	err := svc.Add(context.Background(), 7, 1, 1)

	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestAdd_QuantityExceedsStock(t *testing.T) {
	svc := NewService(newFakeCartRepo(), &fakeProducts{byID: map[int64]*catalog.Product{1: activeProduct(1, 2)}})

	err := svc.Add(context.Background(), 7, 1, 3)

	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestGet_SumsSubtotals(t *testing.T) {
	repo := newFakeCartRepo()
	repo.lines = []Line{
		{ProductID: 1, Quantity: 2, Price: dec("10.50"), Stock: 5, Status: catalog.ProductActive},
		{ProductID: 2, Quantity: 1, Price: dec("4.25"), Stock: 5, Status: catalog.ProductActive},
	}
	svc := NewService(repo, &fakeProducts{})

	c, err := svc.Get(context.Background(), 7)

	require.NoError(t, err)
	assert.Len(t, c.Items, 2)
	assert.True(t, c.Total.Equal(dec("25.25")), "got %s", c.Total)
}

func TestGet_EmptyCartHasZeroTotal(t *testing.T) {
	svc := NewService(newFakeCartRepo(), &fakeProducts{})

	c, err := svc.Get(context.Background(), 7)

	require.NoError(t, err)
	assert.NotNil(t, c.Items)
	assert.Empty(t, c.Items)
	assert.True(t, c.Total.IsZero())
}

func TestValidateStock_FlagsShortAndInactiveLines(t *testing.T) {
	repo := newFakeCartRepo()
	repo.lines = []Line{
		{ProductID: 1, Quantity: 2, Stock: 5, Status: catalog.ProductActive},
		{ProductID: 2, Quantity: 9, Stock: 1, Status: catalog.ProductActive},
		{ProductID: 3, Quantity: 1, Stock: 5, Status: catalog.ProductInactive},
	}
	svc := NewService(repo, &fakeProducts{})

	bad, err := svc.ValidateStock(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, bad, 2)
	assert.Equal(t, int64(2), bad[0].ProductID)
	assert.Equal(t, int64(3), bad[1].ProductID)
}

func TestUpdateQuantity_RejectsZero(t *testing.T) {
	svc := NewService(newFakeCartRepo(), &fakeProducts{})

	err := svc.UpdateQuantity(context.Background(), 7, 1, 0)

	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestLine_Subtotal(t *testing.T) {
	l := Line{Quantity: 3, Price: dec("2.50")}
	assert.True(t, l.Subtotal().Equal(dec("7.50")))
}
