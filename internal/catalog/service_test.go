package catalog

import (
	"context"
	"testing"

	"github.com/example/multimart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepo struct {
	byID        map[int64]*Product
	bySlug      map[string]*Product
	inserted    *Product
	updated     *Product
	deleted     []int64
	statusID    int64
	statusValue string
	statusNote  string
	stockDelta  int
	hasOrders   bool
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{byID: map[int64]*Product{}, bySlug: map[string]*Product{}}
}

func (r *fakeProductRepo) add(p *Product) {
	r.byID[p.ID] = p
	r.bySlug[p.Slug] = p
}

func (r *fakeProductRepo) Insert(ctx context.Context, p *Product) (int64, error) {
	r.inserted = p
	return 1, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *Product) error {
	r.updated = p
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id int64) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id int64) (*Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindBySlug(ctx context.Context, slug string) (*Product, error) {
	p, ok := r.bySlug[slug]
	if !ok {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) Search(ctx context.Context, filter SearchFilter) ([]Product, int, error) {
	return nil, 0, nil
}

func (r *fakeProductRepo) ByVendor(ctx context.Context, vendorID int64, status string, page domain.Page) ([]Product, int, error) {
	return nil, 0, nil
}

func (r *fakeProductRepo) Related(ctx context.Context, productID, categoryID int64, limit int) ([]Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) AdjustStock(ctx context.Context, id int64, delta int) error {
	r.stockDelta = delta
	return nil
}

func (r *fakeProductRepo) SetStatus(ctx context.Context, id int64, status, rejectionReason string) error {
	r.statusID = id
	r.statusValue = status
	r.statusNote = rejectionReason
	return nil
}

func (r *fakeProductRepo) HasOrderItems(ctx context.Context, id int64) (bool, error) {
	return r.hasOrders, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

var (
	vendor  = domain.Actor{UserID: 10, Role: domain.RoleVendor}
	admin   = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	shopper = domain.Actor{UserID: 20, Role: domain.RoleUser}
)

func validProductInput() ProductInput {
	return ProductInput{
		Name:       "Wireless Keyboard",
		Price:      dec("49.99"),
		CategoryID: 2,
		Stock:      10,
	}
}

func TestCreateProduct_SlugAndPendingStatus(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewService(repo)

	id, err := svc.CreateProduct(context.Background(), vendor, validProductInput())

	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	require.NotNil(t, repo.inserted)
	assert.Equal(t, "wireless-keyboard", repo.inserted.Slug)
	assert.Equal(t, ProductPending, repo.inserted.Status)
	assert.Equal(t, int64(10), repo.inserted.VendorID)
}

func TestCreateProduct_ShopperForbidden(t *testing.T) {
	svc := NewService(newFakeProductRepo())

	_, err := svc.CreateProduct(context.Background(), shopper, validProductInput())

	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestCreateProduct_DuplicateName(t *testing.T) {
	repo := newFakeProductRepo()
	repo.add(&Product{ID: 5, Slug: "wireless-keyboard"})
	svc := NewService(repo)

	_, err := svc.CreateProduct(context.Background(), vendor, validProductInput())

	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestCreateProduct_Validation(t *testing.T) {
	svc := NewService(newFakeProductRepo())

	tests := []struct {
		name   string
		mutate func(*ProductInput)
	}{
		{"missing name", func(in *ProductInput) { in.Name = "" }},
		{"zero price", func(in *ProductInput) { in.Price = decimal.Zero }},
		{"negative stock", func(in *ProductInput) { in.Stock = -1 }},
		{"missing category", func(in *ProductInput) { in.CategoryID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validProductInput()
			tt.mutate(&in)
			_, err := svc.CreateProduct(context.Background(), vendor, in)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

func TestUpdateProduct_ResetsToPendingAndClearsRejection(t *testing.T) {
	repo := newFakeProductRepo()
	repo.add(&Product{
		ID: 3, Name: "Wireless Keyboard", Slug: "wireless-keyboard",
		VendorID: 10, Status: ProductRejected, RejectionReason: "Bad photos",
	})
	svc := NewService(repo)

	err := svc.UpdateProduct(context.Background(), vendor, 3, validProductInput())

	require.NoError(t, err)
	require.NotNil(t, repo.updated)
	assert.Equal(t, ProductPending, repo.updated.Status)
	assert.Empty(t, repo.updated.RejectionReason)
}

func TestUpdateProduct_RenameRegeneratesSlug(t *testing.T) {
	repo := newFakeProductRepo()
	repo.add(&Product{ID: 3, Name: "Old Name", Slug: "old-name", VendorID: 10, Status: ProductActive})
	svc := NewService(repo)

	in := validProductInput()
	in.Name = "Shiny New Name"
	err := svc.UpdateProduct(context.Background(), vendor, 3, in)

	require.NoError(t, err)
	assert.Equal(t, "shiny-new-name", repo.updated.Slug)
}

func TestUpdateProduct_OtherVendorForbidden(t *testing.T) {
	repo := newFakeProductRepo()
	repo.add(&Product{ID: 3, Name: "Thing", Slug: "thing", VendorID: 99})
	svc := NewService(repo)

	err := svc.UpdateProduct(context.Background(), vendor, 3, validProductInput())

	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestDeleteProduct_BlockedWhenOrdered(t *testing.T) {
	repo := newFakeProductRepo()
	repo.add(&Product{ID: 3, VendorID: 10})
	repo.hasOrders = true
	svc := NewService(repo)

	err := svc.DeleteProduct(context.Background(), vendor, 3)

	assert.ErrorIs(t, err, ErrProductHasOrders)
	assert.Empty(t, repo.deleted)
}

func TestDeleteProduct_Success(t *testing.T) {
	repo := newFakeProductRepo()
	repo.add(&Product{ID: 3, VendorID: 10})
	svc := NewService(repo)

	err := svc.DeleteProduct(context.Background(), vendor, 3)

	require.NoError(t, err)
	assert.Equal(t, []int64{3}, repo.deleted)
}

func TestSetProductStatus_AdminOnly(t *testing.T) {
	repo := newFakeProductRepo()
	repo.add(&Product{ID: 3, VendorID: 10})
	svc := NewService(repo)

	err := svc.SetProductStatus(context.Background(), vendor, 3, ProductActive, "")

	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestSetProductStatus_RejectionKeepsReason(t *testing.T) {
	repo := newFakeProductRepo()
	repo.add(&Product{ID: 3, VendorID: 10})
	svc := NewService(repo)

	err := svc.SetProductStatus(context.Background(), admin, 3, ProductRejected, "Poor quality images")

	require.NoError(t, err)
	assert.Equal(t, ProductRejected, repo.statusValue)
	assert.Equal(t, "Poor quality images", repo.statusNote)
}

func TestSetProductStatus_ReasonDroppedUnlessRejected(t *testing.T) {
	repo := newFakeProductRepo()
	repo.add(&Product{ID: 3, VendorID: 10})
	svc := NewService(repo)

	err := svc.SetProductStatus(context.Background(), admin, 3, ProductActive, "stale reason")

	require.NoError(t, err)
	assert.Empty(t, repo.statusNote)
}

func TestSetProductStatus_UnknownStatus(t *testing.T) {
	repo := newFakeProductRepo()
	repo.add(&Product{ID: 3, VendorID: 10})
	svc := NewService(repo)

	err := svc.SetProductStatus(context.Background(), admin, 3, "archived", "")

	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestAdjustStock_OwnerOnly(t *testing.T) {
	repo := newFakeProductRepo()
	repo.add(&Product{ID: 3, VendorID: 99})
	svc := NewService(repo)

	err := svc.AdjustStock(context.Background(), vendor, 3, 5)

	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestAdjustStock_PassesDelta(t *testing.T) {
	repo := newFakeProductRepo()
	repo.add(&Product{ID: 3, VendorID: 10})
	svc := NewService(repo)

	err := svc.AdjustStock(context.Background(), vendor, 3, -4)

	require.NoError(t, err)
	assert.Equal(t, -4, repo.stockDelta)
}

func TestVendorProducts_DefaultsToSelf(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewService(repo)

	_, _, err := svc.VendorProducts(context.Background(), vendor, 0, "", domain.NewPage(1, 10))
	assert.NoError(t, err)

	_, _, err = svc.VendorProducts(context.Background(), vendor, 99, "", domain.NewPage(1, 10))
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}
