package coupon

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/example/multimart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCouponRepo struct {
	byCode   map[string]*Coupon
	byID     map[int64]*Coupon
	inserted *Coupon
	updated  *Coupon
	deleted  []int64
}

func newFakeCouponRepo() *fakeCouponRepo {
	return &fakeCouponRepo{byCode: map[string]*Coupon{}, byID: map[int64]*Coupon{}}
}

func (r *fakeCouponRepo) add(c *Coupon) {
	r.byCode[c.Code] = c
	r.byID[c.ID] = c
}

func (r *fakeCouponRepo) FindByCode(ctx context.Context, code string) (*Coupon, error) {
	c, ok := r.byCode[strings.ToUpper(code)]
	if !ok || c.Status != StatusActive {
		return nil, ErrInvalidCode
	}
	return c, nil
}

func (r *fakeCouponRepo) FindByID(ctx context.Context, id int64) (*Coupon, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (r *fakeCouponRepo) Insert(ctx context.Context, c *Coupon) (int64, error) {
	r.inserted = c
	return 1, nil
}

func (r *fakeCouponRepo) Update(ctx context.Context, c *Coupon) error {
	r.updated = c
	return nil
}

func (r *fakeCouponRepo) Delete(ctx context.Context, id int64) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeCouponRepo) List(ctx context.Context, status string, page domain.Page) ([]Coupon, int, error) {
	return nil, 0, nil
}

var (
	couponAdmin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	couponUser  = domain.Actor{UserID: 7, Role: domain.RoleUser}
)

func validCouponInput() Input {
	return Input{
		Code:      "save10",
		Type:      TypePercentage,
		Value:     dec("10"),
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
	}
}

func TestValidate_ReturnsIDAndDiscount(t *testing.T) {
	repo := newFakeCouponRepo()
	repo.add(activeCoupon())
	svc := NewService(repo)

	id, discount, err := svc.Validate(context.Background(), "save10", dec("200"))

	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.True(t, discount.Equal(dec("20")), "got %s", discount)
}

func TestValidate_UnknownCode(t *testing.T) {
	svc := NewService(newFakeCouponRepo())

	_, _, err := svc.Validate(context.Background(), "NOPE", dec("200"))

	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestCreate_UppercasesCode(t *testing.T) {
	repo := newFakeCouponRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), couponAdmin, validCouponInput())

	require.NoError(t, err)
	require.NotNil(t, repo.inserted)
	assert.Equal(t, "SAVE10", repo.inserted.Code)
	assert.Equal(t, StatusActive, repo.inserted.Status)
}

func TestCreate_DuplicateCode(t *testing.T) {
	repo := newFakeCouponRepo()
	repo.add(activeCoupon())
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), couponAdmin, validCouponInput())

	assert.ErrorIs(t, err, ErrCodeTaken)
}

func TestCreate_AdminOnly(t *testing.T) {
	svc := NewService(newFakeCouponRepo())

	_, err := svc.Create(context.Background(), couponUser, validCouponInput())

	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newFakeCouponRepo())

	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"missing code", func(in *Input) { in.Code = "" }},
		{"bad type", func(in *Input) { in.Type = "bogo" }},
		{"zero value", func(in *Input) { in.Value = dec("0") }},
		{"inverted window", func(in *Input) {
			in.StartDate = time.Now().Add(time.Hour)
			in.EndDate = time.Now()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCouponInput()
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), couponAdmin, in)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

func TestUpdate_CodeIsImmutable(t *testing.T) {
	repo := newFakeCouponRepo()
	repo.add(activeCoupon())
	svc := NewService(repo)

	in := validCouponInput()
	in.Code = "DIFFERENT"
	in.Value = dec("20")
	err := svc.Update(context.Background(), couponAdmin, 1, in)

	require.NoError(t, err)
	require.NotNil(t, repo.updated)
	assert.Equal(t, "SAVE10", repo.updated.Code)
	assert.True(t, repo.updated.Value.Equal(dec("20")))
}

func TestUpdate_UnknownCoupon(t *testing.T) {
	svc := NewService(newFakeCouponRepo())

	err := svc.Update(context.Background(), couponAdmin, 99, validCouponInput())

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_AdminOnly(t *testing.T) {
	repo := newFakeCouponRepo()
	repo.add(activeCoupon())
	svc := NewService(repo)

	err := svc.Delete(context.Background(), couponUser, 1)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	assert.Empty(t, repo.deleted)

	err = svc.Delete(context.Background(), couponAdmin, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, repo.deleted)
}

func TestList_AdminOnly(t *testing.T) {
	svc := NewService(newFakeCouponRepo())

	_, _, err := svc.List(context.Background(), couponUser, "", domain.NewPage(1, 10))

	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}
