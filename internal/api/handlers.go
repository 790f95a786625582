package api

import (
	"github.com/example/multimart/internal/cart"
	"github.com/example/multimart/internal/catalog"
	"github.com/example/multimart/internal/chatbot"
	"github.com/example/multimart/internal/coupon"
	"github.com/example/multimart/internal/notification"
	"github.com/example/multimart/internal/order"
	"github.com/example/multimart/internal/review"
	"github.com/example/multimart/internal/user"
	"github.com/example/multimart/internal/wishlist"
)

// Handlers bundles the HTTP handlers for the storefront API.
type Handlers struct {
	products      *catalog.Service
	categories    *catalog.CategoryService
	carts         *cart.Service
	orders        *order.Service
	coupons       *coupon.Service
	reviews       *review.Service
	wishlists     *wishlist.Service
	users         *user.Service
	notifications *notification.Service
	assistant     *chatbot.Service
}

// NewHandlers creates the handler set. assistant may be nil when no language
// model is configured; the chat endpoint then reports unavailability.
func NewHandlers(
	products *catalog.Service,
	categories *catalog.CategoryService,
	carts *cart.Service,
	orders *order.Service,
	coupons *coupon.Service,
	reviews *review.Service,
	wishlists *wishlist.Service,
	users *user.Service,
	notifications *notification.Service,
	assistant *chatbot.Service,
) *Handlers {
	return &Handlers{
		products:      products,
		categories:    categories,
		carts:         carts,
		orders:        orders,
		coupons:       coupons,
		reviews:       reviews,
		wishlists:     wishlists,
		users:         users,
		notifications: notifications,
		assistant:     assistant,
	}
}
