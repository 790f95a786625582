package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/example/multimart/internal/api/middleware"
	"github.com/example/multimart/internal/auth"
	"github.com/example/multimart/internal/domain"
)

// RouterConfig bundles the router's dependencies.
type RouterConfig struct {
	Handlers     *Handlers
	AuthHandlers *AuthHandlers
	JWTService   *auth.JWTService
}

// NewRouter builds the HTTP routing table. Public endpoints carry optional
// auth so admins get enriched listings; everything else requires a token.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	h := cfg.Handlers
	authRequired := middleware.AuthMiddleware(cfg.JWTService)
	authOptional := middleware.OptionalAuthMiddleware(cfg.JWTService)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	vendorOrAdmin := middleware.RequireRole(domain.RoleVendor, domain.RoleAdmin)

	// Auth
	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		cfg.AuthHandlers.Register(w, r)
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		cfg.AuthHandlers.Login(w, r)
	})
	mux.HandleFunc("/api/auth/logout", cfg.AuthHandlers.Logout)
	mux.Handle("/api/auth/me", authRequired(http.HandlerFunc(cfg.AuthHandlers.Me)))
	mux.Handle("/api/auth/password", authRequired(http.HandlerFunc(cfg.AuthHandlers.ChangePassword)))

	// Users
	mux.Handle("/api/users", authRequired(adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.GetUsers(w, r)
	}))))
	mux.Handle("/api/users/profile", authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.UpdateProfile(w, r)
	})))
	mux.Handle("/api/users/", authOptional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/role") && r.Method == http.MethodPut:
			adminOnly(http.HandlerFunc(h.SetUserRole)).ServeHTTP(w, r)
		case strings.HasSuffix(path, "/status") && r.Method == http.MethodPut:
			adminOnly(http.HandlerFunc(h.SetUserStatus)).ServeHTTP(w, r)
		case r.Method == http.MethodGet:
			h.GetUser(w, r)
		case r.Method == http.MethodDelete:
			adminOnly(http.HandlerFunc(h.DeleteUser)).ServeHTTP(w, r)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Products
	mux.Handle("/api/products", authOptional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.GetProducts(w, r)
		case http.MethodPost:
			vendorOrAdmin(http.HandlerFunc(h.CreateProduct)).ServeHTTP(w, r)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.Handle("/api/products/", authOptional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/reviews") && r.Method == http.MethodGet:
			h.GetProductReviews(w, r)
		case strings.HasSuffix(path, "/stock") && r.Method == http.MethodPost:
			vendorOrAdmin(http.HandlerFunc(h.AdjustStock)).ServeHTTP(w, r)
		case strings.HasSuffix(path, "/status") && r.Method == http.MethodPost:
			adminOnly(http.HandlerFunc(h.SetProductStatus)).ServeHTTP(w, r)
		case r.Method == http.MethodGet:
			h.GetProduct(w, r)
		case r.Method == http.MethodPut:
			vendorOrAdmin(http.HandlerFunc(h.UpdateProduct)).ServeHTTP(w, r)
		case r.Method == http.MethodDelete:
			vendorOrAdmin(http.HandlerFunc(h.DeleteProduct)).ServeHTTP(w, r)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Vendor dashboard
	mux.Handle("/api/vendor/products", authRequired(vendorOrAdmin(http.HandlerFunc(h.GetVendorProducts))))
	mux.Handle("/api/vendor/stats", authRequired(vendorOrAdmin(http.HandlerFunc(h.GetOrderStats))))

	// Categories
	mux.Handle("/api/categories", authOptional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.GetCategories(w, r)
		case http.MethodPost:
			adminOnly(http.HandlerFunc(h.CreateCategory)).ServeHTTP(w, r)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.Handle("/api/categories/", authOptional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.GetCategory(w, r)
		case http.MethodPut:
			adminOnly(http.HandlerFunc(h.UpdateCategory)).ServeHTTP(w, r)
		case http.MethodDelete:
			adminOnly(http.HandlerFunc(h.DeleteCategory)).ServeHTTP(w, r)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Cart
	mux.Handle("/api/cart", authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.GetCart(w, r)
		case http.MethodDelete:
			h.ClearCart(w, r)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/api/cart/validate", authRequired(http.HandlerFunc(h.ValidateCart)))
	mux.Handle("/api/cart/items", authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.AddToCart(w, r)
	})))
	mux.Handle("/api/cart/items/", authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			h.UpdateCartItem(w, r)
		case http.MethodDelete:
			h.RemoveFromCart(w, r)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Orders
	mux.Handle("/api/orders", authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.GetOrders(w, r)
		case http.MethodPost:
			h.PlaceOrder(w, r)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/api/orders/stats", authRequired(http.HandlerFunc(h.GetOrderStats)))
	mux.Handle("/api/orders/", authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/cancel") && r.Method == http.MethodPost:
			h.CancelOrder(w, r)
		case strings.HasSuffix(path, "/pay") && r.Method == http.MethodPost:
			h.PayOrder(w, r)
		case strings.HasSuffix(path, "/status") && r.Method == http.MethodPut:
			adminOnly(http.HandlerFunc(h.UpdateOrderStatus)).ServeHTTP(w, r)
		case r.Method == http.MethodGet:
			h.GetOrder(w, r)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Coupons
	mux.Handle("/api/coupons/validate", authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.ValidateCoupon(w, r)
	})))
	mux.Handle("/api/coupons", authRequired(adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.GetCoupons(w, r)
		case http.MethodPost:
			h.CreateCoupon(w, r)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))))
	mux.Handle("/api/coupons/", authRequired(adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			h.UpdateCoupon(w, r)
		case http.MethodDelete:
			h.DeleteCoupon(w, r)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))))

	// Reviews
	mux.Handle("/api/reviews", authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.CreateReview(w, r)
	})))
	mux.Handle("/api/reviews/mine", authRequired(http.HandlerFunc(h.GetMyReviews)))
	mux.Handle("/api/reviews/", authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			h.UpdateReview(w, r)
		case http.MethodDelete:
			h.DeleteReview(w, r)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Wishlist
	mux.Handle("/api/wishlist", authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.GetWishlist(w, r)
		case http.MethodPost:
			h.AddToWishlist(w, r)
		case http.MethodDelete:
			h.ClearWishlist(w, r)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/api/wishlist/", authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.RemoveFromWishlist(w, r)
	})))

	// Notifications
	mux.Handle("/api/notifications", authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.GetNotifications(w, r)
		case http.MethodDelete:
			h.ClearNotifications(w, r)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/api/notifications/unread", authRequired(http.HandlerFunc(h.GetUnreadCount)))
	mux.Handle("/api/notifications/read-all", authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.MarkAllNotificationsRead(w, r)
	})))
	mux.Handle("/api/notifications/", authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/read") && r.Method == http.MethodPut:
			h.MarkNotificationRead(w, r)
		case r.Method == http.MethodDelete:
			h.DeleteNotification(w, r)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Chatbot
	mux.Handle("/api/chat", authOptional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.Chat(w, r)
	})))

	return withLogging(mux)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[API] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
