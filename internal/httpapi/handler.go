// Package httpapi exposes the shop's domain operations over HTTP with JSON
// bodies encoded via jx.
package httpapi

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/candyhaus/sweetshop/internal/domain/order"
	"github.com/candyhaus/sweetshop/internal/domain/promotion"
	"github.com/candyhaus/sweetshop/internal/domain/review"
	"github.com/candyhaus/sweetshop/internal/domain/sweet"
)

// HandlerConfig holds non-dependency configuration for the Handler.
type HandlerConfig struct {
	// DeliveryFee is added on top of the cart total at checkout.
	DeliveryFee decimal.Decimal
	// AuthSecret signs session tokens issued by the auth endpoints.
	AuthSecret []byte
}

// Handler serves the API routes, delegating business logic to the injected
// domain services and stores.
type Handler struct {
	catalog     sweet.Repository
	reviews     *review.Aggregator
	promotions  *promotion.Engine
	settlement  *order.Service
	orders      order.Repository
	sessions    *sessionIssuer
	deliveryFee decimal.Decimal
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cfg HandlerConfig,
	catalog sweet.Repository,
	reviews *review.Aggregator,
	promotions *promotion.Engine,
	settlement *order.Service,
	orders order.Repository,
) *Handler {
	return &Handler{
		catalog:     catalog,
		reviews:     reviews,
		promotions:  promotions,
		settlement:  settlement,
		orders:      orders,
		sessions:    newSessionIssuer(cfg.AuthSecret),
		deliveryFee: cfg.DeliveryFee,
	}
}

// Routes returns the API route table as a ServeMux using method patterns.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/sweets", h.listSweets)
	mux.HandleFunc("POST /api/sweets", h.addSweet)
	mux.HandleFunc("GET /api/sweets/{id}", h.getSweet)
	mux.HandleFunc("PUT /api/sweets/{id}", h.updateSweet)
	mux.HandleFunc("DELETE /api/sweets/{id}", h.removeSweet)
	mux.HandleFunc("POST /api/sweets/{id}/restock", h.restockSweet)
	mux.HandleFunc("POST /api/sweets/{id}/purchase", h.purchaseSweet)

	mux.HandleFunc("GET /api/reviews", h.listReviews)
	mux.HandleFunc("POST /api/reviews", h.submitReview)

	mux.HandleFunc("GET /api/promotions", h.listPromotions)
	mux.HandleFunc("POST /api/promotions", h.createPromotion)
	mux.HandleFunc("GET /api/promotions/{id}", h.getPromotion)
	mux.HandleFunc("POST /api/promotions/{id}/preview", h.previewPromotion)
	mux.HandleFunc("POST /api/promotions/{id}/redeem", h.redeemPromotion)

	mux.HandleFunc("GET /api/orders", h.listOrders)
	mux.HandleFunc("POST /api/orders", h.placeOrder)

	mux.HandleFunc("POST /api/auth/register", h.register)
	mux.HandleFunc("POST /api/auth/login", h.login)

	mux.HandleFunc("GET /api/admin/stats", h.adminStats)

	return mux
}
