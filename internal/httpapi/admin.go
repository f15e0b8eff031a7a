package httpapi

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// adminStats derives shop-wide figures from the stored orders.
func (h *Handler) adminStats(w http.ResponseWriter, r *http.Request) {
	os, err := h.orders.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	revenue := decimal.Zero
	customers := make(map[string]struct{})
	for _, o := range os {
		revenue = revenue.Add(o.Total)
		if o.UserID != "" {
			customers[o.UserID] = struct{}{}
		}
	}

	avgOrder := decimal.Zero
	if len(os) > 0 {
		avgOrder = revenue.Div(decimal.NewFromInt(int64(len(os)))).Round(2)
	}

	respond(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("totalOrders")
		e.Int(len(os))
		e.FieldStart("totalRevenue")
		encodeDecimal(e, revenue)
		e.FieldStart("averageOrderValue")
		encodeDecimal(e, avgOrder)
		e.FieldStart("totalCustomers")
		e.Int(len(customers))
		e.ObjEnd()
	})
}
