package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/candyhaus/sweetshop/internal/domain/cart"
	"github.com/candyhaus/sweetshop/internal/domain/order"
	"github.com/candyhaus/sweetshop/internal/domain/sweet"
)

type orderItemReq struct {
	SweetID  int64
	Quantity int
}

type orderReq struct {
	UserID string
	Items  []orderItemReq
}

func decodeOrderReq(d *jx.Decoder) (orderReq, error) {
	var req orderReq
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "userId":
			v, err := d.Str()
			req.UserID = v
			return err
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				var item orderItemReq
				if err := d.Obj(func(d *jx.Decoder, key string) error {
					switch key {
					case "sweetId":
						v, err := d.Int64()
						item.SweetID = v
						return err
					case "quantity":
						v, err := d.Int()
						item.Quantity = v
						return err
					default:
						return d.Skip()
					}
				}); err != nil {
					return err
				}
				req.Items = append(req.Items, item)
				return nil
			})
		default:
			return d.Skip()
		}
	})
	return req, err
}

func encodeOrder(e *jx.Encoder, o order.Order) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(o.ID)
	e.FieldStart("userId")
	e.Str(o.UserID)
	e.FieldStart("items")
	e.ArrStart()
	for _, l := range o.Lines {
		e.ObjStart()
		e.FieldStart("sweetId")
		e.Int64(l.SweetID)
		e.FieldStart("name")
		e.Str(l.Name)
		e.FieldStart("price")
		encodeDecimal(e, l.Price)
		e.FieldStart("quantity")
		e.Int(l.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("total")
	encodeDecimal(e, o.Total)
	e.FieldStart("status")
	e.Str(o.Status)
	e.FieldStart("createdAt")
	encodeTime(e, o.CreatedAt)
	e.ObjEnd()
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	os, err := h.orders.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	userID := r.URL.Query().Get("userId")

	respond(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, o := range os {
			if userID != "" && o.UserID != userID {
				continue
			}
			encodeOrder(e, o)
		}
		e.ArrEnd()
	})
}

// placeOrder settles a cart built from the submitted items. Quantities are
// validated against live stock up front; the settlement itself decrements
// stock per line afterwards and reports each outcome in the response.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	d, ok := readBody(w, r)
	if !ok {
		return
	}

	req, err := decodeOrderReq(d)
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed order")
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "items required")
		return
	}

	var c cart.Cart
	seen := make(map[int64]struct{}, len(req.Items))
	for _, item := range req.Items {
		if _, dup := seen[item.SweetID]; dup {
			respondError(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("duplicate sweet %d in order", item.SweetID))
			return
		}
		seen[item.SweetID] = struct{}{}

		if item.Quantity <= 0 {
			respondError(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("quantity must be greater than 0 for sweet %d", item.SweetID))
			return
		}

		s, err := h.catalog.Get(r.Context(), item.SweetID)
		if err != nil {
			if errors.Is(err, sweet.ErrNotFound) {
				respondError(w, http.StatusUnprocessableEntity,
					fmt.Sprintf("sweet %d not found", item.SweetID))
				return
			}
			respondError(w, http.StatusInternalServerError, "failed to get sweet")
			return
		}
		if item.Quantity > s.Stock {
			respondError(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("insufficient stock for sweet %d", item.SweetID))
			return
		}

		c.AddItem(*s)
		c.SetQuantity(*s, item.Quantity)
	}

	o, adjustments, err := h.settlement.Checkout(r.Context(), req.UserID, c)
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			respondError(w, http.StatusBadRequest, "cart is empty")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to place order")
		return
	}

	respond(w, http.StatusCreated, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("order")
		encodeOrder(e, *o)
		e.FieldStart("deliveryFee")
		encodeDecimal(e, h.deliveryFee)
		e.FieldStart("grandTotal")
		encodeDecimal(e, c.CheckoutTotal(h.deliveryFee))
		e.FieldStart("stockAdjustments")
		e.ArrStart()
		for _, adj := range adjustments {
			e.ObjStart()
			e.FieldStart("sweetId")
			e.Int64(adj.SweetID)
			e.FieldStart("delta")
			e.Int(adj.Delta)
			if adj.Err != nil {
				e.FieldStart("error")
				e.Str(adj.Err.Error())
			} else {
				e.FieldStart("remaining")
				e.Int(adj.Remaining)
			}
			e.ObjEnd()
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}
