package httpapi

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/candyhaus/sweetshop/internal/domain/promotion"
)

// encodePromotion renders the stored record plus the status derived for the
// given instant and the near-limit flag.
func (h *Handler) encodePromotion(e *jx.Encoder, p promotion.Promotion) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("discount")
	encodeDecimal(e, p.Discount)
	e.FieldStart("kind")
	e.Str(string(p.Kind))
	e.FieldStart("startDate")
	encodeDate(e, p.StartDate)
	e.FieldStart("endDate")
	encodeDate(e, p.EndDate)
	e.FieldStart("categories")
	e.ArrStart()
	for _, c := range p.Categories {
		e.Str(c)
	}
	e.ArrEnd()
	e.FieldStart("minPurchase")
	encodeDecimal(e, p.MinPurchase)
	e.FieldStart("maxUses")
	if p.MaxUses != nil {
		e.Int(*p.MaxUses)
	} else {
		e.Null()
	}
	e.FieldStart("usesCount")
	e.Int(p.UsesCount)
	e.FieldStart("status")
	e.Str(string(p.StatusAt(h.promotions.Now())))
	e.FieldStart("isNearLimit")
	e.Bool(p.NearLimit())
	e.ObjEnd()
}

func decodePromotionDraft(d *jx.Decoder) (promotion.Draft, error) {
	var draft promotion.Draft
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "name":
			v, err := d.Str()
			draft.Name = v
			return err
		case "discount":
			v, err := decodeDecimal(d)
			draft.Discount = v
			return err
		case "kind":
			v, err := d.Str()
			draft.Kind = promotion.Kind(v)
			return err
		case "startDate":
			v, err := decodeDate(d)
			draft.StartDate = v
			return err
		case "endDate":
			v, err := decodeDate(d)
			draft.EndDate = v
			return err
		case "categories":
			return d.Arr(func(d *jx.Decoder) error {
				v, err := d.Str()
				draft.Categories = append(draft.Categories, v)
				return err
			})
		case "minPurchase":
			v, err := decodeDecimal(d)
			draft.MinPurchase = v
			return err
		case "maxUses":
			if d.Next() == jx.Null {
				return d.Null()
			}
			v, err := d.Int()
			draft.MaxUses = &v
			return err
		default:
			return d.Skip()
		}
	})
	return draft, err
}

func (h *Handler) listPromotions(w http.ResponseWriter, r *http.Request) {
	ps, err := h.promotions.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list promotions")
		return
	}

	respond(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, p := range ps {
			h.encodePromotion(e, p)
		}
		e.ArrEnd()
	})
}

func (h *Handler) getPromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	p, err := h.promotions.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, promotion.ErrNotFound) {
			respondError(w, http.StatusNotFound, "promotion not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to get promotion")
		return
	}

	respond(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodePromotion(e, *p)
	})
}

func (h *Handler) createPromotion(w http.ResponseWriter, r *http.Request) {
	d, ok := readBody(w, r)
	if !ok {
		return
	}

	draft, err := decodePromotionDraft(d)
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed promotion")
		return
	}

	p, err := h.promotions.Create(r.Context(), draft)
	if err != nil {
		var vErr *promotion.ValidationError
		if errors.As(err, &vErr) {
			respondError(w, http.StatusUnprocessableEntity, vErr.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to create promotion")
		return
	}

	respond(w, http.StatusCreated, func(e *jx.Encoder) {
		h.encodePromotion(e, *p)
	})
}

// previewPromotion computes the discount a promotion would grant on a
// subtotal without consuming a use. Ended or upcoming promotions and
// subtotals below the minimum purchase yield a zero discount.
func (h *Handler) previewPromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, ok := readBody(w, r)
	if !ok {
		return
	}

	subtotal, err := func() (v decimal.Decimal, err error) {
		err = d.Obj(func(d *jx.Decoder, key string) error {
			if key != "subtotal" {
				return d.Skip()
			}
			v, err = decodeDecimal(d)
			return err
		})
		return v, err
	}()
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed request")
		return
	}

	p, err := h.promotions.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, promotion.ErrNotFound) {
			respondError(w, http.StatusNotFound, "promotion not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to get promotion")
		return
	}

	discount := decimal.Zero
	applicable := p.StatusAt(h.promotions.Now()) == promotion.StatusActive &&
		subtotal.GreaterThanOrEqual(p.MinPurchase)
	if applicable {
		discount = promotion.Apply(*p, subtotal)
	}

	respond(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("promotionId")
		e.Int64(p.ID)
		e.FieldStart("applicable")
		e.Bool(applicable)
		e.FieldStart("discount")
		encodeDecimal(e, discount)
		e.FieldStart("total")
		encodeDecimal(e, subtotal.Sub(discount))
		e.ObjEnd()
	})
}

// redeemPromotion consumes one use of the promotion. It is the explicit
// counter primitive; checkout never calls it.
func (h *Handler) redeemPromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.promotions.ConsumeUse(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, promotion.ErrNotFound):
			respondError(w, http.StatusNotFound, "promotion not found")
		case errors.Is(err, promotion.ErrUsageLimitReached):
			respondError(w, http.StatusConflict, "promotion usage limit reached")
		default:
			respondError(w, http.StatusInternalServerError, "failed to redeem promotion")
		}
		return
	}

	p, err := h.promotions.Get(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get promotion")
		return
	}

	respond(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodePromotion(e, *p)
	})
}
