package httpapi

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/candyhaus/sweetshop/internal/domain/sweet"
)

func encodeSweet(e *jx.Encoder, s sweet.Sweet) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(s.ID)
	e.FieldStart("name")
	e.Str(s.Name)
	e.FieldStart("price")
	encodeDecimal(e, s.Price)
	e.FieldStart("category")
	e.Str(s.Category)
	e.FieldStart("inStock")
	e.Int(s.Stock)
	e.FieldStart("ingredients")
	e.ArrStart()
	for _, ing := range s.Ingredients {
		e.Str(ing)
	}
	e.ArrEnd()
	e.ObjEnd()
}

func decodeSweetDraft(d *jx.Decoder) (sweet.Sweet, error) {
	var s sweet.Sweet
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "name":
			v, err := d.Str()
			s.Name = v
			return err
		case "price":
			v, err := decodeDecimal(d)
			s.Price = v
			return err
		case "category":
			v, err := d.Str()
			s.Category = v
			return err
		case "inStock":
			v, err := d.Int()
			s.Stock = v
			return err
		case "ingredients":
			return d.Arr(func(d *jx.Decoder) error {
				v, err := d.Str()
				s.Ingredients = append(s.Ingredients, v)
				return err
			})
		default:
			return d.Skip()
		}
	})
	return s, err
}

func decodeSweetPatch(d *jx.Decoder) (sweet.Patch, error) {
	var p sweet.Patch
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "name":
			v, err := d.Str()
			p.Name = &v
			return err
		case "price":
			v, err := decodeDecimal(d)
			p.Price = &v
			return err
		case "category":
			v, err := d.Str()
			p.Category = &v
			return err
		case "inStock":
			v, err := d.Int()
			p.Stock = &v
			return err
		case "ingredients":
			ingredients := []string{}
			if err := d.Arr(func(d *jx.Decoder) error {
				v, err := d.Str()
				ingredients = append(ingredients, v)
				return err
			}); err != nil {
				return err
			}
			p.Ingredients = &ingredients
			return nil
		default:
			return d.Skip()
		}
	})
	return p, err
}

func (h *Handler) listSweets(w http.ResponseWriter, r *http.Request) {
	sweets, err := h.catalog.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list sweets")
		return
	}

	respond(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, s := range sweets {
			encodeSweet(e, s)
		}
		e.ArrEnd()
	})
}

func (h *Handler) getSweet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, sweet.ErrNotFound) {
			respondError(w, http.StatusNotFound, "sweet not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to get sweet")
		return
	}

	avg, err := h.reviews.AverageRating(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get reviews")
		return
	}
	rs, err := h.reviews.ForSweet(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get reviews")
		return
	}

	respond(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("sweet")
		encodeSweet(e, *s)
		e.FieldStart("averageRating")
		e.Float64(avg)
		e.FieldStart("reviewCount")
		e.Int(len(rs))
		e.ObjEnd()
	})
}

func (h *Handler) addSweet(w http.ResponseWriter, r *http.Request) {
	d, ok := readBody(w, r)
	if !ok {
		return
	}

	draft, err := decodeSweetDraft(d)
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed sweet")
		return
	}
	if err := draft.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s, err := h.catalog.Add(r.Context(), draft)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to add sweet")
		return
	}

	respond(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeSweet(e, *s)
	})
}

func (h *Handler) updateSweet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, ok := readBody(w, r)
	if !ok {
		return
	}

	patch, err := decodeSweetPatch(d)
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed patch")
		return
	}
	if patch.Category != nil && !sweet.ValidCategory(*patch.Category) {
		respondError(w, http.StatusUnprocessableEntity, "category is not a known category")
		return
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		respondError(w, http.StatusUnprocessableEntity, "inStock must not be negative")
		return
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		respondError(w, http.StatusUnprocessableEntity, "price must not be negative")
		return
	}

	s, err := h.catalog.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, sweet.ErrNotFound) {
			respondError(w, http.StatusNotFound, "sweet not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update sweet")
		return
	}

	respond(w, http.StatusOK, func(e *jx.Encoder) {
		encodeSweet(e, *s)
	})
}

func (h *Handler) removeSweet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	removed, err := h.catalog.Remove(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to remove sweet")
		return
	}
	if !removed {
		respondError(w, http.StatusNotFound, "sweet not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeQuantity reads the {quantity} body shared by restock and purchase.
// A missing quantity defaults to 1.
func decodeQuantity(d *jx.Decoder) (int, error) {
	quantity := 1
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "quantity" {
			return d.Skip()
		}
		v, err := d.Int()
		quantity = v
		return err
	})
	return quantity, err
}

func (h *Handler) restockSweet(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, 1)
}

// purchaseSweet decrements stock directly, clamping at zero. Unlike checkout
// it bypasses the cart and creates no order record.
func (h *Handler) purchaseSweet(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, -1)
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request, sign int) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, ok := readBody(w, r)
	if !ok {
		return
	}

	quantity, err := decodeQuantity(d)
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed request")
		return
	}
	if quantity <= 0 {
		respondError(w, http.StatusUnprocessableEntity, "quantity must be greater than 0")
		return
	}

	s, err := h.catalog.AdjustStock(r.Context(), id, sign*quantity)
	if err != nil {
		if errors.Is(err, sweet.ErrNotFound) {
			respondError(w, http.StatusNotFound, "sweet not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to adjust stock")
		return
	}

	respond(w, http.StatusOK, func(e *jx.Encoder) {
		encodeSweet(e, *s)
	})
}
