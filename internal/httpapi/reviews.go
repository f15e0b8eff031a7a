package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/candyhaus/sweetshop/internal/domain/review"
	"github.com/candyhaus/sweetshop/internal/domain/sweet"
)

func encodeReview(e *jx.Encoder, r review.Review) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(r.ID)
	e.FieldStart("sweetId")
	e.Int64(r.SweetID)
	e.FieldStart("reviewer")
	e.Str(r.Reviewer)
	e.FieldStart("rating")
	e.Int(r.Rating)
	e.FieldStart("comment")
	e.Str(r.Comment)
	e.FieldStart("createdAt")
	encodeTime(e, r.CreatedAt)
	e.ObjEnd()
}

// listReviews serves all reviews, or the per-sweet view with the average
// rating when sweetId is given. An optional limit caps how many reviews are
// returned, counted from the head of the insertion order.
func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("sweetId") == "" {
		all, err := h.reviews.All(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to list reviews")
			return
		}
		respond(w, http.StatusOK, func(e *jx.Encoder) {
			e.ArrStart()
			for _, rev := range all {
				encodeReview(e, rev)
			}
			e.ArrEnd()
		})
		return
	}

	sweetID, err := strconv.ParseInt(q.Get("sweetId"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid sweetId")
		return
	}

	var rs []review.Review
	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		rs, err = h.reviews.RecentFor(r.Context(), sweetID, limit)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to list reviews")
			return
		}
	} else {
		rs, err = h.reviews.ForSweet(r.Context(), sweetID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to list reviews")
			return
		}
	}

	avg, err := h.reviews.AverageRating(r.Context(), sweetID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}

	respond(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("sweetId")
		e.Int64(sweetID)
		e.FieldStart("averageRating")
		e.Float64(avg)
		e.FieldStart("reviews")
		e.ArrStart()
		for _, rev := range rs {
			encodeReview(e, rev)
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

func (h *Handler) submitReview(w http.ResponseWriter, r *http.Request) {
	d, ok := readBody(w, r)
	if !ok {
		return
	}

	var (
		sweetID  int64
		reviewer string
		rating   int
		comment  string
	)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "sweetId":
			v, err := d.Int64()
			sweetID = v
			return err
		case "reviewer":
			v, err := d.Str()
			reviewer = v
			return err
		case "rating":
			v, err := d.Int()
			rating = v
			return err
		case "comment":
			v, err := d.Str()
			comment = v
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed review")
		return
	}

	if _, err := h.catalog.Get(r.Context(), sweetID); err != nil {
		if errors.Is(err, sweet.ErrNotFound) {
			respondError(w, http.StatusNotFound, "sweet not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to get sweet")
		return
	}

	rev, err := h.reviews.Submit(r.Context(), sweetID, reviewer, rating, comment)
	if err != nil {
		var vErr *review.ValidationError
		if errors.As(err, &vErr) {
			respondError(w, http.StatusUnprocessableEntity, vErr.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to submit review")
		return
	}

	respond(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeReview(e, *rev)
	})
}
