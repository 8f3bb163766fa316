package api

import (
	"net/http"

	service "github.com/okian/spotfinder/internal/app"
)

// SkusHandler handles spot SKU listing requests.
type SkusHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewSkusHandler creates a new SKU listing handler.
func NewSkusHandler(deps Dependencies, maxLimit int) *SkusHandler {
	return &SkusHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetSkus handles GET /v1/spot-skus requests.
func (h *SkusHandler) HandleGetSkus(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_spot_skus"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	region := q.Get("region")
	if region == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op+": missing region", ErrBadRequest))
		return
	}

	constraints, err := parseConstraints(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	includePricing, err := parseBool(q, "pricing", false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	includeEviction, err := parseBool(q, "eviction", false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	limit, err := parseIntInRange(q, "limit", 0, 1, h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit_exceeded", WrapKind(op, ErrBadRequest, err))
		return
	}
	offset, err := parseIntInRange(q, "offset", 0, 0, 1<<30)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// A cost or eviction ceiling is meaningless without the data, so
	// the enrichment is implied.
	if constraints.MaxHourlyCost != nil {
		includePricing = true
	}
	if constraints.MaxEvictionRate != nil {
		includeEviction = true
	}

	params := service.ListParams{
		Constraints:     constraints,
		IncludePricing:  includePricing,
		IncludeEviction: includeEviction,
		Currency:        q.Get("currency"),
		Limit:           limit,
		Offset:          offset,
	}

	listing, err := h.deps.ListSkus(r.Context(), region, params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}
