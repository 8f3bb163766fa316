package api

import (
	"fmt"
	"net/http"

	service "github.com/okian/spotfinder/internal/app"
	"github.com/okian/spotfinder/internal/domain/model"
)

// maxRecommendationLimit bounds the limit query parameter.
const maxRecommendationLimit = 50

// RecommendHandler handles recommendation requests.
type RecommendHandler struct {
	deps Dependencies
}

// NewRecommendHandler creates a new recommendation handler.
func NewRecommendHandler(deps Dependencies) *RecommendHandler {
	return &RecommendHandler{deps: deps}
}

// HandleGetRecommendations handles GET /v1/recommendations requests.
func (h *RecommendHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_recommendations"
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

	strategy, ok := model.ParseStrategy(q.Get("optimize_for"))
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request",
			WrapKind(op, ErrBadRequest, fmt.Errorf("invalid optimize_for %q", q.Get("optimize_for"))))
		return
	}

	limit, err := parseIntInRange(q, "limit", 0, 1, maxRecommendationLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit_exceeded", WrapKind(op, ErrBadRequest, err))
		return
	}

	params := service.RecommendParams{
		Constraints: constraints,
		Strategy:    strategy,
		Currency:    q.Get("currency"),
		Limit:       limit,
	}

	rec, err := h.deps.Recommend(r.Context(), region, params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
