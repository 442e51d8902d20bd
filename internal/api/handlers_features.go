package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"geoMaster/internal/activity"
	"geoMaster/internal/auth"
	"geoMaster/internal/service"
	"geoMaster/models"
)

// createFeatureRequest accepts the map client's body. createdBy is ignored;
// the owner is always the caller.
type createFeatureRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Type        string          `json:"type" validate:"required"`
	Coordinates json.RawMessage `json:"coordinates" validate:"required"`
	CreatedBy   string          `json:"createdBy"`
	UserColor   string          `json:"userColor" validate:"omitempty,hexcolor"`
	Color       string          `json:"color" validate:"omitempty,hexcolor"`
}

type updateFeatureRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=200"`
	UserColor *string `json:"userColor" validate:"omitempty,hexcolor"`
	Color     *string `json:"color" validate:"omitempty,hexcolor"`
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func principal(r *http.Request) *auth.Principal {
	p, _ := auth.FromContext(r.Context())
	return p
}

func (h *handler) listFeatures(w http.ResponseWriter, r *http.Request) {
	features, err := h.features.List(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if features == nil {
		features = []models.Feature{}
	}
	writeJSON(w, http.StatusOK, features)
}

func (h *handler) createFeature(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	if p == nil {
		writeError(w, r, models.ErrUnauthenticated)
		return
	}
	var req createFeatureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	f, err := h.features.Create(r.Context(), p, service.CreateFeatureInput{
		Name:        req.Name,
		Type:        req.Type,
		Coordinates: req.Coordinates,
		Color:       firstNonEmpty(req.UserColor, req.Color),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *handler) updateFeature(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	if p == nil {
		writeError(w, r, models.ErrUnauthenticated)
		return
	}
	var req updateFeatureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	patch := models.FeaturePatch{Name: req.Name, Color: req.UserColor}
	if patch.Color == nil {
		patch.Color = req.Color
	}
	if patch.Name == nil && patch.Color == nil {
		writeError(w, r, errNothingToUpdate)
		return
	}
	if err := h.features.Update(r.Context(), p, chi.URLParam(r, "id"), patch); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Feature updated"})
}

func (h *handler) deleteFeature(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	if p == nil {
		writeError(w, r, models.ErrUnauthenticated)
		return
	}
	if err := h.features.Delete(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *handler) listLogs(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.RequirePrincipal(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	limit := activity.DefaultRecentLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 1000 {
			writeError(w, r, errBadLimit)
			return
		}
		limit = n
	}
	entries, err := h.activity.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.ActivityEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
