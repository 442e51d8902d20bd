package api

import (
	"fmt"
	"net/http"

	"geoMaster/internal/experiment"
	"geoMaster/internal/logging"
)

// perfField is the column the perf endpoints index and query.
const perfField = "name"

type scanResponse struct {
	Mode        string  `json:"mode"`
	TimeMs      float64 `json:"time_ms"`
	ResultCount int     `json:"resultCount"`
}

func (h *handler) perfSeed(w http.ResponseWriter, r *http.Request) {
	if err := h.perf.Seed(r.Context(), h.perfSize, experiment.TargetName); err != nil {
		writeError(w, r, err)
		return
	}
	logging.Info().Int("rows", h.perfSize).Msg("experiment data seeded")
	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("%d rows generated", h.perfSize),
		"rows":    h.perfSize,
	})
}

func (h *handler) perfNoIndex(w http.ResponseWriter, r *http.Request) {
	if err := h.perf.DropIndex(r.Context(), perfField); err != nil {
		writeError(w, r, err)
		return
	}
	h.perfScan(w, r)
}

func (h *handler) perfAddIndex(w http.ResponseWriter, r *http.Request) {
	if err := h.perf.BuildIndex(r.Context(), perfField); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Index created on field %q", perfField)})
}

func (h *handler) perfWithIndex(w http.ResponseWriter, r *http.Request) {
	h.perfScan(w, r)
}

func (h *handler) perfScan(w http.ResponseWriter, r *http.Request) {
	m, err := h.perf.MeasureScan(r.Context(), experiment.NameEquals(experiment.TargetName))
	if err != nil {
		writeError(w, r, err)
		return
	}
	logging.Info().Str("mode", m.Mode()).Float64("time_ms", m.Millis()).Int("results", m.Results).Msg("experiment scan")
	writeJSON(w, http.StatusOK, scanResponse{Mode: m.Mode(), TimeMs: m.Millis(), ResultCount: m.Results})
}

func (h *handler) perfReport(w http.ResponseWriter, r *http.Request) {
	without, with := h.perf.Latest()
	if without == nil || with == nil {
		writeError(w, r, errNotMeasured)
		return
	}
	writeJSON(w, http.StatusOK, experiment.NewReport(without.Elapsed, with.Elapsed))
}
