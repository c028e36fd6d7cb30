// Package history records successful calculations and serves the latest ones.
package history

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"Fluidcalc/internal/calc/respond"
	"Fluidcalc/internal/repo"

	log "github.com/sirupsen/logrus"
)

const defaultLimit = 20

// Record stores one calculation in r. A nil r records nothing; storage errors
// are logged and never fail the calculation.
func Record(ctx context.Context, r repo.Repository, panel string, input any, summary string) {
	if r == nil {
		return
	}
	raw, err := json.Marshal(input)
	if err != nil {
		log.WithError(err).WithField("panel", panel).Warn("history: encode input")
		return
	}
	if _, err := r.Record(ctx, repo.Entry{Panel: panel, Input: raw, Summary: summary}); err != nil {
		log.WithError(err).WithField("panel", panel).Warn("history: record")
	}
}

type Handler struct {
	Repo repo.Repository
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respond.Error(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}
	entries, err := h.Repo.Recent(r.Context(), limit)
	if err != nil {
		log.WithError(err).Error("history: list")
		respond.Error(w, http.StatusInternalServerError, "DB error")
		return
	}
	if entries == nil {
		entries = []repo.Entry{}
	}
	respond.JSON(w, http.StatusOK, entries)
}
