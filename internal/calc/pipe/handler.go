package pipe

import (
	"net/http"

	"Fluidcalc/internal/calc/history"
	"Fluidcalc/internal/calc/respond"
	"Fluidcalc/internal/repo"

	log "github.com/sirupsen/logrus"
)

type Handler struct {
	Services *Services
	History  repo.Repository
}

func (h *Handler) services() Services {
	if h.Services != nil {
		return *h.Services
	}
	return DefaultServices()
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if !respond.Decode(w, r, &input) {
		return
	}
	res, err := CalculateWith(h.services(), input)
	if err != nil {
		log.WithError(err).WithField("panel", "pipe").Warn("calculation failed")
		respond.Error(w, http.StatusBadRequest, FailureMessage(err))
		return
	}
	history.Record(r.Context(), h.History, "pipe", input, res.Display.Headline)
	respond.JSON(w, http.StatusOK, res)
}
