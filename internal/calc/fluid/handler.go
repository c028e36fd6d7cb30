package fluid

import (
	"net/http"

	"Fluidcalc/internal/calc/history"
	"Fluidcalc/internal/calc/respond"
	"Fluidcalc/internal/props"
	"Fluidcalc/internal/repo"

	log "github.com/sirupsen/logrus"
)

type Handler struct {
	Props   PropertyLookup
	History repo.Repository
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if !respond.Decode(w, r, &input) {
		return
	}
	lookup := h.Props
	if lookup == nil {
		lookup = props.Default()
	}
	res, err := CalculateWith(lookup, input)
	if err != nil {
		log.WithError(err).WithField("panel", "fluid").Warn("calculation failed")
		respond.Error(w, http.StatusBadRequest, FailureMessage(err))
		return
	}
	history.Record(r.Context(), h.History, "fluid", input, res.Title)
	respond.JSON(w, http.StatusOK, res)
}
