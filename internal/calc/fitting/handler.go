package fitting

import (
	"net/http"

	"Fluidcalc/internal/calc/history"
	"Fluidcalc/internal/calc/respond"
	"Fluidcalc/internal/fittings"
	"Fluidcalc/internal/repo"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	Coefficients Coefficients
	History      repo.Repository
	Upgrader     websocket.Upgrader
}

func (h *Handler) catalog() Coefficients {
	if h.Coefficients != nil {
		return h.Coefficients
	}
	return fittings.Default()
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if !respond.Decode(w, r, &input) {
		return
	}
	res, err := CalculateWith(h.catalog(), input)
	if err != nil {
		log.WithError(err).WithField("panel", "fitting").Warn("calculation failed")
		respond.Error(w, http.StatusBadRequest, FailureMessage(err))
		return
	}
	history.Record(r.Context(), h.History, "fitting", input, res.Fitting+": "+res.Headline)
	respond.JSON(w, http.StatusOK, res)
}

// Catalog lists the fitting keys in table order.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.catalog().Names())
}
