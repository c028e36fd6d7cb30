package importer

import (
	"net/http"

	"Fluidcalc/internal/calc/pipe"
	"Fluidcalc/internal/calc/respond"

	log "github.com/sirupsen/logrus"
)

const maxUpload = 10 << 20

type Handler struct {
	Services *pipe.Services
}

// Pipe accepts a multipart upload in field "file". With ?format=xlsx the
// results come back as a workbook, otherwise as JSON.
func (h *Handler) Pipe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "File required")
		return
	}
	defer file.Close()

	s := pipe.DefaultServices()
	if h.Services != nil {
		s = *h.Services
	}
	batch, err := Run(s, file)
	if err != nil {
		log.WithError(err).Warn("import: read workbook")
		respond.Error(w, http.StatusBadRequest, "Invalid file: "+err.Error())
		return
	}
	log.WithFields(log.Fields{"rows": batch.Count, "failed": batch.Failed}).Info("import: batch done")

	if r.URL.Query().Get("format") != "xlsx" {
		respond.JSON(w, http.StatusOK, batch)
		return
	}
	out, err := Workbook(batch)
	if err != nil {
		log.WithError(err).Error("import: build workbook")
		respond.Error(w, http.StatusInternalServerError, "Workbook generation error")
		return
	}
	defer out.Close()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"pressure-drop.xlsx\"")
	if err := out.Write(w); err != nil {
		log.WithError(err).Warn("import: write workbook")
	}
}
