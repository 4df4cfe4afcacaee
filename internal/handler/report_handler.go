package handler

import (
	"net/http"

	"workasana/internal/service"
)

type ReportHandler struct {
	service *service.ReportService
}

func NewReportHandler(service *service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) LastWeek(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.LastWeek(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) Pending(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Pending(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) ClosedTasks(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.ClosedTasks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
