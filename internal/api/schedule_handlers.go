package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"dermaclinic/internal/entities"
	"dermaclinic/internal/service"

	"github.com/gorilla/mux"
)

type ScheduleHandler struct {
	Service *service.ScheduleService
}

func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{Service: svc}
}

func (h *ScheduleHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.Service.ListDoctors()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doctors)
}

func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	doctorID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid doctor ID", http.StatusBadRequest)
		return
	}
	ws, err := h.Service.Get(doctorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

// PutSchedule replaces a doctor's weekly availability wholesale. Inverted or
// overlapping windows come back as 400s naming the offending day and window.
func (h *ScheduleHandler) PutSchedule(w http.ResponseWriter, r *http.Request) {
	doctorID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid doctor ID", http.StatusBadRequest)
		return
	}
	var ws entities.WeeklySchedule
	if err := json.NewDecoder(r.Body).Decode(&ws); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Service.Replace(doctorID, ws); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Schedule updated"})
}
