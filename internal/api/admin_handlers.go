package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"dermaclinic/internal/service"

	"github.com/gorilla/mux"
)

type AdminHandler struct {
	Service *service.AdminService
}

func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{Service: svc}
}

func (h *AdminHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	doctorID := 0
	if v := r.URL.Query().Get("doctor_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "Invalid doctor_id", http.StatusBadRequest)
			return
		}
		doctorID = id
	}
	date := r.URL.Query().Get("date")
	status := r.URL.Query().Get("status")

	appointments, err := h.Service.ListAppointments(doctorID, date, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appointments)
}

// UpdateAppointmentStatus lets the clinic confirm, reject or complete an
// appointment: PUT /admin/appointments/{id}/status {"status": "confirmed"}.
func (h *AdminHandler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Service.UpdateStatus(id, req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment status updated"})
}

func (h *AdminHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	if err := h.Service.DeleteAppointment(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment deleted"})
}
