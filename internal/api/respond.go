package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	apperrors "dermaclinic/internal/errors"
	"dermaclinic/internal/schedule"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError maps the error kinds the services produce onto HTTP statuses.
// Booking rejections keep their classified reason in the payload so the UI
// can show the user exactly why the request was refused.
func writeError(w http.ResponseWriter, err error) {
	var rej *schedule.Rejection
	if errors.As(err, &rej) {
		status := http.StatusConflict
		if rej == schedule.ErrPastDateTime || rej == schedule.ErrLockoutWindowActive {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, map[string]string{"error": rej.Reason, "message": rej.Message})
		return
	}

	var inverted *schedule.InvertedWindowError
	var overlapping *schedule.OverlappingWindowError
	if errors.As(err, &inverted) || errors.As(err, &overlapping) || errors.Is(err, schedule.ErrInvalidAvailability) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_schedule", "message": err.Error()})
		return
	}

	var httpErr *apperrors.HTTPError
	if errors.As(err, &httpErr) {
		writeJSON(w, httpErr.Code, map[string]string{"message": httpErr.Message})
		return
	}

	if errors.Is(err, sql.ErrNoRows) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
		return
	}

	log.Printf("Internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
}
