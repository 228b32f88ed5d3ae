package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dermaclinic/internal/auth"
	"dermaclinic/internal/entities"
	"dermaclinic/internal/repository"
	"dermaclinic/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

var appointmentRows = []string{
	"id", "code", "doctor_id", "patient_name", "patient_email", "patient_phone",
	"date", "start_minutes", "duration_minutes", "reason", "status", "created_at", "updated_at",
}

func newTestRouter(t *testing.T) (*mux.Router, sqlmock.Sqlmock) {
	t.Helper()
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	appointmentRepo := repository.NewAppointmentRepository(database)
	scheduleRepo := repository.NewScheduleRepository(database)
	doctorRepo := repository.NewDoctorRepository(database)

	appointmentSvc := service.NewAppointmentService(
		appointmentRepo, scheduleRepo, doctorRepo,
		30, 30, 12*time.Hour, time.UTC,
		func() time.Time { return testNow },
	)
	scheduleSvc := service.NewScheduleService(scheduleRepo, doctorRepo)
	adminSvc := service.NewAdminService(appointmentRepo, appointmentSvc)

	appointmentHandler := NewAppointmentHandler(appointmentSvc)
	scheduleHandler := NewScheduleHandler(scheduleSvc)
	adminHandler := NewAdminHandler(adminSvc)

	r := mux.NewRouter()
	r.HandleFunc("/api/doctors/{id}/slots", appointmentHandler.GetSlots).Methods("GET")
	r.HandleFunc("/api/doctors/{id}/schedule", scheduleHandler.PutSchedule).Methods("PUT")
	r.HandleFunc("/api/appointments", appointmentHandler.CreateAppointment).Methods("POST")
	r.HandleFunc("/api/appointments/{code}", appointmentHandler.CancelAppointment).Methods("DELETE")

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware)
	admin.HandleFunc("/appointments", adminHandler.ListAppointments).Methods("GET")
	return r, mock
}

func expectDoctor(mock sqlmock.Sqlmock, id int) {
	mock.ExpectQuery("FROM doctors WHERE id").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "specialty", "created_at"}).
			AddRow(id, "Dr. Chi Nguyen", "dermatology", testNow))
}

func expectMondayMorningSchedule(mock sqlmock.Sqlmock, doctorID int) {
	mock.ExpectQuery("FROM schedule_windows").
		WithArgs(doctorID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doctor_id", "weekday", "start_minutes", "end_minutes", "is_available"}).
			AddRow(1, doctorID, 1, 540, 720, true))
}

func TestGetSlots(t *testing.T) {
	r, mock := newTestRouter(t)
	expectDoctor(mock, 7)
	expectMondayMorningSchedule(mock, 7)
	mock.ExpectQuery("FROM appointments").
		WithArgs(7, "2026-09-07").
		WillReturnRows(sqlmock.NewRows(appointmentRows))

	req := httptest.NewRequest("GET", "/api/doctors/7/slots?date=2026-09-07", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp entities.SlotsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 7, resp.DoctorID)
	require.Len(t, resp.Slots, 6)
	assert.Equal(t, "09:00", resp.Slots[0].StartTime)
	assert.Equal(t, "11:30", resp.Slots[5].StartTime)
}

func TestGetSlots_MissingDate(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/doctors/7/slots", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAppointment_SlotTakenIs409(t *testing.T) {
	r, mock := newTestRouter(t)
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	expectDoctor(mock, 7)
	expectMondayMorningSchedule(mock, 7)
	mock.ExpectQuery("FROM appointments").
		WithArgs(7, "2026-09-07").
		WillReturnRows(sqlmock.NewRows(appointmentRows).
			AddRow(1, "a1", 7, "Lan", "lan@example.com", "", monday, 570, 30, "", "confirmed", testNow, testNow))

	body := `{"doctor_id":7,"date":"2026-09-07","start_time":"09:30","patient_name":"Minh","patient_email":"minh@example.com"}`
	req := httptest.NewRequest("POST", "/api/appointments", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "slot_taken", resp["error"])
}

func TestCreateAppointment_PastIs422(t *testing.T) {
	r, mock := newTestRouter(t)

	expectDoctor(mock, 7)
	expectMondayMorningSchedule(mock, 7)
	mock.ExpectQuery("FROM appointments").
		WithArgs(7, "2026-08-31").
		WillReturnRows(sqlmock.NewRows(appointmentRows))

	body := `{"doctor_id":7,"date":"2026-08-31","start_time":"09:30","patient_name":"Minh","patient_email":"minh@example.com"}`
	req := httptest.NewRequest("POST", "/api/appointments", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "past_datetime", resp["error"])
}

func TestCreateAppointment_MissingPatientFields(t *testing.T) {
	r, _ := newTestRouter(t)

	body := `{"doctor_id":7,"date":"2026-09-07","start_time":"09:30"}`
	req := httptest.NewRequest("POST", "/api/appointments", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPutSchedule_OverlapIs400(t *testing.T) {
	r, mock := newTestRouter(t)
	expectDoctor(mock, 7)

	body := `{"monday":[
		{"start_time":"09:00","end_time":"10:00","available":true},
		{"start_time":"09:30","end_time":"11:00","available":true}
	]}`
	req := httptest.NewRequest("PUT", "/api/doctors/7/schedule", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "invalid_schedule", resp["error"])
	assert.Contains(t, resp["message"], "Monday")
}

func TestCancelAppointment_RequiresEmail(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest("DELETE", "/api/appointments/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutes_RejectMissingToken(t *testing.T) {
	t.Setenv("ADMIN_TOKEN", "secret")
	r, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/admin/appointments", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutes_AcceptValidToken(t *testing.T) {
	t.Setenv("ADMIN_TOKEN", "secret")
	r, mock := newTestRouter(t)

	mock.ExpectQuery("FROM appointments").
		WillReturnRows(sqlmock.NewRows(appointmentRows))

	req := httptest.NewRequest("GET", "/admin/appointments", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
