package entities

// AppointmentRequest carries a booking submission. Date is YYYY-MM-DD and
// StartTime is HH:MM, both clinic-local.
type AppointmentRequest struct {
	DoctorID     int    `json:"doctor_id"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	PatientName  string `json:"patient_name"`
	PatientEmail string `json:"patient_email"`
	PatientPhone string `json:"patient_phone"`
	Reason       string `json:"reason"`
}

type RescheduleRequest struct {
	Email     string `json:"email"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
}
