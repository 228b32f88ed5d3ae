package entities

import "dermaclinic/internal/schedule"

type SlotResponse struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Label     string `json:"label"`
}

type SlotsResponse struct {
	DoctorID int            `json:"doctor_id"`
	Date     string         `json:"date"`
	Slots    []SlotResponse `json:"slots"`
}

func NewSlotsResponse(doctorID int, date string, slots []schedule.Slot) SlotsResponse {
	out := SlotsResponse{DoctorID: doctorID, Date: date, Slots: make([]SlotResponse, 0, len(slots))}
	for _, s := range slots {
		out.Slots = append(out.Slots, SlotResponse{
			Date:      s.Date.Format("2006-01-02"),
			StartTime: schedule.FormatMinutes(s.Start),
			EndTime:   schedule.FormatMinutes(s.End),
			Label:     s.Label,
		})
	}
	return out
}
