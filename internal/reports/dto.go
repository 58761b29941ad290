package reports

import (
	"time"

	"github.com/google/uuid"

	"github.com/shiftline/shiftline-backend/pkg/db/models"
)

// WeeklyReportDTO is the wire projection of a weekly attendance summary.
type WeeklyReportDTO struct {
	ID             uuid.UUID `json:"id"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	TotalShifts    int       `json:"total_shifts"`
	TotalHours     float64   `json:"total_hours"`
	AttendanceRate float64   `json:"attendance_rate"`
	OvertimeHours  float64   `json:"overtime_hours"`
	GeneratedAt    time.Time `json:"generated_at"`
	GeneratedBy    uuid.UUID `json:"generated_by"`
}

// FromModel projects a persisted report row.
func FromModel(r *models.Report) *WeeklyReportDTO {
	if r == nil {
		return nil
	}
	return &WeeklyReportDTO{
		ID:             r.ID,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		TotalShifts:    r.TotalShifts,
		TotalHours:     r.TotalHours,
		AttendanceRate: r.AttendanceRate,
		OvertimeHours:  r.OvertimeHours,
		GeneratedAt:    r.GeneratedAt,
		GeneratedBy:    r.GeneratedBy,
	}
}
