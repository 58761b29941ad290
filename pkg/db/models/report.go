package models

import (
	"time"

	"github.com/google/uuid"
)

// Report is a persisted weekly attendance summary.
type Report struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StartDate      string    `gorm:"column:start_date;type:text;not null"`
	EndDate        string    `gorm:"column:end_date;type:text;not null"`
	TotalShifts    int       `gorm:"column:total_shifts;not null;default:0"`
	TotalHours     float64   `gorm:"column:total_hours;not null;default:0"`
	AttendanceRate float64   `gorm:"column:attendance_rate;not null;default:0"`
	OvertimeHours  float64   `gorm:"column:overtime_hours;not null;default:0"`
	GeneratedAt    time.Time `gorm:"column:generated_at;autoCreateTime"`
	GeneratedBy    uuid.UUID `gorm:"type:uuid;column:generated_by"`
}
