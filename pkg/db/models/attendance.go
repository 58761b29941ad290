package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Attendance tracks the clock-in/clock-out record for one (user, shift) pair.
// Exactly one row exists per pair; uq_attendance_user_shift closes the
// read-then-write race between concurrent ensure calls.
type Attendance struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_user_shift"`
	ShiftID   uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:uq_attendance_user_shift"`
	TimeIn    *time.Time `gorm:"column:time_in"`
	TimeOut   *time.Time `gorm:"column:time_out"`
	Approved  bool       `gorm:"column:approved;not null;default:false"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// HoursWorked returns the worked duration in hours rounded to two decimals,
// or nil while either clock bound is missing.
func (a Attendance) HoursWorked() *float64 {
	if a.TimeIn == nil || a.TimeOut == nil {
		return nil
	}
	hours := a.TimeOut.Sub(*a.TimeIn).Hours()
	rounded := math.Round(hours*100) / 100
	return &rounded
}
