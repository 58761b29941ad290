package attendance

import (
	"time"

	"github.com/google/uuid"

	"github.com/shiftline/shiftline-backend/pkg/db/models"
)

// AttendanceDTO is the wire projection of a clock record. HoursWorked is nil
// until both clock bounds are set.
type AttendanceDTO struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	ShiftID     uuid.UUID  `json:"shift_id"`
	TimeIn      *time.Time `json:"time_in"`
	TimeOut     *time.Time `json:"time_out"`
	Approved    bool       `json:"approved"`
	HoursWorked *float64   `json:"hours_worked"`
}

// ClockRequest identifies the (user, shift) pair being clocked. At overrides
// the event timestamp; when omitted the server clock is used.
type ClockRequest struct {
	UserID  uuid.UUID  `json:"user_id" validate:"required"`
	ShiftID uuid.UUID  `json:"shift_id" validate:"required"`
	At      *time.Time `json:"at,omitempty"`
}

// ApprovalRequest targets one attendance record for approval changes.
type ApprovalRequest struct {
	AttendanceID uuid.UUID `json:"attendance_id" validate:"required"`
}

// FromModel projects an attendance row onto the wire shape.
func FromModel(a *models.Attendance) *AttendanceDTO {
	if a == nil {
		return nil
	}
	return &AttendanceDTO{
		ID:          a.ID,
		UserID:      a.UserID,
		ShiftID:     a.ShiftID,
		TimeIn:      a.TimeIn,
		TimeOut:     a.TimeOut,
		Approved:    a.Approved,
		HoursWorked: a.HoursWorked(),
	}
}

// FromModels projects a slice of attendance rows.
func FromModels(records []models.Attendance) []AttendanceDTO {
	out := make([]AttendanceDTO, 0, len(records))
	for i := range records {
		out = append(out, *FromModel(&records[i]))
	}
	return out
}

// AttendanceList is one cursor page of a user's attendance history.
type AttendanceList struct {
	Records    []AttendanceDTO `json:"records"`
	NextCursor string          `json:"next_cursor,omitempty"`
}
