package shifts

import (
	"github.com/google/uuid"

	"github.com/shiftline/shiftline-backend/pkg/db/models"
)

// ShiftDTO is the wire projection of a scheduled shift.
type ShiftDTO struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username,omitempty"`
	Date     string    `json:"date"`
	Start    string    `json:"start"`
	End      string    `json:"end"`
	Role     *string   `json:"role"`
	Location *string   `json:"location"`
}

// ScheduleShiftRequest is the admin payload for a single shift.
type ScheduleShiftRequest struct {
	UserID   uuid.UUID `json:"user_id" validate:"required"`
	Date     string    `json:"date" validate:"required,datetime=2006-01-02"`
	Start    string    `json:"start" validate:"required,datetime=15:04"`
	End      string    `json:"end" validate:"required,datetime=15:04"`
	Role     *string   `json:"role,omitempty"`
	Location *string   `json:"location,omitempty"`
}

// DailyWindow names one day-offset/time-window pair inside a weekly batch.
type DailyWindow struct {
	Offset int    `json:"offset" validate:"min=0,max=6"`
	Start  string `json:"start" validate:"required,datetime=15:04"`
	End    string `json:"end" validate:"required,datetime=15:04"`
}

// ScheduleWeekRequest is the admin payload for a weekly batch of shifts.
type ScheduleWeekRequest struct {
	UserID       uuid.UUID     `json:"user_id" validate:"required"`
	WeekStart    string        `json:"week_start" validate:"required,datetime=2006-01-02"`
	DailyWindows []DailyWindow `json:"daily_windows" validate:"required,min=1,dive"`
	Role         *string       `json:"role,omitempty"`
	Location     *string       `json:"location,omitempty"`
}

// UpdateShiftRequest edits an existing shift; nil fields are left untouched.
type UpdateShiftRequest struct {
	Date     *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Start    *string `json:"start,omitempty" validate:"omitempty,datetime=15:04"`
	End      *string `json:"end,omitempty" validate:"omitempty,datetime=15:04"`
	Role     *string `json:"role,omitempty"`
	Location *string `json:"location,omitempty"`
}

// RosterEntry is one row of the cross-user roster view.
type RosterEntry struct {
	ShiftID  uuid.UUID `json:"shift_id"`
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Date     string    `json:"date"`
	Start    string    `json:"start"`
	End      string    `json:"end"`
	Role     *string   `json:"role"`
	Location *string   `json:"location"`
}

// FromModel projects a shift row, optionally attaching the owner's username.
func FromModel(s *models.Shift, username string) *ShiftDTO {
	if s == nil {
		return nil
	}
	return &ShiftDTO{
		ID:       s.ID,
		UserID:   s.UserID,
		Username: username,
		Date:     s.WorkDate,
		Start:    s.StartTime,
		End:      s.EndTime,
		Role:     s.Role,
		Location: s.Location,
	}
}
