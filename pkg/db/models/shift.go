package models

import (
	"time"

	"github.com/google/uuid"
)

// Shift is a scheduled work window for one user. WorkDate is stored as
// YYYY-MM-DD and the clock bounds as HH:MM so the uniqueness tuple compares
// and sorts textually. The (user, date, start, end) window is unique; the
// uq_shifts_user_window index backs up the application-level upsert check.
type Shift struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_shifts_user_window"`
	WorkDate  string    `gorm:"column:work_date;type:text;not null;index;uniqueIndex:uq_shifts_user_window"`
	StartTime string    `gorm:"column:start_time;type:text;not null;uniqueIndex:uq_shifts_user_window"`
	EndTime   string    `gorm:"column:end_time;type:text;not null;uniqueIndex:uq_shifts_user_window"`
	Role      *string   `gorm:"type:text"`
	Location  *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
