package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shiftline/shiftline-backend/internal/repo"
	"github.com/shiftline/shiftline-backend/pkg/db/models"
)

// Repository exposes the report aggregation queries and report persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a reports repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ShiftAttendanceRow pairs one scheduled shift with its attendance record, if
// any. The clock bounds are nil for shifts never clocked.
type ShiftAttendanceRow struct {
	ShiftID  uuid.UUID
	UserID   uuid.UUID
	WorkDate string
	TimeIn   *time.Time
	TimeOut  *time.Time
	Approved bool
}

// ListShiftAttendance returns every shift with work_date in
// [startDate, endDate] inclusive, left-joined with its attendance record.
func (r *Repository) ListShiftAttendance(ctx context.Context, startDate, endDate string) ([]ShiftAttendanceRow, error) {
	var rows []ShiftAttendanceRow
	err := r.DB(ctx).
		Table("shifts").
		Select("shifts.id AS shift_id, shifts.user_id, shifts.work_date, attendances.time_in, attendances.time_out, COALESCE(attendances.approved, FALSE) AS approved").
		Joins("LEFT JOIN attendances ON attendances.shift_id = shifts.id AND attendances.user_id = shifts.user_id").
		Where("shifts.work_date >= ? AND shifts.work_date <= ?", startDate, endDate).
		Order("shifts.work_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Create persists a generated report row.
func (r *Repository) Create(ctx context.Context, report *models.Report) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	return r.DB(ctx).Create(report).Error
}
