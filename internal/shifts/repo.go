package shifts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shiftline/shiftline-backend/internal/repo"
	"github.com/shiftline/shiftline-backend/pkg/db/models"
)

// Repository exposes shift persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a shifts repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new shift row.
func (r *Repository) Create(ctx context.Context, shift *models.Shift) error {
	if shift.ID == uuid.Nil {
		shift.ID = uuid.New()
	}
	return r.DB(ctx).Create(shift).Error
}

// CreateIfAbsent inserts the shift unless a row for its window already exists,
// reporting whether a row was written. A lost creation race is not an error:
// the insert carries ON CONFLICT DO NOTHING, so the surrounding transaction
// stays usable for a re-read of the winning row.
func (r *Repository) CreateIfAbsent(ctx context.Context, shift *models.Shift) (bool, error) {
	if shift.ID == uuid.Nil {
		shift.ID = uuid.New()
	}
	res := r.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(shift)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindByWindow loads the shift matching the uniqueness tuple, if any.
func (r *Repository) FindByWindow(ctx context.Context, userID uuid.UUID, workDate, start, end string) (*models.Shift, error) {
	var shift models.Shift
	err := r.DB(ctx).
		Where("user_id = ? AND work_date = ? AND start_time = ? AND end_time = ?", userID, workDate, start, end).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

// FindByID loads a shift by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Shift, error) {
	var shift models.Shift
	if err := r.DB(ctx).First(&shift, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

// Save persists in-place updates on an existing shift.
func (r *Repository) Save(ctx context.Context, shift *models.Shift) error {
	return r.DB(ctx).Save(shift).Error
}

// Delete removes a shift row by id and reports whether a row was deleted.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.DB(ctx).Delete(&models.Shift{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Exists reports whether a shift with the given id is present.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Shift{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// EnsureAttendance creates the attendance row for (userID, shiftID) when it is
// absent and returns the row either way. The insert carries ON CONFLICT DO
// NOTHING so a lost creation race never raises a constraint error; the loser
// re-reads the winner's row.
func (r *Repository) EnsureAttendance(ctx context.Context, userID, shiftID uuid.UUID) (*models.Attendance, error) {
	var existing models.Attendance
	err := r.DB(ctx).
		Where("user_id = ? AND shift_id = ?", userID, shiftID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	record := &models.Attendance{
		ID:      uuid.New(),
		UserID:  userID,
		ShiftID: shiftID,
	}
	res := r.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(record)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		err := r.DB(ctx).
			Where("user_id = ? AND shift_id = ?", userID, shiftID).
			First(&existing).Error
		if err != nil {
			return nil, err
		}
		return &existing, nil
	}
	return record, nil
}

// DeleteAttendanceForShift removes the attendance rows tied to a shift.
func (r *Repository) DeleteAttendanceForShift(ctx context.Context, shiftID uuid.UUID) error {
	return r.DB(ctx).Delete(&models.Attendance{}, "shift_id = ?", shiftID).Error
}

// RosterRow is the scan target for the roster join.
type RosterRow struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Username  string
	WorkDate  string
	StartTime string
	EndTime   string
	Role      *string
	Location  *string
}

// ListRange returns all shifts with work_date in [startDate, endDate]
// inclusive, joined with the owning username, ordered by date, start time,
// then username.
func (r *Repository) ListRange(ctx context.Context, startDate, endDate string) ([]RosterRow, error) {
	var rows []RosterRow
	err := r.DB(ctx).
		Table("shifts").
		Select("shifts.id, shifts.user_id, users.username, shifts.work_date, shifts.start_time, shifts.end_time, shifts.role, shifts.location").
		Joins("JOIN users ON users.id = shifts.user_id").
		Where("shifts.work_date >= ? AND shifts.work_date <= ?", startDate, endDate).
		Order("shifts.work_date ASC, shifts.start_time ASC, users.username ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
