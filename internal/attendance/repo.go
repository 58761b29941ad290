package attendance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shiftline/shiftline-backend/internal/repo"
	"github.com/shiftline/shiftline-backend/pkg/db/models"
	"github.com/shiftline/shiftline-backend/pkg/pagination"
)

// Repository exposes attendance persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs an attendance repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindByUserShift loads the attendance record for one (user, shift) pair.
func (r *Repository) FindByUserShift(ctx context.Context, userID, shiftID uuid.UUID) (*models.Attendance, error) {
	var record models.Attendance
	err := r.DB(ctx).
		Where("user_id = ? AND shift_id = ?", userID, shiftID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByID loads an attendance record by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Attendance, error) {
	var record models.Attendance
	if err := r.DB(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// Save persists in-place updates on an existing record.
func (r *Repository) Save(ctx context.Context, record *models.Attendance) error {
	return r.DB(ctx).Save(record).Error
}

// ListByUser returns one page of a user's attendance records, newest first.
// limit rows are fetched; callers pass pagination.LimitWithBuffer to detect a
// next page. A nil cursor starts from the newest record.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Attendance, error) {
	q := r.DB(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		q = q.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var records []models.Attendance
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListByShift returns the attendance records tied to one shift.
func (r *Repository) ListByShift(ctx context.Context, shiftID uuid.UUID) ([]models.Attendance, error) {
	var records []models.Attendance
	err := r.DB(ctx).
		Where("shift_id = ?", shiftID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteByID removes a record and reports whether a row was deleted.
func (r *Repository) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.DB(ctx).Delete(&models.Attendance{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
