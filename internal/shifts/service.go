package shifts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shiftline/shiftline-backend/internal/users"
	"github.com/shiftline/shiftline-backend/pkg/db"
	"github.com/shiftline/shiftline-backend/pkg/db/models"
	pkgerrors "github.com/shiftline/shiftline-backend/pkg/errors"
	"github.com/shiftline/shiftline-backend/pkg/types"
)

const uniqueWindowConstraint = "uq_shifts_user_window"

// Service defines the behavior needed by the shift controllers.
type Service interface {
	Schedule(ctx context.Context, req ScheduleShiftRequest) (*ShiftDTO, error)
	ScheduleWeek(ctx context.Context, req ScheduleWeekRequest) ([]ShiftDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ShiftDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateShiftRequest) (*ShiftDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Roster(ctx context.Context, startDate, endDate string) ([]RosterEntry, error)
}

type service struct {
	client *db.Client
}

// ServiceParams bundles the dependencies required to build a shifts service.
type ServiceParams struct {
	Client *db.Client
}

// NewService constructs a shift scheduling service.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	return &service{client: params.Client}, nil
}

// Schedule upserts a shift on the (user, date, start, end) window. Matching
// windows overwrite role/location when provided and otherwise return the
// existing row unchanged. Creating a shift also creates its attendance row in
// the same transaction.
func (s *service) Schedule(ctx context.Context, req ScheduleShiftRequest) (*ShiftDTO, error) {
	workDate, start, end, err := canonicalWindow(req.Date, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	var out *ShiftDTO
	txErr := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		dto, err := scheduleInTx(ctx, tx, req.UserID, workDate, start, end, req.Role, req.Location)
		if err != nil {
			return err
		}
		out = dto
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return out, nil
}

// ScheduleWeek expands weekStart+offset windows and delegates to the same
// upsert path, all inside one transaction so a malformed window rolls the
// whole batch back.
func (s *service) ScheduleWeek(ctx context.Context, req ScheduleWeekRequest) ([]ShiftDTO, error) {
	weekStart, err := types.ParseDate(req.WeekStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid week_start")
	}
	if len(req.DailyWindows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "daily_windows must not be empty")
	}

	var out []ShiftDTO
	txErr := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		out = make([]ShiftDTO, 0, len(req.DailyWindows))
		for _, window := range req.DailyWindows {
			if window.Offset < 0 || window.Offset > 6 {
				return pkgerrors.New(pkgerrors.CodeValidation, "daily window offset must be within the week").
					WithDetails(map[string]any{"offset": window.Offset})
			}
			workDate, err := types.AddDays(weekStart, window.Offset)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid week_start")
			}
			start, err := types.ParseClock(window.Start)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid start time")
			}
			end, err := types.ParseClock(window.End)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid end time")
			}

			dto, err := scheduleInTx(ctx, tx, req.UserID, workDate, start, end, req.Role, req.Location)
			if err != nil {
				return err
			}
			out = append(out, *dto)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ShiftDTO, error) {
	shiftRepo := NewRepository(s.client.DB())
	shift, err := shiftRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shift not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup shift")
	}
	return FromModel(shift, ""), nil
}

// Update edits a shift and re-validates the uniqueness tuple whenever the
// window changes; colliding with another shift's window is a conflict.
func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateShiftRequest) (*ShiftDTO, error) {
	var out *ShiftDTO
	txErr := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		shiftRepo := NewRepository(tx)
		shift, err := shiftRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shift not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup shift")
		}

		if req.Date != nil {
			canonical, err := types.ParseDate(*req.Date)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date")
			}
			shift.WorkDate = canonical
		}
		if req.Start != nil {
			canonical, err := types.ParseClock(*req.Start)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid start time")
			}
			shift.StartTime = canonical
		}
		if req.End != nil {
			canonical, err := types.ParseClock(*req.End)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid end time")
			}
			shift.EndTime = canonical
		}
		if req.Role != nil {
			shift.Role = req.Role
		}
		if req.Location != nil {
			shift.Location = req.Location
		}

		if existing, err := shiftRepo.FindByWindow(ctx, shift.UserID, shift.WorkDate, shift.StartTime, shift.EndTime); err == nil && existing.ID != shift.ID {
			return pkgerrors.New(pkgerrors.CodeConflict, "another shift already occupies this window")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "validate window")
		}

		if err := shiftRepo.Save(ctx, shift); err != nil {
			if db.IsUniqueViolation(err, uniqueWindowConstraint) {
				return pkgerrors.New(pkgerrors.CodeConflict, "another shift already occupies this window")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save shift")
		}
		out = FromModel(shift, "")
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return out, nil
}

// Delete removes a shift and cascades its attendance rows.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		shiftRepo := NewRepository(tx)
		if err := shiftRepo.DeleteAttendanceForShift(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete attendance")
		}
		found, err := shiftRepo.Delete(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete shift")
		}
		if !found {
			return pkgerrors.New(pkgerrors.CodeNotFound, "shift not found")
		}
		return nil
	})
}

// Roster returns all shifts in [startDate, endDate] inclusive across users.
func (s *service) Roster(ctx context.Context, startDate, endDate string) ([]RosterEntry, error) {
	start, err := types.ParseDate(startDate)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid start date")
	}
	end, err := types.ParseDate(endDate)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid end date")
	}
	if end < start {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date precedes start date")
	}

	shiftRepo := NewRepository(s.client.DB())
	rows, err := shiftRepo.ListRange(ctx, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list roster")
	}

	entries := make([]RosterEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, RosterEntry{
			ShiftID:  row.ID,
			UserID:   row.UserID,
			Username: row.Username,
			Date:     row.WorkDate,
			Start:    row.StartTime,
			End:      row.EndTime,
			Role:     row.Role,
			Location: row.Location,
		})
	}
	return entries, nil
}

// scheduleInTx performs the idempotent window upsert plus the eager attendance
// ensure. A lost creation race falls back to re-reading the winning row; the
// conflict-free insert keeps the transaction healthy on drivers that abort on
// constraint errors.
func scheduleInTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID, workDate, start, end string, role, location *string) (*ShiftDTO, error) {
	shiftRepo := NewRepository(tx)
	userRepo := users.NewRepository(tx)

	owner, err := userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	shift, err := shiftRepo.FindByWindow(ctx, userID, workDate, start, end)
	switch {
	case err == nil:
		changed := false
		if role != nil {
			shift.Role = role
			changed = true
		}
		if location != nil {
			shift.Location = location
			changed = true
		}
		if changed {
			if err := shiftRepo.Save(ctx, shift); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update shift")
			}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		shift = &models.Shift{
			UserID:    userID,
			WorkDate:  workDate,
			StartTime: start,
			EndTime:   end,
			Role:      role,
			Location:  location,
		}
		created, err := shiftRepo.CreateIfAbsent(ctx, shift)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create shift")
		}
		if !created {
			shift, err = shiftRepo.FindByWindow(ctx, userID, workDate, start, end)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reread shift")
			}
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup shift")
	}

	if _, err := shiftRepo.EnsureAttendance(ctx, userID, shift.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ensure attendance")
	}

	return FromModel(shift, owner.Username), nil
}

func canonicalWindow(date, start, end string) (string, string, string, error) {
	workDate, err := types.ParseDate(date)
	if err != nil {
		return "", "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date")
	}
	startTime, err := types.ParseClock(start)
	if err != nil {
		return "", "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid start time")
	}
	endTime, err := types.ParseClock(end)
	if err != nil {
		return "", "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid end time")
	}
	return workDate, startTime, endTime, nil
}
