package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shiftline/shiftline-backend/internal/shifts"
	"github.com/shiftline/shiftline-backend/internal/users"
	"github.com/shiftline/shiftline-backend/pkg/db"
	pkgerrors "github.com/shiftline/shiftline-backend/pkg/errors"
	"github.com/shiftline/shiftline-backend/pkg/pagination"
)

// Service defines the behavior needed by the attendance controllers.
type Service interface {
	ClockIn(ctx context.Context, req ClockRequest) (*AttendanceDTO, error)
	ClockOut(ctx context.Context, req ClockRequest) (*AttendanceDTO, error)
	Approve(ctx context.Context, id uuid.UUID) (*AttendanceDTO, error)
	Unapprove(ctx context.Context, id uuid.UUID) (*AttendanceDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*AttendanceDTO, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*AttendanceList, error)
	ListByShift(ctx context.Context, shiftID uuid.UUID) ([]AttendanceDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	client *db.Client
	now    func() time.Time
}

// ServiceParams bundles the dependencies required to build an attendance
// service. Now is overridable for tests and defaults to the UTC wall clock.
type ServiceParams struct {
	Client *db.Client
	Now    func() time.Time
}

// NewService constructs an attendance tracking service.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{client: params.Client, now: now}, nil
}

// ClockIn stamps time_in on the (user, shift) attendance record, creating the
// record first if scheduling never did. Repeat clock-ins return the existing
// record unchanged.
func (s *service) ClockIn(ctx context.Context, req ClockRequest) (*AttendanceDTO, error) {
	when := s.eventTime(req.At)

	var out *AttendanceDTO
	txErr := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		shiftRepo := shifts.NewRepository(tx)

		if ok, err := userRepo.Exists(ctx, req.UserID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
		} else if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		if ok, err := shiftRepo.Exists(ctx, req.ShiftID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup shift")
		} else if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "shift not found")
		}

		record, err := shiftRepo.EnsureAttendance(ctx, req.UserID, req.ShiftID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ensure attendance")
		}

		if record.TimeIn != nil {
			out = FromModel(record)
			return nil
		}

		record.TimeIn = &when
		if err := NewRepository(tx).Save(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save clock-in")
		}
		out = FromModel(record)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return out, nil
}

// ClockOut stamps time_out. The record must exist and already hold a time_in;
// a time_out earlier than time_in is rejected, and a repeat clock-out returns
// the record unchanged.
func (s *service) ClockOut(ctx context.Context, req ClockRequest) (*AttendanceDTO, error) {
	when := s.eventTime(req.At)

	var out *AttendanceDTO
	txErr := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		attendanceRepo := NewRepository(tx)
		record, err := attendanceRepo.FindByUserShift(ctx, req.UserID, req.ShiftID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "attendance record not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup attendance")
		}

		if record.TimeIn == nil {
			return pkgerrors.New(pkgerrors.CodeInvalidState, "clock-in required before clock-out")
		}
		if record.TimeOut != nil {
			out = FromModel(record)
			return nil
		}
		if when.Before(*record.TimeIn) {
			return pkgerrors.New(pkgerrors.CodeInvalidTimeOrder, "clock-out precedes clock-in").
				WithDetails(map[string]any{
					"time_in":  record.TimeIn.Format(time.RFC3339),
					"time_out": when.Format(time.RFC3339),
				})
		}

		record.TimeOut = &when
		if err := attendanceRepo.Save(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save clock-out")
		}
		out = FromModel(record)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return out, nil
}

func (s *service) Approve(ctx context.Context, id uuid.UUID) (*AttendanceDTO, error) {
	return s.setApproval(ctx, id, true)
}

func (s *service) Unapprove(ctx context.Context, id uuid.UUID) (*AttendanceDTO, error) {
	return s.setApproval(ctx, id, false)
}

func (s *service) setApproval(ctx context.Context, id uuid.UUID, approved bool) (*AttendanceDTO, error) {
	var out *AttendanceDTO
	txErr := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		attendanceRepo := NewRepository(tx)
		record, err := attendanceRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "attendance record not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup attendance")
		}
		if record.Approved != approved {
			record.Approved = approved
			if err := attendanceRepo.Save(ctx, record); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save approval")
			}
		}
		out = FromModel(record)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*AttendanceDTO, error) {
	record, err := NewRepository(s.client.DB()).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "attendance record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup attendance")
	}
	return FromModel(record), nil
}

// ListByUser pages through a user's attendance history newest-first using an
// opaque created_at/id cursor. The user must exist.
func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*AttendanceList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	if ok, err := users.NewRepository(s.client.DB()).Exists(ctx, userID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	} else if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}

	records, err := NewRepository(s.client.DB()).ListByUser(ctx, userID, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list attendance")
	}

	list := &AttendanceList{}
	if len(records) > limit {
		last := records[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		records = records[:limit]
	}
	list.Records = FromModels(records)
	return list, nil
}

// ListByShift returns the attendance records tied to one shift. The shift must
// exist.
func (s *service) ListByShift(ctx context.Context, shiftID uuid.UUID) ([]AttendanceDTO, error) {
	if ok, err := shifts.NewRepository(s.client.DB()).Exists(ctx, shiftID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup shift")
	} else if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shift not found")
	}

	records, err := NewRepository(s.client.DB()).ListByShift(ctx, shiftID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list attendance")
	}
	return FromModels(records), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := NewRepository(s.client.DB()).DeleteByID(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete attendance")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "attendance record not found")
	}
	return nil
}

func (s *service) eventTime(at *time.Time) time.Time {
	if at != nil {
		return at.UTC()
	}
	return s.now()
}
