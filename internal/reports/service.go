package reports

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shiftline/shiftline-backend/pkg/config"
	"github.com/shiftline/shiftline-backend/pkg/db"
	"github.com/shiftline/shiftline-backend/pkg/db/models"
	pkgerrors "github.com/shiftline/shiftline-backend/pkg/errors"
	"github.com/shiftline/shiftline-backend/pkg/types"
)

// Service defines the behavior needed by the reports controller.
type Service interface {
	Weekly(ctx context.Context, weekStart string, generatedBy uuid.UUID) (*WeeklyReportDTO, error)
}

type service struct {
	client *db.Client
	policy config.ReportPolicyConfig
	now    func() time.Time
}

// ServiceParams bundles the dependencies required to build a reports service.
type ServiceParams struct {
	Client *db.Client
	Policy config.ReportPolicyConfig
	Now    func() time.Time
}

// NewService constructs a weekly report aggregator.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{client: params.Client, policy: params.Policy, now: now}, nil
}

// Weekly aggregates the seven days starting at weekStart: total shifts, total
// hours worked, attendance rate, and overtime beyond the configured per-shift
// threshold. The generated report is persisted unless persistence is disabled
// by policy.
func (s *service) Weekly(ctx context.Context, weekStart string, generatedBy uuid.UUID) (*WeeklyReportDTO, error) {
	start, err := types.ParseDate(weekStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid week_start")
	}
	end, err := types.AddDays(start, 6)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid week_start")
	}

	var report *models.Report
	txErr := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		reportRepo := NewRepository(tx)
		rows, err := reportRepo.ListShiftAttendance(ctx, start, end)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate shifts")
		}

		report = s.buildReport(start, end, rows, generatedBy)
		if s.policy.PersistReports {
			if err := reportRepo.Create(ctx, report); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist report")
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return FromModel(report), nil
}

func (s *service) buildReport(start, end string, rows []ShiftAttendanceRow, generatedBy uuid.UUID) *models.Report {
	var (
		attended      int
		totalHours    float64
		overtimeHours float64
	)
	for _, row := range rows {
		worked := hoursBetween(row.TimeIn, row.TimeOut)
		if worked != nil {
			totalHours += *worked
			if s.policy.OvertimeShiftHours > 0 && *worked > s.policy.OvertimeShiftHours {
				overtimeHours += *worked - s.policy.OvertimeShiftHours
			}
		}

		switch {
		case worked != nil:
			attended++
		case row.Approved && s.policy.ApprovedCountsAsAttended:
			attended++
		}
	}

	rate := 0.0
	if len(rows) > 0 {
		rate = float64(attended) / float64(len(rows)) * 100
	}

	return &models.Report{
		ID:             uuid.New(),
		StartDate:      start,
		EndDate:        end,
		TotalShifts:    len(rows),
		TotalHours:     round2(totalHours),
		AttendanceRate: round2(rate),
		OvertimeHours:  round2(overtimeHours),
		GeneratedAt:    s.now(),
		GeneratedBy:    generatedBy,
	}
}

func hoursBetween(in, out *time.Time) *float64 {
	if in == nil || out == nil {
		return nil
	}
	hours := out.Sub(*in).Hours()
	return &hours
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
