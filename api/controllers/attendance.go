package controllers

import (
	"net/http"

	"github.com/shiftline/shiftline-backend/api/responses"
	"github.com/shiftline/shiftline-backend/api/validators"
	"github.com/shiftline/shiftline-backend/internal/attendance"
	pkgerrors "github.com/shiftline/shiftline-backend/pkg/errors"
	"github.com/shiftline/shiftline-backend/pkg/logger"
	"github.com/shiftline/shiftline-backend/pkg/pagination"
)

// ClockIn stamps time_in for the caller's own attendance record.
func ClockIn(svc attendance.Service, logg *logger.Logger) http.HandlerFunc {
	return clockHandler(svc, logg, func(r *http.Request, body attendance.ClockRequest) (*attendance.AttendanceDTO, error) {
		return svc.ClockIn(r.Context(), body)
	})
}

// ClockOut stamps time_out for the caller's own attendance record.
func ClockOut(svc attendance.Service, logg *logger.Logger) http.HandlerFunc {
	return clockHandler(svc, logg, func(r *http.Request, body attendance.ClockRequest) (*attendance.AttendanceDTO, error) {
		return svc.ClockOut(r.Context(), body)
	})
}

func clockHandler(svc attendance.Service, logg *logger.Logger, apply func(*http.Request, attendance.ClockRequest) (*attendance.AttendanceDTO, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "attendance service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body attendance.ClockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// staff can only clock their own shifts
		if err := actorAllows(r, body.UserID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := apply(r, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// GetAttendance returns one attendance record; staff may only read their own.
func GetAttendance(svc attendance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "attendance service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "attendanceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := actorAllows(r, record.UserID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// ListUserAttendance returns a user's attendance history; staff may only read
// their own.
func ListUserAttendance(svc attendance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "attendance service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := pathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := actorAllows(r, userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListByUser(r.Context(), userID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// AdminListShiftAttendance returns the attendance records tied to one shift.
func AdminListShiftAttendance(svc attendance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "attendance service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shiftID, err := pathUUID(r, "shiftId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.ListByShift(r.Context(), shiftID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, records)
	}
}

// AdminApproveAttendance marks a record approved.
func AdminApproveAttendance(svc attendance.Service, logg *logger.Logger) http.HandlerFunc {
	return approvalHandler(svc, logg, true)
}

// AdminUnapproveAttendance clears a record's approval.
func AdminUnapproveAttendance(svc attendance.Service, logg *logger.Logger) http.HandlerFunc {
	return approvalHandler(svc, logg, false)
}

func approvalHandler(svc attendance.Service, logg *logger.Logger, approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "attendance service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body attendance.ApprovalRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var (
			record *attendance.AttendanceDTO
			err    error
		)
		if approve {
			record, err = svc.Approve(r.Context(), body.AttendanceID)
		} else {
			record, err = svc.Unapprove(r.Context(), body.AttendanceID)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// AdminDeleteAttendance removes one attendance record.
func AdminDeleteAttendance(svc attendance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "attendance service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "attendanceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
