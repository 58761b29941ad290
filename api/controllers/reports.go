package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/shiftline/shiftline-backend/api/middleware"
	"github.com/shiftline/shiftline-backend/api/responses"
	"github.com/shiftline/shiftline-backend/api/validators"
	"github.com/shiftline/shiftline-backend/internal/reports"
	pkgerrors "github.com/shiftline/shiftline-backend/pkg/errors"
	"github.com/shiftline/shiftline-backend/pkg/logger"
)

// AdminWeeklyReport aggregates the week starting at the week_start query
// param.
func AdminWeeklyReport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		weekStart, err := validators.ParseQueryDate(r, "week_start", "")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if weekStart == "" {
			err := pkgerrors.New(pkgerrors.CodeValidation, "week_start query param is required")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		generatedBy, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		report, err := svc.Weekly(r.Context(), weekStart, generatedBy)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}
