package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shiftline/shiftline-backend/api/middleware"
	"github.com/shiftline/shiftline-backend/pkg/enums"
	pkgerrors "github.com/shiftline/shiftline-backend/pkg/errors"
)

// actorAllows reports whether the authenticated actor may act on resources
// owned by targetUserID. Admins may act on anyone; staff only on themselves.
func actorAllows(r *http.Request, targetUserID uuid.UUID) error {
	if middleware.RoleFromContext(r.Context()) == string(enums.RoleAdmin) {
		return nil
	}
	actorID := middleware.UserIDFromContext(r.Context())
	if actorID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	if actorID != targetUserID.String() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot act on another user's records")
	}
	return nil
}

// pathUUID parses a chi URL parameter as a UUID.
func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := chi.URLParam(r, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key)
	}
	return id, nil
}
