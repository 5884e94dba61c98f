package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"doorlist/internal/delivery/http/helpers"
	"doorlist/internal/delivery/http/middleware"
	"doorlist/internal/domain"
)

type GuardController struct {
	Logger  *slog.Logger
	Service domain.GuardService
}

func NewGuardController(logger *slog.Logger, svc domain.GuardService) *GuardController {
	return &GuardController{
		Logger:  logger,
		Service: svc,
	}
}

// AssignGuardRequest is the request body for POST /events/{eventID}/guards.
type AssignGuardRequest struct {
	Email string `json:"email"`
}

// Validate implements helpers.Validator.
func (r *AssignGuardRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	return errs
}

// GuardSuccessResponse is the success response envelope carrying a single guard.
type GuardSuccessResponse struct {
	Data  *domain.Guard     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GuardListSuccessResponse is the success response envelope carrying a list of guards.
type GuardListSuccessResponse struct {
	Data  []*domain.Guard   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AssignGuard godoc
// @Summary Assign a guard
// @Description Grants an existing account check-in authority for the event, by email. Owner only.
// @Tags guards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.AssignGuardRequest true "Guard's account email"
// @Success 201 {object} controllers.GuardSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event or account)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already assigned)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/guards [post]
func (c *GuardController) AssignGuard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "eventID must be a UUID")
		return
	}

	var req AssignGuardRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	guard, err := c.Service.AssignGuardByEmail(r.Context(), eventID, req.Email, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "only the event owner can manage guards")
		case errors.Is(err, domain.ErrUserNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "no account with that email")
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrAlreadyAssigned):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "this account is already a guard for the event")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, guard)
}

// RevokeGuard godoc
// @Summary Revoke a guard
// @Description Removes a guard's check-in authority. Takes effect on the guard's next request. Owner only.
// @Tags guards
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param guardID path string true "Guard's user ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/guards/{guardID} [delete]
func (c *GuardController) RevokeGuard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	eventID := r.PathValue("eventID")
	guardID := r.PathValue("guardID")
	if !uuidRegex.MatchString(eventID) || !uuidRegex.MatchString(guardID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "eventID and guardID must be UUIDs")
		return
	}

	if err := c.Service.RevokeGuard(r.Context(), eventID, guardID, userID); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "guard revoked"})
}

// ListGuards godoc
// @Summary List guards
// @Description Returns the guards assigned to the event. Owner only.
// @Tags guards
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.GuardListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/guards [get]
func (c *GuardController) ListGuards(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "eventID must be a UUID")
		return
	}

	guards, err := c.Service.ListGuards(r.Context(), eventID, userID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, guards)
}

func (c *GuardController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "only the event owner can manage guards")
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
