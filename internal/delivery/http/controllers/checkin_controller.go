package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"doorlist/internal/delivery/http/helpers"
	"doorlist/internal/delivery/http/middleware"
	"doorlist/internal/domain"
)

type CheckInController struct {
	Logger  *slog.Logger
	Service domain.CheckInService
}

func NewCheckInController(logger *slog.Logger, svc domain.CheckInService) *CheckInController {
	return &CheckInController{
		Logger:  logger,
		Service: svc,
	}
}

// CheckInRequest is the request body for POST /events/{eventID}/checkin.
type CheckInRequest struct {
	Code string `json:"code"`
}

// Validate implements helpers.Validator. Codes are UUIDs, so a
// malformed value is rejected before any lookup happens.
func (r *CheckInRequest) Validate() []string {
	var errs []string
	if !uuidRegex.MatchString(r.Code) {
		errs = append(errs, "code must be a UUID")
	}
	return errs
}

// CheckInResult is the data payload for a check-in response. Admitted is
// false when the code had already been used; the guest record carries who
// performed the original scan and when.
type CheckInResult struct {
	Admitted bool          `json:"admitted"`
	Guest    *domain.Guest `json:"guest"`
}

// CheckInSuccessResponse is the success response envelope for POST /events/{eventID}/checkin.
type CheckInSuccessResponse struct {
	Data  CheckInResult     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CheckIn godoc
// @Summary Check in a guest
// @Description Redeems an identity code at the door. Available to the event owner and assigned guards. A second scan of the same code returns 200 with admitted=false.
// @Tags checkin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.CheckInRequest true "Identity code"
// @Success 200 {object} controllers.CheckInSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found or code_not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/checkin [post]
func (c *CheckInController) CheckIn(w http.ResponseWriter, r *http.Request) {
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

	var req CheckInRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	guest, admitted, err := c.Service.CheckIn(r.Context(), eventID, req.Code, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotAuthorized):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "you are not assigned to this event")
		case errors.Is(err, domain.ErrCodeNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeCodeNotFound, "code does not belong to this event")
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CheckInResult{Admitted: admitted, Guest: guest})
}
