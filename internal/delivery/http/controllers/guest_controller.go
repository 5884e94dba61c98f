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

type GuestController struct {
	Logger  *slog.Logger
	Service domain.GuestService
}

func NewGuestController(logger *slog.Logger, svc domain.GuestService) *GuestController {
	return &GuestController{
		Logger:  logger,
		Service: svc,
	}
}

// RegisterGuestRequest is the request body for POST /events/{eventID}/guests.
type RegisterGuestRequest struct {
	Name       string  `json:"name"`
	Companions int     `json:"companions"`
	Note       *string `json:"note"`
	Override   bool    `json:"override"`
}

// Validate implements helpers.Validator.
func (r *RegisterGuestRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if r.Companions < 0 {
		errs = append(errs, "companions must not be negative")
	}
	return errs
}

// ConfirmAttendanceRequest is the request body for POST /events/{eventID}/attend.
type ConfirmAttendanceRequest struct {
	Companions int `json:"companions"`
}

// Validate implements helpers.Validator.
func (r *ConfirmAttendanceRequest) Validate() []string {
	var errs []string
	if r.Companions < 0 {
		errs = append(errs, "companions must not be negative")
	}
	return errs
}

// UpdateGuestRequest is the request body for PATCH /events/{eventID}/guests/{guestID}.
type UpdateGuestRequest struct {
	Name       *string `json:"name"`
	Companions *int    `json:"companions"`
	Status     *string `json:"status"`
	Note       *string `json:"note"`
}

// Validate implements helpers.Validator.
func (r *UpdateGuestRequest) Validate() []string {
	var errs []string
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		errs = append(errs, "name must not be blank")
	}
	if r.Companions != nil && *r.Companions < 0 {
		errs = append(errs, "companions must not be negative")
	}
	if r.Status != nil && !domain.InvitationStatus(*r.Status).IsValid() {
		errs = append(errs, "status must be one of: pending, confirmed, declined")
	}
	return errs
}

// GuestSuccessResponse is the success response envelope carrying a single guest.
type GuestSuccessResponse struct {
	Data  *domain.Guest     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GuestListData is the data payload for a paginated guest listing.
type GuestListData struct {
	Guests []*domain.Guest        `json:"guests"`
	Meta   helpers.PaginationMeta `json:"meta"`
}

// GuestListSuccessResponse is the success response envelope for the guest listing.
type GuestListSuccessResponse struct {
	Data  GuestListData     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// MyGuestRecordsSuccessResponse is the success response envelope for GET /me/events.
type MyGuestRecordsSuccessResponse struct {
	Data  []*domain.GuestWithEvent `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// RegisterGuest godoc
// @Summary Register a guest
// @Description Adds a guest to the list on behalf of the event owner. Set override to admit past capacity.
// @Tags guests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.RegisterGuestRequest true "Guest data"
// @Success 201 {object} controllers.GuestSuccessResponse "data contains the created guest with its identity code"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: capacity_exceeded"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/guests [post]
func (c *GuestController) RegisterGuest(w http.ResponseWriter, r *http.Request) {
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

	var req RegisterGuestRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	guest, err := c.Service.RegisterGuest(r.Context(), eventID, userID, req.Name, req.Companions, req.Note, req.Override)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, guest)
}

// ConfirmAttendance godoc
// @Summary Confirm attendance
// @Description Self-service registration: the authenticated user joins the guest list with status confirmed. Capacity is always enforced.
// @Tags attendee
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.ConfirmAttendanceRequest true "Group size"
// @Success 201 {object} controllers.GuestSuccessResponse "data contains the guest record with its identity code"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: capacity_exceeded or already_registered"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/attend [post]
func (c *GuestController) ConfirmAttendance(w http.ResponseWriter, r *http.Request) {
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

	var req ConfirmAttendanceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	guest, err := c.Service.ConfirmAttendance(r.Context(), eventID, userID, req.Companions)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, guest)
}

// UpdateGuest godoc
// @Summary Update a guest
// @Description Partially updates a guest record. Owner only. Check-in state and the identity code are immutable here.
// @Tags guests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param guestID path string true "Guest ID (UUID)"
// @Param body body controllers.UpdateGuestRequest true "Fields to update"
// @Success 200 {object} controllers.GuestSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/guests/{guestID} [patch]
func (c *GuestController) UpdateGuest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	eventID := r.PathValue("eventID")
	guestID := r.PathValue("guestID")
	if !uuidRegex.MatchString(eventID) || !uuidRegex.MatchString(guestID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "eventID and guestID must be UUIDs")
		return
	}

	var req UpdateGuestRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	update := domain.GuestUpdate{
		Name:       req.Name,
		Companions: req.Companions,
		Note:       req.Note,
	}
	if req.Status != nil {
		status := domain.InvitationStatus(*req.Status)
		update.Status = &status
	}

	guest, err := c.Service.UpdateGuest(r.Context(), eventID, guestID, userID, update)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, guest)
}

// RemoveGuest godoc
// @Summary Remove a guest
// @Description Removes a guest from the list and releases their seats. Owner only.
// @Tags guests
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param guestID path string true "Guest ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/guests/{guestID} [delete]
func (c *GuestController) RemoveGuest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	eventID := r.PathValue("eventID")
	guestID := r.PathValue("guestID")
	if !uuidRegex.MatchString(eventID) || !uuidRegex.MatchString(guestID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "eventID and guestID must be UUIDs")
		return
	}

	if err := c.Service.RemoveGuest(r.Context(), eventID, guestID, userID); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "guest removed"})
}

// ListGuests godoc
// @Summary List guests
// @Description Returns a page of the event's guest list, newest first. Available to the owner and assigned guards. search filters by guest name.
// @Tags guests
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 50, max 200)"
// @Param search query string false "Filter by guest name (substring, case-insensitive)"
// @Success 200 {object} controllers.GuestListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/guests [get]
func (c *GuestController) ListGuests(w http.ResponseWriter, r *http.Request) {
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

	params := helpers.ParsePagination(r)
	search := r.URL.Query().Get("search")

	guests, total, err := c.Service.ListGuests(r.Context(), eventID, userID, search, params)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, GuestListData{
		Guests: guests,
		Meta:   helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// ListMyGuestRecords godoc
// @Summary List my registrations
// @Description Returns the authenticated user's guest records across events, with their identity codes.
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MyGuestRecordsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/events [get]
func (c *GuestController) ListMyGuestRecords(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}

	records, err := c.Service.ListMyGuestRecords(r.Context(), userID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, records)
}

func (c *GuestController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "you do not have access to this event")
	case errors.Is(err, domain.ErrCapacityExceeded):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeCapacityExceeded, "event capacity exceeded")
	case errors.Is(err, domain.ErrAlreadyRegistered):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeAlreadyRegistered, "you are already registered for this event")
	case errors.Is(err, domain.ErrUserNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "account not found")
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
