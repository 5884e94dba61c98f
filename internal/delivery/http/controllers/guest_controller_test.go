package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"doorlist/internal/delivery/http/helpers"
	"doorlist/internal/delivery/http/middleware"
	"doorlist/internal/domain"
)

type mockGuestService struct {
	guest   *domain.Guest
	guests  []*domain.Guest
	total   int
	records []*domain.GuestWithEvent
	err     error

	lastOverride   bool
	lastSearch     string
	lastCompanions int
}

func (m *mockGuestService) RegisterGuest(ctx context.Context, eventID, ownerID, name string, companions int, note *string, override bool) (*domain.Guest, error) {
	m.lastOverride = override
	m.lastCompanions = companions
	if m.err != nil {
		return nil, m.err
	}
	return m.guest, nil
}

func (m *mockGuestService) ConfirmAttendance(ctx context.Context, eventID, userID string, companions int) (*domain.Guest, error) {
	m.lastCompanions = companions
	if m.err != nil {
		return nil, m.err
	}
	return m.guest, nil
}

func (m *mockGuestService) UpdateGuest(ctx context.Context, eventID, guestID, ownerID string, upd domain.GuestUpdate) (*domain.Guest, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.guest, nil
}

func (m *mockGuestService) RemoveGuest(ctx context.Context, eventID, guestID, ownerID string) error {
	return m.err
}

func (m *mockGuestService) ListGuests(ctx context.Context, eventID, callerID, search string, params domain.PaginationParams) ([]*domain.Guest, int, error) {
	m.lastSearch = search
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.guests, m.total, nil
}

func (m *mockGuestService) ListMyGuestRecords(ctx context.Context, userID string) ([]*domain.GuestWithEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

func guestListRequest(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.SetPathValue("eventID", testEventID)
	return req.WithContext(middleware.SetUserID(req.Context(), "u1"))
}

func TestGuestController_RegisterGuest(t *testing.T) {
	svc := &mockGuestService{guest: &domain.Guest{ID: "g-1", Name: "Alice", Code: testCode}}
	ctrl := NewGuestController(testLogger(), svc)

	body := `{"name":"Alice","companions":2,"override":true}`
	req := httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/guests", strings.NewReader(body))
	req.SetPathValue("eventID", testEventID)
	req = req.WithContext(middleware.SetUserID(req.Context(), "owner"))

	w := httptest.NewRecorder()
	ctrl.RegisterGuest(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
	if !svc.lastOverride {
		t.Fatal("expected override flag to reach the service")
	}
	var resp struct {
		Data *domain.Guest `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data == nil || resp.Data.Code != testCode {
		t.Fatalf("expected the identity code in the response, got %+v", resp.Data)
	}
}

func TestGuestController_RegisterGuest_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"blank name", `{"name":"  ","companions":0}`},
		{"negative companions", `{"name":"Alice","companions":-1}`},
		{"unknown field", `{"name":"Alice","checked_in":true}`},
		{"garbage body", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewGuestController(testLogger(), &mockGuestService{})
			req := httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/guests", strings.NewReader(tt.body))
			req.SetPathValue("eventID", testEventID)
			req = req.WithContext(middleware.SetUserID(req.Context(), "owner"))

			w := httptest.NewRecorder()
			ctrl.RegisterGuest(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
			}
		})
	}
}

func TestGuestController_RegisterGuest_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{"capacity exceeded", domain.ErrCapacityExceeded, http.StatusConflict, helpers.ErrCodeCapacityExceeded},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, helpers.ErrCodeForbidden},
		{"missing event", domain.ErrNotFound, http.StatusNotFound, helpers.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewGuestController(testLogger(), &mockGuestService{err: tt.svcErr})
			req := httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/guests", strings.NewReader(`{"name":"Alice"}`))
			req.SetPathValue("eventID", testEventID)
			req = req.WithContext(middleware.SetUserID(req.Context(), "owner"))

			w := httptest.NewRecorder()
			ctrl.RegisterGuest(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var resp helpers.APIResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Fatalf("expected error code %q, got %+v", tt.wantCode, resp.Error)
			}
		})
	}
}

func TestGuestController_ConfirmAttendance_AlreadyRegistered(t *testing.T) {
	ctrl := NewGuestController(testLogger(), &mockGuestService{err: domain.ErrAlreadyRegistered})
	req := httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/attend", strings.NewReader(`{"companions":1}`))
	req.SetPathValue("eventID", testEventID)
	req = req.WithContext(middleware.SetUserID(req.Context(), "u1"))

	w := httptest.NewRecorder()
	ctrl.ConfirmAttendance(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, w.Code)
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != helpers.ErrCodeAlreadyRegistered {
		t.Fatalf("expected error code %q, got %+v", helpers.ErrCodeAlreadyRegistered, resp.Error)
	}
}

func TestGuestController_ConfirmAttendance_UnknownAccount(t *testing.T) {
	ctrl := NewGuestController(testLogger(), &mockGuestService{err: domain.ErrUserNotFound})
	req := httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/attend", strings.NewReader(`{"companions":0}`))
	req.SetPathValue("eventID", testEventID)
	req = req.WithContext(middleware.SetUserID(req.Context(), "u-ghost"))

	w := httptest.NewRecorder()
	ctrl.ConfirmAttendance(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != helpers.ErrCodeNotFound {
		t.Fatalf("expected error code %q, got %+v", helpers.ErrCodeNotFound, resp.Error)
	}
}

func TestGuestController_ListGuests(t *testing.T) {
	svc := &mockGuestService{
		guests: []*domain.Guest{{ID: "g-1", Name: "Alice"}, {ID: "g-2", Name: "Bob"}},
		total:  12,
	}
	ctrl := NewGuestController(testLogger(), svc)

	w := httptest.NewRecorder()
	ctrl.ListGuests(w, guestListRequest("/events/"+testEventID+"/guests?page=2&page_size=2&search=ali"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if svc.lastSearch != "ali" {
		t.Fatalf("expected search term to reach the service, got %q", svc.lastSearch)
	}
	var resp struct {
		Data GuestListData `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Data.Guests) != 2 {
		t.Fatalf("expected 2 guests, got %d", len(resp.Data.Guests))
	}
	if resp.Data.Meta.Total != 12 || resp.Data.Meta.Page != 2 || resp.Data.Meta.TotalPages != 6 {
		t.Fatalf("unexpected pagination meta: %+v", resp.Data.Meta)
	}
}

func TestGuestController_InvalidEventID(t *testing.T) {
	ctrl := NewGuestController(testLogger(), &mockGuestService{})
	req := httptest.NewRequest(http.MethodGet, "/events/not-a-uuid/guests", nil)
	req.SetPathValue("eventID", "not-a-uuid")
	req = req.WithContext(middleware.SetUserID(req.Context(), "u1"))

	w := httptest.NewRecorder()
	ctrl.ListGuests(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestGuestController_ListMyGuestRecords(t *testing.T) {
	svc := &mockGuestService{
		records: []*domain.GuestWithEvent{
			{Guest: &domain.Guest{ID: "g-1", Code: testCode}, Event: &domain.Event{ID: "e1", Name: "Launch Party"}},
		},
	}
	ctrl := NewGuestController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/me/events", nil)
	req = req.WithContext(middleware.SetUserID(req.Context(), "u1"))

	w := httptest.NewRecorder()
	ctrl.ListMyGuestRecords(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp struct {
		Data []*domain.GuestWithEvent `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Guest.Code != testCode {
		t.Fatalf("unexpected payload: %+v", resp.Data)
	}
}
