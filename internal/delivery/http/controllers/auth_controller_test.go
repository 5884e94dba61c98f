package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"doorlist/internal/delivery/http/helpers"
	"doorlist/internal/domain"
)

type mockAuthService struct {
	user  *domain.User
	token string
	err   error
}

func (m *mockAuthService) SignUp(ctx context.Context, email, password, name, lastName string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if m.err != nil {
		return "", nil, m.err
	}
	return m.token, m.user, nil
}

func TestAuthController_SignUp(t *testing.T) {
	svc := &mockAuthService{user: &domain.User{ID: "u-1", Email: "dana@example.com"}}
	ctrl := NewAuthController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/signup",
		strings.NewReader(`{"email":"dana@example.com","password":"s3cret-pass","name":"Dana"}`))
	w := httptest.NewRecorder()
	ctrl.SignUp(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
	var resp struct {
		Data *domain.User `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data.ID != "u-1" {
		t.Errorf("expected created user in response, got %+v", resp.Data)
	}
}

func TestAuthController_SignUp_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"password":"s3cret-pass"}`},
		{"short password", `{"email":"a@b.c","password":"short"}`},
		{"unknown field", `{"email":"a@b.c","password":"s3cret-pass","role":"admin"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewAuthController(testLogger(), &mockAuthService{})

			req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			ctrl.SignUp(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d: %s", http.StatusBadRequest, w.Code, w.Body.String())
			}
		})
	}
}

func TestAuthController_SignUp_DuplicateEmail(t *testing.T) {
	ctrl := NewAuthController(testLogger(), &mockAuthService{err: domain.ErrDuplicateEmail})

	req := httptest.NewRequest(http.MethodPost, "/auth/signup",
		strings.NewReader(`{"email":"dana@example.com","password":"s3cret-pass"}`))
	w := httptest.NewRecorder()
	ctrl.SignUp(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, w.Code)
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != helpers.ErrCodeConflict {
		t.Errorf("expected error code %q, got %+v", helpers.ErrCodeConflict, resp.Error)
	}
}

func TestAuthController_Login(t *testing.T) {
	svc := &mockAuthService{
		token: "signed-token",
		user:  &domain.User{ID: "u-1", Email: "dana@example.com"},
	}
	ctrl := NewAuthController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"dana@example.com","password":"s3cret-pass"}`))
	w := httptest.NewRecorder()
	ctrl.Login(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	var resp struct {
		Data LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data.Token != "signed-token" {
		t.Errorf("expected token in response, got %q", resp.Data.Token)
	}
	if resp.Data.User == nil || resp.Data.User.ID != "u-1" {
		t.Errorf("expected user in response, got %+v", resp.Data.User)
	}
}

func TestAuthController_Login_BadCredentials(t *testing.T) {
	ctrl := NewAuthController(testLogger(), &mockAuthService{err: domain.ErrUserNotFound})

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"dana@example.com","password":"wrong-pass"}`))
	w := httptest.NewRecorder()
	ctrl.Login(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error == nil || resp.Error.Message != "invalid credentials" {
		t.Errorf("expected generic credentials message, got %+v", resp.Error)
	}
}
