package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cimillas/gatepass/internal/app"
	"github.com/cimillas/gatepass/internal/domain"
)

func TestHandleRegister(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("creates the account", func(t *testing.T) {
		var got app.RegisterInput
		svc := &stubAuthService{
			registerFn: func(_ context.Context, in app.RegisterInput) (domain.User, error) {
				got = in
				return domain.User{ID: "user-1", Email: in.Email, Name: in.Name, Role: domain.RoleCustomer, CreatedAt: now}, nil
			},
		}

		body := `{"email":"ana@example.com","password":"s3cret","name":"Ana"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		HandleRegister(svc).ServeHTTP(rec, req)

		requireStatus(t, rec, http.StatusCreated)
		if got.Email != "ana@example.com" || got.Password != "s3cret" {
			t.Fatalf("unexpected input %+v", got)
		}

		var resp userResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if resp.ID != "user-1" || resp.Role != string(domain.RoleCustomer) {
			t.Fatalf("unexpected response %+v", resp)
		}
	})

	t.Run("maps service errors to status codes", func(t *testing.T) {
		cases := []struct {
			name       string
			err        error
			wantStatus int
			wantCode   string
		}{
			{"missing email", domain.ErrEmailRequired, http.StatusBadRequest, codeEmailRequired},
			{"missing password", domain.ErrPasswordRequired, http.StatusBadRequest, codePasswordRequired},
			{"invalid role", domain.ErrInvalidRole, http.StatusBadRequest, codeInvalidRole},
			{"email taken", domain.ErrEmailTaken, http.StatusConflict, codeEmailTaken},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				svc := &stubAuthService{
					registerFn: func(context.Context, app.RegisterInput) (domain.User, error) {
						return domain.User{}, tc.err
					},
				}
				req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"email":"a@b.c","password":"pw"}`))
				rec := httptest.NewRecorder()
				HandleRegister(svc).ServeHTTP(rec, req)

				requireStatus(t, rec, tc.wantStatus)
				if resp := decodeError(t, rec); resp.Code != tc.wantCode {
					t.Fatalf("expected code %q, got %q", tc.wantCode, resp.Code)
				}
			})
		}
	})

	t.Run("rejects malformed and unknown fields", func(t *testing.T) {
		svc := &stubAuthService{
			registerFn: func(context.Context, app.RegisterInput) (domain.User, error) {
				t.Fatalf("service should not be called")
				return domain.User{}, nil
			},
		}
		for _, body := range []string{"{not json", `{"email":"a@b.c","password":"pw","admin":true}`} {
			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
			rec := httptest.NewRecorder()
			HandleRegister(svc).ServeHTTP(rec, req)
			requireStatus(t, rec, http.StatusBadRequest)
		}
	})

	t.Run("rejects non-POST", func(t *testing.T) {
		svc := &stubAuthService{}
		req := httptest.NewRequest(http.MethodGet, "/auth/register", nil)
		rec := httptest.NewRecorder()
		HandleRegister(svc).ServeHTTP(rec, req)
		requireStatus(t, rec, http.StatusMethodNotAllowed)
	})
}

func TestHandleLogin(t *testing.T) {
	t.Parallel()

	t.Run("returns token and user", func(t *testing.T) {
		svc := &stubAuthService{
			loginFn: func(_ context.Context, in app.LoginInput) (app.LoginResult, error) {
				return app.LoginResult{
					Token: "signed-token",
					User:  domain.User{ID: "user-1", Email: in.Email, Role: domain.RoleCustomer},
				}, nil
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ana@example.com","password":"s3cret"}`))
		rec := httptest.NewRecorder()
		HandleLogin(svc).ServeHTTP(rec, req)

		requireStatus(t, rec, http.StatusOK)
		var resp loginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if resp.Token != "signed-token" || resp.User.ID != "user-1" {
			t.Fatalf("unexpected response %+v", resp)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc := &stubAuthService{
			loginFn: func(context.Context, app.LoginInput) (app.LoginResult, error) {
				return app.LoginResult{}, domain.ErrInvalidCredentials
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ana@example.com","password":"nope"}`))
		rec := httptest.NewRecorder()
		HandleLogin(svc).ServeHTTP(rec, req)

		requireStatus(t, rec, http.StatusUnauthorized)
		if resp := decodeError(t, rec); resp.Code != codeInvalidCredentials {
			t.Fatalf("expected code %q, got %q", codeInvalidCredentials, resp.Code)
		}
	})

	t.Run("rejects non-POST", func(t *testing.T) {
		svc := &stubAuthService{}
		req := httptest.NewRequest(http.MethodDelete, "/auth/login", nil)
		rec := httptest.NewRecorder()
		HandleLogin(svc).ServeHTTP(rec, req)
		requireStatus(t, rec, http.StatusMethodNotAllowed)
	})
}
