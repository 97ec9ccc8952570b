package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/you/accountsvc/domain"
	"github.com/you/accountsvc/internal/http/middleware"
	"github.com/you/accountsvc/internal/mocks"
)

func newTestEngine(accounts *mocks.MockAccountService, sessions *mocks.MockSessionService, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAccountHandlers(accounts, sessions, zap.NewNop())

	r := gin.New()
	r.POST("/create", h.CreateUser)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	r.POST("/seed-admin", h.SeedAdmin)
	r.GET("/count", h.CountUsers)
	r.GET("/me", func(c *gin.Context) {
		if role != "" {
			c.Set(middleware.ContextIdentity, &domain.Identity{
				UserID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Username: "alice", Role: role,
				Token: "tok", ExpiresAt: time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC),
			})
		}
		h.Me(c)
	})
	r.POST("/admin", func(c *gin.Context) {
		c.Set(middleware.ContextUserRole, role)
		h.CreateAdmin(c)
	})
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAccountHandlers_CreateUser(t *testing.T) {
	newID := uuid.New()

	tests := []struct {
		name           string
		body           interface{}
		createErr      error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "created",
			body:           CreateUserRequest{Username: "alice", UserTypeID: 1},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "malformed json",
			body:           "{not json",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "validation error",
			body: CreateUserRequest{Username: "a"},
			createErr: &domain.ValidationError{Violations: []domain.FieldViolation{
				{Field: "Username", Message: "too short"},
			}},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Validation failed",
		},
		{
			name:           "username taken inside unit of work",
			body:           CreateUserRequest{Username: "alice"},
			createErr:      &domain.OperationFailedError{Op: "create user", Err: domain.ErrUsernameTaken},
			expectedStatus: http.StatusConflict,
			expectedError:  "Username is already taken",
		},
		{
			name:           "admin creation denied",
			body:           CreateUserRequest{Username: "boss", UserTypeID: 3},
			createErr:      domain.ErrAdminCreationDenied,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "storage failure",
			body:           CreateUserRequest{Username: "alice"},
			createErr:      &domain.OperationFailedError{Op: "create user", Err: errors.New("disk full")},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := mocks.NewMockAccountService()
			accounts.CreateUserFunc = func(ctx context.Context, cmd domain.CreateUserCommand, allowAdminCreation, isAdmin bool) (uuid.UUID, error) {
				assert.False(t, allowAdminCreation, "public registration never allows admins")
				assert.False(t, isAdmin)
				if tt.createErr != nil {
					return uuid.Nil, tt.createErr
				}
				return newID, nil
			}
			r := newTestEngine(accounts, mocks.NewMockSessionService(), "")

			w := doJSON(r, http.MethodPost, "/create", tt.body, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decode(t, w)
			if tt.expectedStatus == http.StatusCreated {
				data := body["data"].(map[string]interface{})
				assert.Equal(t, newID.String(), data["user_id"])
				return
			}
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, body["error"])
			}
		})
	}
}

func TestAccountHandlers_CreateUser_ReportsViolations(t *testing.T) {
	accounts := mocks.NewMockAccountService()
	accounts.CreateUserFunc = func(ctx context.Context, cmd domain.CreateUserCommand, allowAdminCreation, isAdmin bool) (uuid.UUID, error) {
		assert.Equal(t, 8000, cmd.PostalCode)
		assert.Equal(t, domain.UserTypeDeliveryAgent, cmd.UserTypeID)
		verr := &domain.ValidationError{}
		verr.Add("Username", "Username cannot be empty.")
		verr.Add("Email", "Email cannot be empty.")
		return uuid.Nil, verr
	}
	r := newTestEngine(accounts, mocks.NewMockSessionService(), "")

	w := doJSON(r, http.MethodPost, "/create", `{"postal_code": 8000, "user_type_id": 2}`, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	details := decode(t, w)["details"].([]interface{})
	require.Len(t, details, 2)
	assert.Equal(t, "Username", details[0].(map[string]interface{})["field"])
	assert.Equal(t, "Email", details[1].(map[string]interface{})["field"])
}

func TestAccountHandlers_Login(t *testing.T) {
	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	tests := []struct {
		name           string
		body           interface{}
		loginErr       error
		expectedStatus int
	}{
		{name: "success", body: LoginRequest{Username: "alice", Password: "pw"}, expectedStatus: http.StatusOK},
		{name: "missing password", body: map[string]string{"username": "alice"}, expectedStatus: http.StatusBadRequest},
		{name: "invalid credentials", body: LoginRequest{Username: "alice", Password: "bad"}, loginErr: domain.ErrInvalidCredentials, expectedStatus: http.StatusUnauthorized},
		{name: "active session", body: LoginRequest{Username: "alice", Password: "pw"}, loginErr: &domain.ActiveSessionError{ExpiresAt: expiry}, expectedStatus: http.StatusConflict},
		{name: "backend failure", body: LoginRequest{Username: "alice", Password: "pw"}, loginErr: errors.New("boom"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := mocks.NewMockSessionService()
			userID := uuid.New()
			sessions.LoginFunc = func(ctx context.Context, username, password string) (*domain.LoginResult, error) {
				if tt.loginErr != nil {
					return nil, tt.loginErr
				}
				return &domain.LoginResult{Token: "tok-123", UserID: userID, ExpiresAt: expiry, ExpiresIn: time.Hour}, nil
			}
			r := newTestEngine(mocks.NewMockAccountService(), sessions, "")

			w := doJSON(r, http.MethodPost, "/login", tt.body, nil)

			require.Equal(t, tt.expectedStatus, w.Code)
			body := decode(t, w)
			switch tt.expectedStatus {
			case http.StatusOK:
				data := body["data"].(map[string]interface{})
				assert.Equal(t, "tok-123", data["token"])
				assert.Equal(t, "Bearer", data["token_type"])
				assert.Equal(t, userID.String(), data["user_id"])
				assert.Equal(t, expiry.Format(time.RFC3339), data["expires_at"])
				assert.Equal(t, float64(3600), data["expires_in"])
			case http.StatusConflict:
				assert.Equal(t, expiry.Format(time.RFC3339), body["expires_at"])
			}
		})
	}
}

func TestAccountHandlers_Logout(t *testing.T) {
	tests := []struct {
		name           string
		header         string
		logoutErr      error
		expectedStatus int
	}{
		{name: "logged out", header: "Bearer tok", expectedStatus: http.StatusOK},
		{name: "missing header", expectedStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", expectedStatus: http.StatusUnauthorized},
		{name: "unknown session", header: "Bearer gone", logoutErr: domain.ErrSessionNotFound, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := mocks.NewMockSessionService()
			var gotToken string
			sessions.LogoutFunc = func(ctx context.Context, token string) error {
				gotToken = token
				return tt.logoutErr
			}
			r := newTestEngine(mocks.NewMockAccountService(), sessions, "")

			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := doJSON(r, http.MethodPost, "/logout", nil, headers)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "tok", gotToken)
			}
		})
	}
}

func TestAccountHandlers_Me(t *testing.T) {
	r := newTestEngine(mocks.NewMockAccountService(), mocks.NewMockSessionService(), "ordinary")

	w := doJSON(r, http.MethodGet, "/me", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", data["user_id"])
	assert.Equal(t, "alice", data["username"])
	assert.Equal(t, "ordinary", data["role"])
	assert.Equal(t, "tok", data["token"])
	assert.Equal(t, "2030-01-01T12:00:00Z", data["expires_at"])

	r = newTestEngine(mocks.NewMockAccountService(), mocks.NewMockSessionService(), "")
	w = doJSON(r, http.MethodGet, "/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccountHandlers_SeedAdmin(t *testing.T) {
	tests := []struct {
		name           string
		header         string
		seedErr        error
		expectedToken  string
		expectedStatus int
	}{
		{name: "anonymous", expectedStatus: http.StatusOK},
		{name: "admin token", header: "Bearer admin-tok", expectedToken: "admin-tok", expectedStatus: http.StatusOK},
		{name: "non-admin token", header: "Bearer user-tok", seedErr: domain.ErrAdminRequired, expectedToken: "user-tok", expectedStatus: http.StatusForbidden},
		{name: "malformed header", header: "Token x", expectedStatus: http.StatusUnauthorized},
		{name: "credentials missing", seedErr: domain.ErrAdminCredentialsMissing, expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := mocks.NewMockAccountService()
			called := false
			accounts.SeedAdminUserFunc = func(ctx context.Context, token string) error {
				called = true
				assert.Equal(t, tt.expectedToken, token)
				return tt.seedErr
			}
			r := newTestEngine(accounts, mocks.NewMockSessionService(), "")

			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := doJSON(r, http.MethodPost, "/seed-admin", nil, headers)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedStatus != http.StatusUnauthorized, called)
		})
	}
}

func TestAccountHandlers_CreateAdmin(t *testing.T) {
	tests := []struct {
		name           string
		role           string
		expectedStatus int
	}{
		{name: "admin caller", role: "admin", expectedStatus: http.StatusCreated},
		{name: "ordinary caller", role: "ordinary", expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestEngine(mocks.NewMockAccountService(), mocks.NewMockSessionService(), tt.role)

			w := doJSON(r, http.MethodPost, "/admin", CreateUserRequest{Username: "deputy"}, nil)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestAccountHandlers_CountUsers(t *testing.T) {
	accounts := mocks.NewMockAccountService()
	accounts.CountUsersFunc = func(ctx context.Context) (int64, error) { return 42, nil }
	r := newTestEngine(accounts, mocks.NewMockSessionService(), "admin")

	w := doJSON(r, http.MethodGet, "/count", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(42), decode(t, w)["data"].(map[string]interface{})["count"])
}
