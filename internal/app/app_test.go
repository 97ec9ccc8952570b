package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/you/accountsvc/domain"
	"github.com/you/accountsvc/internal/config"
	"github.com/you/accountsvc/internal/infrastructure/database"
	"github.com/you/accountsvc/internal/infrastructure/events"
)

const (
	adminUsername = "rootadmin"
	adminPassword = "Adm1n!pass"
)

func testConfig(redisAddr string) *config.Config {
	return &config.Config{
		Port:          "0",
		GinMode:       gin.TestMode,
		RedisAddr:     redisAddr,
		EventStream:   events.DefaultStream,
		SessionTTL:    time.Hour,
		LoginRate:     100,
		LoginBurst:    100,
		LogLevel:      "info",
		AdminUsername: adminUsername,
		AdminPassword: adminPassword,
	}
}

// openTestDB returns an in-memory sqlite database. A single connection keeps
// every query on the same in-memory instance.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenDialector(sqlite.Open(":memory:"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func newTestContainer(t *testing.T, cfg *config.Config) *Container {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, err := NewContainerWithDB(context.Background(), cfg, zap.NewNop(), openTestDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

type client struct {
	t      *testing.T
	router http.Handler
}

func (cl client) do(method, path, token string, body any) (int, map[string]any) {
	cl.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(cl.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	cl.router.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(cl.t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w.Code, decoded
}

func (cl client) login(username, password string) string {
	cl.t.Helper()
	status, body := cl.do(http.MethodPost, "/api/account/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(cl.t, http.StatusOK, status, body)
	return body["data"].(map[string]any)["token"].(string)
}

func registration(username string) map[string]any {
	return map[string]any{
		"first_name":    "Alice",
		"last_name":     "Jensen",
		"username":      username,
		"password":      "Secr3t!pw",
		"user_type_id":  int(domain.UserTypeOrdinary),
		"email":         username + "@example.com",
		"phone_number":  "+45 12345678",
		"street_number": 12,
		"street_name":   "Vestergade",
		"postal_code":   8000,
		"city":          "Aarhus",
	}
}

func TestContainer_AccountLifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	c := newTestContainer(t, testConfig(mr.Addr()))
	ctx := context.Background()

	require.NoError(t, c.AccountSvc.EnsureAdminSeeded(ctx))
	cl := client{t: t, router: c.Router()}

	status, _ := cl.do(http.MethodPost, "/api/account/create", "", registration("alice"))
	require.Equal(t, http.StatusCreated, status)

	status, body := cl.do(http.MethodPost, "/api/account/create", "", registration("alice"))
	assert.Equal(t, http.StatusConflict, status, body)

	token := cl.login("alice", "Secr3t!pw")

	status, body = cl.do(http.MethodPost, "/api/account/login", "", map[string]string{
		"username": "alice",
		"password": "Secr3t!pw",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.NotEmpty(t, body["expires_at"])

	status, body = cl.do(http.MethodGet, "/api/account/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body["data"].(map[string]any)["username"])

	status, _ = cl.do(http.MethodGet, "/api/account/count", token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = cl.do(http.MethodPost, "/api/account/logout", token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = cl.do(http.MethodPost, "/api/account/logout", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = cl.do(http.MethodGet, "/api/account/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	entries, err := c.RedisClient.XRange(ctx, events.DefaultStream, "-", "+").Result()
	require.NoError(t, err)
	var types []string
	for _, e := range entries {
		types = append(types, e.Values["type"].(string))
	}
	assert.Equal(t, []string{
		string(domain.UserRegisteredEvent),
		string(domain.AdminSeededEvent),
		string(domain.UserRegisteredEvent),
		string(domain.UserLoginEvent),
		string(domain.UserLogoutEvent),
	}, types)
}

func TestContainer_AdminRoutes(t *testing.T) {
	c := newTestContainer(t, testConfig(""))
	ctx := context.Background()

	require.NoError(t, c.AccountSvc.EnsureAdminSeeded(ctx))
	cl := client{t: t, router: c.Router()}

	token := cl.login(adminUsername, adminPassword)

	status, body := cl.do(http.MethodPost, "/api/account/admin", token, registration("deputy"))
	require.Equal(t, http.StatusCreated, status, body)

	status, body = cl.do(http.MethodGet, "/api/account/count", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["data"].(map[string]any)["count"])

	status, _ = cl.do(http.MethodPost, "/api/account/seed-admin", token, nil)
	assert.Equal(t, http.StatusOK, status)

	// admins cannot be registered through the public endpoint
	req := registration("sneaky")
	req["user_type_id"] = int(domain.UserTypeAdmin)
	status, _ = cl.do(http.MethodPost, "/api/account/create", "", req)
	assert.Equal(t, http.StatusForbidden, status)

	policies, err := c.Casbin.E.GetPolicy()
	require.NoError(t, err)
	assert.NotEmpty(t, policies)
}

func TestContainer_MissingAdminCredentialsIsFatal(t *testing.T) {
	cfg := testConfig("")
	cfg.AdminPassword = ""
	c := newTestContainer(t, cfg)

	err := c.AccountSvc.EnsureAdminSeeded(context.Background())
	assert.ErrorIs(t, err, domain.ErrAdminCredentialsMissing)
}

func TestContainer_UnreachableRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewContainerWithDB(context.Background(), testConfig(addr), zap.NewNop(), openTestDB(t))
	assert.ErrorContains(t, err, "failed to reach redis")
}
