package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/swipecoach/backend/internal/services"
)

func newAdminRouter(t *testing.T, configured bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var adminAuth *services.AdminAuthService
	if configured {
		hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
		require.NoError(t, err)
		adminAuth = services.NewAdminAuthService("admin@example.com", string(hash), "test-signing-key", time.Hour)
	} else {
		adminAuth = services.NewAdminAuthService("", "", "", time.Hour)
	}

	router := gin.New()
	router.POST("/api/auth/admin/login", NewAdminHandler(adminAuth).Login)
	return router
}

func postLogin(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/admin/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestAdminLoginSuccess(t *testing.T) {
	router := newAdminRouter(t, true)

	w := postLogin(router, `{"email":"admin@example.com","password":"s3cret"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Token)
}

func TestAdminLoginWrongPassword(t *testing.T) {
	router := newAdminRouter(t, true)

	w := postLogin(router, `{"email":"admin@example.com","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid credentials")
}

func TestAdminLoginWrongEmail(t *testing.T) {
	router := newAdminRouter(t, true)

	w := postLogin(router, `{"email":"intruder@example.com","password":"s3cret"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminLoginMissingFields(t *testing.T) {
	router := newAdminRouter(t, true)

	w := postLogin(router, `{"email":"admin@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminLoginNotConfigured(t *testing.T) {
	router := newAdminRouter(t, false)

	w := postLogin(router, `{"email":"admin@example.com","password":"s3cret"}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
