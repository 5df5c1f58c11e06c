package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"math_tutor_backend/internal/config"
	"math_tutor_backend/internal/middleware"
	"math_tutor_backend/internal/model"
	"math_tutor_backend/internal/repository"
	"math_tutor_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type authFixture struct {
	router *gin.Engine
	db     *gorm.DB
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Interaction{}, &model.ChatHistory{}))

	cfg := &config.Config{}
	cfg.JWT.Secret = "controller-test-secret"
	cfg.JWT.ExpireTime = time.Hour

	userRepo := repository.NewUserRepository(db)
	authSvc := service.NewAuthService(userRepo, cfg)
	ac := NewAuthController(authSvc)

	router := gin.New()
	router.POST("/register", ac.Register)
	router.POST("/login", ac.Login)
	router.POST("/logout", ac.Logout)

	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg, userRepo))
	protected.GET("/whoami", func(c *gin.Context) {
		user, _ := c.Get("user")
		c.JSON(http.StatusOK, gin.H{"email": user.(*model.User).Email})
	})

	return &authFixture{router: router, db: db}
}

func (f *authFixture) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginFlow(t *testing.T) {
	f := newAuthFixture(t)

	w := f.do(http.MethodPost, "/register", `{"name":"Asha","email":"asha@example.com","password":"pw123456"}`, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	var reg map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
	assert.Equal(t, "User created successfully!", reg["message"])

	w = f.do(http.MethodPost, "/register", `{"name":"Asha","email":"asha@example.com","password":"other"}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(http.MethodPost, "/login", `{"email":"asha@example.com","password":"pw123456"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var login map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login["token"])

	w = f.do(http.MethodGet, "/whoami", "", login["token"])
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "asha@example.com")
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)

	f.do(http.MethodPost, "/register", `{"name":"A","email":"a@example.com","password":"right"}`, "")

	w := f.do(http.MethodPost, "/login", `{"email":"a@example.com","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRouteRejectsMissingAndBadTokens(t *testing.T) {
	f := newAuthFixture(t)

	w := f.do(http.MethodGet, "/whoami", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token is missing!")

	w = f.do(http.MethodGet, "/whoami", "", "garbage.token.here")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token is invalid!")
}

func TestProtectedRouteRejectsMissingBearerScheme(t *testing.T) {
	f := newAuthFixture(t)

	f.do(http.MethodPost, "/register", `{"name":"A","email":"a@example.com","password":"pw123456"}`, "")
	w := f.do(http.MethodPost, "/login", `{"email":"a@example.com","password":"pw123456"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var login map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login["token"])

	// A valid token without the Bearer scheme is a malformed header.
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", login["token"])
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token is invalid!")
}

func TestTokenForDeletedUserRejected(t *testing.T) {
	f := newAuthFixture(t)

	f.do(http.MethodPost, "/register", `{"name":"Gone","email":"gone@example.com","password":"pw123456"}`, "")
	w := f.do(http.MethodPost, "/login", `{"email":"gone@example.com","password":"pw123456"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var login map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	require.NoError(t, f.db.Where("email = ?", "gone@example.com").Delete(&model.User{}).Error)

	w = f.do(http.MethodGet, "/whoami", "", login["token"])
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User not found!")
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	f := newAuthFixture(t)

	w := f.do(http.MethodPost, "/logout", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Logout successful")
}
