package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"math_tutor_backend/internal/config"
	"math_tutor_backend/internal/repository"
	"math_tutor_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"math_tutor_backend/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named shared-cache DB keeps the schema visible across pooled
	// connections while isolating parallel tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Interaction{}, &model.ChatHistory{}))
	return db
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "unit-test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterHashesPassword(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)

	user, err := svc.Register("Ravi", "ravi@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotZero(t, user.ID)

	assert.NotEqual(t, "s3cret-pass", user.Password)
	assert.True(t, strings.HasPrefix(user.Password, "$2"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret-pass")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)

	_, err := svc.Register("Ravi", "ravi@example.com", "pass-one")
	require.NoError(t, err)

	_, err = svc.Register("Other", "ravi@example.com", "pass-two")
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLoginRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)

	user, err := svc.Register("Mina", "mina@example.com", "correct-horse")
	require.NoError(t, err)

	token, err := svc.Login("mina@example.com", "correct-horse")
	require.NoError(t, err)

	claims, err := util.ParseJWT(token, "unit-test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "Mina", claims.Name)
	assert.Equal(t, "mina@example.com", claims.Email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)

	_, err := svc.Register("Mina", "mina@example.com", "correct-horse")
	require.NoError(t, err)

	_, err = svc.Login("mina@example.com", "wrong-password")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}
