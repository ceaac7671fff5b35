package service_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zlnvch/markwiki/models"
	"github.com/zlnvch/markwiki/service"
	"github.com/zlnvch/markwiki/store"
)

func TestCreateAndVerifyJWT(t *testing.T) {
	svc, _ := setupService(t)

	username := "alice"
	id := "user123"

	// 1. Create
	token, err := svc.CreateJWT(username, id)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// 2. Verify
	gotUsername, gotId, expiry, err := svc.VerifyJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, username, gotUsername)
	assert.Equal(t, id, gotId)
	assert.True(t, expiry.After(time.Now()))
}

func TestVerifyJWT_Invalid(t *testing.T) {
	svc, _ := setupService(t)

	_, _, _, err := svc.VerifyJWT("invalid.token.string")
	assert.Error(t, err)
}

func TestVerifyJWT_Empty(t *testing.T) {
	svc, _ := setupService(t)

	_, _, _, err := svc.VerifyJWT("")
	assert.Error(t, err)
}

func TestVerifyJWT_InvalidSigningMethod(t *testing.T) {
	svc, _ := setupService(t)

	// A "none" algorithm token must be rejected even with a well-formed payload
	header := map[string]string{
		"alg": "none",
		"typ": "JWT",
	}
	payload := map[string]any{
		"username": "attacker",
		"id":       "attacker_123",
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}

	headerBytes, _ := json.Marshal(header)
	payloadBytes, _ := json.Marshal(payload)

	enc := base64.RawURLEncoding
	noneToken := enc.EncodeToString(headerBytes) + "." + enc.EncodeToString(payloadBytes) + "."

	_, _, _, err := svc.VerifyJWT(noneToken)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "signing method none is invalid")
}

func TestAuthenticateToken_Success(t *testing.T) {
	svc, mockStore := setupService(t)
	ctx := context.Background()

	user := models.User{
		Id:            "user1",
		Active:        true,
		Authenticated: true,
	}
	token, _ := svc.CreateJWT("alice", user.Id)

	mockStore.On("GetUser", ctx, "alice").Return(user, nil)

	gotUsername, gotUser, err := svc.AuthenticateToken(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, "alice", gotUsername)
	assert.Equal(t, user.Id, gotUser.Id)
}

func TestAuthenticateToken_LoggedOut(t *testing.T) {
	svc, mockStore := setupService(t)
	ctx := context.Background()

	// Record exists but the session flag was cleared by a logout
	user := models.User{
		Id:            "user1",
		Active:        true,
		Authenticated: false,
	}
	token, _ := svc.CreateJWT("alice", user.Id)

	mockStore.On("GetUser", ctx, "alice").Return(user, nil)

	_, _, err := svc.AuthenticateToken(ctx, token)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "session is no longer active")
}

func TestAuthenticateToken_UserNotFound(t *testing.T) {
	svc, mockStore := setupService(t)
	ctx := context.Background()

	token, _ := svc.CreateJWT("ghost", "user1")

	mockStore.On("GetUser", ctx, "ghost").Return(models.User{}, store.ErrUserNotFound)

	_, _, err := svc.AuthenticateToken(ctx, token)
	assert.Error(t, err)
}

func TestAuthenticateToken_EmptyToken(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, _, err := svc.AuthenticateToken(ctx, "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "token not provided")
}

func TestLogin_Success(t *testing.T) {
	svc, mockStore := setupService(t)
	ctx := context.Background()

	hash, err := service.MakeSaltedHash([]byte("secret"), nil)
	assert.NoError(t, err)

	user := models.User{
		Id:                   "user1",
		Active:               true,
		AuthenticationMethod: models.AuthMethodHash,
		Hash:                 hash,
	}

	mockStore.On("GetUser", ctx, "alice").Return(user, nil)
	mockStore.On("UpdateUser", ctx, "alice", mock.MatchedBy(func(u models.User) bool {
		return u.Authenticated
	})).Return(nil)

	gotUser, token, err := svc.Login(ctx, "alice", []byte("secret"))
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, gotUser.Authenticated)
	mockStore.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, mockStore := setupService(t)
	ctx := context.Background()

	hash, err := service.MakeSaltedHash([]byte("secret"), nil)
	assert.NoError(t, err)

	user := models.User{
		Id:                   "user1",
		Active:               true,
		AuthenticationMethod: models.AuthMethodHash,
		Hash:                 hash,
	}

	mockStore.On("GetUser", ctx, "alice").Return(user, nil)

	_, _, err = svc.Login(ctx, "alice", []byte("wrong"))
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	mockStore.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_InactiveAccount(t *testing.T) {
	svc, mockStore := setupService(t)
	ctx := context.Background()

	user := models.User{
		Id:                   "user1",
		Active:               false,
		AuthenticationMethod: models.AuthMethodCleartext,
		Password:             "secret",
	}

	mockStore.On("GetUser", ctx, "alice").Return(user, nil)

	_, _, err := svc.Login(ctx, "alice", []byte("secret"))
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, mockStore := setupService(t)
	ctx := context.Background()

	mockStore.On("GetUser", ctx, "ghost").Return(models.User{}, store.ErrUserNotFound)

	_, _, err := svc.Login(ctx, "ghost", []byte("secret"))
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogout_ClearsSessionFlag(t *testing.T) {
	svc, mockStore := setupService(t)
	ctx := context.Background()

	user := models.User{
		Id:            "user1",
		Active:        true,
		Authenticated: true,
	}

	mockStore.On("GetUser", ctx, "alice").Return(user, nil)
	mockStore.On("UpdateUser", ctx, "alice", mock.MatchedBy(func(u models.User) bool {
		return !u.Authenticated
	})).Return(nil)

	err := svc.Logout(ctx, "alice")
	assert.NoError(t, err)
	mockStore.AssertExpectations(t)
}
