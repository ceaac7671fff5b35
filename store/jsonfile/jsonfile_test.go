package jsonfile_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zlnvch/markwiki/models"
	"github.com/zlnvch/markwiki/store"
	"github.com/zlnvch/markwiki/store/jsonfile"
)

func setupStore(t *testing.T) (*jsonfile.JSONFileUserStore, string) {
	dir := t.TempDir()
	s, err := jsonfile.NewJSONFileUserStore(dir)
	assert.NoError(t, err)
	return s, dir
}

func TestCreateGetUpdateDelete(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	user := models.User{
		Id:                   "user1",
		Active:               true,
		Roles:                []string{},
		AuthenticationMethod: models.AuthMethodHash,
		Hash:                 "abc123",
	}

	// Create
	created, err := s.CreateUser(ctx, "alice", user)
	assert.NoError(t, err)
	assert.Equal(t, user, created)

	// Get
	got, err := s.GetUser(ctx, "alice")
	assert.NoError(t, err)
	assert.Equal(t, user, got)

	// Update
	got.Authenticated = true
	assert.NoError(t, s.UpdateUser(ctx, "alice", got))
	got2, err := s.GetUser(ctx, "alice")
	assert.NoError(t, err)
	assert.True(t, got2.Authenticated)

	// Delete
	assert.NoError(t, s.DeleteUser(ctx, "alice"))
	_, err = s.GetUser(ctx, "alice")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestCreateUser_Duplicate(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	original := models.User{Id: "user1"}
	_, err := s.CreateUser(ctx, "alice", original)
	assert.NoError(t, err)

	_, err = s.CreateUser(ctx, "alice", models.User{Id: "user2"})
	assert.ErrorIs(t, err, store.ErrUserExists)

	// The original record must be untouched
	got, err := s.GetUser(ctx, "alice")
	assert.NoError(t, err)
	assert.Equal(t, "user1", got.Id)
}

func TestGetUser_MissingFileIsEmptyStore(t *testing.T) {
	s, _ := setupStore(t)

	_, err := s.GetUser(context.Background(), "nobody")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestDeleteUser_NotFound(t *testing.T) {
	s, _ := setupStore(t)

	err := s.DeleteUser(context.Background(), "nobody")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestMalformedDocumentIsUnavailable(t *testing.T) {
	s, dir := setupStore(t)

	err := os.WriteFile(filepath.Join(dir, "users.json"), []byte("{not json"), 0o644)
	assert.NoError(t, err)

	_, err = s.GetUser(context.Background(), "alice")
	assert.ErrorIs(t, err, store.ErrStoreUnavailable)

	_, err = s.CreateUser(context.Background(), "alice", models.User{})
	assert.ErrorIs(t, err, store.ErrStoreUnavailable)
}

func TestDocumentLayout(t *testing.T) {
	s, dir := setupStore(t)
	ctx := context.Background()

	user := models.User{
		Id:                   "user1",
		Active:               true,
		Roles:                []string{"admin"},
		AuthenticationMethod: models.AuthMethodHash,
		Email:                "alice@example.com",
		Hash:                 "abc123",
	}
	_, err := s.CreateUser(ctx, "alice", user)
	assert.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "users.json"))
	assert.NoError(t, err)

	var doc map[string]map[string]any
	assert.NoError(t, json.Unmarshal(data, &doc))
	record := doc["alice"]
	assert.Equal(t, "user1", record["id"])
	assert.Equal(t, "hash", record["authentication_method"])
	assert.Equal(t, "abc123", record["hash"])
	// Cleartext credential is omitted when unset
	_, hasPassword := record["password"]
	assert.False(t, hasPassword)
}
