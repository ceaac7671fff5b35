package service_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zlnvch/markwiki/service"
)

func TestMakeSaltedHash_Layout(t *testing.T) {
	hash, err := service.MakeSaltedHash([]byte("secret"), nil)
	assert.NoError(t, err)

	// 64 salt bytes + 64 digest bytes, hex encoded
	assert.Len(t, hash, 256)
	assert.Equal(t, strings.ToLower(hash), hash)
}

func TestMakeSaltedHash_DeterministicWithSalt(t *testing.T) {
	salt := make([]byte, 64)
	for i := range salt {
		salt[i] = byte(i)
	}

	first, err := service.MakeSaltedHash([]byte("secret"), salt)
	assert.NoError(t, err)
	second, err := service.MakeSaltedHash([]byte("secret"), salt)
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := service.MakeSaltedHash([]byte("different"), salt)
	assert.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestMakeSaltedHash_FreshSaltsDiffer(t *testing.T) {
	first, err := service.MakeSaltedHash([]byte("secret"), nil)
	assert.NoError(t, err)
	second, err := service.MakeSaltedHash([]byte("secret"), nil)
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestMakeSaltedHash_BadSaltLength(t *testing.T) {
	_, err := service.MakeSaltedHash([]byte("secret"), []byte("too short"))
	assert.Error(t, err)
}

func TestCheckHashedPassword(t *testing.T) {
	hash, err := service.MakeSaltedHash([]byte("secret"), nil)
	assert.NoError(t, err)

	assert.True(t, service.CheckHashedPassword([]byte("secret"), hash))
	assert.False(t, service.CheckHashedPassword([]byte("wrong"), hash))
}

func TestCheckHashedPassword_Malformed(t *testing.T) {
	assert.False(t, service.CheckHashedPassword([]byte("secret"), ""))
	assert.False(t, service.CheckHashedPassword([]byte("secret"), "short"))
	assert.False(t, service.CheckHashedPassword([]byte("secret"), strings.Repeat("z", 256)))
}
