package service

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

const saltLength = 64

// GenerateSalt returns 64 cryptographically random bytes.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// MakeSaltedHash derives the combined salt+hash string for a password.
// A nil salt means generate a fresh one. The digest covers the first salt
// half, then the password bytes, then the second half; stored hashes depend
// on that exact order. Callers pass the password as bytes and are responsible
// for encoding it (UTF-8 throughout this codebase).
func MakeSaltedHash(password []byte, salt []byte) (string, error) {
	if salt == nil {
		var err error
		salt, err = GenerateSalt()
		if err != nil {
			return "", err
		}
	}
	if len(salt) != saltLength {
		return "", fmt.Errorf("salt must be %d bytes, got %d", saltLength, len(salt))
	}

	d := sha512.New()
	d.Write(salt[:32])
	d.Write(password)
	d.Write(salt[32:])

	return hex.EncodeToString(salt) + hex.EncodeToString(d.Sum(nil)), nil
}

// CheckHashedPassword reports whether the password matches the combined
// salt+hash string. The salt is the first 128 hex characters; the candidate
// is re-derived with it and compared against the full combined string.
func CheckHashedPassword(password []byte, saltedHash string) bool {
	if len(saltedHash) < saltLength*2 {
		return false
	}
	salt, err := hex.DecodeString(saltedHash[:saltLength*2])
	if err != nil {
		return false
	}
	candidate, err := MakeSaltedHash(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(saltedHash)) == 1
}
