package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zlnvch/markwiki/models"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

func (s *Service) CreateJWT(username string, id string) (string, error) {
	claims := jwt.MapClaims{
		"username": username,
		"id":       id,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.JWTSecret)
	if err != nil {
		return "", err
	}

	return signedToken, nil
}

func (s *Service) VerifyJWT(tokenString string) (string, string, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return s.JWTSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", "", time.Time{}, err
	}

	if !token.Valid {
		return "", "", time.Time{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", time.Time{}, errors.New("invalid token claims")
	}

	username, ok := claims["username"].(string)
	if !ok {
		return "", "", time.Time{}, errors.New("missing username claim")
	}

	id, ok := claims["id"].(string)
	if !ok {
		return "", "", time.Time{}, errors.New("missing id claim")
	}

	expFloat, ok := claims["exp"].(float64)
	if !ok {
		return "", "", time.Time{}, errors.New("missing exp claim")
	}
	expiry := time.Unix(int64(expFloat), 0)

	return username, id, expiry, nil
}

// AuthenticateToken resolves a bearer token to its account record. The token
// must verify and the persisted authenticated flag must still be set, so a
// logout invalidates outstanding tokens immediately.
func (s *Service) AuthenticateToken(ctx context.Context, token string) (string, models.User, error) {
	if len(token) == 0 {
		return "", models.User{}, errors.New("token not provided")
	}

	username, _, _, err := s.VerifyJWT(token)
	if err != nil {
		return "", models.User{}, err
	}

	user, err := s.Store.GetUser(ctx, username)
	if err != nil {
		return "", models.User{}, err
	}
	if !user.Authenticated {
		return "", models.User{}, errors.New("session is no longer active")
	}

	return username, user, nil
}

// Login verifies the credentials, marks the record authenticated, and mints
// a session token. Inactive accounts cannot log in.
func (s *Service) Login(ctx context.Context, username string, password []byte) (models.User, string, error) {
	user, err := s.Store.GetUser(ctx, username)
	if err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}
	if !user.Active {
		return models.User{}, "", ErrInvalidCredentials
	}

	ok, err := s.CheckPassword(user, password)
	if err != nil {
		return models.User{}, "", err
	}
	if !ok {
		return models.User{}, "", ErrInvalidCredentials
	}

	user.Authenticated = true
	if err := s.Store.UpdateUser(ctx, username, user); err != nil {
		return models.User{}, "", err
	}

	token, err := s.CreateJWT(username, user.Id)
	if err != nil {
		return models.User{}, "", err
	}

	return user, token, nil
}

// Logout clears the persisted authenticated flag.
func (s *Service) Logout(ctx context.Context, username string) error {
	user, err := s.Store.GetUser(ctx, username)
	if err != nil {
		return err
	}

	user.Authenticated = false
	return s.Store.UpdateUser(ctx, username, user)
}
