package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/zlnvch/markwiki/models"
	"github.com/zlnvch/markwiki/store"
)

// AddUser builds a fresh account record and inserts it into the store.
// An empty method falls back to the configured default. The credential field
// is selected by the method: a salted hash or the raw password.
func (s *Service) AddUser(
	ctx context.Context,
	name string,
	password []byte,
	email string,
	active bool,
	roles []string,
	method models.AuthMethod,
) (models.User, error) {
	if method == "" {
		method = s.DefaultAuthMethod
	}
	if roles == nil {
		roles = []string{}
	}

	userId, err := uuid.NewV4()
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Id:                   userId.String(),
		Active:               active,
		Roles:                roles,
		AuthenticationMethod: method,
		Authenticated:        false,
		Email:                email,
		IsAnonymous:          false,
	}

	switch method {
	case models.AuthMethodHash:
		hash, err := MakeSaltedHash(password, nil)
		if err != nil {
			return models.User{}, err
		}
		user.Hash = hash
	case models.AuthMethodCleartext:
		user.Password = string(password)
	default:
		return models.User{}, fmt.Errorf("unsupported authentication method: %s", method)
	}

	return s.Store.CreateUser(ctx, name, user)
}

func (s *Service) GetUser(ctx context.Context, name string) (models.User, error) {
	return s.Store.GetUser(ctx, name)
}

func (s *Service) UpdateUser(ctx context.Context, name string, user models.User) error {
	return s.Store.UpdateUser(ctx, name, user)
}

func (s *Service) DeleteUser(ctx context.Context, name string) error {
	return s.Store.DeleteUser(ctx, name)
}

// CheckPassword verifies a password against the record's credential,
// according to its authentication method.
func (s *Service) CheckPassword(user models.User, password []byte) (bool, error) {
	switch user.AuthenticationMethod {
	case models.AuthMethodHash:
		return CheckHashedPassword(password, user.Hash), nil
	case models.AuthMethodCleartext:
		return user.Password == string(password), nil
	}
	return false, fmt.Errorf("unsupported authentication method: %s", user.AuthenticationMethod)
}

// RegistrationOutcome classifies the result of a registration attempt.
type RegistrationOutcome int

const (
	RegistrationOK RegistrationOutcome = iota
	RegistrationUsernameTaken
	RegistrationPasswordMismatch
	RegistrationFailed
)

// Message returns the user-facing text for the outcome.
func (o RegistrationOutcome) Message() string {
	switch o {
	case RegistrationOK:
		return "User added successfully!"
	case RegistrationUsernameTaken:
		return "Username already exists. Please choose another username."
	case RegistrationPasswordMismatch:
		return "Passwords do not match. Please enter matching passwords."
	}
	return "Failed to add user. Please try again."
}

// RegisterUser validates a registration request and creates the account.
// The username check and the insert are separate steps, but the insert is
// atomic per store backend, so a concurrent registration of the same name
// surfaces as RegistrationFailed rather than a silent overwrite.
// A non-nil error means the store itself was unavailable.
func (s *Service) RegisterUser(ctx context.Context, username, password, confirmPassword, email string) (RegistrationOutcome, error) {
	_, err := s.Store.GetUser(ctx, username)
	if err == nil {
		return RegistrationUsernameTaken, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return RegistrationFailed, err
	}

	if password != confirmPassword {
		return RegistrationPasswordMismatch, nil
	}

	if _, err := s.AddUser(ctx, username, []byte(password), email, true, nil, ""); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return RegistrationFailed, nil
		}
		return RegistrationFailed, err
	}
	return RegistrationOK, nil
}
