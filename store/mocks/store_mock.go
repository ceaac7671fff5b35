package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/zlnvch/markwiki/models"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateUser(ctx context.Context, name string, user models.User) (models.User, error) {
	args := m.Called(ctx, name, user)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockStore) GetUser(ctx context.Context, name string) (models.User, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockStore) UpdateUser(ctx context.Context, name string, user models.User) error {
	args := m.Called(ctx, name, user)
	return args.Error(0)
}

func (m *MockStore) DeleteUser(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
