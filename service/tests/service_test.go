package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zlnvch/markwiki/models"
	"github.com/zlnvch/markwiki/service"
	"github.com/zlnvch/markwiki/store/mocks"
)

func setupService(t *testing.T) (*service.Service, *mocks.MockStore) {
	mockStore := new(mocks.MockStore)

	svc, err := service.NewService(
		mockStore,
		nil,
		nil,
		[]byte("test-jwt-secret-0123456789"),
		models.AuthMethodHash,
	)
	assert.NoError(t, err)

	return svc, mockStore
}
