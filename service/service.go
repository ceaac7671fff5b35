package service

import (
	"github.com/zlnvch/markwiki/filestore"
	"github.com/zlnvch/markwiki/models"
	"github.com/zlnvch/markwiki/pages"
	"github.com/zlnvch/markwiki/store"
)

type Service struct {
	Store             store.UserStore
	Pages             *pages.Repository
	Files             *filestore.Manager
	JWTSecret         []byte
	DefaultAuthMethod models.AuthMethod
}

func NewService(
	userStore store.UserStore,
	pageRepo *pages.Repository,
	fileManager *filestore.Manager,
	jwtSecret []byte,
	defaultAuthMethod models.AuthMethod,
) (*Service, error) {
	if defaultAuthMethod == "" {
		defaultAuthMethod = models.AuthMethodHash
	}

	return &Service{
		Store:             userStore,
		Pages:             pageRepo,
		Files:             fileManager,
		JWTSecret:         jwtSecret,
		DefaultAuthMethod: defaultAuthMethod,
	}, nil
}
