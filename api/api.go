package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/zlnvch/markwiki/api/rest"
	"github.com/zlnvch/markwiki/api/ws"
	"github.com/zlnvch/markwiki/filestore"
	"github.com/zlnvch/markwiki/models"
	"github.com/zlnvch/markwiki/pages"
	"github.com/zlnvch/markwiki/service"
	"github.com/zlnvch/markwiki/store"
)

type MarkwikiAPI struct {
	restHandler *rest.Handler
	wsHandler   *ws.Handler
	wsUpgrader  websocket.Upgrader
	shutdownCtx context.Context
}

func NewMarkwikiAPI(
	userStore store.UserStore,
	pageRepo *pages.Repository,
	fileManager *filestore.Manager,
	jwtSecret []byte,
	defaultAuthMethod models.AuthMethod,
	shutdownCtx context.Context,
) (*MarkwikiAPI, error) {
	svc, err := service.NewService(userStore, pageRepo, fileManager, jwtSecret, defaultAuthMethod)
	if err != nil {
		log.Printf("Failed to create service: %v", err)
		return &MarkwikiAPI{}, err
	}

	restHandler := rest.NewHandler(svc)
	wsHandler := ws.NewHandler(svc)

	return &MarkwikiAPI{
		restHandler: restHandler,
		wsHandler:   wsHandler,
		shutdownCtx: shutdownCtx,
	}, nil
}

func (wikiAPI *MarkwikiAPI) RegisterRoutes(mux *http.ServeMux, requiredOrigin string) {
	// Health check endpoint (no auth required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("/register", wikiAPI.restHandler.HandleRegister)
	mux.HandleFunc("/login", wikiAPI.restHandler.HandleLogin)
	mux.HandleFunc("/logout", wikiAPI.restHandler.HandleLogout)
	mux.HandleFunc("/me", wikiAPI.restHandler.HandleMe)

	mux.HandleFunc("/pages/", wikiAPI.restHandler.HandlePages)
	mux.HandleFunc("/search", wikiAPI.restHandler.HandleSearch)
	mux.HandleFunc("/tags/", wikiAPI.restHandler.HandleTags)
	mux.HandleFunc("/preview", wikiAPI.restHandler.HandlePreview)
	mux.HandleFunc("/convert/", wikiAPI.restHandler.HandleConvert)
	mux.HandleFunc("/download/", wikiAPI.restHandler.HandleDownload)
	mux.HandleFunc("/files/", wikiAPI.restHandler.HandleFiles)

	wsUpgrader := wikiAPI.wsHandler.NewWsUpgrader(requiredOrigin)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		wikiAPI.wsHandler.ServeWS(wsUpgrader, w, r, wikiAPI.shutdownCtx)
	})
}
