package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/zlnvch/markwiki/models"
	"github.com/zlnvch/markwiki/service"
	"github.com/zlnvch/markwiki/store"
)

type Handler struct {
	Service *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{Service: svc}
}

type registerRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Email           string `json:"email"`
}

type registerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" {
		http.Error(w, "username must not be empty", http.StatusBadRequest)
		return
	}

	outcome, err := h.Service.RegisterUser(r.Context(), req.Username, req.Password, req.ConfirmPassword, req.Email)
	if err != nil {
		log.Printf("Registration failed: %v", err)
		if errors.Is(err, store.ErrStoreUnavailable) {
			http.Error(w, "user store unavailable", http.StatusServiceUnavailable)
			return
		}
		http.Error(w, "registration failed", http.StatusInternalServerError)
		return
	}

	resp := registerResponse{
		Success: outcome == service.RegistrationOK,
		Message: outcome.Message(),
	}
	h.sendResponse(w, resp)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Username string   `json:"username"`
	Id       string   `json:"id"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	Token    string   `json:"token"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.Service.Login(r.Context(), req.Username, []byte(req.Password))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		log.Printf("Login failed: %v", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	resp := loginResponse{
		Username: req.Username,
		Id:       user.Id,
		Email:    user.Email,
		Roles:    user.Roles,
		Token:    token,
	}
	h.sendResponse(w, resp)
}

type logoutResponse struct {
	Success bool `json:"success"`
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	username, _, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	if err := h.Service.Logout(r.Context(), username); err != nil {
		log.Printf("Logout failed: %v", err)
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}
	h.sendResponse(w, logoutResponse{Success: true})
}

type getUserResponse struct {
	Username      string   `json:"username"`
	Id            string   `json:"id"`
	Email         string   `json:"email"`
	Active        bool     `json:"active"`
	Authenticated bool     `json:"authenticated"`
	Roles         []string `json:"roles"`
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGetUser(w, r)

	case http.MethodDelete:
		h.handleDeleteUser(w, r)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	username, user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	resp := getUserResponse{
		Username:      username,
		Id:            user.Id,
		Email:         user.Email,
		Active:        user.Active,
		Authenticated: user.Authenticated,
		Roles:         user.Roles,
	}
	h.sendResponse(w, resp)
}

type deleteUserResponse struct {
	Success bool `json:"success"`
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	username, _, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteUser(r.Context(), username); err != nil {
		log.Printf("Delete user failed: %v", err)
		http.Error(w, "failed to delete user", http.StatusInternalServerError)
		return
	}
	h.sendResponse(w, deleteUserResponse{Success: true})
}

// requireUser authenticates the bearer token and writes a 401 when it is
// missing or invalid.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (string, models.User, bool) {
	token := h.getTokenFromAuthHeader(r)
	username, user, err := h.Service.AuthenticateToken(r.Context(), token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return "", models.User{}, false
	}
	return username, user, true
}

func (h *Handler) sendResponse(w http.ResponseWriter, resp any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) getTokenFromAuthHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		return ""
	}
	return strings.TrimPrefix(authHeader, prefix)
}
