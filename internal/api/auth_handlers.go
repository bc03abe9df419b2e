package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/grocery-storefront/internal/auth"
	"github.com/example/grocery-storefront/internal/infrastructure/store"
	"github.com/example/grocery-storefront/internal/model"
	"github.com/example/grocery-storefront/internal/validate"
)

type AuthHandlers struct {
	store  store.Store
	tokens *auth.Tokens
}

func NewAuthHandlers(st store.Store, tokens *auth.Tokens) *AuthHandlers {
	return &AuthHandlers{store: st, tokens: tokens}
}

type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         userView  `json:"user"`
}

type userView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Register serves POST /api/auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" {
		respondError(w, "username is required", http.StatusBadRequest)
		return
	}
	if !validate.Email(req.Email) {
		respondError(w, "invalid email address", http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrPasswordTooShort) {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Printf("[API] hash password: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         "customer",
		CreatedAt:    time.Now(),
	}
	if err := h.store.SaveUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			respondError(w, "email already registered", http.StatusConflict)
			return
		}
		log.Printf("[API] save user: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.respondTokens(w, http.StatusCreated, user)
}

// Login serves POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.store.UserByEmail(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)))
	if errors.Is(err, store.ErrNotFound) || (err == nil && !auth.CheckPassword(req.Password, user.PasswordHash)) {
		respondError(w, "invalid email or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Printf("[API] user lookup: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.respondTokens(w, http.StatusOK, user)
}

// Refresh serves POST /api/auth/refresh.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	userID, err := h.tokens.ParseRefresh(req.RefreshToken)
	if err != nil {
		respondError(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}

	user, err := h.store.User(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Printf("[API] user lookup: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.respondTokens(w, http.StatusOK, user)
}

func (h *AuthHandlers) respondTokens(w http.ResponseWriter, status int, user *model.User) {
	access, expiresAt, err := h.tokens.IssueAccess(user.ID, user.Email, user.Role)
	if err != nil {
		log.Printf("[API] issue access token: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	refresh, _, err := h.tokens.IssueRefresh(user.ID)
	if err != nil {
		log.Printf("[API] issue refresh token: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, status, tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		User: userView{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		},
	})
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}
