package api

import (
	"errors"
	"net/http"

	"github.com/erazemk/dailycost/internal/metrics"
	"github.com/erazemk/dailycost/internal/model"
	"github.com/erazemk/dailycost/internal/service"
)

// AuthHandler handles authentication and account endpoints.
type AuthHandler struct {
	Service *service.Service
	Metrics *metrics.Metrics
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.Credentials
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.Service.Login(r.Context(), req)
	if h.Metrics != nil {
		switch {
		case err == nil:
			h.Metrics.Login("success")
		case errors.Is(err, model.ErrUnauthorized):
			h.Metrics.Login("failure")
		}
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusOK, loginResponse{Token: token})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Logout(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// CurrentUser handles GET /api/user.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Service.CurrentUser(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// ChangePassword handles PUT /api/user/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req model.PasswordChange
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.ChangePassword(r.Context(), req); err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// ChangeUsername handles PUT /api/user/username.
func (h *AuthHandler) ChangeUsername(w http.ResponseWriter, r *http.Request) {
	var req model.UsernameChange
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Service.ChangeUsername(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, user)
}
