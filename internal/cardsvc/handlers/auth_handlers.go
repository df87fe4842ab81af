package handlers

import (
	"net/http"

	"github.com/troycsc/desk-services/internal/cardsvc/models"
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.tokenAuth == nil {
		writeError(w, http.StatusNotFound, "Authentication is not enabled")
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeFailure(w, r, err, "User not found")
		return
	}
	if body.Email == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, user, err := h.auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeFailure(w, r, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}{token, user})
}
