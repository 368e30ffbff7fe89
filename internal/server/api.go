package server

import (
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeAuthRequired       = "ERR_AUTH_REQUIRED"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeEmailTaken         = "ERR_EMAIL_TAKEN"
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeStorage            = "ERR_STORAGE"
	ErrCodeInternal           = "ERR_INTERNAL"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e apiError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type registerResponse struct {
	UserID string `json:"userId"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Surname string `json:"surname,omitempty"`
	Role    string `json:"role"`
	Handle  string `json:"handle"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

type logoutRequest struct {
	// Purge also removes the stored liked/favorite sets (account clear);
	// plain logout keeps them for the next login.
	Purge bool `json:"purge"`
}

type interactionsResponse struct {
	Authenticated bool     `json:"authenticated"`
	Liked         []string `json:"liked"`
	Favorites     []string `json:"favorites"`
	LikedCount    int      `json:"likedCount"`
	FavoriteCount int      `json:"favoriteCount"`
}

type toggleResponse struct {
	Success      bool `json:"success"`
	RequiresAuth bool `json:"requiresAuth"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, apiErr apiError) {
	writeJSON(w, status, map[string]any{"ok": false, "error": apiErr})
}

func decodeJSONBody[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var zero T
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, apiError{Code: ErrCodeValidation, Message: err.Error()})
		return zero, false
	}
	var parsed T
	if err := json.Unmarshal(body, &parsed); err != nil {
		writeError(w, http.StatusBadRequest, apiError{Code: ErrCodeValidation, Message: err.Error()})
		return zero, false
	}
	return parsed, true
}
