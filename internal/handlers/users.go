package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tadikamesra/tadika-mesra/internal/logger"
	"github.com/tadikamesra/tadika-mesra/internal/middlewares"
	"github.com/tadikamesra/tadika-mesra/internal/models"
	"github.com/tadikamesra/tadika-mesra/internal/services"
)

// UserLister defines the interface that the user listing service must implement.
type UserLister interface {
	List(ctx context.Context) ([]models.User, error)
}

// UserGetter defines the interface for single user lookups.
type UserGetter interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// ProfileUpdater defines the interface for self-service profile edits.
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, userID int64, username, email, password string) (string, *models.UserWithRole, error)
}

// UserErrorResponse represents an error response for user endpoints
// swagger:model UserErrorResponse
type UserErrorResponse struct {
	// Error message
	// default: User not found
	Error string `json:"error"`
}

// UpdateMeRequest represents the JSON body for a profile edit
// swagger:model UpdateMeRequest
type UpdateMeRequest struct {
	// Username
	// required: true
	// default: john_doe
	Username string `json:"username"`

	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email"`

	// Password, optional; empty keeps the current one
	// default: secret123
	Password string `json:"password"`
}

// UpdateMeResponse represents a successful profile edit
// swagger:model UpdateMeResponse
type UpdateMeResponse struct {
	// Fresh JWT token reflecting the updated claims
	// default: JWT_TOKEN
	Token string `json:"token"`

	// Updated user including the admin flag
	User *models.UserWithRole `json:"user"`
}

// NewListUsersHandler returns an HTTP handler listing all users.
// @Summary List users
// @Description Returns the public projection of every user. Admin only.
// @Tags users
// @Produce json
// @Success 200 {array} models.User "Users"
// @Failure 403 {object} handlers.UserErrorResponse "Admin only"
// @Router /users [get]
// @Security BearerAuth
func NewListUsersHandler(svc UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middlewares.GetClaimsFromContext(r.Context())
		if claims == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(UserErrorResponse{Error: "Authorization token required"})
			return
		}
		if !claims.IsAdmin {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(UserErrorResponse{Error: "Admin access required"})
			return
		}

		users, err := svc.List(r.Context())
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(UserErrorResponse{Error: "Internal server error"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(users)
	}
}

// NewGetUserHandler returns an HTTP handler for fetching one user by username.
// @Summary Get user by username
// @Description Returns the public projection of a single user.
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.User "User"
// @Failure 404 {object} handlers.UserErrorResponse "User not found"
// @Router /users/{username} [get]
// @Security BearerAuth
func NewGetUserHandler(svc UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		user, err := svc.GetByUsername(r.Context(), username)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserDoesNotExist):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(UserErrorResponse{Error: "User not found"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(UserErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(user)
	}
}

// NewUpdateMeHandler returns an HTTP handler for self-service profile edits.
// @Summary Update own profile
// @Description Updates the caller's username, email and optionally password, and re-issues the token.
// @Tags users
// @Accept json
// @Produce json
// @Param updateMeRequest body handlers.UpdateMeRequest true "Profile edit"
// @Success 200 {object} handlers.UpdateMeResponse "Fresh token and updated user"
// @Failure 400 {object} handlers.UserErrorResponse "Username or email already exists / invalid request"
// @Router /users/me [put]
// @Security BearerAuth
func NewUpdateMeHandler(svc ProfileUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middlewares.GetClaimsFromContext(r.Context())
		if claims == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(UserErrorResponse{Error: "Authorization token required"})
			return
		}

		var req UpdateMeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(UserErrorResponse{Error: "invalid request body"})
			return
		}

		token, user, err := svc.UpdateProfile(r.Context(), claims.UserID, req.Username, req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserAlreadyExists):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(UserErrorResponse{Error: "Username or email already exists"})
			case errors.Is(err, services.ErrUserDoesNotExist):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(UserErrorResponse{Error: "User not found"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(UserErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(UpdateMeResponse{
			Token: token,
			User:  user,
		})
	}
}
