package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tadikamesra/tadika-mesra/internal/logger"
	"github.com/tadikamesra/tadika-mesra/internal/middlewares"
	"github.com/tadikamesra/tadika-mesra/internal/models"
	"github.com/tadikamesra/tadika-mesra/internal/services"
)

// AdminUserUpdater defines the interface for administrative user edits.
type AdminUserUpdater interface {
	AdminUpdate(ctx context.Context, targetID int64, username, email, password string, isAdmin bool) (*models.UserWithRole, error)
}

// AdminUserDeleter defines the interface for administrative user deletion.
type AdminUserDeleter interface {
	AdminDelete(ctx context.Context, actingID, targetID int64) error
}

// AdminUpdateUserRequest represents the JSON body for an admin user edit
// swagger:model AdminUpdateUserRequest
type AdminUpdateUserRequest struct {
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

	// Admin flag
	// default: false
	IsAdmin bool `json:"is_admin"`
}

// AdminUserErrorResponse represents an error response for admin user endpoints
// swagger:model AdminUserErrorResponse
type AdminUserErrorResponse struct {
	// Error message
	// default: User not found
	Error string `json:"error"`
}

// NewAdminUpdateUserHandler returns an HTTP handler for admin user edits.
// @Summary Update any user
// @Description Updates any user's fields including the admin flag. Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param adminUpdateUserRequest body handlers.AdminUpdateUserRequest true "User edit"
// @Success 200 {object} models.UserWithRole "Updated user"
// @Failure 403 {object} handlers.AdminUserErrorResponse "Admin only"
// @Failure 404 {object} handlers.AdminUserErrorResponse "User not found"
// @Router /admin/users/{id} [put]
// @Security BearerAuth
func NewAdminUpdateUserHandler(svc AdminUserUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middlewares.GetClaimsFromContext(r.Context())
		if claims == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(AdminUserErrorResponse{Error: "Authorization token required"})
			return
		}
		if !claims.IsAdmin {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(AdminUserErrorResponse{Error: "Admin access required"})
			return
		}

		targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(AdminUserErrorResponse{Error: "invalid user id"})
			return
		}

		var req AdminUpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(AdminUserErrorResponse{Error: "invalid request body"})
			return
		}

		user, err := svc.AdminUpdate(r.Context(), targetID, req.Username, req.Email, req.Password, req.IsAdmin)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserAlreadyExists):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(AdminUserErrorResponse{Error: "Username or email already exists"})
			case errors.Is(err, services.ErrUserDoesNotExist):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(AdminUserErrorResponse{Error: "User not found"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(AdminUserErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(user)
	}
}

// NewAdminDeleteUserHandler returns an HTTP handler for admin user deletion.
// @Summary Delete any user
// @Description Deletes a user and cascades to their posts. An admin cannot delete their own account. Admin only.
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 204 "User deleted"
// @Failure 400 {object} handlers.AdminUserErrorResponse "Self-delete attempt"
// @Failure 403 {object} handlers.AdminUserErrorResponse "Admin only"
// @Failure 404 {object} handlers.AdminUserErrorResponse "User not found"
// @Router /admin/users/{id} [delete]
// @Security BearerAuth
func NewAdminDeleteUserHandler(svc AdminUserDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middlewares.GetClaimsFromContext(r.Context())
		if claims == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(AdminUserErrorResponse{Error: "Authorization token required"})
			return
		}
		if !claims.IsAdmin {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(AdminUserErrorResponse{Error: "Admin access required"})
			return
		}

		targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(AdminUserErrorResponse{Error: "invalid user id"})
			return
		}

		if err := svc.AdminDelete(r.Context(), claims.UserID, targetID); err != nil {
			switch {
			case errors.Is(err, services.ErrSelfDelete):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(AdminUserErrorResponse{Error: "Cannot delete own account"})
			case errors.Is(err, services.ErrUserDoesNotExist):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(AdminUserErrorResponse{Error: "User not found"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(AdminUserErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
