package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tadikamesra/tadika-mesra/internal/logger"
	"github.com/tadikamesra/tadika-mesra/internal/middlewares"
	"github.com/tadikamesra/tadika-mesra/internal/services"
)

// NewAdminDeletePostHandler returns an HTTP handler for deleting any post
// irrespective of ownership.
// @Summary Delete any post
// @Description Deletes any post and broadcasts post_deleted. Admin only.
// @Tags admin
// @Produce json
// @Param id path int true "Post ID"
// @Success 204 "Post deleted"
// @Failure 403 {object} handlers.PostErrorResponse "Admin only"
// @Failure 404 {object} handlers.PostErrorResponse "Post not found"
// @Router /admin/posts/{id} [delete]
// @Security BearerAuth
func NewAdminDeletePostHandler(svc PostDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middlewares.GetClaimsFromContext(r.Context())
		if claims == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(PostErrorResponse{Error: "Authorization token required"})
			return
		}
		if !claims.IsAdmin {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(PostErrorResponse{Error: "Admin access required"})
			return
		}

		postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(PostErrorResponse{Error: "invalid post id"})
			return
		}

		if err := svc.Delete(r.Context(), claims.UserID, true, postID); err != nil {
			switch {
			case errors.Is(err, services.ErrPostNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(PostErrorResponse{Error: "Post not found"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(PostErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
