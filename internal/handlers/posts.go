package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tadikamesra/tadika-mesra/internal/logger"
	"github.com/tadikamesra/tadika-mesra/internal/middlewares"
	"github.com/tadikamesra/tadika-mesra/internal/models"
	"github.com/tadikamesra/tadika-mesra/internal/services"
)

// maxUploadSize bounds multipart parsing memory for post creation.
const maxUploadSize = 32 << 20

// PostLister defines the interface for listing posts.
type PostLister interface {
	List(ctx context.Context) ([]models.Post, error)
}

// PostCreator defines the interface for creating posts.
type PostCreator interface {
	Create(ctx context.Context, authorID int64, textContent, imageURL *string) (*models.Post, error)
}

// PostDeleter defines the interface for deleting posts.
type PostDeleter interface {
	Delete(ctx context.Context, userID int64, isAdmin bool, postID int64) error
}

// FileSaver stores an uploaded file and returns its serving URL.
type FileSaver interface {
	Save(ctx context.Context, originalName string, src io.Reader) (string, error)
}

// PostErrorResponse represents an error response for post endpoints
// swagger:model PostErrorResponse
type PostErrorResponse struct {
	// Error message
	// default: Post cannot be empty
	Error string `json:"error"`
}

// NewListPostsHandler returns an HTTP handler listing all posts.
// @Summary List posts
// @Description Returns every post joined with its author's username, newest first. Public.
// @Tags posts
// @Produce json
// @Success 200 {array} models.Post "Posts"
// @Router /posts [get]
func NewListPostsHandler(svc PostLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := svc.List(r.Context())
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(PostErrorResponse{Error: "Internal server error"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(posts)
	}
}

// NewCreatePostHandler returns an HTTP handler for post creation. The body
// is multipart form data with an optional text_content field and an
// optional image file; at least one must be present.
// @Summary Create a post
// @Description Creates a post from multipart form data, stores the optional image and broadcasts new_post.
// @Tags posts
// @Accept mpfd
// @Produce json
// @Param text_content formData string false "Text content"
// @Param image formData file false "Image attachment"
// @Success 201 {object} models.Post "Created post"
// @Failure 400 {object} handlers.PostErrorResponse "Post cannot be empty"
// @Router /posts [post]
// @Security BearerAuth
func NewCreatePostHandler(svc PostCreator, files FileSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middlewares.GetClaimsFromContext(r.Context())
		if claims == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(PostErrorResponse{Error: "Authorization token required"})
			return
		}

		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(PostErrorResponse{Error: "invalid multipart form"})
			return
		}

		var textContent *string
		if text := r.FormValue("text_content"); text != "" {
			textContent = &text
		}

		var imageURL *string
		file, header, err := r.FormFile("image")
		switch {
		case err == nil:
			defer file.Close()
			url, err := files.Save(r.Context(), header.Filename, file)
			if err != nil {
				logger.Log.Errorw("failed to store upload", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(PostErrorResponse{Error: "Internal server error"})
				return
			}
			imageURL = &url
		case errors.Is(err, http.ErrMissingFile):
			// no attachment
		default:
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(PostErrorResponse{Error: "invalid image upload"})
			return
		}

		post, err := svc.Create(r.Context(), claims.UserID, textContent, imageURL)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrEmptyPost):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(PostErrorResponse{Error: "Post cannot be empty"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(PostErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(post)
	}
}

// NewDeletePostHandler returns an HTTP handler for deleting a post as its
// owner or as an admin.
// @Summary Delete a post
// @Description Deletes a post. Owner or admin only; broadcasts post_deleted.
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 204 "Post deleted"
// @Failure 403 {object} handlers.PostErrorResponse "Not the owner"
// @Failure 404 {object} handlers.PostErrorResponse "Post not found"
// @Router /posts/{id} [delete]
// @Security BearerAuth
func NewDeletePostHandler(svc PostDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middlewares.GetClaimsFromContext(r.Context())
		if claims == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(PostErrorResponse{Error: "Authorization token required"})
			return
		}

		postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(PostErrorResponse{Error: "invalid post id"})
			return
		}

		if err := svc.Delete(r.Context(), claims.UserID, claims.IsAdmin, postID); err != nil {
			switch {
			case errors.Is(err, services.ErrNotPostOwner):
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(PostErrorResponse{Error: "Access denied"})
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
