package services

import (
	"context"
	"errors"

	"github.com/tadikamesra/tadika-mesra/internal/logger"
	"github.com/tadikamesra/tadika-mesra/internal/models"
	"github.com/tadikamesra/tadika-mesra/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// ErrSelfDelete is returned when an admin tries to delete their own account.
var ErrSelfDelete = errors.New("cannot delete own account")

// UserService handles user listing, lookups, profile edits and the
// administrative user operations.
type UserService struct {
	reader UserReader
	writer UserWriter
	jwt    TokenIssuer
}

// NewUserService creates a new UserService instance.
func NewUserService(reader UserReader, writer UserWriter, jwt TokenIssuer) *UserService {
	return &UserService{
		reader: reader,
		writer: writer,
		jwt:    jwt,
	}
}

// List returns the public projection of every user.
func (svc *UserService) List(ctx context.Context) ([]models.User, error) {
	rows, err := svc.reader.ListAll(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list users", "err", err)
		return nil, err
	}

	users := make([]models.User, 0, len(rows))
	for i := range rows {
		users = append(users, *rows[i].Public())
	}
	return users, nil
}

// GetByUsername returns one user's public projection.
func (svc *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "username", username, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserDoesNotExist
	}
	return user.Public(), nil
}

// UpdateProfile rewrites the caller's own username, email and optionally
// password, then issues a fresh token. The new token matters: the old one
// keeps authorizing with stale claims until it expires.
func (svc *UserService) UpdateProfile(ctx context.Context, userID int64, username, email, password string) (string, *models.UserWithRole, error) {
	updated, err := svc.update(ctx, userID, username, email, password, nil)
	if err != nil {
		return "", nil, err
	}

	token, err := svc.jwt.Generate(ctx, updated.ID, updated.Username, updated.Email, updated.IsAdmin)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return "", nil, err
	}

	return token, updated.PublicWithRole(), nil
}

// AdminUpdate rewrites any user's fields, including the admin flag.
func (svc *UserService) AdminUpdate(ctx context.Context, targetID int64, username, email, password string, isAdmin bool) (*models.UserWithRole, error) {
	updated, err := svc.update(ctx, targetID, username, email, password, &isAdmin)
	if err != nil {
		return nil, err
	}
	return updated.PublicWithRole(), nil
}

// update is the shared conflict-checked update path. isAdmin nil leaves the
// stored flag untouched.
func (svc *UserService) update(ctx context.Context, targetID int64, username, email, password string, isAdmin *bool) (*models.UserDB, error) {
	target, err := svc.reader.GetByID(ctx, targetID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "id", targetID, "err", err)
		return nil, err
	}
	if target == nil {
		return nil, ErrUserDoesNotExist
	}

	conflict, err := svc.reader.GetConflicting(ctx, username, email, targetID)
	if err != nil {
		logger.Log.Errorw("failed to check conflicts", "err", err)
		return nil, err
	}
	if conflict != nil {
		logger.Log.Errorw("username or email taken", "username", username, "email", email)
		return nil, ErrUserAlreadyExists
	}

	var passwordHash *string
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			logger.Log.Errorw("failed to hash password", "err", err)
			return nil, err
		}
		s := string(hashed)
		passwordHash = &s
	}

	if err := svc.writer.Update(ctx, targetID, username, email, passwordHash, isAdmin); err != nil {
		if errors.Is(err, repositories.ErrUniqueViolation) {
			return nil, ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to update user", "id", targetID, "err", err)
		return nil, err
	}

	updated, err := svc.reader.GetByID(ctx, targetID)
	if err != nil {
		logger.Log.Errorw("failed to re-read user", "id", targetID, "err", err)
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserDoesNotExist
	}

	return updated, nil
}

// AdminDelete removes a user and, through the cascading constraint, every
// post they authored. The acting admin cannot delete themselves. No
// broadcast event is emitted for user deletion.
func (svc *UserService) AdminDelete(ctx context.Context, actingID, targetID int64) error {
	if actingID == targetID {
		return ErrSelfDelete
	}

	rows, err := svc.writer.Delete(ctx, targetID)
	if err != nil {
		logger.Log.Errorw("failed to delete user", "id", targetID, "err", err)
		return err
	}
	if rows == 0 {
		return ErrUserDoesNotExist
	}

	return nil
}
