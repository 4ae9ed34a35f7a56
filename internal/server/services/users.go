// Package services contains server-side business logic. This file implements
// UserService, which handles registration and account-level queries.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/auth"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filevault/internal/server/thumbs"
)

// UserService provides account operations:
// - Register: create users (email must be unused)
// - Stats: user and file counts for the stats endpoint
type UserService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	queue  thumbs.Enqueuer
	logger logging.Logger
}

// NewUserService constructs a UserService. db may be nil when the
// repository manager does not need a database handle.
func NewUserService(db *sql.DB, rm repomanager.RepositoryManager, queue thumbs.Enqueuer, logger logging.Logger) *UserService {
	return &UserService{db: db, rm: rm, queue: queue, logger: logger}
}

// Register creates a new account. The password is stored only as its
// one-way digest. A taken email yields common.ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" {
		return nil, common.ErrMissingEmail
	}
	if password == "" {
		return nil, common.ErrMissingPassword
	}

	user := &models.User{
		Email:        email,
		PasswordHash: auth.HashPassword(password),
	}

	created, err := s.rm.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	// Best effort: a failed greeting must not fail the registration.
	if err := s.queue.EnqueueWelcome(ctx, created.ID); err != nil {
		s.logger.Warn(ctx, "enqueueing welcome job failed", "userId", created.ID, "error", err)
	}

	return created, nil
}

// Stats returns the total number of users and file entries.
func (s *UserService) Stats(ctx context.Context) (usersCount int64, filesCount int64, err error) {
	usersCount, err = s.rm.Users(s.db).Count(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("error counting users: %w", err)
	}

	filesCount, err = s.rm.Files(s.db).Count(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("error counting files: %w", err)
	}

	return usersCount, filesCount, nil
}
