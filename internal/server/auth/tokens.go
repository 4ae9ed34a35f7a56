package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/users"
	"github.com/dmitrijs2005/filevault/internal/server/sessions"
	"github.com/google/uuid"
)

// tokenKeyPrefix isolates session keys from any other namespace sharing the
// credential store.
const tokenKeyPrefix = "auth_"

// TokenKey derives the credential store key for a token value.
func TokenKey(token string) string {
	return tokenKeyPrefix + token
}

// TokenService issues, resolves, and revokes opaque session tokens backed by
// the credential store. Tokens expire after the configured validity and a
// revoked or expired token is indistinguishable from one that never existed.
type TokenService struct {
	store    sessions.Store
	users    users.Repository
	validity time.Duration
}

// NewTokenService constructs a TokenService.
func NewTokenService(store sessions.Store, usersRepo users.Repository, validity time.Duration) *TokenService {
	return &TokenService{store: store, users: usersRepo, validity: validity}
}

// Issue generates an unguessable opaque token for the user and stores the
// token-to-user mapping with the configured TTL. No collision check is
// performed: a v4 uuid carries 122 random bits.
func (s *TokenService) Issue(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()

	if err := s.store.Set(ctx, TokenKey(token), userID, s.validity); err != nil {
		return "", fmt.Errorf("error storing token: %w", err)
	}

	return token, nil
}

// Resolve maps a token back to its user. It returns the user and the
// credential store key the token lives under (needed by revocation). An
// absent or expired mapping, or a mapping to a user that no longer exists,
// yields common.ErrUnauthorized.
func (s *TokenService) Resolve(ctx context.Context, token string) (*models.User, string, error) {
	if token == "" {
		return nil, "", common.ErrUnauthorized
	}

	key := TokenKey(token)

	userID, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrUnauthorized
		}
		return nil, "", common.ErrInternal
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrUnauthorized
		}
		return nil, "", common.ErrInternal
	}

	return user, key, nil
}

// Revoke deletes the token mapping. Revoking an absent token is not an
// error.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	return s.store.Del(ctx, TokenKey(token))
}

// AuthenticateBasic resolves an HTTP Basic authorization header to a user.
// Parse failures, unknown emails, and wrong passwords all collapse to the
// same common.ErrUnauthorized.
func (s *TokenService) AuthenticateBasic(ctx context.Context, header string) (*models.User, error) {
	creds, err := ParseBasicAuth(header)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	user, err := s.users.FindByCredentials(ctx, creds.Email, HashPassword(creds.Password))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}

	return user, nil
}
