package files

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository used in tests.
type MemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]*models.File
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*models.File)}
}

func (r *MemoryRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f := *file
	f.ID = uuid.NewString()
	f.CreatedAt = time.Now()
	r.byID[f.ID] = &f

	copied := f
	return &copied, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *f
	return &copied, nil
}

func (r *MemoryRepository) GetByIDAndOwner(ctx context.Context, id string, userID string) (*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byID[id]
	if !ok || f.UserID != userID {
		return nil, common.ErrNotFound
	}
	copied := *f
	return &copied, nil
}

func (r *MemoryRepository) ListByOwner(ctx context.Context, userID string, parentID uuid.NullUUID, offset, limit int) ([]*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []*models.File{}
	for _, f := range r.byID {
		if f.UserID != userID {
			continue
		}
		if parentID.Valid && f.ParentID != parentID {
			continue
		}
		copied := *f
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return []*models.File{}, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *MemoryRepository) SetPublic(ctx context.Context, id string, userID string, isPublic bool) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.byID[id]
	if !ok || f.UserID != userID {
		return nil, common.ErrNotFound
	}
	f.IsPublic = isPublic
	copied := *f
	return &copied, nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}
