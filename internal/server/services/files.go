package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/access"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	filesrepo "github.com/dmitrijs2005/filevault/internal/server/repositories/files"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filevault/internal/server/storage"
	"github.com/dmitrijs2005/filevault/internal/server/thumbs"
	"github.com/google/uuid"
)

// PageSize is the number of entries per page returned by List.
const PageSize = 20

// UploadRequest carries a validated-by-shape upload. Data is the base64
// content and is ignored for folders.
type UploadRequest struct {
	Name     string
	Type     string
	ParentID uuid.NullUUID
	IsPublic bool
	Data     string
}

// FileService implements file entry operations: upload with hierarchy
// validation, metadata reads, listing, visibility toggling, and content
// access guarded by the authorization policy.
type FileService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	blobs  storage.BlobStore
	queue  thumbs.Enqueuer
	logger logging.Logger
}

// NewFileService constructs a FileService. db may be nil when the
// repository manager does not need a database handle.
func NewFileService(db *sql.DB, rm repomanager.RepositoryManager, blobs storage.BlobStore, queue thumbs.Enqueuer, logger logging.Logger) *FileService {
	return &FileService{db: db, rm: rm, blobs: blobs, queue: queue, logger: logger}
}

// withTx runs fn inside a database transaction when a database is present,
// and directly otherwise (in-memory repositories ignore the handle).
func (s *FileService) withTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return dbx.WithTx(ctx, s.db, nil, fn)
}

// ValidateParent checks a declared parent reference. The zero NullUUID is
// the root: no parent, trivially valid. Otherwise the referenced entry must
// exist (common.ErrParentNotFound) and be a folder
// (common.ErrParentNotFolder).
func (s *FileService) ValidateParent(ctx context.Context, parentID uuid.NullUUID) (*models.File, error) {
	return validateParent(ctx, s.rm.Files(s.db), parentID)
}

func validateParent(ctx context.Context, repo filesrepo.Repository, parentID uuid.NullUUID) (*models.File, error) {
	if !parentID.Valid {
		return nil, nil
	}

	parent, err := repo.GetByID(ctx, parentID.UUID.String())
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrParentNotFound
		}
		return nil, fmt.Errorf("error loading parent: %w", err)
	}

	if !parent.IsFolder() {
		return nil, common.ErrParentNotFolder
	}

	return parent, nil
}

// Upload validates the request, persists the content for non-folders, and
// creates the entry. Image uploads additionally enqueue thumbnail
// generation; the HTTP response never waits for it.
func (s *FileService) Upload(ctx context.Context, user *models.User, req UploadRequest) (*models.File, error) {
	if req.Name == "" {
		return nil, common.ErrMissingName
	}
	if !models.ValidType(req.Type) {
		return nil, common.ErrMissingType
	}

	file := &models.File{
		UserID:   user.ID,
		Name:     req.Name,
		Type:     req.Type,
		IsPublic: req.IsPublic,
		ParentID: req.ParentID,
	}

	if req.Type != models.TypeFolder {
		if req.Data == "" {
			return nil, common.ErrMissingData
		}
		data, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			return nil, common.ErrMissingData
		}

		key, err := s.blobs.Save(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("error storing content: %w", err)
		}
		file.LocalPath = key
	}

	var created *models.File
	err := s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Files(tx)

		if _, err := validateParent(ctx, repo, req.ParentID); err != nil {
			return err
		}

		var err error
		created, err = repo.Create(ctx, file)
		if err != nil {
			return fmt.Errorf("error creating file: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created.Type == models.TypeImage {
		if err := s.queue.EnqueueThumbnail(ctx, created.UserID, created.ID); err != nil {
			// the upload is already persisted; thumbnails can be regenerated
			s.logger.Warn(ctx, "enqueueing thumbnail job failed", "fileId", created.ID, "error", err)
		}
	}

	return created, nil
}

// Get returns the metadata of the requester's own entry. Entries of other
// users are reported as absent.
func (s *FileService) Get(ctx context.Context, user *models.User, id string) (*models.File, error) {
	return s.rm.Files(s.db).GetByIDAndOwner(ctx, id, user.ID)
}

// List returns one page of the requester's entries, optionally restricted
// to the children of one folder.
func (s *FileService) List(ctx context.Context, user *models.User, parentID uuid.NullUUID, page int) ([]*models.File, error) {
	if page < 0 {
		page = 0
	}
	return s.rm.Files(s.db).ListByOwner(ctx, user.ID, parentID, page*PageSize, PageSize)
}

// SetPublic toggles the visibility of the requester's own entry. The update
// filters on (id, owner) in one statement, so a non-owner observes the same
// common.ErrNotFound as for an absent id.
func (s *FileService) SetPublic(ctx context.Context, user *models.User, id string, isPublic bool) (*models.File, error) {
	return s.rm.Files(s.db).SetPublic(ctx, id, user.ID, isPublic)
}

// Content opens the byte content of an entry for reading. user may be nil
// (anonymous). Inaccessible and absent entries are indistinguishable: both
// yield common.ErrNotFound. Folders yield common.ErrNotReadable. When size
// matches one of the generated thumbnail widths the thumbnail is served
// instead of the original.
func (s *FileService) Content(ctx context.Context, user *models.User, id string, size int) (io.ReadCloser, *models.File, error) {
	file, err := s.rm.Files(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.ErrNotFound
		}
		return nil, nil, fmt.Errorf("error loading file: %w", err)
	}

	if !access.CanAccess(user, file, access.OpRead) {
		// hide existence from unauthorized requesters
		return nil, nil, common.ErrNotFound
	}

	if file.IsFolder() {
		return nil, nil, common.ErrNotReadable
	}

	key := file.LocalPath
	if slices.Contains(thumbs.ThumbnailWidths, size) {
		key = thumbs.ThumbnailKey(key, size)
	}

	rc, err := s.blobs.Open(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.ErrNotFound
		}
		return nil, nil, fmt.Errorf("error opening content: %w", err)
	}

	return rc, file, nil
}
