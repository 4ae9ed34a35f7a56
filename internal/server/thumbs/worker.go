package thumbs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/files"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/users"
	"github.com/dmitrijs2005/filevault/internal/server/storage"
	"github.com/hibiken/asynq"
)

// Processor holds the worker-side handlers for the queue tasks.
type Processor struct {
	files  files.Repository
	users  users.Repository
	blobs  storage.BlobStore
	logger logging.Logger
}

// NewProcessor constructs a Processor.
func NewProcessor(filesRepo files.Repository, usersRepo users.Repository, blobs storage.BlobStore, logger logging.Logger) *Processor {
	return &Processor{files: filesRepo, users: usersRepo, blobs: blobs, logger: logger}
}

// Mux returns an asynq ServeMux with all task handlers registered.
func (p *Processor) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeThumbnail, p.HandleThumbnail)
	mux.HandleFunc(TypeWelcome, p.HandleWelcome)
	return mux
}

// permanent marks an error as non-retryable for asynq.
func permanent(err error) error {
	return fmt.Errorf("%w: %w", asynq.SkipRetry, err)
}

// HandleThumbnail generates the fixed-width thumbnail set for an uploaded
// image. Validation failures (missing ids, unknown file) abort the job;
// storage failures are left retryable.
func (p *Processor) HandleThumbnail(ctx context.Context, t *asynq.Task) error {
	var payload ThumbnailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return permanent(fmt.Errorf("invalid payload: %w", err))
	}
	if payload.FileID == "" {
		return permanent(errors.New("missing fileId"))
	}
	if payload.UserID == "" {
		return permanent(errors.New("missing userId"))
	}

	file, err := p.files.GetByIDAndOwner(ctx, payload.FileID, payload.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return permanent(errors.New("file not found"))
		}
		return err
	}

	rc, err := p.blobs.Open(ctx, file.LocalPath)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return permanent(errors.New("file content not found"))
		}
		return err
	}
	defer rc.Close()

	src, err := imaging.Decode(rc)
	if err != nil {
		return permanent(fmt.Errorf("decoding image: %w", err))
	}

	for i, width := range ThumbnailWidths {
		// height 0 keeps the aspect ratio
		thumb := imaging.Resize(src, width, 0, imaging.Lanczos)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
			return permanent(fmt.Errorf("encoding %dpx thumbnail: %w", width, err))
		}

		key := ThumbnailKey(file.LocalPath, width)
		if err := p.blobs.SaveAt(ctx, key, buf.Bytes()); err != nil {
			return err
		}

		p.logger.Info(ctx, "thumbnail generated",
			"fileId", file.ID, "width", width,
			"progress", fmt.Sprintf("%d%%", (i+1)*100/len(ThumbnailWidths)))
	}

	return nil
}

// HandleWelcome greets a freshly registered user in the worker log.
func (p *Processor) HandleWelcome(ctx context.Context, t *asynq.Task) error {
	var payload WelcomePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return permanent(fmt.Errorf("invalid payload: %w", err))
	}
	if payload.UserID == "" {
		return permanent(errors.New("missing userId"))
	}

	user, err := p.users.GetByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return permanent(errors.New("user not found"))
		}
		return err
	}

	p.logger.Info(ctx, fmt.Sprintf("Welcome %s", user.Email), "userId", user.ID)
	return nil
}

// ThumbnailKey derives the blob-store key of the width-pixel thumbnail of
// the original stored under key.
func ThumbnailKey(key string, width int) string {
	return fmt.Sprintf("%s_%d", key, width)
}
