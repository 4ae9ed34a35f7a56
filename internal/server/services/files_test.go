package services

import (
	"context"
	"encoding/base64"
	"io"
	"testing"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filevault/internal/server/storage"
	"github.com/dmitrijs2005/filevault/internal/server/thumbs"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileService(t *testing.T) (*FileService, *recordingEnqueuer) {
	t.Helper()
	rm := repomanager.NewMemoryRepositoryManager()
	queue := &recordingEnqueuer{}
	blobs := storage.NewLocalStore(t.TempDir())
	return NewFileService(nil, rm, blobs, queue, testLogger()), queue
}

func testUser() *models.User {
	return &models.User{ID: uuid.NewString(), Email: "bob@dylan.com"}
}

func encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestFileService_Upload_Folder(t *testing.T) {
	svc, queue := newFileService(t)
	user := testUser()

	created, err := svc.Upload(context.Background(), user, UploadRequest{
		Name: "images",
		Type: models.TypeFolder,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, user.ID, created.UserID)
	assert.False(t, created.ParentID.Valid)
	assert.Empty(t, created.LocalPath)
	assert.Empty(t, queue.thumbnails)
}

func TestFileService_Upload_FileContentRoundTrip(t *testing.T) {
	svc, _ := newFileService(t)
	ctx := context.Background()
	user := testUser()

	created, err := svc.Upload(ctx, user, UploadRequest{
		Name: "myText.txt",
		Type: models.TypeFile,
		Data: encode("Hello Webstack!\n"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.LocalPath)

	rc, file, err := svc.Content(ctx, user, created.ID, 0)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "Hello Webstack!\n", string(data))
	assert.Equal(t, created.ID, file.ID)
}

func TestFileService_Upload_ImageEnqueuesThumbnail(t *testing.T) {
	svc, queue := newFileService(t)
	user := testUser()

	created, err := svc.Upload(context.Background(), user, UploadRequest{
		Name: "image.png",
		Type: models.TypeImage,
		Data: encode("not-really-a-png"),
	})
	require.NoError(t, err)

	require.Len(t, queue.thumbnails, 1)
	assert.Equal(t, [2]string{user.ID, created.ID}, queue.thumbnails[0])
}

func TestFileService_Upload_Validation(t *testing.T) {
	svc, _ := newFileService(t)
	ctx := context.Background()
	user := testUser()

	_, err := svc.Upload(ctx, user, UploadRequest{Type: models.TypeFile, Data: encode("x")})
	assert.ErrorIs(t, err, common.ErrMissingName)

	_, err = svc.Upload(ctx, user, UploadRequest{Name: "a", Type: "archive", Data: encode("x")})
	assert.ErrorIs(t, err, common.ErrMissingType)

	_, err = svc.Upload(ctx, user, UploadRequest{Name: "a", Type: models.TypeFile})
	assert.ErrorIs(t, err, common.ErrMissingData)

	_, err = svc.Upload(ctx, user, UploadRequest{Name: "a", Type: models.TypeFile, Data: "%%%"})
	assert.ErrorIs(t, err, common.ErrMissingData)
}

func TestFileService_Upload_ParentChecks(t *testing.T) {
	svc, _ := newFileService(t)
	ctx := context.Background()
	user := testUser()

	// absent parent
	_, err := svc.Upload(ctx, user, UploadRequest{
		Name:     "a.txt",
		Type:     models.TypeFile,
		Data:     encode("x"),
		ParentID: uuid.NullUUID{UUID: uuid.New(), Valid: true},
	})
	assert.ErrorIs(t, err, common.ErrParentNotFound)

	// parent exists but is a plain file
	plain, err := svc.Upload(ctx, user, UploadRequest{Name: "plain.txt", Type: models.TypeFile, Data: encode("x")})
	require.NoError(t, err)

	_, err = svc.Upload(ctx, user, UploadRequest{
		Name:     "b.txt",
		Type:     models.TypeFile,
		Data:     encode("x"),
		ParentID: uuid.NullUUID{UUID: uuid.MustParse(plain.ID), Valid: true},
	})
	assert.ErrorIs(t, err, common.ErrParentNotFolder)

	// proper folder parent
	folder, err := svc.Upload(ctx, user, UploadRequest{Name: "docs", Type: models.TypeFolder})
	require.NoError(t, err)

	child, err := svc.Upload(ctx, user, UploadRequest{
		Name:     "c.txt",
		Type:     models.TypeFile,
		Data:     encode("x"),
		ParentID: uuid.NullUUID{UUID: uuid.MustParse(folder.ID), Valid: true},
	})
	require.NoError(t, err)
	assert.Equal(t, folder.ID, child.ParentID.UUID.String())
}

func TestFileService_Get_HidesOtherUsersFiles(t *testing.T) {
	svc, _ := newFileService(t)
	ctx := context.Background()
	owner := testUser()
	other := testUser()

	created, err := svc.Upload(ctx, owner, UploadRequest{Name: "secret.txt", Type: models.TypeFile, Data: encode("x")})
	require.NoError(t, err)

	got, err := svc.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.Get(ctx, other, created.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFileService_List_PaginationAndParentFilter(t *testing.T) {
	svc, _ := newFileService(t)
	ctx := context.Background()
	user := testUser()

	folder, err := svc.Upload(ctx, user, UploadRequest{Name: "docs", Type: models.TypeFolder})
	require.NoError(t, err)
	folderID := uuid.NullUUID{UUID: uuid.MustParse(folder.ID), Valid: true}

	for i := 0; i < PageSize+5; i++ {
		_, err := svc.Upload(ctx, user, UploadRequest{
			Name:     "doc.txt",
			Type:     models.TypeFile,
			Data:     encode("x"),
			ParentID: folderID,
		})
		require.NoError(t, err)
	}

	page0, err := svc.List(ctx, user, folderID, 0)
	require.NoError(t, err)
	assert.Len(t, page0, PageSize)

	page1, err := svc.List(ctx, user, folderID, 1)
	require.NoError(t, err)
	assert.Len(t, page1, 5)

	page2, err := svc.List(ctx, user, folderID, 2)
	require.NoError(t, err)
	assert.Empty(t, page2)

	// without a parent filter the folder itself is listed too
	all, err := svc.List(ctx, user, uuid.NullUUID{}, 0)
	require.NoError(t, err)
	assert.Len(t, all, PageSize)
}

func TestFileService_SetPublic(t *testing.T) {
	svc, _ := newFileService(t)
	ctx := context.Background()
	owner := testUser()
	other := testUser()

	created, err := svc.Upload(ctx, owner, UploadRequest{Name: "a.txt", Type: models.TypeFile, Data: encode("x")})
	require.NoError(t, err)
	require.False(t, created.IsPublic)

	published, err := svc.SetPublic(ctx, owner, created.ID, true)
	require.NoError(t, err)
	assert.True(t, published.IsPublic)

	_, err = svc.SetPublic(ctx, other, created.ID, false)
	assert.ErrorIs(t, err, common.ErrNotFound)

	unpublished, err := svc.SetPublic(ctx, owner, created.ID, false)
	require.NoError(t, err)
	assert.False(t, unpublished.IsPublic)
}

func TestFileService_Content_Access(t *testing.T) {
	svc, _ := newFileService(t)
	ctx := context.Background()
	owner := testUser()
	other := testUser()

	created, err := svc.Upload(ctx, owner, UploadRequest{Name: "a.txt", Type: models.TypeFile, Data: encode("hidden")})
	require.NoError(t, err)

	// private: only the owner can read, everyone else sees an absent file
	_, _, err = svc.Content(ctx, other, created.ID, 0)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, _, err = svc.Content(ctx, nil, created.ID, 0)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// public: anonymous reads succeed
	_, err = svc.SetPublic(ctx, owner, created.ID, true)
	require.NoError(t, err)

	rc, _, err := svc.Content(ctx, nil, created.ID, 0)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "hidden", string(data))
}

func TestFileService_Content_Folder(t *testing.T) {
	svc, _ := newFileService(t)
	ctx := context.Background()
	user := testUser()

	folder, err := svc.Upload(ctx, user, UploadRequest{Name: "docs", Type: models.TypeFolder})
	require.NoError(t, err)

	_, _, err = svc.Content(ctx, user, folder.ID, 0)
	assert.ErrorIs(t, err, common.ErrNotReadable)
}

func TestFileService_Content_ThumbnailSize(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	blobs := storage.NewLocalStore(t.TempDir())
	svc := NewFileService(nil, rm, blobs, thumbs.NoopEnqueuer{}, testLogger())
	ctx := context.Background()
	user := testUser()

	created, err := svc.Upload(ctx, user, UploadRequest{Name: "image.png", Type: models.TypeImage, Data: encode("original")})
	require.NoError(t, err)

	// thumbnail not generated yet
	_, _, err = svc.Content(ctx, user, created.ID, 250)
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, blobs.SaveAt(ctx, thumbs.ThumbnailKey(created.LocalPath, 250), []byte("small")))

	rc, _, err := svc.Content(ctx, user, created.ID, 250)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "small", string(data))

	// an unknown size serves the original
	rc, _, err = svc.Content(ctx, user, created.ID, 300)
	require.NoError(t, err)
	data, err = io.ReadAll(rc)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "original", string(data))
}
