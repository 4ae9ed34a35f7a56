package files

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func fileRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "name", "type", "is_public", "parent_id", "local_path", "created_at"})
}

func TestCreate_ReturnsGeneratedFields(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	parent := uuid.NullUUID{UUID: uuid.New(), Valid: true}
	mock.ExpectQuery(`INSERT INTO files`).
		WithArgs("u1", "notes.txt", models.TypeFile, false, parent, "/tmp/files_manager/abc").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("f1", now))

	f, err := repo.Create(context.Background(), &models.File{
		UserID:    "u1",
		Name:      "notes.txt",
		Type:      models.TypeFile,
		ParentID:  parent,
		LocalPath: "/tmp/files_manager/abc",
	})
	require.NoError(t, err)
	assert.Equal(t, "f1", f.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDAndOwner_FiltersOnOwner(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM files WHERE id = \$1 AND user_id = \$2`).
		WithArgs("f1", "intruder").
		WillReturnRows(fileRows())

	_, err := repo.GetByIDAndOwner(context.Background(), "f1", "intruder")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestListByOwner_WithParentFilter(t *testing.T) {
	repo, mock := newMockRepo(t)

	parent := uuid.NullUUID{UUID: uuid.New(), Valid: true}
	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM files WHERE user_id = \$1 AND parent_id = \$2`).
		WithArgs("u1", parent).
		WillReturnRows(fileRows().
			AddRow("f1", "u1", "a.txt", models.TypeFile, false, parent, "p1", now).
			AddRow("f2", "u1", "b.txt", models.TypeFile, true, parent, "p2", now))

	got, err := repo.ListByOwner(context.Background(), "u1", parent, 0, 20)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a.txt", got[0].Name)
}

func TestListByOwner_NoParentReturnsAll(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM files WHERE user_id = \$1 ORDER BY`).
		WithArgs("u1").
		WillReturnRows(fileRows())

	got, err := repo.ListByOwner(context.Background(), "u1", uuid.NullUUID{}, 0, 20)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSetPublic_NotOwned(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`UPDATE files SET is_public`).
		WithArgs("f1", "intruder", true).
		WillReturnRows(fileRows())

	_, err := repo.SetPublic(context.Background(), "f1", "intruder", true)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSetPublic_Success(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery(`UPDATE files SET is_public`).
		WithArgs("f1", "u1", true).
		WillReturnRows(fileRows().
			AddRow("f1", "u1", "a.txt", models.TypeFile, true, uuid.NullUUID{}, "p1", now))

	f, err := repo.SetPublic(context.Background(), "f1", "u1", true)
	require.NoError(t, err)
	assert.True(t, f.IsPublic)
}
