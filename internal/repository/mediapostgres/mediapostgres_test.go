package mediapostgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/UnendingLoop/Imagen/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/dbpg"
)

func newRepoWithMock(t *testing.T) (PostgresRepo, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	pg := &dbpg.DB{Master: db}

	repo := PostgresRepo{DB: pg}

	return repo, mock
}

var entryColumns = []string{
	"entry_uid", "file_key", "thumb_key", "location",
	"mime_type", "width", "height", "created_at",
}

// CREATE - SUCCESS
func TestPostgresRepo_Create_OK(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	ctime := time.Now()
	e := &model.MediaEntry{
		UID:       uuid.New(),
		FileKey:   "Imagen_1.jpg",
		ThumbKey:  "thumbs/Imagen_1.jpg",
		Location:  "file:///Pictures/Imagen_1.jpg",
		MimeType:  model.JPEG,
		Width:     100,
		Height:    50,
		CreatedAt: &ctime,
	}

	mock.ExpectExec(`INSERT INTO media_entries`).
		WithArgs(e.UID, e.FileKey, e.ThumbKey, e.Location, e.MimeType, e.Width, e.Height, e.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), e))
	require.NoError(t, mock.ExpectationsWereMet())
}

// CREATE - DBERROR
func TestPostgresRepo_Create_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT INTO media_entries`).
		WillReturnError(errors.New("db down"))

	require.Error(t, repo.Create(context.Background(), &model.MediaEntry{}))
}

// CREATE - соединение возвращается в пул, даже если запись уже есть
func TestPostgresRepo_Create_ReleasesConnection(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)

	repo := PostgresRepo{DB: &dbpg.DB{Master: db}}

	mock.ExpectExec(`INSERT INTO media_entries`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO media_entries`).WillReturnResult(sqlmock.NewResult(0, 0)) // ON CONFLICT DO NOTHING

	for i := 0; i < 2; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		require.NoError(t, repo.Create(ctx, &model.MediaEntry{UID: uuid.New(), FileKey: "Imagen_1.jpg"}))
		cancel()
		require.Zero(t, db.Stats().InUse)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

// GET - SUCCESS
func TestPostgresRepo_Get_OK(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	id := uuid.New()
	rows := sqlmock.NewRows(entryColumns).
		AddRow(id.String(), "Imagen_1.jpg", "thumbs/Imagen_1.jpg", "file:///p", model.JPEG, 100, 50, time.Now())

	mock.ExpectQuery(`SELECT entry_uid`).
		WithArgs(id.String()).
		WillReturnRows(rows)

	e, err := repo.Get(context.Background(), id.String())
	require.NoError(t, err)
	require.Equal(t, id, e.UID)
	require.Equal(t, "thumbs/Imagen_1.jpg", e.ThumbKey)
	require.Equal(t, 100, e.Width)
}

// GET - NOT FOUND
func TestPostgresRepo_Get_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT entry_uid`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), uuid.New().String())
	require.ErrorIs(t, err, model.ErrImageNotFound)
}

// GETBYFILEKEY - SUCCESS
func TestPostgresRepo_GetByFileKey_OK(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows(entryColumns).
		AddRow(uuid.New().String(), "Imagen_7.jpg", "thumbs/Imagen_7.jpg", "file:///p", model.JPEG, 10, 10, time.Now())

	mock.ExpectQuery(`WHERE file_key = \$1`).
		WithArgs("Imagen_7.jpg").
		WillReturnRows(rows)

	e, err := repo.GetByFileKey(context.Background(), "Imagen_7.jpg")
	require.NoError(t, err)
	require.Equal(t, "Imagen_7.jpg", e.FileKey)
}

// GETLIST - SUCCESS
func TestPostgresRepo_GetList_OK(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	req := &model.ListRequest{
		Page:  2,
		Limit: 2,
		Sort:  "created_at",
		Order: "DESC",
	}

	rows := sqlmock.NewRows([]string{
		"entry_uid", "location", "mime_type", "width", "height", "created_at",
	}).
		AddRow(uuid.New().String(), "file:///a", model.JPEG, 100, 50, time.Now()).
		AddRow(uuid.New().String(), "file:///b", model.JPEG, 50, 50, time.Now())

	mock.ExpectQuery(`ORDER BY created_at DESC`).
		WithArgs(2, 2).
		WillReturnRows(rows)

	res, err := repo.GetList(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res, 2)
	require.Equal(t, "file:///b", res[1].Location)
}

// GETLIST - DBERROR
func TestPostgresRepo_GetList_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT entry_uid`).
		WillReturnError(errors.New("db down"))

	_, err := repo.GetList(context.Background(), &model.ListRequest{Page: 1, Limit: 10, Sort: "uid", Order: "ASC"})
	require.Error(t, err)
}

// DELETE - SUCCESS
func TestPostgresRepo_Delete_OK(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`DELETE FROM media_entries`).
		WithArgs("id").
		WillReturnResult(sqlmock.NewResult(0, 1)) // 1 row affected

	require.NoError(t, repo.Delete(context.Background(), "id"))
}

// DELETE - NOT FOUND
func TestPostgresRepo_Delete_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`DELETE FROM media_entries`).
		WithArgs("id").
		WillReturnResult(sqlmock.NewResult(0, 0)) // 0 rows affected

	err := repo.Delete(context.Background(), "id")
	require.ErrorIs(t, err, model.ErrImageNotFound)
}

// DELETE - DBERROR
func TestPostgresRepo_Delete_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`DELETE FROM media_entries`).
		WithArgs("id").
		WillReturnError(errors.New("db down"))

	require.Error(t, repo.Delete(context.Background(), "id"))
}
