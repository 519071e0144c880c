// Package mediapostgres keeps the media index in Postgres
package mediapostgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/UnendingLoop/Imagen/internal/model"
	"github.com/wb-go/wbf/dbpg"
)

type PostgresRepo struct {
	DB *dbpg.DB
}

func (p PostgresRepo) Create(ctx context.Context, e *model.MediaEntry) error {
	query := `INSERT INTO media_entries (entry_uid, file_key, thumb_key, location, mime_type, width, height, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (file_key) DO NOTHING`
	_, err := p.DB.Master.ExecContext(ctx, query, e.UID, e.FileKey, e.ThumbKey, e.Location, e.MimeType, e.Width, e.Height, e.CreatedAt)
	return err
}

func (p PostgresRepo) Get(ctx context.Context, id string) (*model.MediaEntry, error) {
	query := `SELECT entry_uid, file_key, thumb_key, location, mime_type, width, height, created_at 
	FROM media_entries 
	WHERE entry_uid = $1`
	return p.scanOne(ctx, query, id)
}

func (p PostgresRepo) GetByFileKey(ctx context.Context, key string) (*model.MediaEntry, error) {
	query := `SELECT entry_uid, file_key, thumb_key, location, mime_type, width, height, created_at 
	FROM media_entries 
	WHERE file_key = $1`
	return p.scanOne(ctx, query, key)
}

func (p PostgresRepo) scanOne(ctx context.Context, query string, arg any) (*model.MediaEntry, error) {
	var e model.MediaEntry

	err := p.DB.QueryRowContext(ctx, query, arg).Scan(&e.UID,
		&e.FileKey,
		&e.ThumbKey,
		&e.Location,
		&e.MimeType,
		&e.Width,
		&e.Height,
		&e.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, model.ErrImageNotFound
		default:
			return nil, err // 500
		}
	}
	return &e, nil
}

// GetList - req должен быть уже провалидирован: Sort и Order подставляются в запрос как есть
func (p PostgresRepo) GetList(ctx context.Context, req *model.ListRequest) ([]model.MediaEntry, error) {
	query := fmt.Sprintf(`SELECT entry_uid, location, mime_type, width, height, created_at 
	FROM media_entries
	ORDER BY %s %s 
	LIMIT $1 
	OFFSET $2`, req.Sort, req.Order)

	offset := (req.Page - 1) * req.Limit

	rows, err := p.DB.QueryContext(ctx, query, req.Limit, offset)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("Error while closing *sql.Rows after scanning: %v", err)
		}
	}()

	entries := make([]model.MediaEntry, 0, req.Limit)
	for rows.Next() {
		var e model.MediaEntry
		if err := rows.Scan(&e.UID,
			&e.Location,
			&e.MimeType,
			&e.Width,
			&e.Height,
			&e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return entries, nil
}

func (p PostgresRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM media_entries
	WHERE entry_uid = $1`

	res, err := p.DB.Master.ExecContext(ctx, query, id)
	if err != nil {
		return err // 500
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrImageNotFound // 404
	}
	return nil
}
