package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrFileNotFound = errors.New("file not found")
)

type FileRepository interface {
	Create(ctx context.Context, file *model.File) error
	ByID(ctx context.Context, userID, fileID string) (*model.File, error)
	Files(ctx context.Context, userID, ownerType, ownerID string) ([]*model.File, error)
	Delete(ctx context.Context, userID, fileID string) error
}

type fileRepository struct {
	db *sqlx.DB
}

func NewFileRepository(db *sqlx.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *model.File) error {
	query := `INSERT INTO files (id, user_id, owner_type, owner_id, type, filename, original_name, mime_type, size, storage_path, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		file.ID,
		file.UserID,
		file.OwnerType,
		file.OwnerID,
		file.Type,
		file.Filename,
		file.OriginalName,
		file.MimeType,
		file.Size,
		file.StoragePath,
		file.CreatedAt,
	)

	return err
}

func (r *fileRepository) ByID(ctx context.Context, userID, fileID string) (*model.File, error) {
	file := &model.File{}
	query := `SELECT * FROM files WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, file, query, fileID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}

	return file, nil
}

func (r *fileRepository) Files(ctx context.Context, userID, ownerType, ownerID string) ([]*model.File, error) {
	var files []*model.File
	query := `SELECT * FROM files WHERE user_id = $1 AND owner_type = $2 AND owner_id = $3 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &files, query, userID, ownerType, ownerID)
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (r *fileRepository) Delete(ctx context.Context, userID, fileID string) error {
	query := `DELETE FROM files WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, fileID, userID)
	if err != nil {
		return err
	}

	return expectRow(result, ErrFileNotFound)
}
