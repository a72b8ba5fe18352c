package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/storage"
	"github.com/fintrack/fintrack/internal/validation"
	"github.com/google/uuid"
)

// FileService manages receipt attachments on expenses. A nil storage means
// receipts are disabled and every call returns storage.ErrStorageDisabled.
type FileService struct {
	fileRepo    repository.FileRepository
	expenseRepo repository.ExpenseRepository
	storage     storage.Storage
	now         func() time.Time
}

func NewFileService(fileRepo repository.FileRepository, expenseRepo repository.ExpenseRepository, store storage.Storage) *FileService {
	return &FileService{
		fileRepo:    fileRepo,
		expenseRepo: expenseRepo,
		storage:     store,
		now:         time.Now,
	}
}

func (s *FileService) Enabled() bool {
	return s.storage != nil
}

// UploadReceipt validates the upload, stores it and records it against an
// owned expense.
func (s *FileService) UploadReceipt(ctx context.Context, userID, expenseID string, file multipart.File, header *multipart.FileHeader) (*model.File, error) {
	if !s.Enabled() {
		return nil, storage.ErrStorageDisabled
	}

	_, err := s.expenseRepo.ByID(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}

	mimeType, err := validation.ValidateFile(header, validation.ReceiptConstraints)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	filename := uuid.New().String() + ext
	storagePath := path.Join("receipts", userID, filename)

	err = s.storage.Save(ctx, storagePath, mimeType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	receipt := &model.File{
		ID:           uuid.New().String(),
		UserID:       userID,
		OwnerType:    model.OwnerTypeExpense,
		OwnerID:      expenseID,
		Type:         model.FileTypeReceipt,
		Filename:     filename,
		OriginalName: filepath.Base(header.Filename),
		MimeType:     mimeType,
		Size:         header.Size,
		StoragePath:  storagePath,
		CreatedAt:    s.now().UTC(),
	}

	err = s.fileRepo.Create(ctx, receipt)
	if err != nil {
		delErr := s.storage.Delete(ctx, storagePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	receipt.URL = s.url(ctx, receipt)
	return receipt, nil
}

func (s *FileService) Receipts(ctx context.Context, userID, expenseID string) ([]*model.File, error) {
	if !s.Enabled() {
		return nil, storage.ErrStorageDisabled
	}

	_, err := s.expenseRepo.ByID(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}

	files, err := s.fileRepo.Files(ctx, userID, model.OwnerTypeExpense, expenseID)
	if err != nil {
		return nil, err
	}

	for _, f := range files {
		f.URL = s.url(ctx, f)
	}
	return files, nil
}

// DeleteReceipt removes the record and, best effort, the stored object.
func (s *FileService) DeleteReceipt(ctx context.Context, userID, expenseID, fileID string) error {
	if !s.Enabled() {
		return storage.ErrStorageDisabled
	}

	file, err := s.fileRepo.ByID(ctx, userID, fileID)
	if err != nil {
		return err
	}
	if file.OwnerType != model.OwnerTypeExpense || file.OwnerID != expenseID {
		return repository.ErrFileNotFound
	}

	err = s.fileRepo.Delete(ctx, userID, fileID)
	if err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	err = s.storage.Delete(ctx, file.StoragePath)
	if err != nil {
		slog.Error("failed to delete file from storage", "error", err, "path", file.StoragePath)
	}

	return nil
}

func (s *FileService) url(ctx context.Context, f *model.File) string {
	url, err := s.storage.PresignedURL(ctx, f.StoragePath)
	if err != nil {
		slog.Warn("failed to presign receipt url", "error", err, "file_id", f.ID)
		return ""
	}
	return url
}

// IsStorageDisabled reports whether err means receipts are switched off.
func IsStorageDisabled(err error) bool {
	return errors.Is(err, storage.ErrStorageDisabled)
}
