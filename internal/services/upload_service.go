package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/scafette/ProjetDev/internal/models"
)

type uploadStore interface {
	Create(ctx context.Context, file *models.UploadedFile) error
}

type UploadService struct {
	storage    StorageService
	uploadRepo uploadStore
}

type UploadInput struct {
	File       io.Reader
	Filename   string
	UploadedBy *int64
}

func NewUploadService(storage StorageService, uploadRepo uploadStore) *UploadService {
	return &UploadService{storage: storage, uploadRepo: uploadRepo}
}

func (s *UploadService) Upload(ctx context.Context, input UploadInput) (*models.UploadedFile, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	if input.File == nil {
		return nil, ErrInvalidInput
	}
	if input.UploadedBy != nil && *input.UploadedBy <= 0 {
		return nil, ErrInvalidInput
	}

	filename := SanitizeFilename(input.Filename)
	staged, err := s.storage.Stage(ctx, input.File)
	if err != nil {
		return nil, err
	}

	record := &models.UploadedFile{
		Filename:   filename,
		Filepath:   s.storage.PathFor(filename),
		UploadedBy: input.UploadedBy,
	}
	if err := s.uploadRepo.Create(ctx, record); err != nil {
		return nil, s.discard(ctx, staged, err)
	}
	if err := s.storage.Promote(ctx, staged, filename); err != nil {
		return nil, s.discard(ctx, staged, err)
	}
	return record, nil
}

// discard removes a staged file that will never be promoted. Only the staged
// copy is touched; an earlier upload under the same name stays in place.
func (s *UploadService) discard(ctx context.Context, staged string, cause error) error {
	if err := s.storage.DeleteFile(ctx, staged); err != nil {
		return errors.Join(cause, fmt.Errorf("cleanup failed: %w", err))
	}
	return cause
}
