package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
)

// StorageService stages an upload under a temporary name and only moves it
// onto its final name once Promote is called, so a failed upload never
// touches a file stored earlier under the same name.
type StorageService interface {
	Stage(ctx context.Context, file io.Reader) (string, error)
	Promote(ctx context.Context, stagedPath string, filename string) error
	PathFor(filename string) string
	DeleteFile(ctx context.Context, path string) error
}

// LocalStorageService writes uploads into a single directory. A file with the
// same name replaces the previous one.
type LocalStorageService struct {
	dir string
}

const stagedPattern = ".upload-*"

func NewLocalStorageService(dir string) *LocalStorageService {
	if strings.TrimSpace(dir) == "" {
		dir = "uploads"
	}
	return &LocalStorageService{dir: dir}
}

func (s *LocalStorageService) Dir() string {
	return s.dir
}

func (s *LocalStorageService) PathFor(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

// Stage copies file into a hidden temporary file inside the upload directory,
// keeping the final rename on the same filesystem.
func (s *LocalStorageService) Stage(ctx context.Context, file io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	out, err := os.CreateTemp(s.dir, stagedPattern)
	if err != nil {
		return "", fmt.Errorf("create staged upload: %w", err)
	}
	staged := out.Name()

	if _, err := io.Copy(out, file); err != nil {
		_ = out.Close()
		_ = os.Remove(staged)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(staged)
		return "", fmt.Errorf("close upload: %w", err)
	}
	return staged, nil
}

func (s *LocalStorageService) Promote(_ context.Context, stagedPath string, filename string) error {
	if err := os.Chmod(stagedPath, 0o644); err != nil {
		return fmt.Errorf("promote upload: %w", err)
	}
	if err := os.Rename(stagedPath, s.PathFor(filename)); err != nil {
		return fmt.Errorf("promote upload: %w", err)
	}
	return nil
}

func (s *LocalStorageService) DeleteFile(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload: %w", err)
	}
	return nil
}

// SanitizeFilename reduces a client supplied name to a slug plus a lower case
// extension, dropping any directory components.
func SanitizeFilename(original string) string {
	base := filepath.Base(strings.ReplaceAll(strings.TrimSpace(original), "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}

	ext := filepath.Ext(base)
	stem := slug.Make(strings.TrimSuffix(base, ext))
	if stem == "" {
		stem = "file"
	}

	cleanExt := slug.Make(strings.TrimPrefix(ext, "."))
	if cleanExt == "" {
		return stem
	}
	return stem + "." + cleanExt
}
