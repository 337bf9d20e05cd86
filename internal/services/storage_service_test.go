package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scafette/ProjetDev/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"Progress Photo.JPG":     "progress-photo.jpg",
		"../../etc/passwd":       "passwd",
		`C:\Users\me\Résumé.PDF`: "resume.pdf",
		"":                       "file",
		"   .png":                "file.png",
		"Leg Day":                "leg-day",
	}

	for input, want := range cases {
		assert.Equal(t, want, SanitizeFilename(input), "input %q", input)
	}
}

func TestLocalStoragePromoteOverwritesSameName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	storage := NewLocalStorageService(dir)
	ctx := context.Background()

	for _, body := range []string{"first", "second"} {
		staged, err := storage.Stage(ctx, strings.NewReader(body))
		require.NoError(t, err)
		require.NoError(t, storage.Promote(ctx, staged, "photo.jpg"))
	}

	content, err := os.ReadFile(storage.PathFor("photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))
	assertOnlyFiles(t, dir, "photo.jpg")

	require.NoError(t, storage.DeleteFile(ctx, storage.PathFor("photo.jpg")))
	require.NoError(t, storage.DeleteFile(ctx, storage.PathFor("photo.jpg")), "deleting a missing file is not an error")
}

func assertOnlyFiles(t *testing.T, dir string, names ...string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	found := make([]string, 0, len(entries))
	for _, entry := range entries {
		found = append(found, entry.Name())
	}
	assert.ElementsMatch(t, names, found)
}

func TestLocalStorageDefaultsDirectory(t *testing.T) {
	assert.Equal(t, "uploads", NewLocalStorageService(" ").Dir())
}

type fakeUploadStore struct {
	err     error
	created *models.UploadedFile
}

func (s *fakeUploadStore) Create(_ context.Context, file *models.UploadedFile) error {
	if s.err != nil {
		return s.err
	}
	file.ID = 1
	s.created = file
	return nil
}

func TestUploadRecordsMetadata(t *testing.T) {
	storage := NewLocalStorageService(t.TempDir())
	store := &fakeUploadStore{}
	uploader := int64(3)

	file, err := NewUploadService(storage, store).Upload(context.Background(), UploadInput{
		File:       strings.NewReader("csv"),
		Filename:   "Weekly Plan.CSV",
		UploadedBy: &uploader,
	})
	require.NoError(t, err)
	assert.Equal(t, "weekly-plan.csv", file.Filename)
	assert.Equal(t, filepath.Join(storage.Dir(), "weekly-plan.csv"), file.Filepath)
	assert.Same(t, file, store.created)
}

func TestUploadRemovesStagedFileWhenRecordFails(t *testing.T) {
	storage := NewLocalStorageService(t.TempDir())
	store := &fakeUploadStore{err: errors.New("insert failed")}

	_, err := NewUploadService(storage, store).Upload(context.Background(), UploadInput{
		File:     strings.NewReader("data"),
		Filename: "orphan.txt",
	})
	require.Error(t, err)
	assertOnlyFiles(t, storage.Dir())
}

func TestFailedReuploadKeepsEarlierFile(t *testing.T) {
	storage := NewLocalStorageService(t.TempDir())
	store := &fakeUploadStore{}
	service := NewUploadService(storage, store)

	first, err := service.Upload(context.Background(), UploadInput{File: strings.NewReader("original"), Filename: "photo.jpg"})
	require.NoError(t, err)

	store.err = errors.New("insert or update on table \"uploaded_files\" violates foreign key constraint")
	unknownUser := int64(404)
	_, err = service.Upload(context.Background(), UploadInput{File: strings.NewReader("replacement"), Filename: "photo.jpg", UploadedBy: &unknownUser})
	require.Error(t, err)

	content, err := os.ReadFile(first.Filepath)
	require.NoError(t, err)
	assert.Equal(t, "original", string(content))
	assertOnlyFiles(t, storage.Dir(), "photo.jpg")
}

func TestUploadValidatesInput(t *testing.T) {
	service := NewUploadService(NewLocalStorageService(t.TempDir()), &fakeUploadStore{})
	badUploader := int64(-1)

	_, err := service.Upload(context.Background(), UploadInput{Filename: "a.txt"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Upload(context.Background(), UploadInput{File: strings.NewReader("x"), Filename: "a.txt", UploadedBy: &badUploader})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewUploadService(nil, &fakeUploadStore{}).Upload(context.Background(), UploadInput{File: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
