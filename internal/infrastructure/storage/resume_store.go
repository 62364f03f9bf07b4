package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/nexus/jobboard/domain"
)

// ResumeDir is the subdirectory of the media root holding resumes.
const ResumeDir = "resumes"

// LocalResumeStore implements domain.ResumeStore on the local filesystem
type LocalResumeStore struct {
	root     string
	maxBytes int64
}

// NewLocalResumeStore stores resumes under root/resumes, rejecting files over maxBytes.
func NewLocalResumeStore(root string, maxBytes int64) domain.ResumeStore {
	return &LocalResumeStore{root: root, maxBytes: maxBytes}
}

// Save implements domain.ResumeStore. The returned path is relative to the media root.
func (s *LocalResumeStore) Save(ctx context.Context, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read resume: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidResume, s.maxBytes)
	}
	if !mimetype.Detect(data).Is("application/pdf") {
		return "", fmt.Errorf("%w: only PDF files are accepted", domain.ErrInvalidResume)
	}

	dir := filepath.Join(s.root, ResumeDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create resume dir: %w", err)
	}
	rel := filepath.Join(ResumeDir, uuid.NewString()+".pdf")
	if err := os.WriteFile(filepath.Join(s.root, rel), data, 0o644); err != nil {
		return "", fmt.Errorf("write resume: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

// Delete implements domain.ResumeStore. Missing files are ignored.
func (s *LocalResumeStore) Delete(_ context.Context, path string) error {
	if path == "" {
		return nil
	}
	full := filepath.Join(s.root, filepath.Clean("/"+filepath.FromSlash(path)))
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
