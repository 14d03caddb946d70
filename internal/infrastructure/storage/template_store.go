// Package storage resolves PDF form templates on the local filesystem.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// TemplateStore locates templates in a base directory. Template names are
// relative paths such as "absa-form.pdf" and may not leave the directory.
type TemplateStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewTemplateStore creates a TemplateStore rooted at baseDir
func NewTemplateStore(baseDir string, logger *zap.Logger) *TemplateStore {
	return &TemplateStore{
		baseDir: baseDir,
		logger:  logger,
	}
}

// BaseDir returns the template directory
func (s *TemplateStore) BaseDir() string {
	return s.baseDir
}

// Resolve returns the full path of a template after checking it stays inside the base directory
func (s *TemplateStore) Resolve(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("empty template name")
	}
	// Templates are sometimes referenced with a leading slash, as in a URL path
	name = strings.TrimLeft(filepath.FromSlash(name), string(filepath.Separator))

	fullPath := filepath.Join(s.baseDir, name)
	if err := s.validatePath(fullPath); err != nil {
		return "", err
	}
	return fullPath, nil
}

// Exists reports whether the named template is present
func (s *TemplateStore) Exists(ctx context.Context, name string) (bool, error) {
	fullPath, err := s.Resolve(name)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(fullPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat template: %w", err)
	}
	return !info.IsDir(), nil
}

// List returns the names of the PDF templates in the base directory
func (s *TemplateStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// validatePath checks that the path is within baseDir
func (s *TemplateStore) validatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return fmt.Errorf("path escapes template directory: %s", fullPath)
	}
	return nil
}
