// Package textsource reads certificate files from the local certificate
// tree. The tree layout is fixed: <root>/<tenant>/<manager>/<file>.
//
// Extraction is plain-text only. Scanned documents are expected to arrive
// already OCR'd; binary files that slip into the tree are reported as
// unreadable so the sync job can count them instead of silently skipping.
package textsource

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/analista-digital/licita-cli/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.FileTextProvider = (*Provider)(nil)

// maxFileSize bounds how much of a single file is read into memory.
const maxFileSize = 10 << 20 // 10 MiB

// Provider lists and reads certificate files from disk.
type Provider struct{}

// NewProvider creates a filesystem text provider.
func NewProvider() *Provider {
	return &Provider{}
}

// ListFiles walks the certificate tree and returns readable files,
// optionally restricted to one tenant. Hidden entries are skipped.
func (p *Provider) ListFiles(ctx context.Context, root, tenantID string) ([]driven.SourceFile, error) {
	if root == "" {
		return nil, fmt.Errorf("certificate root not configured")
	}

	var files []driven.SourceFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		// Only <tenant>/<manager>/<file> entries count; anything shallower
		// or deeper is not part of the tree contract.
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) != 3 {
			return nil
		}
		if tenantID != "" && parts[0] != tenantID {
			return nil
		}

		files = append(files, driven.SourceFile{
			Path:     path,
			TenantID: parts[0],
			Manager:  parts[1],
			Name:     parts[2],
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking certificate tree: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// ExtractText returns the plain text of one file.
func (p *Provider) ExtractText(_ context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if info.Size() > maxFileSize {
		return "", fmt.Errorf("file %s too large (%d bytes)", path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	if bytes.ContainsRune(data, 0) || !utf8.Valid(data) {
		return "", fmt.Errorf("file %s is not plain text", path)
	}

	return string(data), nil
}
