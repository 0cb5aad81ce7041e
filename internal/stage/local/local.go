package local

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type LocalStager struct {
	basePath string
}

func NewLocalStager(basePath string) (*LocalStager, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create stage directory: %w", err)
	}
	return &LocalStager{basePath: basePath}, nil
}

// Stage writes r to a file under basePath named from prefix, the current
// time and the MIME-derived extension. The returned cleanup removes the
// file and is safe to call regardless of how the caller's workflow ends.
func (s *LocalStager) Stage(ctx context.Context, prefix, mimeType string, r io.Reader) (string, func(), error) {
	filename := fmt.Sprintf("%s_%d%s", sanitizePrefix(prefix), time.Now().UnixNano(), mimeTypeToExt(mimeType))
	filePath := filepath.Join(s.basePath, filename)

	f, err := os.Create(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create staged file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		if cerr := f.Close(); cerr != nil {
			slog.Error("failed to close staged file after write error", "error", cerr)
		}
		removeStaged(filePath)
		return "", nil, fmt.Errorf("failed to write staged file: %w", err)
	}
	if err := f.Close(); err != nil {
		removeStaged(filePath)
		return "", nil, fmt.Errorf("failed to close staged file: %w", err)
	}

	return filePath, func() { removeStaged(filePath) }, nil
}

func removeStaged(filePath string) {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		slog.Error("failed to remove staged file", "path", filePath, "error", err)
	}
}

// sanitizePrefix keeps the filename flat: the prefix comes from the request
// (customer code) and must not carry path separators or traversal sequences.
func sanitizePrefix(prefix string) string {
	var b strings.Builder
	for _, c := range prefix {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteRune(c)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "image"
	}
	return b.String()
}

func mimeTypeToExt(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
