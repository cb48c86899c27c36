package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrBackupTooLarge is returned for files above the source's size limit.
var ErrBackupTooLarge = errors.New("backup file is too large")

const defaultMaxBackupSize = 64 << 20

// LocalSource reads backup files from disk. Relative paths resolve against
// BaseDir.
type LocalSource struct {
	BaseDir string
	MaxSize int64
}

func NewLocalSource(baseDir string) *LocalSource {
	if baseDir == "" {
		baseDir = "."
	}
	return &LocalSource{BaseDir: baseDir, MaxSize: defaultMaxBackupSize}
}

func (s *LocalSource) Open(ctx context.Context, sourcePath string) (io.ReadCloser, error) {
	_ = ctx

	file, err := os.Open(s.resolve(sourcePath))
	if err != nil {
		return nil, fmt.Errorf("open backup %s: %w", sourcePath, err)
	}
	return file, nil
}

// ReadBackup returns the whole file together with its base name, which is
// what an upload would carry as its filename.
func (s *LocalSource) ReadBackup(ctx context.Context, sourcePath string) ([]byte, string, error) {
	rc, err := s.Open(ctx, sourcePath)
	if err != nil {
		return nil, "", err
	}
	defer rc.Close()

	limit := s.MaxSize
	if limit <= 0 {
		limit = defaultMaxBackupSize
	}
	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, "", fmt.Errorf("read backup %s: %w", sourcePath, err)
	}
	if int64(len(data)) > limit {
		return nil, "", fmt.Errorf("%w: %s", ErrBackupTooLarge, sourcePath)
	}
	return data, filepath.Base(sourcePath), nil
}

func (s *LocalSource) resolve(sourcePath string) string {
	if filepath.IsAbs(sourcePath) {
		return sourcePath
	}
	return filepath.Join(s.BaseDir, sourcePath)
}
