package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/iwvelando/brewery-planner/pkg/constants"
	"go.uber.org/zap"
)

// fileMode is the permission of a newly created store file.
const fileMode fs.FileMode = 0o644

// DefaultPath returns the store location under the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, constants.DefaultStoreDir, constants.DefaultStoreFile), nil
}

// LoadFile reads the store at path. A missing file is not an error and, like
// an unreadable one, yields the default store.
func LoadFile(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug(fmt.Sprintf("store %s does not exist, starting from defaults", path),
				zap.String("op", "store.LoadFile"),
			)
		} else {
			logger.Warn(fmt.Sprintf("failed to read store %s, starting from defaults", path),
				zap.String("op", "store.LoadFile"),
				zap.Error(err),
			)
		}
		return New(logger)
	}
	return Load(data, logger)
}

// SaveFile atomically replaces the document at path: it writes a temporary
// file in the same directory, syncs it, and renames it over path. The
// temporary file is removed on failure, and the parent directory is created
// when missing. An existing file keeps its permissions.
func (s *Store) SaveFile(path string) (err error) {
	data, err := s.Marshal()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary store file: %w", err)
	}
	tmpName := tmp.Name()
	closed := false
	defer func() {
		if err == nil {
			return
		}
		if !closed {
			_ = tmp.Close()
		}
		_ = os.Remove(tmpName)
	}()

	mode := fileMode
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}
	if err = tmp.Chmod(mode); err != nil {
		return fmt.Errorf("failed to set store file mode: %w", err)
	}
	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temporary store file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temporary store file: %w", err)
	}
	closed = true
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary store file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace store %s: %w", path, err)
	}

	s.logger.Debug(fmt.Sprintf("saved %d scenarios to %s", s.Len(), path),
		zap.String("op", "store.SaveFile"),
	)
	return nil
}
