package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// AtomicWriteFile replaces the generated module at path in one rename, so
// an editor or bundler watching the output never reads a half-written file.
// Missing output directories are created. A file that already exists keeps
// its mode; a new one gets perm.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}
	if info, statErr := os.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}

	staged, err := os.CreateTemp(dir, "."+filepath.Base(path)+".oapigen-*")
	if err != nil {
		return fmt.Errorf("stage %s: %w", path, err)
	}
	stagedPath := staged.Name()
	defer func() {
		if err != nil {
			os.Remove(stagedPath)
		}
	}()

	if _, err = staged.Write(data); err != nil {
		staged.Close()
		return fmt.Errorf("stage %s: %w", path, err)
	}
	if err = staged.Close(); err != nil {
		return fmt.Errorf("stage %s: %w", path, err)
	}
	if err = os.Chmod(stagedPath, perm); err != nil {
		return fmt.Errorf("set mode on %s: %w", path, err)
	}
	if err = os.Rename(stagedPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
