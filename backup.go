package ankitab

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
)

const backupTimeLayout = "2006-01-02-15.04.05"

// Backup copies the store into dir under a timestamped name and returns
// the path of the copy. An empty dir defaults to a "backups" directory
// next to the store. The copy is written atomically; a half-written
// backup never survives.
func (c *Collection) Backup(dir string) (string, error) {
	if dir == "" {
		dir = filepath.Join(filepath.Dir(c.path), "backups")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &BackupError{Path: dir, Err: err}
	}

	name := fmt.Sprintf("backup-%s-%s",
		time.Now().Format(backupTimeLayout), filepath.Base(c.path))
	dest := filepath.Join(dir, name)

	src, err := os.Open(c.path)
	if err != nil {
		return "", &BackupError{Path: dest, Err: err}
	}
	defer src.Close()

	if err := atomic.WriteFile(dest, src); err != nil {
		return "", &BackupError{Path: dest, Err: err}
	}
	Logger.Info().Str("path", dest).Msg("backup created")
	return dest, nil
}
