package settings

import (
	"fmt"
	"os"
	"path/filepath"

	serial "github.com/hellototoro/xtools"
)

// Paths locates the files kept in the per-user config directory.
type Paths struct {
	Dir     string
	Config  string
	History string
	Log     string
}

// PathsIn returns the file layout rooted at dir.
func PathsIn(dir string) Paths {
	return Paths{
		Dir:     dir,
		Config:  filepath.Join(dir, "config.json"),
		History: filepath.Join(dir, "history"),
		Log:     filepath.Join(dir, "xtools.log"),
	}
}

// DefaultPaths uses <UserConfigDir>/xtools.
func DefaultPaths() (Paths, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, ioError("config dir", err)
	}
	return PathsIn(filepath.Join(base, appDirName)), nil
}

// SaveLog writes a rendered session log to path, creating parent
// directories as needed.
func SaveLog(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ioError("save log", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return ioError("save log", fmt.Errorf("failed to write %s: %w", path, err))
	}
	return nil
}

// IsIOError reports whether err came from persistence.
func IsIOError(err error) bool {
	return serial.KindOf(err) == serial.KindIO
}
