package paths

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.localchat.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".localchat")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// DBPath returns the SQLite file holding every local profile.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, "localchat.db")
}

// LogDir returns the log directory inside a data dir.
func LogDir(dataDir string) string {
	return filepath.Join(dataDir, "logs")
}

// LogPath returns the application log file path.
func LogPath(dataDir string) string {
	return filepath.Join(LogDir(dataDir), "localchat.log")
}

// LockDir returns the directory holding per-profile lock files.
func LockDir(dataDir string) string {
	return filepath.Join(dataDir, "locks")
}

// EnsureDir creates the data directory tree with proper permissions.
func EnsureDir(dataDir string) error {
	dirs := []string{
		dataDir,
		LogDir(dataDir),
		LockDir(dataDir),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
