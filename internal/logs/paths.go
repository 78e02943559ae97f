package logs

import (
	"os"
	"path/filepath"
)

// DefaultLogDir returns the standard log directory for a server deployment:
// /var/log when running as root, otherwise XDG_STATE_HOME when set,
// otherwise ~/.local/state (the temp directory if no home directory is
// known), following the XDG Base Directory Specification.
func DefaultLogDir() (string, error) {
	if os.Getuid() == 0 {
		return "/var/log/arubamcp", nil
	}
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		return filepath.Join(stateDir, "arubamcp"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "arubamcp"), nil
	}
	return filepath.Join(home, ".local", "state", "arubamcp"), nil
}

// DefaultLogFilePath joins DefaultLogDir with filename, creating the
// directory if needed.
func DefaultLogFilePath(filename string) (string, error) {
	dir, err := DefaultLogDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, filename), nil
}
