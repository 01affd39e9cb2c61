package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/sfh/internal/storage/postgres"
	"github.com/julianstephens/sfh/internal/storage/sqlite"
)

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
)

// New returns the store named by config: a PostgreSQL connection string
// selects postgres, anything else is treated as a SQLite file path.
func New(config string) (Provider, error) {
	if postgres.IsConnString(config) {
		if err := postgres.ValidateConnString(config); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: use PGPASSWORD or a .pgpass file instead", err)
			}
			return nil, err
		}
		return postgres.New(config), nil
	}

	path, err := ExpandPath(config)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path), nil
}

// ExpandPath resolves a leading "~" to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

// ConfigDir returns the directory that holds logs for the given config.
// PostgreSQL configs fall back to the default SQLite location's directory.
func ConfigDir(config, fallback string) (string, error) {
	if postgres.IsConnString(config) {
		config = fallback
	}
	path, err := ExpandPath(config)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}
