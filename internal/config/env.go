package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/joho/godotenv"

	ferrors "git.home.luguber.info/inful/htmlgen/internal/foundation/errors"
	"git.home.luguber.info/inful/htmlgen/internal/logfields"
)

// envFiles are loaded in order; earlier files win because existing variables
// are never overwritten.
var envFiles = []string{".env.local", ".env"}

// loadEnvFiles loads .env.local and .env from dir into the process
// environment without overriding variables that are already set.
func loadEnvFiles(dir string) error {
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		err := godotenv.Load(path)
		switch {
		case err == nil:
			slog.Debug("Loaded environment file", logfields.Path(path))
		case errors.Is(err, fs.ErrNotExist):
		default:
			return ferrors.ConfigError("failed to load environment file").
				WithContext("path", path).WithCause(err).Build()
		}
	}
	return nil
}
