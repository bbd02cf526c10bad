// Package jsonfile persists match lists as one JSON array per competition
// season, matching the store layout downstream reporting reads.
package jsonfile

import (
	"context"
	"os"
	"path/filepath"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"rugbydata/internal/domain/match"
	"rugbydata/internal/platform/logging"
)

// Store implements match.Repository over a directory of JSON files. A
// missing file reads as an empty season; an unreadable or corrupt file also
// reads as empty, with a warning, so one damaged store cannot block a
// refresh that will rewrite it anyway.
type Store struct {
	dir    string
	logger *logging.Logger
}

func NewStore(dir string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{dir: dir, logger: logger}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *Store) Load(ctx context.Context, name string) ([]match.Match, error) {
	raw, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		s.logger.WarnContext(ctx, "could not read store file", "name", name, "error", err)
		return nil, nil
	}

	var matches []match.Match
	if err := sonic.Unmarshal(raw, &matches); err != nil {
		s.logger.WarnContext(ctx, "store file is not a match list, treating as empty", "name", name, "error", err)
		return nil, nil
	}
	return matches, nil
}

// Save rewrites the whole season file. This is the only fatal write in the
// pipeline; callers treat its error as terminal.
func (s *Store) Save(ctx context.Context, name string, matches []match.Match) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return crerr.Wrapf(err, "create store directory %s", s.dir)
	}

	raw, err := sonic.ConfigDefault.MarshalIndent(matches, "", "  ")
	if err != nil {
		return crerr.Wrapf(err, "encode %s", name)
	}
	if err := os.WriteFile(s.path(name), raw, 0o644); err != nil {
		return crerr.Wrapf(err, "write %s", s.path(name))
	}
	s.logger.Info("saved season file", "name", name, "matches", len(matches))
	return nil
}

var _ match.Repository = (*Store)(nil)
