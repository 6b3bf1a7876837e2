package main

import (
	"os"

	"github.com/scholref/linkage/internal/config"
	"github.com/scholref/linkage/internal/people"
	"github.com/scholref/linkage/internal/storage"
)

// loadRoster reads the configured roster file.
func loadRoster(cfg *config.Config, root string) (people.Roster, error) {
	return people.LoadRoster(cfg.RosterPath(root))
}

// openCache opens the workspace cache database, exiting with a
// config error when no cache has been built yet.
func openCache(cfg *config.Config, root string) *storage.DB {
	path := cfg.CacheDBPath(root)
	if _, err := os.Stat(path); err != nil {
		exitWithError(ExitConfigError, "no cache at %s (run 'linkage build' first)", path)
	}
	db, err := storage.OpenDB(path)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return db
}
