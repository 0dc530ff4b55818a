package ankitab

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// FindDatabase walks the configured search paths for a collection file
// and returns its path. Results are grouped by the profile directory the
// file sits in; user narrows the search to that profile (overriding
// cfg.User). No match and more than one matching profile both fail with
// an error wrapping ErrNotFound, never a silent guess.
func FindDatabase(cfg Config, user string) (string, error) {
	if user == "" {
		user = cfg.User
	}

	// profile directory name -> collection paths found under it
	found := make(map[string][]string)
	for _, root := range cfg.SearchPaths {
		walkForCollections(root, cfg, found)
	}
	if user != "" {
		paths, ok := found[user]
		if !ok {
			return "", fmt.Errorf("no %s for user %q under %s: %w",
				cfg.Filename, user, strings.Join(cfg.SearchPaths, ", "), ErrNotFound)
		}
		if len(paths) > 1 {
			return "", fmt.Errorf("user %q has %d collection files: %w",
				user, len(paths), ErrNotFound)
		}
		return paths[0], nil
	}

	switch len(found) {
	case 0:
		return "", fmt.Errorf("no %s under %s: %w",
			cfg.Filename, strings.Join(cfg.SearchPaths, ", "), ErrNotFound)
	case 1:
		for _, paths := range found {
			if len(paths) > 1 {
				return "", fmt.Errorf("%d collection files in one profile: %w",
					len(paths), ErrNotFound)
			}
			return paths[0], nil
		}
	}

	users := make([]string, 0, len(found))
	for u := range found {
		users = append(users, u)
	}
	sort.Strings(users)
	return "", fmt.Errorf("collections found for users %s, pass one explicitly: %w",
		strings.Join(users, ", "), ErrNotFound)
}

func walkForCollections(root string, cfg Config, found map[string][]string) {
	rootDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directories are skipped, not fatal. Errors on
			// single entries must not drop their siblings.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			depth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - rootDepth
			if depth > cfg.MaxDepth {
				return fs.SkipDir
			}
			return nil
		}
		if d.Name() == cfg.Filename {
			user := filepath.Base(filepath.Dir(path))
			found[user] = append(found[user], path)
			Logger.Debug().Str("path", path).Str("user", user).Msg("collection file found")
		}
		return nil
	})
}
