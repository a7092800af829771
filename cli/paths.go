package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// statePaths locates the three quota replicas on the host: a durable
// database under the user config dir, a session directory tied to the
// invoking shell, and a cookie jar next to the database.
type statePaths struct {
	Root       string
	Database   string
	SessionDir string
	CookieJar  string
}

func resolvePaths(override string) (statePaths, error) {
	root := override
	if root == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return statePaths{}, fmt.Errorf("resolve state dir: %w", err)
		}
		root = filepath.Join(base, "scout")
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return statePaths{}, fmt.Errorf("create state dir: %w", err)
	}

	// Keyed by the parent process so repeated commands in one terminal share
	// a session, the way tabs share one browser session.
	sessionDir := filepath.Join(os.TempDir(), fmt.Sprintf("scout-session-%d", os.Getppid()))

	return statePaths{
		Root:       root,
		Database:   filepath.Join(root, "quota.db"),
		SessionDir: sessionDir,
		CookieJar:  filepath.Join(root, "cookies.json"),
	}, nil
}
