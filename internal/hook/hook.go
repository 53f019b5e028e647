// Package hook installs the git pre-commit hook that invokes the gate.
package hook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// marker identifies hooks written by this tool so install never clobbers a
// hand-written hook and uninstall never deletes one.
const marker = "# installed by reviewgate"

const script = `#!/bin/sh
` + marker + `
exec reviewgate check
`

// Path returns the pre-commit hook path for a repo root.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", "hooks", "pre-commit")
}

// Install writes the pre-commit hook. An existing foreign hook is only
// overwritten with force.
func Install(repoRoot string, force bool) (string, error) {
	hookPath := Path(repoRoot)

	if existing, err := os.ReadFile(hookPath); err == nil {
		if !strings.Contains(string(existing), marker) && !force {
			return "", fmt.Errorf("a pre-commit hook already exists at %s (use --force to overwrite)", hookPath)
		}
	}

	if err := os.MkdirAll(filepath.Dir(hookPath), 0755); err != nil {
		return "", fmt.Errorf("create hooks directory: %w", err)
	}
	if err := os.WriteFile(hookPath, []byte(script), 0755); err != nil {
		return "", fmt.Errorf("write hook: %w", err)
	}
	return hookPath, nil
}

// Uninstall removes the hook if this tool installed it.
func Uninstall(repoRoot string) error {
	hookPath := Path(repoRoot)

	existing, err := os.ReadFile(hookPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !strings.Contains(string(existing), marker) {
		return fmt.Errorf("pre-commit hook at %s was not installed by reviewgate, leaving it alone", hookPath)
	}
	return os.Remove(hookPath)
}

// Installed reports whether this tool's hook is present.
func Installed(repoRoot string) bool {
	existing, err := os.ReadFile(Path(repoRoot))
	return err == nil && strings.Contains(string(existing), marker)
}
