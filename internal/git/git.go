package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// Client defines the git operations the review pipeline needs.
// All methods take a path parameter so the tool works from any subdirectory.
type Client interface {
	RepoRoot(path string) (string, error)
	StagedFiles(path string) ([]string, error)
	UntrackedFiles(path string) ([]string, error)
}

// RealClient implements Client using real git commands.
type RealClient struct{}

// NewClient returns a new RealClient.
func NewClient() *RealClient {
	return &RealClient{}
}

func gitCmd(path string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", path}, args...)
	out, err := exec.Command("git", fullArgs...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

func splitLines(out string) []string {
	if out == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func (c *RealClient) RepoRoot(path string) (string, error) {
	return gitCmd(path, "rev-parse", "--show-toplevel")
}

// StagedFiles returns paths staged for the next commit, relative to the repo root.
// Deleted files are filtered out since there is nothing left to review.
func (c *RealClient) StagedFiles(path string) ([]string, error) {
	out, err := gitCmd(path, "diff", "--cached", "--name-only", "--diff-filter=ACMR")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// UntrackedFiles returns new files not yet tracked, honoring .gitignore.
func (c *RealClient) UntrackedFiles(path string) ([]string, error) {
	out, err := gitCmd(path, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}
