package hook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repoWithGitDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git", "hooks"), 0755))
	return dir
}

func TestInstallAndUninstall(t *testing.T) {
	dir := repoWithGitDir(t)

	path, err := Install(dir, false)
	require.NoError(t, err)
	assert.Equal(t, Path(dir), path)
	assert.True(t, Installed(dir))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "reviewgate check")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0111, "hook must be executable")

	require.NoError(t, Uninstall(dir))
	assert.False(t, Installed(dir))
}

func TestInstall_Reinstall(t *testing.T) {
	dir := repoWithGitDir(t)

	_, err := Install(dir, false)
	require.NoError(t, err)
	// Reinstalling our own hook needs no force
	_, err = Install(dir, false)
	assert.NoError(t, err)
}

func TestInstall_RefusesForeignHook(t *testing.T) {
	dir := repoWithGitDir(t)
	foreign := "#!/bin/sh\nrun-my-linter\n"
	require.NoError(t, os.WriteFile(Path(dir), []byte(foreign), 0755))

	_, err := Install(dir, false)
	assert.Error(t, err)

	// Force overwrites
	_, err = Install(dir, true)
	require.NoError(t, err)
	assert.True(t, Installed(dir))
}

func TestUninstall_LeavesForeignHook(t *testing.T) {
	dir := repoWithGitDir(t)
	foreign := "#!/bin/sh\nrun-my-linter\n"
	require.NoError(t, os.WriteFile(Path(dir), []byte(foreign), 0755))

	assert.Error(t, Uninstall(dir))

	content, err := os.ReadFile(Path(dir))
	require.NoError(t, err)
	assert.Equal(t, foreign, string(content))
}

func TestUninstall_NoHook(t *testing.T) {
	assert.NoError(t, Uninstall(repoWithGitDir(t)))
}
