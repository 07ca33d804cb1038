package hostinspect

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalHost_Files(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "init_system.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755))

	h := NewLocalHost()

	assert.True(t, h.FileExists(path))
	assert.False(t, h.FileExists(filepath.Join(dir, "missing")))

	mode, err := h.FileMode(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), mode)

	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(path, link))
	assert.True(t, h.FileIsSymlink(link))
	assert.False(t, h.FileIsSymlink(path))
}

func TestLocalHost_RunCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	h := NewLocalHost()

	res, err := h.RunCommand("echo en_US.utf8")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitStatus)
	assert.Equal(t, "en_US.utf8\n", res.Stdout)

	res, err = h.RunCommand("exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitStatus)

	res, err = h.RunCommand("echo oops >&2; exit 1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitStatus)
	assert.Equal(t, "oops\n", res.Stderr)
	assert.Empty(t, res.Stdout)
}

func TestDetectPackageManagerName(t *testing.T) {
	h := &LocalHost{pkgMgr: pkgManagerDpkg}
	assert.Equal(t, "dpkg", h.pkgMgrName())
	h.pkgMgr = pkgManagerRPM
	assert.Equal(t, "rpm", h.pkgMgrName())
	h.pkgMgr = pkgManagerUnknown
	assert.Equal(t, "unknown", h.pkgMgrName())
}
