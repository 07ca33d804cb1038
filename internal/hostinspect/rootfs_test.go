package hostinspect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDpkgStatus = `Package: flex
Status: install ok installed
Priority: optional
Version: 2.6.4-8build2

Package: bison
Status: deinstall ok config-files
Version: 2:3.8.2

Package: cmake
Status: install ok installed
Version: 3.22.1
`

// buildRootfs writes a minimal image tree into a temp dir.
func buildRootfs(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	write := func(rel, content string, mode os.FileMode) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), mode))
	}

	write("etc/passwd", samplePasswd, 0644)
	write("etc/group", sampleGroup, 0644)
	write("var/lib/dpkg/status", sampleDpkgStatus, 0644)
	write("etc/ssh/sshd_config", "Port 22\n", 0644)
	write("tmp/init_system.sh", "#!/bin/sh\n", 0755)
	require.NoError(t, os.Symlink("/usr/share/zoneinfo/UTC", filepath.Join(root, "etc/localtime")))

	return root
}

func TestNewRootfsHost_RequiresDirectory(t *testing.T) {
	_, err := NewRootfsHost(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = NewRootfsHost(file)
	assert.Error(t, err)
}

func TestRootfsHost_Files(t *testing.T) {
	h, err := NewRootfsHost(buildRootfs(t))
	require.NoError(t, err)

	assert.True(t, h.FileExists("/etc/ssh/sshd_config"))
	assert.False(t, h.FileExists("/etc/security/limits.d/90-cbdb-limits"))

	assert.True(t, h.FileIsSymlink("/etc/localtime"))
	assert.False(t, h.FileIsSymlink("/etc/ssh/sshd_config"))

	mode, err := h.FileMode("/tmp/init_system.sh")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), mode)

	_, err = h.FileMode("/no/such/path")
	assert.Error(t, err)
}

func TestRootfsHost_Packages(t *testing.T) {
	h, err := NewRootfsHost(buildRootfs(t))
	require.NoError(t, err)

	installed, err := h.PackageInstalled("flex")
	require.NoError(t, err)
	assert.True(t, installed)

	// Removed but config-files remain: not installed.
	installed, err = h.PackageInstalled("bison")
	require.NoError(t, err)
	assert.False(t, installed)

	installed, err = h.PackageInstalled("no-such-package")
	require.NoError(t, err)
	assert.False(t, installed)

	// Case-sensitive exact match.
	installed, err = h.PackageInstalled("FLEX")
	require.NoError(t, err)
	assert.False(t, installed)
}

func TestRootfsHost_Users(t *testing.T) {
	h, err := NewRootfsHost(buildRootfs(t))
	require.NoError(t, err)

	exists, err := h.UserExists("gpadmin")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = h.UserExists("nobody")
	require.NoError(t, err)
	assert.False(t, exists)

	groups, err := h.UserGroups("gpadmin")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"gpadmin", "sudo"}, groups)

	_, err = h.UserGroups("nobody")
	assert.Error(t, err)
}

func TestRootfsHost_Target(t *testing.T) {
	root := buildRootfs(t)
	h, err := NewRootfsHost(root)
	require.NoError(t, err)
	assert.Equal(t, "rootfs:"+root, h.Target())
}
