package hostinspect

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// RootfsHost inspects an image filesystem mounted (or extracted) at a
// directory, without booting the image. File and user queries read the
// tree directly; package queries read the dpkg status database under the
// root; commands run via chroot and therefore require root privileges.
type RootfsHost struct {
	root string
}

// NewRootfsHost creates a backend rooted at dir. The directory must
// contain an image root filesystem (etc/, var/, and so on).
func NewRootfsHost(dir string) (*RootfsHost, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("rootfs %s: %w", dir, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("rootfs %s: not a directory", dir)
	}
	log.WithField("root", dir).Debug("rootfs host backend initialized")
	return &RootfsHost{root: dir}, nil
}

func (h *RootfsHost) Target() string {
	return "rootfs:" + h.root
}

// path re-roots an absolute image path under the mount point.
func (h *RootfsHost) path(p string) string {
	return filepath.Join(h.root, strings.TrimPrefix(p, "/"))
}

// PackageInstalled reads var/lib/dpkg/status under the root. The status
// file is a sequence of RFC822-style stanzas; a package counts as
// installed only when its Status field says "install ok installed".
func (h *RootfsHost) PackageInstalled(name string) (bool, error) {
	statusPath := h.path("/var/lib/dpkg/status")
	data, err := os.ReadFile(statusPath)
	if err != nil {
		return false, fmt.Errorf("read dpkg status db: %w", err)
	}
	for _, stanza := range strings.Split(string(data), "\n\n") {
		var pkg, status string
		for _, line := range strings.Split(stanza, "\n") {
			if v, ok := strings.CutPrefix(line, "Package: "); ok {
				pkg = v
			} else if v, ok := strings.CutPrefix(line, "Status: "); ok {
				status = v
			}
		}
		if pkg == name {
			return status == "install ok installed", nil
		}
	}
	return false, nil
}

func (h *RootfsHost) FileExists(path string) bool {
	_, err := os.Stat(h.path(path))
	return err == nil
}

func (h *RootfsHost) FileIsSymlink(path string) bool {
	fi, err := os.Lstat(h.path(path))
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeSymlink != 0
}

func (h *RootfsHost) FileMode(path string) (os.FileMode, error) {
	fi, err := os.Stat(h.path(path))
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return fi.Mode().Perm(), nil
}

func (h *RootfsHost) UserExists(name string) (bool, error) {
	users, err := loadPasswd(h.path("/etc/passwd"))
	if err != nil {
		return false, err
	}
	return findUser(users, name) != nil, nil
}

func (h *RootfsHost) UserGroups(name string) ([]string, error) {
	users, err := loadPasswd(h.path("/etc/passwd"))
	if err != nil {
		return nil, err
	}
	u := findUser(users, name)
	if u == nil {
		return nil, fmt.Errorf("user %q does not exist", name)
	}
	groups, err := loadGroup(h.path("/etc/group"))
	if err != nil {
		return nil, err
	}
	return groupsOf(*u, groups), nil
}

// RunCommand executes the command inside the rootfs via chroot.
func (h *RootfsHost) RunCommand(command string) (CommandResult, error) {
	if _, err := exec.LookPath("chroot"); err != nil {
		return CommandResult{}, errors.New("chroot not available; cannot run commands against a mounted rootfs")
	}
	return runShell(exec.Command("chroot", h.root, "sh", "-c", command))
}
