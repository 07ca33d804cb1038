package hostinspect

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// packageManager identifies which package database backs package queries.
type packageManager int

const (
	pkgManagerUnknown packageManager = iota
	pkgManagerDpkg
	pkgManagerRPM
)

// LocalHost inspects the system the process is running on. This is the
// backend used when imagecheck runs inside the container under test.
type LocalHost struct {
	pkgMgr packageManager
}

// NewLocalHost creates a local backend, auto-detecting the package manager.
func NewLocalHost() *LocalHost {
	h := &LocalHost{pkgMgr: detectPackageManager()}
	log.WithField("package_manager", h.pkgMgrName()).Debug("local host backend initialized")
	return h
}

func detectPackageManager() packageManager {
	if _, err := exec.LookPath("dpkg-query"); err == nil {
		return pkgManagerDpkg
	}
	if _, err := exec.LookPath("rpm"); err == nil {
		return pkgManagerRPM
	}
	return pkgManagerUnknown
}

func (h *LocalHost) pkgMgrName() string {
	switch h.pkgMgr {
	case pkgManagerDpkg:
		return "dpkg"
	case pkgManagerRPM:
		return "rpm"
	default:
		return "unknown"
	}
}

func (h *LocalHost) Target() string {
	return "local"
}

// PackageInstalled queries the detected package manager. For dpkg the
// status must be exactly "install ok installed"; config-files remnants
// after a package removal do not count as installed.
func (h *LocalHost) PackageInstalled(name string) (bool, error) {
	switch h.pkgMgr {
	case pkgManagerDpkg:
		res, err := h.RunCommand(fmt.Sprintf("dpkg-query -W -f '${Status}' %s", shellQuote(name)))
		if err != nil {
			return false, err
		}
		if res.ExitStatus != 0 {
			return false, nil
		}
		return strings.Contains(res.Stdout, "install ok installed"), nil
	case pkgManagerRPM:
		res, err := h.RunCommand(fmt.Sprintf("rpm -q %s", shellQuote(name)))
		if err != nil {
			return false, err
		}
		return res.ExitStatus == 0, nil
	default:
		return false, errors.New("no supported package manager found on host")
	}
}

func (h *LocalHost) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (h *LocalHost) FileIsSymlink(path string) bool {
	fi, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeSymlink != 0
}

func (h *LocalHost) FileMode(path string) (os.FileMode, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return fi.Mode().Perm(), nil
}

// UserExists parses /etc/passwd directly rather than using os/user, so
// the same code path serves local and mounted-rootfs backends.
func (h *LocalHost) UserExists(name string) (bool, error) {
	users, err := loadPasswd("/etc/passwd")
	if err != nil {
		return false, err
	}
	return findUser(users, name) != nil, nil
}

func (h *LocalHost) UserGroups(name string) ([]string, error) {
	users, err := loadPasswd("/etc/passwd")
	if err != nil {
		return nil, err
	}
	u := findUser(users, name)
	if u == nil {
		return nil, fmt.Errorf("user %q does not exist", name)
	}
	groups, err := loadGroup("/etc/group")
	if err != nil {
		return nil, err
	}
	return groupsOf(*u, groups), nil
}

// RunCommand executes the command through the shell and captures exit
// status plus both output streams. A non-zero exit is reported through
// CommandResult, not as an error.
func (h *LocalHost) RunCommand(command string) (CommandResult, error) {
	return runShell(exec.Command("sh", "-c", command))
}

func runShell(cmd *exec.Cmd) (CommandResult, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitStatus = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("run command: %w", err)
	}
	return res, nil
}

func loadPasswd(path string) ([]passwdEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return parsePasswd(f)
}

func loadGroup(path string) ([]groupEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return parseGroup(f)
}

// shellQuote wraps an argument in single quotes so package names are
// passed to the shell verbatim.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
