// Package hostinspect provides read-only inspection of a target system:
// installed packages, files, users, and command execution. Backends exist
// for the local system and for an image rootfs mounted at a directory.
package hostinspect

import "os"

// CommandResult holds the outcome of a command executed on the host.
type CommandResult struct {
	ExitStatus int    `json:"exit_status"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
}

// Host exposes the inspection capabilities checks are written against.
// Implementations must be read-only: no query may mutate the target.
type Host interface {
	// PackageInstalled reports whether the named package is installed.
	// Matching is exact and case-sensitive, with no version constraint.
	PackageInstalled(name string) (bool, error)

	// FileExists reports whether the path exists (following symlinks).
	FileExists(path string) bool

	// FileIsSymlink reports whether the path is a symbolic link.
	FileIsSymlink(path string) bool

	// FileMode returns the file's permission bits.
	FileMode(path string) (os.FileMode, error)

	// UserExists reports whether the named user account exists.
	UserExists(name string) (bool, error)

	// UserGroups returns every group the named user belongs to,
	// including its primary group.
	UserGroups(name string) ([]string, error)

	// RunCommand executes a shell command on the host and captures its
	// exit status and output. A non-zero exit status is not an error;
	// an error means the command could not be run at all.
	RunCommand(command string) (CommandResult, error)

	// Target describes the inspected system for reporting purposes.
	Target() string
}
