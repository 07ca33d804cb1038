package verify

import (
	"slices"
	"strings"

	"github.com/cloudberry-contrib/imagecheck/internal/config"
	"github.com/cloudberry-contrib/imagecheck/internal/hostinspect"
)

// Battery builds the full check list for a manifest. Every check is
// self-contained: it reads its expectations from the manifest at build
// time and touches nothing but the host it is handed.
func Battery(m *config.Manifest) []Check {
	return []Check{
		packagesCheck(m),
		adminUserCheck(m),
		fileExistsCheck("ssh-config", "sshd configuration file is present", m.Files.SSHDConfig),
		timezoneCheck(m),
		fileExistsCheck("resource-limits", "custom resource limits are applied", m.Files.Limits),
		initScriptCheck(m),
		localeCheck(m),
	}
}

// packagesCheck verifies every required package is installed. All
// missing packages are reported, not just the first one.
func packagesCheck(m *config.Manifest) Check {
	name := "packages-installed"
	packages := m.UniquePackages()
	return Check{
		Name:        name,
		Description: "all required packages are installed",
		Run: func(h hostinspect.Host) Result {
			var missing, broken []string
			for _, pkg := range packages {
				installed, err := h.PackageInstalled(pkg)
				if err != nil {
					broken = append(broken, pkg+": "+err.Error())
					continue
				}
				if !installed {
					missing = append(missing, pkg)
				}
			}
			if len(broken) > 0 {
				return Result{Name: name, Status: StatusError, Reason: "package query failed: " + strings.Join(broken, "; ")}
			}
			if len(missing) > 0 {
				return fail(name, "missing packages: %s", strings.Join(missing, ", "))
			}
			return pass(name)
		},
	}
}

// adminUserCheck verifies the admin account exists and belongs to its
// expected group.
func adminUserCheck(m *config.Manifest) Check {
	name := "admin-user"
	user := m.AdminUser.Name
	group := m.AdminUser.Group
	return Check{
		Name:        name,
		Description: "admin user exists and is in its group",
		Run: func(h hostinspect.Host) Result {
			exists, err := h.UserExists(user)
			if err != nil {
				return queryError(name, err)
			}
			if !exists {
				return fail(name, "user %q does not exist", user)
			}
			groups, err := h.UserGroups(user)
			if err != nil {
				return queryError(name, err)
			}
			if !slices.Contains(groups, group) {
				return fail(name, "user %q is not a member of group %q (groups: %s)", user, group, strings.Join(groups, ", "))
			}
			return pass(name)
		},
	}
}

func fileExistsCheck(name, description, path string) Check {
	return Check{
		Name:        name,
		Description: description,
		Run: func(h hostinspect.Host) Result {
			if !h.FileExists(path) {
				return fail(name, "%s does not exist", path)
			}
			return pass(name)
		},
	}
}

// timezoneCheck accepts either a regular file or a symlink, since
// /etc/localtime is commonly a symlink into /usr/share/zoneinfo.
func timezoneCheck(m *config.Manifest) Check {
	name := "timezone"
	path := m.Files.Localtime
	return Check{
		Name:        name,
		Description: "timezone is configured",
		Run: func(h hostinspect.Host) Result {
			if !h.FileExists(path) && !h.FileIsSymlink(path) {
				return fail(name, "%s does not exist and is not a symlink", path)
			}
			return pass(name)
		},
	}
}

// initScriptCheck requires the bootstrap script to exist with exactly
// the configured mode. Exact equality, not at-least-as-permissive:
// 0750 and 0777 both fail against 0755.
func initScriptCheck(m *config.Manifest) Check {
	name := "init-script"
	path := m.InitScript.Path
	return Check{
		Name:        name,
		Description: "init script is present and executable",
		Run: func(h hostinspect.Host) Result {
			if !h.FileExists(path) {
				return fail(name, "%s does not exist", path)
			}
			want, err := m.InitScriptMode()
			if err != nil {
				return queryError(name, err)
			}
			mode, err := h.FileMode(path)
			if err != nil {
				return queryError(name, err)
			}
			if mode != want {
				return fail(name, "%s mode is %04o, want %04o", path, mode, want)
			}
			return pass(name)
		},
	}
}

// localeCheck runs the locale listing command and requires both a zero
// exit status and the wanted locale in stdout. Output on stderr never
// satisfies the condition.
func localeCheck(m *config.Manifest) Check {
	name := "locale"
	command := m.Locale.Command
	want := m.Locale.Want
	return Check{
		Name:        name,
		Description: "required locale is generated",
		Run: func(h hostinspect.Host) Result {
			res, err := h.RunCommand(command)
			if err != nil {
				return queryError(name, err)
			}
			if res.ExitStatus != 0 {
				return fail(name, "%q exited with status %d", command, res.ExitStatus)
			}
			if !strings.Contains(res.Stdout, want) {
				return fail(name, "%q output does not contain %q", command, want)
			}
			return pass(name)
		},
	}
}
