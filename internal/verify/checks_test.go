package verify

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/cloudberry-contrib/imagecheck/internal/config"
	"github.com/cloudberry-contrib/imagecheck/internal/hostinspect"
)

// fakeHost is an in-memory Host for exercising checks without a real
// system.
type fakeHost struct {
	packages map[string]bool
	pkgErr   error

	files    map[string]os.FileMode
	symlinks map[string]bool

	users map[string][]string // user -> groups; nil slice means exists with no groups

	cmdResult hostinspect.CommandResult
	cmdErr    error

	runCount int
}

func (f *fakeHost) Target() string { return "fake" }

func (f *fakeHost) PackageInstalled(name string) (bool, error) {
	if f.pkgErr != nil {
		return false, f.pkgErr
	}
	return f.packages[name], nil
}

func (f *fakeHost) FileExists(path string) bool {
	_, ok := f.files[path]
	return ok
}

func (f *fakeHost) FileIsSymlink(path string) bool {
	return f.symlinks[path]
}

func (f *fakeHost) FileMode(path string) (os.FileMode, error) {
	mode, ok := f.files[path]
	if !ok {
		return 0, errors.New("no such file")
	}
	return mode, nil
}

func (f *fakeHost) UserExists(name string) (bool, error) {
	_, ok := f.users[name]
	return ok, nil
}

func (f *fakeHost) UserGroups(name string) ([]string, error) {
	groups, ok := f.users[name]
	if !ok {
		return nil, errors.New("no such user")
	}
	return groups, nil
}

func (f *fakeHost) RunCommand(command string) (hostinspect.CommandResult, error) {
	f.runCount++
	if f.cmdErr != nil {
		return hostinspect.CommandResult{}, f.cmdErr
	}
	return f.cmdResult, nil
}

// healthyHost returns a fake host that satisfies every default check
// for the given manifest.
func healthyHost(m *config.Manifest) *fakeHost {
	pkgs := make(map[string]bool)
	for _, p := range m.Packages {
		pkgs[p] = true
	}
	return &fakeHost{
		packages: pkgs,
		files: map[string]os.FileMode{
			m.Files.SSHDConfig: 0644,
			m.Files.Localtime:  0644,
			m.Files.Limits:     0644,
			m.InitScript.Path:  0755,
		},
		symlinks:  map[string]bool{},
		users:     map[string][]string{"gpadmin": {"gpadmin", "sudo"}},
		cmdResult: hostinspect.CommandResult{ExitStatus: 0, Stdout: "C\nC.utf8\nen_US.utf8\nPOSIX\n"},
	}
}

func manifestWithPackages(pkgs ...string) *config.Manifest {
	m := config.Default()
	m.Packages = pkgs
	return m
}

func runCheck(t *testing.T, battery []Check, name string, h hostinspect.Host) Result {
	t.Helper()
	for _, c := range battery {
		if c.Name == name {
			return c.Run(h)
		}
	}
	t.Fatalf("no check named %q in battery", name)
	return Result{}
}

func TestPackagesCheck_AllInstalled(t *testing.T) {
	m := manifestWithPackages("flex", "bison", "cmake")
	h := healthyHost(m)

	res := runCheck(t, Battery(m), "packages-installed", h)
	if !res.OK() {
		t.Errorf("Expected pass, got %s (%s)", res.Status, res.Reason)
	}
}

func TestPackagesCheck_NamesEveryMissingPackage(t *testing.T) {
	m := manifestWithPackages("flex", "bison", "cmake")
	h := healthyHost(m)
	h.packages["bison"] = false
	delete(h.packages, "cmake")

	res := runCheck(t, Battery(m), "packages-installed", h)
	if res.Status != StatusFail {
		t.Fatalf("Expected FAIL, got %s", res.Status)
	}
	if !strings.Contains(res.Reason, "bison") || !strings.Contains(res.Reason, "cmake") {
		t.Errorf("Expected both missing packages in reason, got %q", res.Reason)
	}
	if strings.Contains(res.Reason, "flex") {
		t.Errorf("Installed package should not be reported missing: %q", res.Reason)
	}
}

func TestPackagesCheck_DuplicatesQueriedOnce(t *testing.T) {
	// The upstream manifest lists flex twice; the check de-duplicates.
	m := manifestWithPackages("flex", "flex")
	queried := 0
	h := healthyHost(m)

	battery := Battery(m)
	counting := &countingHost{fakeHost: h, onPackage: func() { queried++ }}
	res := runCheck(t, battery, "packages-installed", counting)
	if !res.OK() {
		t.Fatalf("Expected pass, got %s (%s)", res.Status, res.Reason)
	}
	if queried != 1 {
		t.Errorf("Expected 1 package query for duplicate entries, got %d", queried)
	}
}

// countingHost wraps fakeHost to count package queries.
type countingHost struct {
	*fakeHost
	onPackage func()
}

func (c *countingHost) PackageInstalled(name string) (bool, error) {
	c.onPackage()
	return c.fakeHost.PackageInstalled(name)
}

func TestPackagesCheck_QueryErrorFailsClosed(t *testing.T) {
	m := manifestWithPackages("flex")
	h := healthyHost(m)
	h.pkgErr = errors.New("dpkg database is locked")

	res := runCheck(t, Battery(m), "packages-installed", h)
	if res.Status != StatusError {
		t.Errorf("Expected ERROR, got %s", res.Status)
	}
	if res.OK() {
		t.Error("Query error must count as a failure, not a pass")
	}
}

func TestAdminUserCheck(t *testing.T) {
	m := config.Default()
	tests := []struct {
		name  string
		users map[string][]string
		want  Status
	}{
		{"exists and in group", map[string][]string{"gpadmin": {"gpadmin"}}, StatusPass},
		{"exists in extra groups too", map[string][]string{"gpadmin": {"sudo", "gpadmin", "docker"}}, StatusPass},
		{"missing user", map[string][]string{}, StatusFail},
		{"not in group", map[string][]string{"gpadmin": {"sudo"}}, StatusFail},
		{"no groups at all", map[string][]string{"gpadmin": {}}, StatusFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := healthyHost(m)
			h.users = tt.users
			res := runCheck(t, Battery(m), "admin-user", h)
			if res.Status != tt.want {
				t.Errorf("Expected %s, got %s (%s)", tt.want, res.Status, res.Reason)
			}
		})
	}
}

func TestFileChecks_ToggleWithFilesystemState(t *testing.T) {
	m := config.Default()
	h := healthyHost(m)

	for _, name := range []string{"ssh-config", "resource-limits"} {
		res := runCheck(t, Battery(m), name, h)
		if !res.OK() {
			t.Errorf("%s: expected pass while file present, got %s", name, res.Status)
		}
	}

	delete(h.files, m.Files.SSHDConfig)
	delete(h.files, m.Files.Limits)

	for _, name := range []string{"ssh-config", "resource-limits"} {
		res := runCheck(t, Battery(m), name, h)
		if res.Status != StatusFail {
			t.Errorf("%s: expected FAIL after file removal, got %s", name, res.Status)
		}
	}
}

func TestTimezoneCheck_SymlinkCounts(t *testing.T) {
	m := config.Default()
	h := healthyHost(m)
	delete(h.files, m.Files.Localtime)

	res := runCheck(t, Battery(m), "timezone", h)
	if res.Status != StatusFail {
		t.Fatalf("Expected FAIL with no localtime at all, got %s", res.Status)
	}

	// /etc/localtime as a dangling-looking symlink still satisfies the
	// check; testinfra semantics are exists OR is_symlink.
	h.symlinks[m.Files.Localtime] = true
	res = runCheck(t, Battery(m), "timezone", h)
	if !res.OK() {
		t.Errorf("Expected pass for symlinked localtime, got %s (%s)", res.Status, res.Reason)
	}
}

func TestInitScriptCheck_ExactModeOnly(t *testing.T) {
	m := config.Default()
	tests := []struct {
		mode os.FileMode
		want Status
	}{
		{0755, StatusPass},
		{0750, StatusFail},
		{0775, StatusFail},
		{0777, StatusFail},
		{0644, StatusFail},
	}
	for _, tt := range tests {
		h := healthyHost(m)
		h.files[m.InitScript.Path] = tt.mode
		res := runCheck(t, Battery(m), "init-script", h)
		if res.Status != tt.want {
			t.Errorf("mode %04o: expected %s, got %s (%s)", tt.mode, tt.want, res.Status, res.Reason)
		}
	}
}

func TestInitScriptCheck_ReportsActualAndExpectedMode(t *testing.T) {
	m := config.Default()
	h := healthyHost(m)
	h.files[m.InitScript.Path] = 0750

	res := runCheck(t, Battery(m), "init-script", h)
	if res.Status != StatusFail {
		t.Fatalf("Expected FAIL, got %s", res.Status)
	}
	if !strings.Contains(res.Reason, "0750") || !strings.Contains(res.Reason, "0755") {
		t.Errorf("Expected actual and expected octal modes in reason, got %q", res.Reason)
	}
}

func TestInitScriptCheck_Missing(t *testing.T) {
	m := config.Default()
	h := healthyHost(m)
	delete(h.files, m.InitScript.Path)

	res := runCheck(t, Battery(m), "init-script", h)
	if res.Status != StatusFail {
		t.Errorf("Expected FAIL for missing script, got %s", res.Status)
	}
}

func TestLocaleCheck(t *testing.T) {
	m := config.Default()
	tests := []struct {
		name   string
		result hostinspect.CommandResult
		err    error
		want   Status
	}{
		{"locale present", hostinspect.CommandResult{ExitStatus: 0, Stdout: "en_US.utf8\n"}, nil, StatusPass},
		{"non-zero exit", hostinspect.CommandResult{ExitStatus: 1, Stdout: ""}, nil, StatusFail},
		{"wrong locale", hostinspect.CommandResult{ExitStatus: 0, Stdout: "fr_FR.utf8\n"}, nil, StatusFail},
		{"locale only on stderr", hostinspect.CommandResult{ExitStatus: 0, Stdout: "", Stderr: "en_US.utf8\n"}, nil, StatusFail},
		{"exec unavailable", hostinspect.CommandResult{}, errors.New("sh: not found"), StatusError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := healthyHost(m)
			h.cmdResult = tt.result
			h.cmdErr = tt.err
			res := runCheck(t, Battery(m), "locale", h)
			if res.Status != tt.want {
				t.Errorf("Expected %s, got %s (%s)", tt.want, res.Status, res.Reason)
			}
		})
	}
}
