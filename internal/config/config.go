// Package config loads the expectation manifest: what the image under
// test is supposed to contain.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest describes everything the verifier asserts about an image.
// Any field left empty in the YAML file falls back to the Ubuntu 22.04
// build-image defaults.
type Manifest struct {
	// Packages the image must have installed. Exact names, no version
	// constraints. Duplicates are tolerated and de-duplicated.
	Packages []string `yaml:"packages"`

	AdminUser  AdminUser  `yaml:"admin_user"`
	Files      Files      `yaml:"files"`
	InitScript InitScript `yaml:"init_script"`
	Locale     Locale     `yaml:"locale"`
}

// AdminUser is the administrative account the image must provide.
type AdminUser struct {
	Name  string `yaml:"name"`
	Group string `yaml:"group"`
}

// Files are the configuration paths that must be present.
type Files struct {
	SSHDConfig string `yaml:"sshd_config"`
	Localtime  string `yaml:"localtime"`
	Limits     string `yaml:"limits"`
}

// InitScript is the bootstrap script the image entrypoint runs; its
// permission mode is checked for exact equality.
type InitScript struct {
	Path string `yaml:"path"`
	Mode string `yaml:"mode"` // octal string, e.g. "0755"
}

// Locale describes the locale-generation check: run Command and require
// exit 0 with Want present in stdout.
type Locale struct {
	Command string `yaml:"command"`
	Want    string `yaml:"want"`
}

// Load reads a manifest from a YAML file and applies defaults.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	m.applyDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Default returns the built-in manifest matching the Cloudberry build
// image for Ubuntu 22.04.
func Default() *Manifest {
	var m Manifest
	m.applyDefaults()
	return &m
}

func (m *Manifest) applyDefaults() {
	if len(m.Packages) == 0 {
		m.Packages = append([]string(nil), defaultPackages...)
	}
	if m.AdminUser.Name == "" {
		m.AdminUser.Name = "gpadmin"
	}
	if m.AdminUser.Group == "" {
		m.AdminUser.Group = m.AdminUser.Name
	}
	if m.Files.SSHDConfig == "" {
		m.Files.SSHDConfig = "/etc/ssh/sshd_config"
	}
	if m.Files.Localtime == "" {
		m.Files.Localtime = "/etc/localtime"
	}
	if m.Files.Limits == "" {
		m.Files.Limits = "/etc/security/limits.d/90-cbdb-limits"
	}
	if m.InitScript.Path == "" {
		m.InitScript.Path = "/tmp/init_system.sh"
	}
	if m.InitScript.Mode == "" {
		m.InitScript.Mode = "0755"
	}
	if m.Locale.Command == "" {
		m.Locale.Command = "locale -a"
	}
	if m.Locale.Want == "" {
		m.Locale.Want = "en_US.utf8"
	}
}

// Validate rejects manifests the verifier cannot act on.
func (m *Manifest) Validate() error {
	for _, p := range m.Packages {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("manifest: empty package name in packages list")
		}
	}
	if _, err := m.InitScriptMode(); err != nil {
		return err
	}
	return nil
}

// InitScriptMode parses the configured octal mode string.
func (m *Manifest) InitScriptMode() (os.FileMode, error) {
	mode, err := strconv.ParseUint(m.InitScript.Mode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("manifest: invalid init_script mode %q: %w", m.InitScript.Mode, err)
	}
	return os.FileMode(mode), nil
}

// UniquePackages returns the package list with duplicates removed,
// preserving first-seen order. The upstream build manifest lists "flex"
// twice; checking it once is enough.
func (m *Manifest) UniquePackages() []string {
	seen := make(map[string]bool, len(m.Packages))
	out := make([]string, 0, len(m.Packages))
	for _, p := range m.Packages {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
