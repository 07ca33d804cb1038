package hostinspect

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// passwdEntry is one account line from /etc/passwd.
type passwdEntry struct {
	Name  string
	UID   int
	GID   int
	Home  string
	Shell string
}

// groupEntry is one group line from /etc/group.
type groupEntry struct {
	Name    string
	GID     int
	Members []string
}

// parsePasswd reads passwd(5) formatted data. Comments, blank lines and
// malformed lines are skipped rather than treated as errors, since image
// builds routinely leave both behind.
func parsePasswd(r io.Reader) ([]passwdEntry, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	var entries []passwdEntry
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "#") {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) < 7 {
			continue
		}
		uid, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}
		gid, err := strconv.Atoi(parts[3])
		if err != nil {
			continue
		}
		entries = append(entries, passwdEntry{
			Name:  parts[0],
			UID:   uid,
			GID:   gid,
			Home:  parts[5],
			Shell: parts[6],
		})
	}
	return entries, nil
}

// parseGroup reads group(5) formatted data with the same tolerance for
// junk lines as parsePasswd.
func parseGroup(r io.Reader) ([]groupEntry, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	var entries []groupEntry
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "#") {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) < 4 {
			continue
		}
		gid, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}
		members := []string{}
		if parts[3] != "" {
			members = strings.Split(parts[3], ",")
		}
		entries = append(entries, groupEntry{Name: parts[0], GID: gid, Members: members})
	}
	return entries, nil
}

// groupsOf resolves the full group membership of a user: the group that
// owns the user's primary GID plus every group listing the user as a
// supplementary member.
func groupsOf(user passwdEntry, groups []groupEntry) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, g := range groups {
		if g.GID == user.GID {
			add(g.Name)
		}
	}
	for _, g := range groups {
		for _, m := range g.Members {
			if m == user.Name {
				add(g.Name)
			}
		}
	}
	return out
}

func findUser(entries []passwdEntry, name string) *passwdEntry {
	for i := range entries {
		if entries[i].Name == name {
			return &entries[i]
		}
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	s := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	s.Buffer(buf, 1024*1024)
	var lines []string
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
