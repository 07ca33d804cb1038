// Package verify runs the post-build check battery against a host.
package verify

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/cloudberry-contrib/imagecheck/internal/config"
	"github.com/cloudberry-contrib/imagecheck/internal/hostinspect"
)

// Status is the outcome of a single check.
type Status string

const (
	// StatusPass means the check's condition held.
	StatusPass Status = "PASS"
	// StatusFail means the condition was evaluated and did not hold.
	StatusFail Status = "FAIL"
	// StatusError means the condition could not be evaluated at all.
	// Checks fail closed: an error counts against the run just like a
	// failed assertion.
	StatusError Status = "ERROR"
)

// Result is the immutable outcome record of one check. Set once when the
// check runs, never updated.
type Result struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// OK reports whether the check passed.
func (r Result) OK() bool {
	return r.Status == StatusPass
}

// Check is one independent named assertion over a host. Checks share no
// state; running them in any order yields the same per-check results.
type Check struct {
	Name        string
	Description string
	Run         func(hostinspect.Host) Result
}

// Verifier runs a fixed battery of checks against one host.
type Verifier struct {
	host   hostinspect.Host
	checks []Check
}

// New builds a verifier whose battery is derived from the manifest.
func New(host hostinspect.Host, manifest *config.Manifest) *Verifier {
	return &Verifier{host: host, checks: Battery(manifest)}
}

// Checks returns the battery. The slice is shared; callers must not
// mutate it.
func (v *Verifier) Checks() []Check {
	return v.checks
}

// Run executes every check in sequence. A failing or erroring check
// never stops the run: one invocation surfaces the complete set of
// misconfigurations.
func (v *Verifier) Run() []Result {
	results := make([]Result, 0, len(v.checks))
	for _, c := range v.checks {
		start := time.Now()
		res := c.Run(v.host)

		fields := log.Fields{
			"check":    res.Name,
			"status":   res.Status,
			"duration": time.Since(start).Round(time.Millisecond).String(),
		}
		if res.OK() {
			log.WithFields(fields).Debug("check passed")
		} else {
			fields["reason"] = res.Reason
			log.WithFields(fields).Warn("check failed")
		}
		results = append(results, res)
	}
	return results
}

func pass(name string) Result {
	return Result{Name: name, Status: StatusPass}
}

func fail(name, format string, args ...any) Result {
	return Result{Name: name, Status: StatusFail, Reason: fmt.Sprintf(format, args...)}
}

func queryError(name string, err error) Result {
	return Result{Name: name, Status: StatusError, Reason: err.Error()}
}
