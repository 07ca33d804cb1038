// Package report aggregates check results into a run-level report and
// renders it for humans (table) and machines (JSON).
package report

import (
	"time"

	"github.com/cloudberry-contrib/imagecheck/internal/verify"
)

// Report is the immutable run-level truth: every check result from one
// verification run, plus aggregate counts. Built once, never updated.
type Report struct {
	Target    string          `json:"target"`
	StartedAt time.Time       `json:"started_at"`
	Duration  time.Duration   `json:"duration_ns"`
	Results   []verify.Result `json:"results"`
	Passed    int             `json:"passed"`
	Failed    int             `json:"failed"`
	Errored   int             `json:"errored"`
}

// Build assembles a report from one run's results.
func Build(target string, startedAt time.Time, results []verify.Result) *Report {
	r := &Report{
		Target:    target,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Results:   results,
	}
	for _, res := range results {
		switch res.Status {
		case verify.StatusPass:
			r.Passed++
		case verify.StatusError:
			r.Errored++
		default:
			r.Failed++
		}
	}
	return r
}

// Ok reports whether every check passed. Query errors count against the
// run: fails closed.
func (r *Report) Ok() bool {
	return r.Failed == 0 && r.Errored == 0
}
