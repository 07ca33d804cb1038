package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
)

// WriteTable renders the report as a human-readable summary table.
func WriteTable(w io.Writer, r *Report) error {
	table := tablewriter.NewWriter(w)
	table.Header("CHECK", "STATUS", "DETAIL")

	for _, res := range r.Results {
		table.Append(res.Name, string(res.Status), res.Reason)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}

	verdict := "PASS"
	if !r.Ok() {
		verdict = "FAIL"
	}
	fmt.Fprintf(w, "\nTarget: %s\n", r.Target)
	fmt.Fprintf(w, "Result: %s (%d passed, %d failed, %d errored in %s)\n",
		verdict, r.Passed, r.Failed, r.Errored, r.Duration.Round(time.Millisecond))
	return nil
}

// WriteJSON renders the report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
