package cmd

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cloudberry-contrib/imagecheck/internal/metrics"
	"github.com/cloudberry-contrib/imagecheck/internal/report"
	"github.com/cloudberry-contrib/imagecheck/internal/verify"
)

var metricsFile string

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run the full check battery against the target",
	Long: `Run every check against the target system and print a per-check
summary. All checks run regardless of earlier failures, so one run
surfaces the complete set of misconfigurations. Exits non-zero if any
check fails.`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus textfile-collector metrics to this path")
}

func runVerify(cmd *cobra.Command, args []string) error {
	host, err := buildHost()
	if err != nil {
		return err
	}
	manifest, err := loadManifest()
	if err != nil {
		return err
	}

	v := verify.New(host, manifest)
	started := time.Now()
	results := v.Run()
	rep := report.Build(host.Target(), started, results)

	if IsJSONOutput() {
		if err := report.WriteJSON(os.Stdout, rep); err != nil {
			return err
		}
	} else {
		if err := report.WriteTable(os.Stdout, rep); err != nil {
			return err
		}
	}

	if metricsFile != "" {
		exp := metrics.NewExporter()
		exp.Observe(rep)
		if err := exp.WriteTextfile(metricsFile); err != nil {
			return err
		}
		log.WithField("path", metricsFile).Info("wrote metrics file")
	}

	if !rep.Ok() {
		return fmt.Errorf("verification failed: %d of %d checks did not pass",
			rep.Failed+rep.Errored, len(rep.Results))
	}
	return nil
}
