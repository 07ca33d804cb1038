package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudberry-contrib/imagecheck/internal/report"
	"github.com/cloudberry-contrib/imagecheck/internal/server"
	"github.com/cloudberry-contrib/imagecheck/internal/verify"
)

var listenAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve verification reports over HTTP",
	Long: `Run an HTTP server exposing the verification report as JSON at
/report, a pass/fail health verdict at /healthz, and Prometheus metrics
at /metrics. The battery is re-run for each report request.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&listenAddr, "listen", ":9402", "listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	host, err := buildHost()
	if err != nil {
		return err
	}
	manifest, err := loadManifest()
	if err != nil {
		return err
	}

	v := verify.New(host, manifest)
	run := func() *report.Report {
		started := time.Now()
		return report.Build(host.Target(), started, v.Run())
	}
	return server.New(run).ListenAndServe(listenAddr)
}
