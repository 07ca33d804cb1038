// Package server exposes verification results over HTTP for CI
// dashboards and Prometheus scrapes.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/cloudberry-contrib/imagecheck/internal/metrics"
	"github.com/cloudberry-contrib/imagecheck/internal/report"
)

// RunFunc executes one verification run and returns its report. The
// verifier is stateless and idempotent, so the server simply re-runs
// the battery whenever a fresh report is needed.
type RunFunc func() *report.Report

// Server serves the report, a health verdict, and Prometheus metrics.
type Server struct {
	run      RunFunc
	exporter *metrics.Exporter
}

// New builds a server around a run function.
func New(run RunFunc) *Server {
	return &Server{run: run, exporter: metrics.NewExporter()}
}

// Router wires up the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/report", s.handleReport).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.Handle("/metrics", s.exporter.Handler()).Methods(http.MethodGet)
	return r
}

// ListenAndServe blocks serving HTTP on addr.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // a run shells out per package query
	}
	log.WithField("addr", addr).Info("report server listening")
	return srv.ListenAndServe()
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep := s.run()
	s.exporter.Observe(rep)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rep); err != nil {
		log.WithError(err).Error("failed to encode report")
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	rep := s.run()
	s.exporter.Observe(rep)

	if rep.Ok() {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	w.Write([]byte("verification failed\n"))
}
