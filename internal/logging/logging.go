// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// UTCFormatter wraps another formatter and normalizes timestamps to UTC
// so logs from different build hosts line up.
type UTCFormatter struct {
	logrus.Formatter
}

func (u UTCFormatter) Format(e *logrus.Entry) ([]byte, error) {
	e.Time = e.Time.UTC()
	return u.Formatter.Format(e)
}

// Setup configures level and formatter. Logs go to stderr so table and
// JSON report output on stdout stays machine-parseable.
func Setup(level string, jsonFormat bool) error {
	logrus.SetOutput(os.Stderr)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logrus.SetLevel(lvl)

	if jsonFormat {
		logrus.SetFormatter(UTCFormatter{Formatter: &logrus.JSONFormatter{}})
	} else {
		logrus.SetFormatter(UTCFormatter{Formatter: &logrus.TextFormatter{FullTimestamp: true}})
	}
	return nil
}
