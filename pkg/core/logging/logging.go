// Package logging wires logrus behind small helpers so packages can grab a
// component-scoped logger without threading a *logrus.Logger everywhere.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Init configures the global logrus instance. Format is "text" or "json";
// an unknown level falls back to info. If w is nil, os.Stderr is used.
func Init(level string, format string, w ...io.Writer) {
	var writer io.Writer = os.Stderr
	if len(w) > 0 && w[0] != nil {
		writer = w[0]
	}
	logrus.SetOutput(writer)

	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	switch format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// New returns a logger entry carrying a "component" field for module-scoped
// logging.
func New(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}
