package cli

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// logger is shared by every command and handed to the store and the
// allocator. It writes to stderr so stdout stays machine-readable.
var logger = newLogger(os.Stderr, false)

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.WarnLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

func configureLogger(w io.Writer, verbose bool) {
	logger = newLogger(w, verbose)
}

// VerboseLog prints a debug message, visible only with --verbose.
func VerboseLog(format string, args ...any) {
	logger.Debugf(format, args...)
}
