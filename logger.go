package main

import (
	"io"

	"github.com/sirupsen/logrus"
)

// newLogger logs to w, at debug level when verbose. Records go to
// stdout, so logs never do.
func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	var l = logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}
