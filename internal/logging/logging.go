// Package logging builds the application logger.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns the shared logrus logger. Level is taken from
// LOG_LEVEL (default info).
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
