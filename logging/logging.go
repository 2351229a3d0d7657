package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	// Log is the default logger for the application.
	Log = logrus.New()
)

// Init initializes the logger with the given log level.
func Init(level string) error {
	return InitWithOutput(level, os.Stderr)
}

// InitWithOutput is Init with an explicit destination, used by tests.
func InitWithOutput(level string, out io.Writer) error {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}

	Log.SetLevel(logLevel)
	Log.SetOutput(out)
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return nil
}

// For returns an entry tagged with the component emitting it, e.g.
// "engine" or "store".
func For(component string) *logrus.Entry {
	return Log.WithField("component", component)
}
