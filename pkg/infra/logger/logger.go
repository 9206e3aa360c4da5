package logger

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the service logger: JSON entries appended to the given
// file through an async writer, mirrored to stdout via a hook.
func NewLogger(logFile string, level string) *logrus.Logger {
	l := logrus.New()

	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})

	if parsed, err := logrus.ParseLevel(level); err == nil {
		l.SetLevel(parsed)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}

	if logFile == "" {
		logFile = "logs/sentinel.log"
	}
	logFile = filepath.Clean(logFile)

	if err := os.MkdirAll(filepath.Dir(logFile), 0750); err != nil {
		log.Fatalf("failed to create log directory: %v", err)
	}

	writer, err := NewAsyncFileWriter(logFile, 32*1024)
	if err != nil {
		log.Fatalf("failed to initialize async log writer: %v", err)
	}
	l.SetOutput(writer)

	l.AddHook(NewConsoleHook(1024))

	return l
}
