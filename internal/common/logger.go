package common

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a text logger at the given level ("debug", "info",
// "warn", ...). An unknown level falls back to info.
func NewLogger(out io.Writer, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// Banner logs a framed title block.
func Banner(log logrus.FieldLogger, lines ...string) {
	log.Info("=========================================================")
	for _, l := range lines {
		log.Info(l)
	}
	log.Info("=========================================================")
}
