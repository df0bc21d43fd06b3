package logging

import "github.com/sirupsen/logrus"

var log = logrus.New()

// Setup configures the shared logger. Unknown level strings fall back to info.
func Setup(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// L returns the shared logger.
func L() *logrus.Logger {
	return log
}
