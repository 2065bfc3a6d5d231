package server

import (
	"os"

	"github.com/sirupsen/logrus"
)

// log is the package-level structured logger, replacing the teacher's
// bare log.Printf access-log lines with field-carrying entries.
var log = logrus.New()

func init() {
	if os.Getenv("HTTP_DBG") != "" {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
}
