package contention

import (
	"io"

	"github.com/sirupsen/logrus"
)

// orDiscard returns log, or a logger that drops everything when log is nil.
func orDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
