package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NullLogger discards everything; used where a logger is required but output isn't wanted, e.g. tests.
var NullLogger = &logrus.Logger{
	Out:       io.Discard,
	Formatter: new(logrus.TextFormatter),
	Hooks:     make(logrus.LevelHooks),
	Level:     logrus.PanicLevel,
}

// NullEntry is an entry on NullLogger.
func NullEntry() *logrus.Entry {
	return logrus.NewEntry(NullLogger)
}
