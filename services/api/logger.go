package api

import (
	"fmt"

	"github.com/trezcool/dormadmin/core"
)

// restyLogger routes resty's internal messages to the application logger.
type restyLogger struct {
	logger core.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	if l.logger != nil {
		l.logger.Error(sprintf(format, v...))
	}
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	if l.logger != nil {
		l.logger.Warn(sprintf(format, v...))
	}
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	if l.logger != nil {
		l.logger.Debug(sprintf(format, v...))
	}
}

func sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
