package onboarding

import "github.com/sirupsen/logrus"

// StatusKind classifies a status message
type StatusKind int

const (
	StatusMessage StatusKind = iota
	ErrorMessage
)

func (k StatusKind) String() string {
	if k == ErrorMessage {
		return "error"
	}
	return "status"
}

// StatusFunc receives user-facing status messages
type StatusFunc func(kind StatusKind, msg string)

// LogStatus returns a StatusFunc writing messages to logger
func LogStatus(logger *logrus.Logger) StatusFunc {
	return func(kind StatusKind, msg string) {
		if kind == ErrorMessage {
			logger.Error(msg)
			return
		}
		logger.Info(msg)
	}
}
