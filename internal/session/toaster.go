package session

import (
	"go.uber.org/zap"

	"github.com/SanjanaPaudel/Sajha-Sathi/pkg/logger"
)

// Toaster receives the user-visible outcome of each operation. The UI layer
// renders these as toasts; the default implementation writes log lines.
type Toaster interface {
	Success(title, message string)
	Failure(title, message string)
}

// LogToaster emits toast signals through the structured logger.
type LogToaster struct {
	log *zap.Logger
}

// NewLogToaster constructs a Toaster writing to the session module logger.
func NewLogToaster() *LogToaster {
	return &LogToaster{log: logger.WithModule("session")}
}

// Success logs a positive outcome.
func (t *LogToaster) Success(title, message string) {
	t.log.Info("toast", zap.String("title", title), zap.String("message", message))
}

// Failure logs a negative outcome.
func (t *LogToaster) Failure(title, message string) {
	t.log.Warn("toast", zap.String("title", title), zap.String("message", message))
}
