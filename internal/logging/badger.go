package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// BadgerLogger adapts the global logger to badger.Logger. Badger's info
// chatter is demoted to debug.
type BadgerLogger struct {
	logger zerolog.Logger
}

// NewBadgerLogger returns a logger tagged with component=badger.
func NewBadgerLogger() *BadgerLogger {
	return &BadgerLogger{logger: With("badger")}
}

func (b *BadgerLogger) Errorf(format string, args ...interface{}) {
	b.logger.Error().Msgf(strings.TrimSpace(format), args...)
}

func (b *BadgerLogger) Warningf(format string, args ...interface{}) {
	b.logger.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (b *BadgerLogger) Infof(format string, args ...interface{}) {
	b.logger.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (b *BadgerLogger) Debugf(format string, args ...interface{}) {
	b.logger.Debug().Msgf(strings.TrimSpace(format), args...)
}
