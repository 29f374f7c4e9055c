package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/hugohenrick/pitchdeck/pkg/logger"
)

// watermillLogger adapta logger.Logger ao watermill.LoggerAdapter
type watermillLogger struct {
	log logger.Logger
}

// NewWatermillLogger cria o adaptador de log usado pelo watermill
func NewWatermillLogger(log logger.Logger) watermill.LoggerAdapter {
	return &watermillLogger{log: log}
}

func (l *watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.log.Error(msg, append(flatten(fields), "error", err)...)
}

func (l *watermillLogger) Info(msg string, fields watermill.LogFields) {
	l.log.Info(msg, flatten(fields)...)
}

func (l *watermillLogger) Debug(msg string, fields watermill.LogFields) {
	l.log.Debug(msg, flatten(fields)...)
}

// Trace é rebaixado para debug
func (l *watermillLogger) Trace(msg string, fields watermill.LogFields) {
	l.log.Debug(msg, flatten(fields)...)
}

func (l *watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillLogger{log: l.log.With(flatten(fields)...)}
}

func flatten(fields watermill.LogFields) []interface{} {
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return kv
}
