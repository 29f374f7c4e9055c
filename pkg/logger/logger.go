package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger é a interface para logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	With(keysAndValues ...interface{}) Logger
}

// ZerologLogger é a implementação de Logger sobre o zerolog
type ZerologLogger struct {
	log zerolog.Logger
}

// NewLogger cria uma nova instância de Logger escrevendo em stdout
func NewLogger(level, format string) Logger {
	return NewLoggerWithWriter(os.Stdout, level, format)
}

// NewLoggerWithWriter cria um Logger que escreve no writer informado
func NewLoggerWithWriter(w io.Writer, level, format string) Logger {
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return &ZerologLogger{
		log: zerolog.New(w).Level(lvl).With().Timestamp().Logger(),
	}
}

// NewNop cria um Logger que descarta tudo (útil em testes)
func NewNop() Logger {
	return &ZerologLogger{log: zerolog.Nop()}
}

// Info registra uma mensagem de informação
func (l *ZerologLogger) Info(msg string, keysAndValues ...interface{}) {
	withFields(l.log.Info(), keysAndValues).Msg(msg)
}

// Error registra uma mensagem de erro
func (l *ZerologLogger) Error(msg string, keysAndValues ...interface{}) {
	withFields(l.log.Error(), keysAndValues).Msg(msg)
}

// Debug registra uma mensagem de debug
func (l *ZerologLogger) Debug(msg string, keysAndValues ...interface{}) {
	withFields(l.log.Debug(), keysAndValues).Msg(msg)
}

// Warn registra uma mensagem de aviso
func (l *ZerologLogger) Warn(msg string, keysAndValues ...interface{}) {
	withFields(l.log.Warn(), keysAndValues).Msg(msg)
}

// With retorna um Logger filho com os campos fixos informados
func (l *ZerologLogger) With(keysAndValues ...interface{}) Logger {
	ctx := l.log.With()
	for i := 0; i < len(keysAndValues); i += 2 {
		key, value := pair(keysAndValues, i)
		ctx = ctx.Interface(key, value)
	}
	return &ZerologLogger{log: ctx.Logger()}
}

// withFields converte a lista chave/valor em campos do evento
func withFields(e *zerolog.Event, keysAndValues []interface{}) *zerolog.Event {
	for i := 0; i < len(keysAndValues); i += 2 {
		key, value := pair(keysAndValues, i)
		if err, ok := value.(error); ok {
			e = e.AnErr(key, err)
			continue
		}
		e = e.Interface(key, value)
	}
	return e
}

func pair(keysAndValues []interface{}, i int) (string, interface{}) {
	key, ok := keysAndValues[i].(string)
	if !ok {
		key = fmt.Sprint(keysAndValues[i])
	}
	if i+1 >= len(keysAndValues) {
		return key, "(MISSING)"
	}
	return key, keysAndValues[i+1]
}
