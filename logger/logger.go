package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// FormatPretty is an alias of the console format.
const FormatPretty = "pretty"

// Logger is a zerolog logger bound to one service. The zero value is not
// usable; build one with New, NewWithWriter or NewNop.
type Logger struct {
	zl      zerolog.Logger
	service string
}

// Init applies defaults to cfg and installs the result as the global
// logger.
func Init(cfg Config, serviceName string) {
	cfg.ApplyDefaults()
	SetGlobalLogger(New(&cfg, serviceName))
}

// New writes to the stream named by cfg.Output.
func New(cfg *Config, serviceName string) *Logger {
	return NewWithWriter(cfg, serviceName, outputWriter(cfg.Output))
}

// NewWithWriter writes to w. An empty or unknown level means info. The
// zerolog global level is not touched.
func NewWithWriter(cfg *Config, serviceName string, w io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	switch strings.ToLower(cfg.Format) {
	case "console", FormatPretty:
		zl = zerolog.New(consoleWriter(cfg.NoColor, serviceName, w))
	default:
		zl = zerolog.New(w)
	}

	zc := zl.Level(level).With()
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	if serviceName != "" {
		zc = zc.Str("service", serviceName)
	}
	return &Logger{zl: zc.Logger(), service: serviceName}
}

// NewDefault is an info level console logger on stderr.
func NewDefault(serviceName string) *Logger {
	cfg := Config{}
	cfg.ApplyDefaults()
	return New(&cfg, serviceName)
}

// NewNop discards everything.
func NewNop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// WithComponent tags every event with component=name.
func (l *Logger) WithComponent(name string) *Logger {
	return l.With(map[string]interface{}{FieldComponent: name})
}

// With returns a child logger carrying fields on every event.
func (l *Logger) With(fields map[string]interface{}) *Logger {
	zc := l.zl.With()
	for k, v := range fields {
		zc = zc.Interface(k, v)
	}
	return &Logger{zl: zc.Logger(), service: l.service}
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Error(), msg, fields)
}

// emit is a no-op for a nil event, which zerolog returns below the level.
func emit(ev *zerolog.Event, msg string, fields []map[string]interface{}) {
	if ev == nil {
		return
	}
	for _, fm := range fields {
		ev.Fields(fm)
	}
	ev.Msg(msg)
}

func outputWriter(output string) io.Writer {
	if strings.EqualFold(output, "stdout") {
		return os.Stdout
	}
	return os.Stderr
}

// consoleWriter prints "[SVC][LVL] message key:value", where SVC is the
// first three letters of the service name.
func consoleWriter(noColor bool, serviceName string, w io.Writer) zerolog.ConsoleWriter {
	prefix := ""
	if len(serviceName) >= 3 {
		prefix = paint(noColor, "\033[34m", "["+strings.ToUpper(serviceName[:3])+"]")
	}
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i interface{}) string {
			lvl, _ := i.(string)
			tag, color := levelTag(lvl)
			return prefix + paint(noColor, color, tag)
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s:", i)
		},
	}
}

func levelTag(level string) (tag, color string) {
	switch level {
	case zerolog.LevelTraceValue:
		return "[TRC]", ""
	case zerolog.LevelDebugValue:
		return "[DBG]", "\033[36m"
	case zerolog.LevelInfoValue:
		return "[INF]", "\033[32m"
	case zerolog.LevelWarnValue:
		return "[WRN]", "\033[33m"
	case zerolog.LevelErrorValue:
		return "[ERR]", "\033[31m"
	case zerolog.LevelFatalValue:
		return "[FTL]", "\033[35m"
	default:
		return "[" + strings.ToUpper(level) + "]", ""
	}
}

func paint(noColor bool, color, s string) string {
	if noColor || color == "" {
		return s
	}
	return color + s + "\033[0m"
}
