package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes leveled, colorized lines for task output.
// Console lines carry no timestamp prefix so that task runners can use
// the logger for user-facing output; file entries are timestamped.
type Logger struct {
	out    io.Writer
	errOut io.Writer
	file   io.Writer

	Name  string
	Level LogLevel

	TimeFormat string
	File       string
	NoColor    bool
	JSON       bool
	Rotation   *LoggerRotation
}

type LoggerRotation struct {
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

type logEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Service   string `json:"service,omitempty"`
	Message   string `json:"message"`
}

func NewLogger(name string, level LogLevel, file string) *Logger {
	l := &Logger{
		out:    os.Stdout,
		errOut: os.Stderr,

		Name:  name,
		Level: level,
		File:  file,

		TimeFormat: "2006-01-02 15:04:05",
		Rotation: &LoggerRotation{
			MaxSize:    128,
			MaxBackups: 5,
			MaxAge:     16,
			Compress:   false,
		},
	}

	l.setupFileWriter()

	return l
}

func (l *Logger) setupFileWriter() {
	if l.File == "" {
		return
	}

	l.file = &lumberjack.Logger{
		Filename:   l.File,
		MaxSize:    l.Rotation.MaxSize,
		MaxBackups: l.Rotation.MaxBackups,
		MaxAge:     l.Rotation.MaxAge,
		Compress:   l.Rotation.Compress,
	}
}

// SetOutput redirects console output. Error and Fatal lines go to errOut,
// everything else to out. File output is unaffected.
func (l *Logger) SetOutput(out, errOut io.Writer) {
	if out != nil {
		l.out = out
	}
	if errOut != nil {
		l.errOut = errOut
	}
}

func (l *Logger) log(level LogLevel, msg string, args ...any) {
	if level < l.Level {
		return
	}

	formattedMsg := fmt.Sprintf(msg, args...)
	if level >= Error {
		formattedMsg = "ERROR: " + formattedMsg
	}

	writer := l.out
	if level >= Error {
		writer = l.errOut
	}

	if l.NoColor {
		fmt.Fprintln(writer, formattedMsg)
	} else {
		Color(level).Fprintln(writer, formattedMsg)
	}

	if l.file != nil {
		l.logFile(level, formattedMsg)
	}

	if level == Fatal {
		os.Exit(1)
	}
}

func (l *Logger) logFile(level LogLevel, msg string) {
	timestamp := time.Now().Format(l.TimeFormat)

	if l.JSON {
		entry := logEntry{
			Timestamp: timestamp,
			Level:     level.String(),
			Message:   msg,
		}
		if l.Name != "" {
			entry.Service = l.Name
		}

		jsonBytes, _ := json.Marshal(entry)
		fmt.Fprintf(l.file, "%s\n", jsonBytes)
		return
	}

	prefix := fmt.Sprintf("[%s] %-5s", timestamp, level)
	if l.Name != "" {
		prefix = fmt.Sprintf("%s [%s]", prefix, l.Name)
	}

	fmt.Fprintf(l.file, "%s %s\n", prefix, msg)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log(Debug, msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.log(Info, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log(Warn, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log(Error, msg, args...)
}

// Fatal logs the message and terminates the process with status 1.
func (l *Logger) Fatal(msg string, args ...any) {
	l.log(Fatal, msg, args...)
}

// FatalStatus logs the message and terminates the process with the
// given status.
func (l *Logger) FatalStatus(status int, msg string, args ...any) {
	l.log(Error, msg, args...)
	os.Exit(status)
}

func (l *Logger) Named(name string) *Logger {
	return &Logger{
		out:    l.out,
		errOut: l.errOut,
		file:   l.file, // Share the same writer

		Name:  fmt.Sprintf("%s/%s", l.Name, name),
		Level: l.Level,

		TimeFormat: l.TimeFormat,
		File:       l.File,
		NoColor:    l.NoColor,
		JSON:       l.JSON,
		Rotation:   l.Rotation,
	}
}
