package log

import "strings"

// LogLevel orders severities from Debug up to Fatal. Lines below the
// logger's level are dropped.
type LogLevel int

const (
	Debug LogLevel = iota
	Info
	Warn
	Error
	Fatal
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l LogLevel) String() string {
	if l < Debug || l > Fatal {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// Parse resolves a level name case-insensitively, defaulting to Info
// for anything unknown.
func Parse(level string) LogLevel {
	for i, name := range levelNames {
		if strings.EqualFold(level, name) {
			return LogLevel(i)
		}
	}
	return Info
}
