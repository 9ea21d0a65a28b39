package log

import "github.com/fatih/color"

var (
	debugColor = color.New(color.FgHiCyan)
	infoColor  = color.New(color.FgHiGreen)
	warnColor  = color.New(color.FgHiYellow)
	errorColor = color.New(color.FgHiRed)
	fatalColor = color.New(color.FgHiRed)
)

func Color(l LogLevel) *color.Color {
	switch l {
	case Debug:
		return debugColor
	case Info:
		return infoColor
	case Warn:
		return warnColor
	case Error:
		return errorColor
	case Fatal:
		return fatalColor
	default:
		return color.New(color.Reset)
	}
}
