package log

import (
	"fmt"
	"io"
	"os"
	"path"
	"reflect"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Level represents a log level
type Level int

func (l Level) String() string {
	switch l {
	case LevelError:
		return "[ ERROR ]"
	case LevelWarn:
		return "[  WARN ]"
	case LevelInfo:
		return "[  INFO ]"
	case LevelDebug:
		return "[ DEBUG ]"
	case LevelTrace:
		return "[ TRACE ]"
	default:
		return "[ TRACE ]"
	}
}

// log level
const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// LogLevel defines the threshold of entries logged
var LogLevel = LevelInfo

var (
	mu     sync.Mutex
	output io.Writer = os.Stderr
	color            = isTerminal(os.Stderr)
)

var styles = map[Level]lipgloss.Style{
	LevelError: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	LevelWarn:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
	LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	LevelDebug: lipgloss.NewStyle().Faint(true),
	LevelTrace: lipgloss.NewStyle().Faint(true),
}

// SetOutput redirects log entries to w. Colors are only used when w is a
// terminal.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	color = false
	if f, ok := w.(*os.File); ok {
		color = isTerminal(f)
	}
}

// Log prints a log entry at the specified level
func Log(level Level, format string, a ...interface{}) {
	if level > LogLevel {
		return
	}
	caller := strings.Split(path.Base(getCaller()), ".")[0]
	mu.Lock()
	defer mu.Unlock()
	tag := level.String()
	if color {
		tag = styles[level].Render(tag)
	}
	fmt.Fprintf(output, "%s %s: %s\n", tag, caller, fmt.Sprintf(format, a...))
}

// Error prints a LevelError log entry
func Error(format string, a ...interface{}) {
	Log(LevelError, format, a...)
}

// Warn prints a LevelWarn log entry
func Warn(format string, a ...interface{}) {
	Log(LevelWarn, format, a...)
}

// Info prints a LevelInfo log entry
func Info(format string, a ...interface{}) {
	Log(LevelInfo, format, a...)
}

// Debug prints a LevelDebug log entry
func Debug(format string, a ...interface{}) {
	Log(LevelDebug, format, a...)
}

// Trace prints a LevelTrace log entry
func Trace(format string, a ...interface{}) {
	Log(LevelTrace, format, a...)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func getCaller() string {
	self := reflect.TypeOf(LogLevel).PkgPath()
	caller := self
	for skip := 0; strings.HasPrefix(caller, self); skip++ {
		if pc, _, _, ok := runtime.Caller(skip); ok {
			details := runtime.FuncForPC(pc)
			caller = details.Name()
		} else {
			return "unknown"
		}
	}
	return caller
}
