package logx

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var levelTags = [...]string{Debug: "DEBUG", Info: "INFO", Warn: "WARN", Error: "ERROR"}

func (l Level) String() string {
	if l < Debug || l > Error {
		return "?"
	}
	return levelTags[l]
}

var (
	mu       sync.Mutex
	level    = Info
	buf      = make([]string, 0, 500)
	maxLines = 500
	// stderr stays quiet by default so the TUI is not clobbered; AMTCONSOLE_LOG_STDERR=1 enables it
	toStderr = false
)

func SetLevel(l Level) { mu.Lock(); level = l; mu.Unlock() }

// ParseLevel maps a level name to a Level. Unknown names report false.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug, true
	case "info":
		return Info, true
	case "warn", "warning":
		return Warn, true
	case "error":
		return Error, true
	}
	return Info, false
}

func SetLevelFromEnv() {
	if l, ok := ParseLevel(os.Getenv("AMTCONSOLE_LOG_LEVEL")); ok {
		SetLevel(l)
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("AMTCONSOLE_LOG_STDERR"))); v != "" {
		mu.Lock()
		toStderr = v != "0" && v != "false" && v != "no"
		mu.Unlock()
	}
}

func Debugf(format string, a ...any) { logf(Debug, "", format, a...) }
func Infof(format string, a ...any)  { logf(Info, "", format, a...) }
func Warnf(format string, a ...any)  { logf(Warn, "", format, a...) }
func Errorf(format string, a ...any) { logf(Error, "", format, a...) }

// Logger prefixes every line with a component name.
type Logger struct {
	name string
}

func Named(name string) Logger { return Logger{name: name} }

func (l Logger) Debugf(format string, a ...any) { logf(Debug, l.name, format, a...) }
func (l Logger) Infof(format string, a ...any)  { logf(Info, l.name, format, a...) }
func (l Logger) Warnf(format string, a ...any)  { logf(Warn, l.name, format, a...) }
func (l Logger) Errorf(format string, a ...any) { logf(Error, l.name, format, a...) }

func logf(l Level, name, format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	if l < level {
		return
	}
	ts := time.Now().Format("2006-01-02T15:04:05.000Z07:00")
	msg := fmt.Sprintf(format, a...)
	if name != "" {
		msg = name + ": " + msg
	}
	line := fmt.Sprintf("%s %-5s %s", ts, l, msg)
	if len(buf) >= maxLines {
		// drop oldest
		copy(buf[0:], buf[1:])
		buf = buf[:len(buf)-1]
	}
	buf = append(buf, line)
	if toStderr {
		fmt.Fprintln(os.Stderr, line)
	}
}

func Dump() string {
	mu.Lock()
	defer mu.Unlock()
	return strings.Join(buf, "\n")
}

func Lines() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(buf))
	copy(out, buf)
	return out
}

// Reset drops buffered lines; tests use it to start from a clean buffer.
func Reset() {
	mu.Lock()
	buf = buf[:0]
	mu.Unlock()
}
