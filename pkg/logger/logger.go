package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
)

// Logger is the leveled logging interface used across the server.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
	Fatalf(format string, v ...interface{})

	WithModule(name string) Logger
	WithFields(fields map[string]interface{}) Logger
}

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

func parseLevel(l string) int {
	switch strings.ToLower(l) {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

type stdLogger struct {
	level  int
	out    *log.Logger
	module string
	fields map[string]interface{}
}

// NewLogger builds a logger writing to stderr, and additionally to logFile
// when it is non-empty. Unknown levels fall back to info.
func NewLogger(level, logFile string) Logger {
	var w io.Writer = os.Stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Printf("[LOGGER] cannot open log file %s: %v", logFile, err)
		} else {
			w = io.MultiWriter(os.Stderr, f)
		}
	}
	return &stdLogger{
		level: parseLevel(level),
		out:   log.New(w, "", log.LstdFlags),
	}
}

func (l *stdLogger) clone() *stdLogger {
	fields := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return &stdLogger{level: l.level, out: l.out, module: l.module, fields: fields}
}

func (l *stdLogger) WithModule(name string) Logger {
	c := l.clone()
	c.module = name
	return c
}

func (l *stdLogger) WithFields(fields map[string]interface{}) Logger {
	c := l.clone()
	if c.fields == nil {
		c.fields = make(map[string]interface{}, len(fields))
	}
	for k, v := range fields {
		c.fields[k] = v
	}
	return c
}

func (l *stdLogger) prefix(tag string) string {
	var b strings.Builder
	b.WriteString(tag)
	if l.module != "" {
		fmt.Fprintf(&b, " [%s]", strings.ToUpper(l.module))
	}
	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, l.fields[k])
		}
	}
	return b.String()
}

func (l *stdLogger) Debugf(format string, v ...interface{}) {
	if l.level <= levelDebug {
		l.out.Printf(l.prefix("[DEBUG]")+" "+format, v...)
	}
}

func (l *stdLogger) Infof(format string, v ...interface{}) {
	if l.level <= levelInfo {
		l.out.Printf(l.prefix("[INFO]")+" "+format, v...)
	}
}

func (l *stdLogger) Warnf(format string, v ...interface{}) {
	if l.level <= levelWarn {
		l.out.Printf(l.prefix("[WARN]")+" "+format, v...)
	}
}

func (l *stdLogger) Errorf(format string, v ...interface{}) {
	l.out.Printf(l.prefix("[ERROR]")+" "+format, v...)
}

func (l *stdLogger) Fatalf(format string, v ...interface{}) {
	l.out.Fatalf(l.prefix("[FATAL]")+" "+format, v...)
}
