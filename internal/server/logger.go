package server

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Logger is the operational log: startup, accept failures, swallowed errors.
// Per-request traffic goes to the stream log instead.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value interface{}
}

// DefaultLogger writes timestamped level lines.
type DefaultLogger struct {
	logger *log.Logger
}

// NewDefaultLogger logs to stdout.
func NewDefaultLogger() *DefaultLogger {
	return NewLogger(os.Stdout)
}

func NewLogger(w io.Writer) *DefaultLogger {
	return &DefaultLogger{logger: log.New(w, "", 0)}
}

func (l *DefaultLogger) Debug(msg string, fields ...Field) {
	l.log("DEBUG", msg, fields...)
}

func (l *DefaultLogger) Info(msg string, fields ...Field) {
	l.log("INFO", msg, fields...)
}

func (l *DefaultLogger) Error(msg string, fields ...Field) {
	l.log("ERROR", msg, fields...)
}

func (l *DefaultLogger) Warn(msg string, fields ...Field) {
	l.log("WARN", msg, fields...)
}

// log writes one line: time, level, message, then key=value pairs. Values
// holding spaces or quotes are quoted so a line always stays one line.
func (l *DefaultLogger) log(level, msg string, fields ...Field) {
	line := time.Now().AppendFormat(make([]byte, 0, 128), "2006-01-02 15:04:05.000")
	line = append(line, ' ')
	line = append(line, level...)
	line = append(line, ' ')
	line = append(line, msg...)
	for _, f := range fields {
		line = append(line, ' ')
		line = append(line, f.Key...)
		line = append(line, '=')
		line = append(line, formatValue(f)...)
	}
	l.logger.Print(string(line))
}

// maxValueRunes bounds echoed request data; stacks are kept whole.
const maxValueRunes = 100

func formatValue(f Field) string {
	s := fmt.Sprint(f.Value)
	if f.Key != "stack" {
		s = truncateRunes(s, maxValueRunes)
	}
	if s == "" || strings.ContainsAny(s, " \t\r\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

func truncateRunes(s string, limit int) string {
	n := 0
	for i := range s {
		if n == limit {
			return s[:i] + "..."
		}
		n++
	}
	return s
}

// NullLogger discards all logs (for testing)
type NullLogger struct{}

func (n *NullLogger) Debug(msg string, fields ...Field) {}
func (n *NullLogger) Info(msg string, fields ...Field)  {}
func (n *NullLogger) Error(msg string, fields ...Field) {}
func (n *NullLogger) Warn(msg string, fields ...Field)  {}
