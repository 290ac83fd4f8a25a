// Package logger emits one JSON object per log line. Fields keep their
// call-site order in the output, which makes the league request logs
// (user, tier, week, rank) readable without a log viewer.
package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log line.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelFatal {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "FATAL":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// Field is a single structured key-value pair.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field      { return Field{key, value} }
func Int(key string, value int) Field     { return Field{key, value} }
func Int64(key string, value int64) Field { return Field{key, value} }
func Bool(key string, value bool) Field   { return Field{key, value} }
func Any(key string, value any) Field     { return Field{key, value} }

// Duration renders as a human-readable string rather than nanoseconds.
func Duration(key string, value time.Duration) Field {
	return Field{key, value.String()}
}

// Err uses the fixed key "error"; a nil error logs as null.
func Err(err error) Field {
	if err == nil {
		return Field{"error", nil}
	}
	return Field{"error", err.Error()}
}

// Field helpers shared across the league engine.
func UserID(id string) Field        { return String("user_id", id) }
func TierName(tier string) Field    { return String("tier", tier) }
func WeekStart(week string) Field   { return String("week_start", week) }
func XPAmount(xp int) Field         { return Int("xp_amount", xp) }
func RankPosition(pos int) Field    { return Int("rank_position", pos) }
func RosterSize(n int) Field        { return Int("roster_size", n) }
func Component(name string) Field   { return String("component", name) }
func Operation(name string) Field   { return String("operation", name) }
func Latency(d time.Duration) Field { return Duration("latency", d) }

// Logger writes JSON lines to a single destination. Safe for concurrent
// use; the mutex covers only the final write so formatting happens
// outside the lock.
type Logger struct {
	mu        sync.Mutex
	out       io.Writer
	level     Level
	base      []Field
	addCaller bool
}

// Options configures a Logger.
type Options struct {
	Output    io.Writer
	Level     Level
	AddCaller bool
}

// New builds a Logger; a nil Output falls back to stdout.
func New(opts Options) *Logger {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Logger{out: opts.Output, level: opts.Level, addCaller: opts.AddCaller}
}

// Default returns an info-level stdout logger.
func Default() *Logger {
	return New(Options{Level: LevelInfo})
}

// With returns a child logger whose lines always carry the given fields.
func (l *Logger) With(fields ...Field) *Logger {
	child := &Logger{out: l.out, level: l.level, addCaller: l.addCaller}
	child.base = append(append([]Field{}, l.base...), fields...)
	return child
}

func (l *Logger) Debug(msg string, fields ...Field) { l.write(LevelDebug, msg, fields) }
func (l *Logger) Info(msg string, fields ...Field)  { l.write(LevelInfo, msg, fields) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.write(LevelWarn, msg, fields) }
func (l *Logger) Error(msg string, fields ...Field) { l.write(LevelError, msg, fields) }

// Fatal logs and terminates the process.
func (l *Logger) Fatal(msg string, fields ...Field) {
	l.write(LevelFatal, msg, fields)
	os.Exit(1)
}

func (l *Logger) write(level Level, msg string, fields []Field) {
	if level < l.level {
		return
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	appendPair(&buf, "ts", time.Now().UTC().Format(time.RFC3339Nano))
	buf.WriteByte(',')
	appendPair(&buf, "level", level.String())
	buf.WriteByte(',')
	appendPair(&buf, "msg", msg)

	if l.addCaller {
		if _, file, line, ok := runtime.Caller(2); ok {
			if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
				file = file[idx+1:]
			}
			buf.WriteByte(',')
			appendPair(&buf, "caller", fmt.Sprintf("%s:%d", file, line))
		}
	}

	for _, f := range l.base {
		buf.WriteByte(',')
		appendPair(&buf, f.Key, f.Value)
	}
	for _, f := range fields {
		buf.WriteByte(',')
		appendPair(&buf, f.Key, f.Value)
	}

	buf.WriteString("}\n")

	l.mu.Lock()
	l.out.Write(buf.Bytes())
	l.mu.Unlock()
}

func appendPair(buf *bytes.Buffer, key string, value any) {
	k, _ := json.Marshal(key)
	buf.Write(k)
	buf.WriteByte(':')
	v, err := json.Marshal(value)
	if err != nil {
		v, _ = json.Marshal(fmt.Sprint(value))
	}
	buf.Write(v)
}
