// Package logging implements C4, the LoggerWriter: a thread-safe append
// sink for structured per-request log entries (spec §4.4/§6).
//
// Grounded on mu-httpd's src/logger.c (one entry per processed request,
// guarded by its own lock so concurrent workers never tear a line) and
// badu-http's single srv.logf sink for systemic messages. Backed by
// go.uber.org/zap for systemic diagnostics and
// gopkg.in/natefinch/lumberjack.v2 for the rotating request log, the
// pairing observed in the ryanbekhen-ngebut manifest (SPEC_FULL.md's
// ambient-stack expansion). lumberjack.Logger.Write is itself
// concurrency-safe, which satisfies the spec's "each logger sink is
// guarded by its own mutex" requirement without a hand-rolled lock.
package logging

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/badu/httpd/internal/config"
	"github.com/badu/httpd/internal/reqmsg"
)

// RequestLogEntry is one processed-request record (spec §6 log line
// grammar, plus an additive byte-count field per SPEC_FULL.md's
// supplemented features).
type RequestLogEntry struct {
	Level  string
	When   time.Time
	Method reqmsg.Method
	Status reqmsg.StatusCode
	Path   string
	Bytes  int
}

// LoggerWriter is C4's external contract: append structured entries,
// safely from any number of concurrent workers.
type LoggerWriter interface {
	LogRequest(entry RequestLogEntry)
	LogSystem(msg string, fields ...zap.Field)
	LogSystemError(msg string, fields ...zap.Field)
	Sync() error
}

type writer struct {
	requestSink *lumberjack.Logger
	system      *zap.Logger
}

// New builds a LoggerWriter that appends request lines to
// cfg.LogDir/requests.txt (rotated by lumberjack) and routes systemic
// diagnostics through a zap.Logger.
func New(cfg config.Config) (LoggerWriter, error) {
	sink := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, config.DefaultLogFile),
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   false,
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.TimeKey = "time"
	zcfg.EncoderConfig.EncodeTime = zap.NewProductionEncoderConfig().EncodeTime
	system, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build system logger: %w", err)
	}

	return &writer{requestSink: sink, system: system}, nil
}

// LogRequest renders the "<ctime-locale> [LEVEL] <status> <method>
// <uri-path>" line spec §6 pins, plus the byte-count supplement, and
// appends it to the rotating request log.
func (w *writer) LogRequest(entry RequestLogEntry) {
	level := entry.Level
	if level == "" {
		level = "INFO"
		if entry.Status >= 400 {
			level = "ERROR"
		}
	}
	line := fmt.Sprintf("%s [%s] %d %s %s", entry.When.Format("Mon Jan 2 15:04:05 2006"), level, int(entry.Status), entry.Method, entry.Path)
	if entry.Bytes > 0 {
		line = fmt.Sprintf("%s %dB", line, entry.Bytes)
	}
	fmt.Fprintln(w.requestSink, line)
}

func (w *writer) LogSystem(msg string, fields ...zap.Field) {
	w.system.Info(msg, fields...)
}

func (w *writer) LogSystemError(msg string, fields ...zap.Field) {
	w.system.Error(msg, fields...)
}

func (w *writer) Sync() error {
	w.system.Sync()
	return w.requestSink.Close()
}
