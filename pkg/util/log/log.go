// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

// Package log is the process-wide leveled logger, backed by seelog.
package log

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cihub/seelog"
)

// maxBufferedLogs caps the lines kept until the logger is set up. Later
// lines are dropped.
const maxBufferedLogs = 1000

var (
	logger atomic.Pointer[DatadogLogger]

	// This buffer holds log lines sent to the logger before its
	// initialization, e.g. while the configuration is being loaded.
	//
	// This buffer should be very short lived, but a process embedding the
	// decoder may never set the logger up.
	logsBuffer           = []func(){}
	bufferLogsBeforeInit = true
	bufferMutex          sync.Mutex
	defaultStackDepth    = 3
)

// DatadogLogger wrapper structure for seelog
type DatadogLogger struct {
	inner seelog.LoggerInterface
	level seelog.LogLevel
	l     sync.RWMutex
}

// SetupDatadogLogger configure logger singleton with seelog interface
func SetupDatadogLogger(l seelog.LoggerInterface, level string) {
	lvl, ok := seelog.LogLevelFromString(strings.ToLower(level))
	if !ok {
		lvl = seelog.InfoLvl
	}
	// The exported functions add two frames between the caller and seelog.
	l.SetAdditionalStackDepth(defaultStackDepth) //nolint:errcheck

	// Flushing logs since the logger is now initialized
	bufferMutex.Lock()
	defer bufferMutex.Unlock()
	logger.Store(&DatadogLogger{
		inner: l,
		level: lvl,
	})
	bufferLogsBeforeInit = false
	for _, logLine := range logsBuffer {
		logLine()
	}
	logsBuffer = []func(){}
}

// addLogToBuffer keeps logHandle for the logger being set up. It reports
// false when the logger is already set up, the caller then logs directly.
func addLogToBuffer(logHandle func()) bool {
	bufferMutex.Lock()
	defer bufferMutex.Unlock()

	if !bufferLogsBeforeInit {
		return false
	}
	if len(logsBuffer) < maxBufferedLogs {
		logsBuffer = append(logsBuffer, logHandle)
	}
	return true
}

func bufferedLogs() int {
	bufferMutex.Lock()
	defer bufferMutex.Unlock()
	return len(logsBuffer)
}

func (sw *DatadogLogger) replaceInnerLogger(l seelog.LoggerInterface) seelog.LoggerInterface {
	sw.l.Lock()
	defer sw.l.Unlock()

	old := sw.inner
	sw.inner = l

	return old
}

func (sw *DatadogLogger) flush() {
	sw.l.RLock()
	defer sw.l.RUnlock()

	sw.inner.Flush()
}

func (sw *DatadogLogger) changeLogLevel(level string) error {
	sw.l.Lock()
	defer sw.l.Unlock()

	lvl, ok := seelog.LogLevelFromString(strings.ToLower(level))
	if !ok {
		return errors.New("bad log level")
	}
	sw.level = lvl
	return nil
}

func (sw *DatadogLogger) shouldLog(level seelog.LogLevel) bool {
	sw.l.RLock()
	shouldLog := level >= sw.level
	sw.l.RUnlock()

	return shouldLog
}

func (sw *DatadogLogger) getLogLevel() seelog.LogLevel {
	sw.l.RLock()
	defer sw.l.RUnlock()

	return sw.level
}

// write sends s to the inner logger at level.
func (sw *DatadogLogger) write(level seelog.LogLevel, s string) error {
	sw.l.Lock()
	defer sw.l.Unlock()

	switch level {
	case seelog.TraceLvl:
		sw.inner.Trace(s)
	case seelog.DebugLvl:
		sw.inner.Debug(s)
	case seelog.InfoLvl:
		sw.inner.Info(s)
	case seelog.WarnLvl:
		return sw.inner.Warn(s)
	case seelog.ErrorLvl:
		return sw.inner.Error(s)
	case seelog.CriticalLvl:
		return sw.inner.Critical(s)
	}
	return nil
}

func buildLogEntry(v ...interface{}) string {
	var fmtBuffer bytes.Buffer

	for i := 0; i < len(v)-1; i++ {
		fmtBuffer.WriteString("%v ")
	}
	fmtBuffer.WriteString("%v")

	return fmt.Sprintf(fmtBuffer.String(), v...)
}

// current returns the logger once it is set up, nil before.
func current() *DatadogLogger {
	return logger.Load()
}

func log(logLevel seelog.LogLevel, bufferFunc func(), msg func() string) error {
	l := current()
	if l == nil && addLogToBuffer(bufferFunc) {
		return nil
	}
	if l == nil {
		// set up since we looked
		l = current()
	}
	if l.shouldLog(logLevel) {
		return l.write(logLevel, msg())
	}
	return nil
}

func logWithError(logLevel seelog.LogLevel, bufferFunc func(), fallbackStderr bool, msg string) error {
	l := current()
	if l == nil && !addLogToBuffer(bufferFunc) {
		l = current()
	}
	if l != nil && l.shouldLog(logLevel) {
		return l.write(logLevel, msg)
	}
	if fallbackStderr {
		fmt.Fprintf(os.Stderr, "%s: %s\n", logLevel.String(), msg)
	}
	return errors.New(msg)
}

// Trace logs at the trace level
func Trace(v ...interface{}) {
	log(seelog.TraceLvl, func() { Trace(v...) }, func() string { return buildLogEntry(v...) }) //nolint:errcheck
}

// Tracef logs with format at the trace level
func Tracef(format string, params ...interface{}) {
	log(seelog.TraceLvl, func() { Tracef(format, params...) }, func() string { return fmt.Sprintf(format, params...) }) //nolint:errcheck
}

// Debug logs at the debug level
func Debug(v ...interface{}) {
	log(seelog.DebugLvl, func() { Debug(v...) }, func() string { return buildLogEntry(v...) }) //nolint:errcheck
}

// Debugf logs with format at the debug level
func Debugf(format string, params ...interface{}) {
	log(seelog.DebugLvl, func() { Debugf(format, params...) }, func() string { return fmt.Sprintf(format, params...) }) //nolint:errcheck
}

// Info logs at the info level
func Info(v ...interface{}) {
	log(seelog.InfoLvl, func() { Info(v...) }, func() string { return buildLogEntry(v...) }) //nolint:errcheck
}

// Infof logs with format at the info level
func Infof(format string, params ...interface{}) {
	log(seelog.InfoLvl, func() { Infof(format, params...) }, func() string { return fmt.Sprintf(format, params...) }) //nolint:errcheck
}

// Warn logs at the warn level and returns an error containing the formated log message
func Warn(v ...interface{}) error {
	return logWithError(seelog.WarnLvl, func() { Warn(v...) }, false, buildLogEntry(v...))
}

// Warnf logs with format at the warn level and returns an error containing the formated log message
func Warnf(format string, params ...interface{}) error {
	return logWithError(seelog.WarnLvl, func() { Warnf(format, params...) }, false, fmt.Sprintf(format, params...))
}

// Error logs at the error level and returns an error containing the formated log message
func Error(v ...interface{}) error {
	return logWithError(seelog.ErrorLvl, func() { Error(v...) }, true, buildLogEntry(v...))
}

// Errorf logs with format at the error level and returns an error containing the formated log message
func Errorf(format string, params ...interface{}) error {
	return logWithError(seelog.ErrorLvl, func() { Errorf(format, params...) }, true, fmt.Sprintf(format, params...))
}

// Critical logs at the critical level and returns an error containing the formated log message
func Critical(v ...interface{}) error {
	return logWithError(seelog.CriticalLvl, func() { Critical(v...) }, true, buildLogEntry(v...))
}

// Criticalf logs with format at the critical level and returns an error containing the formated log message
func Criticalf(format string, params ...interface{}) error {
	return logWithError(seelog.CriticalLvl, func() { Criticalf(format, params...) }, true, fmt.Sprintf(format, params...))
}

// Flush flushes the underlying inner log
func Flush() {
	if l := current(); l != nil {
		l.flush()
	}
}

// ReplaceLogger allows replacing the internal logger, returns old logger
func ReplaceLogger(l seelog.LoggerInterface) seelog.LoggerInterface {
	if sw := current(); sw != nil {
		return sw.replaceInnerLogger(l)
	}

	return nil
}

// GetLogLevel returns a seelog native representation of the current
// log level
func GetLogLevel() (seelog.LogLevel, error) {
	if l := current(); l != nil {
		return l.getLogLevel(), nil
	}

	// need to return something, just set to Info (expected default)
	return seelog.InfoLvl, errors.New("cannot get loglevel: logger not initialized")
}

// ChangeLogLevel changes the current log level, valid levels are trace, debug,
// info, warn, error, critical and off
func ChangeLogLevel(level string) error {
	if l := current(); l != nil {
		return l.changeLogLevel(level)
	}
	return errors.New("cannot change loglevel: logger not initialized")
}
