// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package log

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/cihub/seelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLogger() {
	bufferMutex.Lock()
	defer bufferMutex.Unlock()
	logger.Store(nil)
	logsBuffer = []func(){}
	bufferLogsBeforeInit = true
}

func TestLogBuffer(t *testing.T) {
	resetLogger()
	defer resetLogger()

	// logs before setup are buffered then flushed
	Debugf("%s", "buffered debug")
	Infof("buffered %d", 1)

	var b bytes.Buffer
	w := bufio.NewWriter(&b)
	l, err := seelog.LoggerFromWriterWithMinLevelAndFormat(w, seelog.DebugLvl, "[%Level] %Msg%n")
	require.NoError(t, err)

	SetupDatadogLogger(l, "debug")
	Flush()
	w.Flush()

	assert.Equal(t, "[Debug] buffered debug\n[Info] buffered 1\n", b.String())
}

func TestLogLevel(t *testing.T) {
	resetLogger()
	defer resetLogger()

	var b bytes.Buffer
	w := bufio.NewWriter(&b)
	l, err := seelog.LoggerFromWriterWithMinLevelAndFormat(w, seelog.TraceLvl, "[%Level] %Msg%n")
	require.NoError(t, err)
	SetupDatadogLogger(l, "info")

	Debug("hidden")
	Info("shown", 2)
	err = Warnf("warn %s", "message")
	require.Error(t, err)
	assert.Equal(t, "warn message", err.Error())

	Flush()
	w.Flush()
	assert.Equal(t, "[Info] shown 2\n[Warn] warn message\n", b.String())

	lvl, err := GetLogLevel()
	require.NoError(t, err)
	assert.Equal(t, seelog.LogLevel(seelog.InfoLvl), lvl)

	require.NoError(t, ChangeLogLevel("trace"))
	assert.Error(t, ChangeLogLevel("verbose"))
	lvl, _ = GetLogLevel()
	assert.Equal(t, seelog.LogLevel(seelog.TraceLvl), lvl)
}

func TestWarnBeforeInitReturnsError(t *testing.T) {
	resetLogger()
	defer resetLogger()

	err := Warnf("provider %s not found", "{X}")
	require.Error(t, err)
	assert.Equal(t, "provider {X} not found", err.Error())
	assert.Equal(t, 1, bufferedLogs())
}

func TestLogBufferIsBounded(t *testing.T) {
	resetLogger()
	defer resetLogger()

	for i := 0; i < 3*maxBufferedLogs; i++ {
		Tracef("field %d", i)
		Warnf("fault %d", i) //nolint:errcheck
	}
	assert.Equal(t, maxBufferedLogs, bufferedLogs())

	// the oldest lines are the ones kept
	var b bytes.Buffer
	w := bufio.NewWriter(&b)
	l, err := seelog.LoggerFromWriterWithMinLevelAndFormat(w, seelog.TraceLvl, "%Msg%n")
	require.NoError(t, err)
	SetupDatadogLogger(l, "trace")
	Flush()
	w.Flush()

	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	require.Len(t, lines, maxBufferedLogs)
	assert.Equal(t, "field 0", lines[0])
	assert.Equal(t, "fault 499", lines[maxBufferedLogs-1])
	assert.Equal(t, 0, bufferedLogs())
}

func TestSetupWhileLogging(t *testing.T) {
	resetLogger()
	defer resetLogger()

	var b bytes.Buffer
	l, err := seelog.LoggerFromWriterWithMinLevelAndFormat(&lockedWriter{w: &b}, seelog.TraceLvl, "%Msg%n")
	require.NoError(t, err)

	const writers, perWriter = 4, 100
	var wg sync.WaitGroup
	for g := 0; g < writers; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				Debugf("line %d", i)
			}
		}()
	}
	SetupDatadogLogger(l, "trace")
	wg.Wait()
	Flush()

	// every line is either replayed or written directly, none is lost
	assert.Equal(t, writers*perWriter, strings.Count(b.String(), "\n"))
	assert.Equal(t, 0, bufferedLogs())
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

func TestSetupLogger(t *testing.T) {
	resetLogger()
	defer resetLogger()

	var b bytes.Buffer
	require.NoError(t, SetupLogger(DefaultLoggerName, "info", &b))
	Infof("resolved %d events", 3)
	Flush()
	assert.True(t, strings.Contains(b.String(), "| ETW | INFO |"), b.String())
	assert.Contains(t, b.String(), "resolved 3 events")

	assert.Error(t, SetupLogger(DefaultLoggerName, "chatty", &b))
}
