// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cihub/seelog"
)

// LoggerName is the name printed on each log line
type LoggerName string

// DefaultLoggerName is the logger name of the etw-decoder command
const DefaultLoggerName LoggerName = "ETW"

const logDateFormat = "2006-01-02 15:04:05 MST"

// buildCommonFormat returns the log common format seelog string
func buildCommonFormat(loggerName LoggerName) string {
	return fmt.Sprintf("%%Date(%s) | %s | %%LEVEL | (%%ShortFilePath:%%Line in %%FuncShort) | %%Msg%%n", logDateFormat, loggerName)
}

// SetupLogger builds a seelog logger writing to w (stderr when nil) and
// installs it as the process-wide logger.
func SetupLogger(loggerName LoggerName, level string, w io.Writer) error {
	lvl, ok := seelog.LogLevelFromString(strings.ToLower(level))
	if !ok {
		return fmt.Errorf("unknown log level %q", level)
	}
	if w == nil {
		w = os.Stderr
	}
	l, err := seelog.LoggerFromWriterWithMinLevelAndFormat(w, lvl, buildCommonFormat(loggerName))
	if err != nil {
		return err
	}
	SetupDatadogLogger(l, level)
	return nil
}
