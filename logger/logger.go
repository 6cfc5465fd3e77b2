//
//  UI client for privateLINE Connect Desktop
//  https://github.com/swapnilsparsh/devsVPN
//
//  Copyright (c) 2025 privateLINE, LLC.
//
//  This file is part of the privateLINE Connect Desktop.
//
//  The privateLINE Connect Desktop is free software: you can redistribute it and/or
//  modify it under the terms of the GNU General Public License as published by the Free
//  Software Foundation, either version 3 of the License, or (at your option) any later version.
//
//  The privateLINE Connect Desktop is distributed in the hope that it will be useful,
//  but WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY
//  or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for more
//  details.
//
//  You should have received a copy of the GNU General Public License
//  along with the privateLINE Connect Desktop. If not, see <https://www.gnu.org/licenses/>.
//

// Package logger is the tagged logger shared by all packages of the client.
// Each package keeps its own instance:
//
//	var log *logger.Logger
//
//	func init() {
//		log = logger.NewLogger("prtcl")
//	}
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

var (
	mu        sync.Mutex
	isEnabled = true
	writers   = []io.Writer{os.Stderr}
	logFile   *os.File
)

// Init opens (or creates) the log file and duplicates all output into it.
// An empty path keeps stderr output only.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	writers = []io.Writer{os.Stderr}

	if len(path) == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = f
	writers = append(writers, f)
	return nil
}

// Enable switches output on or off
func Enable(enable bool) {
	mu.Lock()
	defer mu.Unlock()
	isEnabled = enable
}

// IsEnabled returns current logging state
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return isEnabled
}

// SetOutput replaces all log destinations (tests redirect output with it)
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	writers = []io.Writer{w}
}

// Logger writes messages prefixed by a short package tag
type Logger struct {
	pref string
}

// NewLogger creates a logger with the given tag (up to 6 characters are shown)
func NewLogger(pref string) *Logger {
	if len(pref) > 6 {
		pref = pref[:6]
	}
	return &Logger{pref: fmt.Sprintf("%-6s", pref)}
}

// Info - log info message
func (l *Logger) Info(v ...interface{}) { write(l.pref, "", v...) }

// Debug - log debug message
func (l *Logger) Debug(v ...interface{}) { write(l.pref, "DEBUG", v...) }

// Warning - log warning message
func (l *Logger) Warning(v ...interface{}) { write(l.pref, "WARNING", v...) }

// Error - log error message
func (l *Logger) Error(v ...interface{}) { write(l.pref, "ERROR", v...) }

// ErrorE logs the error (with the caller location at the given stack depth) and returns it unchanged
func (l *Logger) ErrorE(err error, callerStackDepth int) error {
	if err == nil {
		return nil
	}
	write(l.pref, "ERROR", callerInfo(callerStackDepth+2), err)
	return err
}

// ErrorFE formats an error the way fmt.Errorf does, logs it and returns it
func (l *Logger) ErrorFE(format string, a ...interface{}) error {
	err := fmt.Errorf(format, a...)
	write(l.pref, "ERROR", callerInfo(2), err)
	return err
}

// ErrorTrace logs the error followed by the current goroutine stack
func (l *Logger) ErrorTrace(err error) {
	write(l.pref, "ERROR", err, "\n", string(debug.Stack()))
}

// Panic logs the message and panics
func (l *Logger) Panic(v ...interface{}) {
	write(l.pref, "PANIC", v...)
	panic(fmt.Sprint(v...))
}

// Info - global (untagged) info message
func Info(v ...interface{}) { write("", "", v...) }

// Debug - global (untagged) debug message
func Debug(v ...interface{}) { write("", "DEBUG", v...) }

// Warning - global (untagged) warning message
func Warning(v ...interface{}) { write("", "WARNING", v...) }

// Error - global (untagged) error message
func Error(v ...interface{}) { write("", "ERROR", v...) }

// Panic - global (untagged) panic
func Panic(v ...interface{}) {
	write("", "PANIC", v...)
	panic(fmt.Sprint(v...))
}

func callerInfo(depth int) string {
	pc, file, line, ok := runtime.Caller(depth)
	if !ok {
		return ""
	}
	fn := ""
	if f := runtime.FuncForPC(pc); f != nil {
		fn = f.Name()
		if i := strings.LastIndex(fn, "/"); i >= 0 {
			fn = fn[i+1:]
		}
	}
	return fmt.Sprintf("%s(%s:%d): ", fn, filepath.Base(file), line)
}

func write(pref, level string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if !isEnabled {
		return
	}

	var sb strings.Builder
	sb.WriteString(time.Now().Format("2006-01-02 15:04:05.000000"))
	sb.WriteString(" ")
	if len(pref) > 0 {
		sb.WriteString(pref)
		sb.WriteString(": ")
	}
	if len(level) > 0 {
		sb.WriteString(level)
		sb.WriteString(" ")
	}
	sb.WriteString(fmt.Sprint(v...))
	sb.WriteString("\n")

	mes := sb.String()
	for _, w := range writers {
		io.WriteString(w, mes)
	}
}
