// Package logging sets up session-based file logging for the server and
// worker processes. Each process start creates a timestamped session
// directory under the log directory; old sessions are rotated out.
package logging

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SetupLogging initializes the logging system and returns the main and
// database loggers. Each session file stops growing after maxLogLines
// lines; zero means unlimited.
func SetupLogging(logDir string, level string, maxLogsToKeep, maxLogLines int) (*zap.Logger, *zap.Logger, error) {
	err := os.MkdirAll(logDir, os.ModePerm)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	err = rotateLogSessions(logDir, maxLogsToKeep)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to rotate log sessions: %w", err)
	}

	sessionDir := filepath.Join(logDir, time.Now().Format("2006-01-02_15-04-05"))

	err = os.MkdirAll(sessionDir, os.ModePerm)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	mainLogger, err := initLogger(filepath.Join(sessionDir, "main.log"), level, maxLogLines)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize main logger: %w", err)
	}

	dbLogger, err := initLogger(filepath.Join(sessionDir, "database.log"), level, maxLogLines)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database logger: %w", err)
	}

	return mainLogger, dbLogger, nil
}

// GetWorkerLogger creates a logger writing to its own file inside the
// current session directory. Falls back to a no-op logger on any failure
// so a broken log setup never takes the worker down.
func GetWorkerLogger(name string, logDir string, level string) *zap.Logger {
	sessionDir := latestSessionDir(logDir)

	logger, err := initLogger(filepath.Join(sessionDir, name+".log"), level, 0)
	if err != nil {
		return zap.NewNop()
	}

	return logger
}

// initLogger creates a new logger instance writing to the given file,
// dropping entries once the line cap is reached.
func initLogger(logPath string, level string, maxLines int) (*zap.Logger, error) {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	sink := &cappedWriter{file: file, limit: maxLines}

	return zap.New(zapcore.NewCore(encoder, sink, zapLevel), zap.Development()), nil
}

// cappedWriter bounds a session log file to a line limit. Writes past the
// limit are discarded so a log-heavy session cannot fill the disk.
// A limit of zero disables the cap.
type cappedWriter struct {
	mu    sync.Mutex
	file  *os.File
	limit int
	lines int
}

func (w *cappedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.limit > 0 && w.lines >= w.limit {
		return len(p), nil
	}

	w.lines += bytes.Count(p, []byte("\n"))

	return w.file.Write(p)
}

func (w *cappedWriter) Sync() error {
	return w.file.Sync()
}

// rotateLogSessions keeps only the most recent log sessions.
func rotateLogSessions(logDir string, maxLogsToKeep int) error {
	sessions, err := filepath.Glob(filepath.Join(logDir, "*"))
	if err != nil {
		return err
	}

	if len(sessions) <= maxLogsToKeep {
		return nil
	}

	// Oldest first
	sort.Slice(sessions, func(i, j int) bool {
		iInfo, _ := os.Stat(sessions[i])
		jInfo, _ := os.Stat(sessions[j])

		return iInfo.ModTime().Before(jInfo.ModTime())
	})

	for i := range len(sessions) - maxLogsToKeep {
		if err := os.RemoveAll(sessions[i]); err != nil {
			return err
		}
	}

	return nil
}

// latestSessionDir returns the path to the most recent session directory.
func latestSessionDir(logDir string) string {
	sessions, err := filepath.Glob(filepath.Join(logDir, "*"))
	if err != nil || len(sessions) == 0 {
		return logDir
	}

	sort.Slice(sessions, func(i, j int) bool {
		iInfo, _ := os.Stat(sessions[i])
		jInfo, _ := os.Stat(sessions[j])

		return iInfo.ModTime().After(jInfo.ModTime())
	})

	return sessions[0]
}
