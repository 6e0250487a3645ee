package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/teddycode/teddy/pkg/ui"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger represents a workspace logger. Detailed messages go to the rotating
// log file under .teddy; process steps are mirrored to the UI sink.
type Logger struct {
	logger        *log.Logger
	jsonMode      bool
	correlationID string
}

var (
	globalLogger *Logger
	once         sync.Once
)

// GetLogger returns the singleton instance of Logger, backed by a rotating
// file handler in the workspace's .teddy directory.
func GetLogger() *Logger {
	once.Do(func() {
		logFile := &lumberjack.Logger{
			Filename:   ".teddy/workspace.log",
			MaxSize:    15, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		globalLogger = &Logger{
			logger: log.New(logFile, "", log.LstdFlags),
		}
		if os.Getenv("TEDDY_JSON_LOGS") == "1" {
			globalLogger.jsonMode = true
		}
		if cid := os.Getenv("TEDDY_CORRELATION_ID"); cid != "" {
			globalLogger.correlationID = cid
		}
	})
	return globalLogger
}

// Close closes the logger resources.
func (w *Logger) Close() error {
	if logFile, ok := w.logger.Writer().(*lumberjack.Logger); ok {
		return logFile.Close()
	}
	return nil
}

// LogProcessStep logs the current step in a process and prints it to the UI.
func (w *Logger) LogProcessStep(step string) {
	w.logger.Printf("Process Step: %s", step)
	ui.Out().Print(step + "\n")
}

// Log logs a general message only to the log file.
func (w *Logger) Log(message string) {
	if w.jsonMode {
		_ = json.NewEncoder(w.logger.Writer()).Encode(map[string]any{"level": "info", "msg": message, "cid": w.correlationID})
		return
	}
	w.logger.Print(message)
}

// Logf logs a formatted general message only to the log file.
func (w *Logger) Logf(format string, v ...interface{}) {
	if w.jsonMode {
		w.Log(fmt.Sprintf(format, v...))
		return
	}
	w.logger.Printf(format, v...)
}

func (w *Logger) LogError(err error) {
	if w.jsonMode {
		_ = json.NewEncoder(w.logger.Writer()).Encode(map[string]any{"level": "error", "error": err.Error(), "cid": w.correlationID})
		return
	}
	w.logger.Printf("Error: %s", err)
}
