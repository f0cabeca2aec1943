// Package audit writes an append-only JSON trail of roadmap mutations.
package audit

import (
	"encoding/json"
	"log"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger records roadmap mutations for later review.
type Logger struct {
	logger *log.Logger
}

// NewLogger creates an audit logger with automatic size- and age-based
// rotation of the underlying file.
func NewLogger(logPath string) *Logger {
	writer := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    100, // MB
		MaxBackups: 10,
		MaxAge:     30, // days
		Compress:   true,
	}
	return &Logger{
		logger: log.New(writer, "", 0), // records carry their own timestamp
	}
}

// LogMutation records one write operation against the roadmap collection.
// action is the operation name (create, update, patch, delete, delete_all),
// actor the authenticated user id (empty for anonymous writes).
func (a *Logger) LogMutation(action, roadmapID, actor, sourceIP string, err error) {
	record := map[string]any{
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"action":     action,
		"roadmap_id": roadmapID,
		"actor":      actor,
		"source_ip":  sourceIP,
		"result":     "success",
	}
	if err != nil {
		record["result"] = "failed"
		record["error_message"] = err.Error()
	}

	data, _ := json.Marshal(record)
	a.logger.Println(string(data))
}
