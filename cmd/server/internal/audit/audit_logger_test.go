package audit

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogMutationWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	a := NewLogger(path)

	a.LogMutation("create", "learn-go", "user-1", "127.0.0.1", nil)
	a.LogMutation("delete", "learn-go", "user-1", "127.0.0.1", errors.New("boom"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 records, got %d", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("record is not valid JSON: %v", err)
	}
	if first["action"] != "create" || first["roadmap_id"] != "learn-go" || first["result"] != "success" {
		t.Errorf("unexpected record: %v", first)
	}

	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("record is not valid JSON: %v", err)
	}
	if second["result"] != "failed" || second["error_message"] != "boom" {
		t.Errorf("failure not recorded: %v", second)
	}
}
