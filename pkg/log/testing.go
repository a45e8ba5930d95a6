// This file contains helpers for capturing and inspecting log output in
// tests without touching the process-wide default logger.

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
)

// NewTestLogger returns a logger whose JSON output is captured in the
// returned buffer. The logger runs through the same ErrFmtHandler wrapping
// as the production setup, so stacktrace extraction is exercised in tests.
func NewTestLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	buffer := &bytes.Buffer{}
	handler := slog.NewJSONHandler(buffer, &slog.HandlerOptions{Level: level})
	return slog.New(WrapByErrFmtHandler(handler)), buffer
}

// Records decodes every JSON record captured in buffer.
func Records(buffer *bytes.Buffer) ([]map[string]interface{}, error) {
	var records []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buffer.String()), "\n") {
		if line == "" {
			continue
		}
		var record map[string]interface{}
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
