// Package testutil provides shared helpers for tests, currently capture and
// inspection of structured log output.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lucas-albers-lz4/amifind/pkg/log"
)

// CaptureLogOutput redirects log output via log.SetOutput while testFunc
// runs and returns the captured content. The original writer and level are
// restored afterwards.
//
// Example:
//
//	output, err := testutil.CaptureLogOutput(log.LevelDebug, func() {
//	    log.Info("This will be captured")
//	})
//	require.NoError(t, err)
//	assert.Contains(t, output, "This will be captured")
func CaptureLogOutput(logLevel log.Level, testFunc func()) (string, error) {
	originalLevel := log.CurrentLevel()

	var logBuf bytes.Buffer
	restoreLog := log.SetOutput(&logBuf)
	defer restoreLog()

	log.SetLevel(logLevel)
	defer log.SetLevel(log.Level(originalLevel))

	var panicErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = fmt.Errorf("panic during log capture: %v", r)
			}
		}()
		testFunc()
	}()

	return logBuf.String(), panicErr
}

// CaptureJSONLogs captures log output, parses each line as a JSON object,
// and returns both the raw output and the parsed entries. The default
// handler writes JSON, so no format override is needed.
func CaptureJSONLogs(logLevel log.Level, testFunc func()) (string, []map[string]interface{}, error) {
	logOutput, err := CaptureLogOutput(logLevel, testFunc)
	if err != nil {
		return logOutput, nil, err
	}

	if strings.TrimSpace(logOutput) == "" {
		return logOutput, nil, nil
	}

	var parsedLogs []map[string]interface{}
	for i, line := range strings.Split(strings.TrimSpace(logOutput), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var entry map[string]interface{}
		if unmarshalErr := json.Unmarshal([]byte(line), &entry); unmarshalErr != nil {
			return logOutput, parsedLogs, fmt.Errorf("failed to unmarshal log line %d as JSON: %w", i+1, unmarshalErr)
		}
		parsedLogs = append(parsedLogs, entry)
	}
	return logOutput, parsedLogs, nil
}

// AssertLogContainsJSON asserts that at least one captured log entry
// contains every key-value pair in expectedLog.
func AssertLogContainsJSON(t *testing.T, logs []map[string]interface{}, expectedLog map[string]interface{}) {
	t.Helper()
	for _, logEntry := range logs {
		if containsAll(logEntry, expectedLog) {
			return
		}
	}

	expectedJSON, _ := json.MarshalIndent(expectedLog, "", "  ")
	actualJSON, _ := json.MarshalIndent(logs, "", "  ")
	assert.Fail(t, "Expected log entry not found",
		"Expected log containing:\n%s\n\nActual captured logs:\n%s",
		string(expectedJSON), string(actualJSON))
}

// containsAll reports whether actual contains every key-value pair from
// expected. Numbers decoded from JSON arrive as float64, so numeric
// comparisons coerce through float64.
func containsAll(actual, expected map[string]interface{}) bool {
	for key, expectedValue := range expected {
		actualValue, ok := actual[key]
		if !ok {
			return false
		}

		switch actualVal := actualValue.(type) {
		case float64:
			switch expectedVal := expectedValue.(type) {
			case float64:
				if actualVal != expectedVal {
					return false
				}
			case int:
				if actualVal != float64(expectedVal) {
					return false
				}
			default:
				return false
			}
		default:
			if actualValue != expectedValue {
				return false
			}
		}
	}
	return true
}
