package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcperrors "github.com/ajitpratap0/mcp-service-go/pkg/errors"
	"github.com/ajitpratap0/mcp-service-go/pkg/protocol"
)

func newTextLogger(buf *bytes.Buffer) Logger {
	f := NewTextFormatter()
	f.DisableColors = true
	f.DisableTimestamp = true
	return New(buf, f)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newTextLogger(&buf)
	logger.SetLevel(DebugLevel)

	logger.Debug("Debug message", String("key", "value"))
	logger.Info("Info message", Int("count", 42))
	logger.Warn("Warning message", Bool("flag", true))
	logger.Error("Error message", ErrorField(errors.New("test error")))

	output := buf.String()
	for _, want := range []string{
		"[DEBUG] Debug message | key=value",
		"[INFO] Info message | count=42",
		"[WARN] Warning message | flag=true",
		"error=test error",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output:\n%s", want, output)
		}
	}
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := newTextLogger(&buf)
	logger.SetLevel(WarnLevel)

	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("shown warn")

	output := buf.String()
	assert.NotContains(t, output, "hidden")
	assert.Contains(t, output, "shown warn")
	assert.Equal(t, WarnLevel, logger.GetLevel())
}

func TestDerivedLoggersShareLevel(t *testing.T) {
	var buf bytes.Buffer
	parent := newTextLogger(&buf)
	child := parent.WithFields(String(KeyRole, "server"))

	parent.SetLevel(ErrorLevel)
	child.Info("suppressed")
	assert.Empty(t, buf.String())
}

func TestSessionFieldsInHeader(t *testing.T) {
	var buf bytes.Buffer
	logger := newTextLogger(&buf).WithFields(String(KeyRole, "server"))

	logger.Info("handled", RequestID(protocol.NewNumber(7)), Method("tools/call"))
	assert.Equal(t, "[INFO] server [7] tools/call: handled\n", buf.String())
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithRequestID(context.Background(), "req-1")

	newTextLogger(&buf).WithContext(ctx).Info("hello")
	assert.Contains(t, buf.String(), "[req-1] hello")

	buf.Reset()
	newTextLogger(&buf).WithContext(context.Background()).Info("bare")
	assert.Equal(t, "[INFO] bare\n", buf.String())
}

func TestWithErrorLiftsMCPContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, &JSONFormatter{DisableTimestamp: true})

	err := mcperrors.MethodNotFound("nope").WithContext(&mcperrors.Context{
		RequestID: "9",
		Method:    "nope",
		Role:      "client",
	})
	logger.WithError(err).Error("dispatch failed")

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "ERROR", decoded["level"])
	assert.Equal(t, "dispatch failed", decoded["message"])
	assert.Equal(t, float64(mcperrors.CodeMethodNotFound), decoded["error_code"])
	assert.Equal(t, "9", decoded[KeyRequestID])
	assert.Equal(t, "client", decoded[KeyRole])
	assert.Equal(t, "nope", decoded[KeyMethod])
}

func TestJSONFormatterPlainError(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, &JSONFormatter{DisableTimestamp: true}).Error("failed", ErrorField(errors.New("boom")))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "boom", decoded["error"])
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"":        InfoLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
	}
	for input, want := range tests {
		got, err := ParseLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewFromConfig("debug", "json", &buf)
	require.NoError(t, err)
	logger.Debug("visible")
	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))

	_, err = NewFromConfig("info", "xml", &buf)
	assert.Error(t, err)
	_, err = NewFromConfig("chatty", "text", &buf)
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Error("nothing happens")
	assert.Greater(t, int(logger.GetLevel()), int(ErrorLevel))
}

func TestConcurrentLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, &JSONFormatter{DisableTimestamp: true})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			logger.WithFields(Int("worker", i)).Info("tick")
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 50)
	for _, line := range lines {
		assert.True(t, json.Valid([]byte(line)), line)
	}
}

func TestNewCorrelationID(t *testing.T) {
	a, b := NewCorrelationID(), NewCorrelationID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
