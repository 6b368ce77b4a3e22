package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// resetLogger resets the global logger state for testing.
// Tests that use this must not run in parallel.
func resetLogger() {
	defaultLogger = nil
	once = sync.Once{}
}

type captureWriter struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (w *captureWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *captureWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func fixedClock() time.Time {
	return time.Date(2026, 10, 17, 10, 45, 0, 0, time.UTC)
}

func TestLogger_NilSafety(t *testing.T) {
	resetLogger()
	Debug(CatForm, "test message", "key", "value")
	Info(CatRender, "test message")
	Warn(CatConfig, "test message")
	Error(CatGallery, "test message")
	ErrorErr(CatCLI, "test message", nil)
	Sink(CatForm)("transition")
	require.Nil(t, GetRecentLogs(5))
	ClearBuffer()
}

func TestLogger_FormatsFields(t *testing.T) {
	resetLogger()
	w := &captureWriter{}
	InitWriter(w, 10)
	defaultLogger.now = fixedClock

	Info(CatForm, "submit", "accepted", true, "count", 2)
	Warn(CatConfig, "odd", "orphan")

	lines := strings.Split(strings.TrimSpace(w.String()), "\n")
	require.Equal(t, []string{
		"2026-10-17T10:45:00 [INFO] [form] submit accepted=true count=2",
		"2026-10-17T10:45:00 [WARN] [config] odd orphan=<missing>",
	}, lines)
}

func TestLogger_MinLevelAndEnabled(t *testing.T) {
	resetLogger()
	w := &captureWriter{}
	InitWriter(w, 10)

	SetMinLevel(LevelWarn)
	Debug(CatForm, "hidden")
	Info(CatForm, "hidden")
	Error(CatForm, "shown")
	require.Len(t, GetRecentLogs(10), 1)

	SetEnabled(false)
	Error(CatForm, "muted")
	require.Len(t, GetRecentLogs(10), 1)
	require.NotContains(t, w.String(), "muted")
}

func TestLogger_ErrorErr(t *testing.T) {
	resetLogger()
	InitWriter(nil, 4)

	ErrorErr(CatRender, "render failed", os.ErrNotExist, "renderer", "html")
	logs := GetRecentLogs(1)
	require.Len(t, logs, 1)
	require.Contains(t, logs[0], "renderer=html error=file does not exist")
}

func TestLogger_SinkDrivesMachine(t *testing.T) {
	resetLogger()
	InitWriter(nil, 50)

	m, err := formstate.New(validation.New().Field("name"), nil, formstate.WithLogger(formstate.LoggerFunc(Sink(CatForm))))
	require.NoError(t, err)
	m.SetFieldValue("name", "Apollo")

	var found bool
	for _, entry := range GetRecentLogs(50) {
		if strings.Contains(entry, "[form]") && strings.Contains(entry, "[DEBUG]") {
			found = true
		}
	}
	require.True(t, found, "expected machine trace in %v", GetRecentLogs(50))
}

func TestLogger_InitFile(t *testing.T) {
	resetLogger()
	path := filepath.Join(t.TempDir(), "formstate.log")

	cleanup, err := Init(path, 8)
	require.NoError(t, err)
	Info(CatCLI, "started")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[INFO] [cli] started")
}

func TestParseLevel(t *testing.T) {
	for raw, want := range map[string]Level{"": LevelDebug, "INFO": LevelInfo, "warning": LevelWarn, "error": LevelError} {
		got, err := ParseLevel(raw)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseLevel("loud")
	require.Error(t, err)
}
