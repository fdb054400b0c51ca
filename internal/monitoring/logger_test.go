package monitoring

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitWritesToConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})
	defer Init(Config{})

	l := Logger()
	l.Info().Str("component", "test").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Errorf("expected log output to contain message, got %q", out)
	}
	if !strings.Contains(out, `"component":"test"`) {
		t.Errorf("expected structured field in output, got %q", out)
	}
}

func TestInitLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})
	defer Init(Config{})

	l := Logger()
	l.Debug().Msg("should not appear")
	l.Warn().Msg("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("debug message leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestMuteSilencesOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Output: &buf})
	Mute()
	defer Init(Config{})

	l := Logger()
	l.Error().Msg("silenced")
	if buf.Len() != 0 {
		t.Errorf("expected no output after Mute, got %q", buf.String())
	}
}
