package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func reset() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}
	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("fetching %s", "https://example.com")

	got := buf.String()
	if !strings.Contains(got, "level=DEBUG") {
		t.Errorf("expected level=DEBUG, got %q", got)
	}
	if !strings.Contains(got, `msg="fetching https://example.com"`) {
		t.Errorf("expected formatted msg, got %q", got)
	}
	if !strings.HasSuffix(got, "\n") || strings.Count(got, "\n") != 1 {
		t.Errorf("expected one record, got %q", got)
	}
}

func TestInfoWarn_Quiet(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("a")
	Info("b")
	Warn("c")

	if buf.Len() > 0 {
		t.Errorf("expected no output when verbose is disabled, got %q", buf.String())
	}
}

func TestInfoWarn_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Info("scraped %d sections", 3)
	Warn("robots.txt disallows %s", "/private")

	got := buf.String()
	for _, want := range []string{"level=INFO", `msg="scraped 3 sections"`, "level=WARN", `msg="robots.txt disallows /private"`} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
}

func TestError_AlwaysPrinted(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Error("search failed: %v", "boom")

	got := buf.String()
	if !strings.Contains(got, "level=ERROR") || !strings.Contains(got, `msg="search failed: boom"`) {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestSetOutput_KeepsLevel(t *testing.T) {
	defer reset()

	SetVerbose(true)
	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("after swap")

	if !strings.Contains(buf.String(), `msg="after swap"`) {
		t.Errorf("expected debug output after SetOutput, got %q", buf.String())
	}
	if Logger() == nil {
		t.Error("expected non-nil slog logger")
	}
}
