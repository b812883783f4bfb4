package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	lgr := New("debug", "json", &buf)

	lgr.Debug().Str("component", "test").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"level":"debug"`) {
		t.Errorf("output missing debug level: %q", out)
	}
	if !strings.Contains(out, `"component":"test"`) {
		t.Errorf("output missing contextual field: %q", out)
	}
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	lgr := New("chatty", "json", &buf)

	lgr.Debug().Msg("suppressed")
	if buf.Len() != 0 {
		t.Errorf("debug output emitted at fallback level: %q", buf.String())
	}

	lgr.Info().Msg("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("info output missing: %q", buf.String())
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	lgr := New("info", "text", &buf)

	lgr.Info().Msg("console line")

	out := buf.String()
	if strings.Contains(out, `"message"`) {
		t.Errorf("text format emitted JSON: %q", out)
	}
	if !strings.Contains(out, "console line") {
		t.Errorf("output missing message: %q", out)
	}
}

func TestNew_ChildLoggerInheritsLevel(t *testing.T) {
	var buf bytes.Buffer
	lgr := New("warn", "json", &buf)

	child := lgr.With().Str("component", "hub").Logger()
	child.Info().Msg("suppressed")
	if buf.Len() != 0 {
		t.Errorf("child logger emitted below configured level: %q", buf.String())
	}

	child.Warn().Msg("visible")
	if !strings.Contains(buf.String(), `"component":"hub"`) {
		t.Errorf("child output missing component field: %q", buf.String())
	}
}
