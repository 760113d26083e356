package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CLX_NO_PROGRESS", "")
	t.Setenv("CLX_TEXT_MODE", "")
	t.Setenv("CLX_TRACE_LOG", "")
	t.Setenv("CI", "")

	cfg := FromEnv()
	if cfg.NoProgress || cfg.TextMode || cfg.CI {
		t.Errorf("unexpected flags set: %+v", cfg)
	}
	if cfg.TraceLog != "" {
		t.Errorf("trace log = %q, want empty", cfg.TraceLog)
	}
	if cfg.Interval != 0 {
		t.Errorf("interval = %v, want 0 (engine default)", cfg.Interval)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CLX_NO_PROGRESS", "1")
	t.Setenv("CLX_TEXT_MODE", "true")
	t.Setenv("CLX_TRACE_LOG", "/tmp/clx-trace.jsonl")
	t.Setenv("CLX_TRACE_RAW", "1")
	t.Setenv("CLX_INTERVAL", "50ms")
	t.Setenv("CI", "true")

	cfg := FromEnv()
	if !cfg.NoProgress {
		t.Error("CLX_NO_PROGRESS not honored")
	}
	if !cfg.TextMode {
		t.Error("CLX_TEXT_MODE not honored")
	}
	if cfg.TraceLog != "/tmp/clx-trace.jsonl" {
		t.Errorf("trace log = %q", cfg.TraceLog)
	}
	if !cfg.TraceRaw {
		t.Error("CLX_TRACE_RAW not honored")
	}
	if cfg.Interval != 50*time.Millisecond {
		t.Errorf("interval = %v, want 50ms", cfg.Interval)
	}
	if !cfg.CI {
		t.Error("CI not honored")
	}
}
