package util

import (
	"testing"
	"time"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("KGRAPH_TEST_STRING", "value")
	t.Setenv("KGRAPH_TEST_BLANK", "  ")

	if got := GetEnvString("KGRAPH_TEST_STRING", "default"); got != "value" {
		t.Errorf("expected value, got %q", got)
	}
	if got := GetEnvString("KGRAPH_TEST_BLANK", "default"); got != "default" {
		t.Errorf("expected default for blank value, got %q", got)
	}
	if got := GetEnvString("KGRAPH_TEST_MISSING", "default"); got != "default" {
		t.Errorf("expected default for missing value, got %q", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("KGRAPH_TEST_INT", "12")
	t.Setenv("KGRAPH_TEST_BAD_INT", "twelve")

	if got := GetEnvInt("KGRAPH_TEST_INT", 3); got != 12 {
		t.Errorf("expected 12, got %d", got)
	}
	if got := GetEnvInt("KGRAPH_TEST_BAD_INT", 3); got != 3 {
		t.Errorf("expected default 3, got %d", got)
	}
}

func TestGetEnvSeconds(t *testing.T) {
	t.Setenv("KGRAPH_TEST_SECONDS", "1.5")

	if got := GetEnvSeconds("KGRAPH_TEST_SECONDS", 10); got != 1500*time.Millisecond {
		t.Errorf("expected 1.5s, got %v", got)
	}
	if got := GetEnvSeconds("KGRAPH_TEST_SECONDS_MISSING", 10); got != 10*time.Second {
		t.Errorf("expected 10s, got %v", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"true", false, true},
		{"TRUE", false, true},
		{"1", false, true},
		{"false", true, false},
		{"no", true, false},
		{"maybe", true, true},
	}

	for _, tt := range tests {
		t.Setenv("KGRAPH_TEST_BOOL", tt.value)
		if got := GetEnvBool("KGRAPH_TEST_BOOL", tt.def); got != tt.want {
			t.Errorf("GetEnvBool(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
		}
	}
}
