package env

import (
	"testing"
	"time"
)

func TestGetString(t *testing.T) {
	t.Setenv("TEST_STRING", "value")

	if got := GetString("TEST_STRING", "default"); got != "value" {
		t.Fatalf("got %q want %q", got, "value")
	}
	if got := GetString("TEST_STRING_MISSING", "default"); got != "default" {
		t.Fatalf("got %q want %q", got, "default")
	}
}

func TestGetInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_BAD", "forty-two")

	if got := GetInt("TEST_INT", 1); got != 42 {
		t.Fatalf("got %d want 42", got)
	}
	if got := GetInt("TEST_INT_BAD", 1); got != 1 {
		t.Fatalf("got %d want fallback 1", got)
	}
	if got := GetInt("TEST_INT_MISSING", 1); got != 1 {
		t.Fatalf("got %d want fallback 1", got)
	}
}

func TestGetBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_BOOL_BAD", "yep")

	if got := GetBool("TEST_BOOL", false); !got {
		t.Fatal("got false want true")
	}
	if got := GetBool("TEST_BOOL_BAD", false); got {
		t.Fatal("got true want fallback false")
	}
}

func TestGetDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "30m")
	t.Setenv("TEST_DURATION_BAD", "half an hour")

	if got := GetDuration("TEST_DURATION", time.Hour); got != 30*time.Minute {
		t.Fatalf("got %v want 30m", got)
	}
	if got := GetDuration("TEST_DURATION_BAD", time.Hour); got != time.Hour {
		t.Fatalf("got %v want fallback 1h", got)
	}
}
