package envutil

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	t.Setenv("X_DUR", "1500ms")
	if got := Duration("X_DUR", time.Second); got != 1500*time.Millisecond {
		t.Fatalf("go duration: got %v", got)
	}
	t.Setenv("X_DUR", "30")
	if got := Duration("X_DUR", time.Second); got != 30*time.Second {
		t.Fatalf("bare seconds: got %v", got)
	}
	t.Setenv("X_DUR", "soon")
	if got := Duration("X_DUR", time.Second); got != time.Second {
		t.Fatalf("fallback: got %v", got)
	}
}

func TestBoolAndList(t *testing.T) {
	t.Setenv("X_BOOL", "off")
	if Bool("X_BOOL", true) {
		t.Fatalf("expected false")
	}
	t.Setenv("X_BOOL", "maybe")
	if !Bool("X_BOOL", true) {
		t.Fatalf("expected default")
	}
	t.Setenv("X_LIST", " a, ,b ")
	got := List("X_LIST", nil)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected list: %v", got)
	}
}

func TestIntFallback(t *testing.T) {
	t.Setenv("X_INT", "12")
	if Int("X_INT", 1) != 12 || Int64("X_INT", 1) != 12 {
		t.Fatalf("expected parsed ints")
	}
	t.Setenv("X_INT", "x")
	if Int("X_INT", 7) != 7 {
		t.Fatalf("expected fallback")
	}
	if String("X_MISSING_KEY", "d") != "d" {
		t.Fatalf("expected string default")
	}
}
