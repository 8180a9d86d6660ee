package common

import "testing"

func TestUUIDint64Unique(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		id := UUIDint64()
		if id <= 0 {
			t.Fatalf("expected positive id, got %d", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
}

func TestIsEmptyOrNA(t *testing.T) {
	for _, v := range []string{"", "  ", "n/a", "N/A"} {
		if !IsEmptyOrNA(v) {
			t.Fatalf("expected %q empty", v)
		}
	}
	if IsEmptyOrNA("FO-M001") {
		t.Fatalf("expected FO-M001 not empty")
	}
}

func TestIfEmptyStr(t *testing.T) {
	if got := IfEmptyStr("  ", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := IfEmptyStr("value", "fallback"); got != "value" {
		t.Fatalf("expected value, got %q", got)
	}
}
