package permission

import (
	"errors"
	"testing"
)

func TestResolveDefaultLevel(t *testing.T) {
	r := NewResolver(nil)

	resolved, err := r.Resolve("View")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resolved[FlagViewChannel]; got != Allow {
		t.Errorf("view_channel = %v, want Allow", got)
	}
	if got := resolved[FlagSendMessages]; got != Deny {
		t.Errorf("send_messages = %v, want Deny", got)
	}
	// Flags absent from the definition stay neutral.
	if got := resolved[FlagManageMessages]; got != Neutral {
		t.Errorf("manage_messages = %v, want Neutral", got)
	}
}

func TestResolveStoredOverridesDefault(t *testing.T) {
	stored := map[string]map[string]bool{
		"View": {"view_channel": true, "send_messages": true},
	}
	r := NewResolver(stored)

	resolved, err := r.Resolve("View")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resolved[FlagSendMessages]; got != Allow {
		t.Errorf("send_messages = %v, want Allow (stored override)", got)
	}
	// The stored definition fully replaces the default one.
	if got := resolved[FlagReadMessageHistory]; got != Neutral {
		t.Errorf("read_message_history = %v, want Neutral", got)
	}
}

func TestResolveUnknownLevel(t *testing.T) {
	r := NewResolver(nil)
	if _, err := r.Resolve("nope"); !errors.Is(err, ErrUnknownLevel) {
		t.Fatalf("expected ErrUnknownLevel, got %v", err)
	}
}

func TestResolveSkipsUnparseableFlags(t *testing.T) {
	stored := map[string]map[string]bool{
		"Custom": {"view_channel": true, "not_a_real_flag": true},
	}
	resolved, err := NewResolver(stored).Resolve("Custom")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resolved) != 1 {
		t.Fatalf("expected 1 resolved flag, got %d: %v", len(resolved), resolved)
	}
}

func TestNamesMergesStoredAndDefaults(t *testing.T) {
	stored := map[string]map[string]bool{
		"Zeta": {}, "Alpha": {}, "Mod": {},
	}
	names := NewResolver(stored).Names()

	want := []string{"Alpha", "Mod", "Zeta", "None", "View", "Chat", "Admin"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestDefaultLevelsIsACopy(t *testing.T) {
	first := DefaultLevels()
	first["View"]["view_channel"] = false
	second := DefaultLevels()
	if !second["View"]["view_channel"] {
		t.Fatal("mutating a DefaultLevels result leaked into the factory definitions")
	}
}

func TestParseFlagRejectsUnknown(t *testing.T) {
	if _, err := ParseFlag("fly"); !errors.Is(err, ErrUnknownFlag) {
		t.Fatalf("expected ErrUnknownFlag, got %v", err)
	}
	flag, err := ParseFlag("view_channel")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flag.Bit() == 0 {
		t.Error("view_channel should map to a nonzero bit")
	}
}
