package ids

import (
	"strings"
	"testing"
)

func TestNewPrefixed(t *testing.T) {
	id := New("client")
	if !strings.HasPrefix(id, "client_") {
		t.Fatalf("expected client_ prefix, got %s", id)
	}
	if len(id) != len("client_")+26 {
		t.Fatalf("unexpected id length: %s", id)
	}
}

func TestNewUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := New("branch")
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = struct{}{}
	}
}
