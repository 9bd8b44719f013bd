package utils

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateIDUnique(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := GenerateID("")
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id %s after %d ids", id, i)
		}
		seen[id] = struct{}{}
	}
}

func TestGenerateIDPrefix(t *testing.T) {
	id := GenerateID("token")
	rest, ok := strings.CutPrefix(id, "token_")
	if !ok {
		t.Fatalf("id %q has no token_ prefix", id)
	}
	if _, err := uuid.Parse(rest); err != nil {
		t.Errorf("suffix %q is not a uuid: %v", rest, err)
	}

	if _, err := uuid.Parse(GenerateID("")); err != nil {
		t.Errorf("unprefixed id is not a uuid: %v", err)
	}
}
