package v1

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestProjectRefRoundTrip(t *testing.T) {
	ref, err := NewProjectRef("ada", "  bug hive ")
	if err != nil {
		t.Fatalf("new ref: %v", err)
	}
	if ref.String() != "ada/bug_hive" {
		t.Fatalf("expected whitespace folded, got %s", ref)
	}
	parsed, err := ParseProjectRef(ref.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.Equal(ref) {
		t.Fatalf("round trip changed ref: %s vs %s", parsed, ref)
	}
}

func TestProjectRefRejectsInvalidValues(t *testing.T) {
	for _, value := range []string{"", "hive", "/hive", "ada/", "ada/hive/extra", "a da/hive"} {
		if _, err := ParseProjectRef(value); !errors.Is(err, ErrInvalidProjectRef) {
			t.Fatalf("expected %q to be rejected, got %v", value, err)
		}
	}
	if _, err := NewProjectRef("ada", "   "); !errors.Is(err, ErrInvalidProjectRef) {
		t.Fatalf("expected blank name to be rejected, got %v", err)
	}
}

func TestProjectRefJSONIsCanonicalString(t *testing.T) {
	body, err := json.Marshal([]ProjectRef{MustProjectRef("ada/hive")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(body) != `["ada/hive"]` {
		t.Fatalf("unexpected json %s", body)
	}
	var refs []ProjectRef
	if err := json.Unmarshal(body, &refs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(refs) != 1 || refs[0].Owner != "ada" || refs[0].Name != "hive" {
		t.Fatalf("unexpected refs %+v", refs)
	}
}

func TestRemoveRefDropsEveryMatch(t *testing.T) {
	hive := MustProjectRef("ada/hive")
	refs := []ProjectRef{hive, MustProjectRef("ada/nest"), hive}

	kept, dropped := RemoveRef(refs, hive)
	if dropped != 2 || len(kept) != 1 || kept[0].Name != "nest" {
		t.Fatalf("unexpected result kept=%v dropped=%d", kept, dropped)
	}
	if ContainsRef(kept, hive) {
		t.Fatal("expected hive to be gone")
	}
}
