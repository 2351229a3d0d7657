package preset

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNewID(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	id := NewID(now)
	if !regexp.MustCompile(`^1700000000123-[0-9a-f]{12}$`).MatchString(id) {
		t.Fatalf("unexpected id format %q", id)
	}
	if NewID(now) == id {
		t.Fatalf("ids should be unique")
	}
}

func TestPrependTruncates(t *testing.T) {
	var list []Preset
	for i := 0; i < MaxSaved; i++ {
		list = append(list, Preset{ID: fmt.Sprintf("old-%d", i)})
	}
	next := Prepend(list, Preset{ID: "new"})
	if len(next) != MaxSaved {
		t.Fatalf("len = %d, want %d", len(next), MaxSaved)
	}
	if next[0].ID != "new" {
		t.Fatalf("newest preset should be first, got %q", next[0].ID)
	}
	if next[MaxSaved-1].ID != fmt.Sprintf("old-%d", MaxSaved-2) {
		t.Fatalf("oldest preset should be evicted, last is %q", next[MaxSaved-1].ID)
	}
	if len(list) != MaxSaved || list[0].ID != "old-0" {
		t.Fatalf("input list was modified")
	}
}

func TestFindAndWithout(t *testing.T) {
	list := []Preset{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}

	if p, ok := Find(list, "b"); !ok || p.Name != "B" {
		t.Fatalf("Find(b) = %+v, %v", p, ok)
	}
	if _, ok := Find(list, "c"); ok {
		t.Fatalf("Find(c) should fail")
	}

	rest, removed := Without(list, "a")
	if !removed {
		t.Fatalf("expected removal")
	}
	if diff := cmp.Diff([]Preset{{ID: "b", Name: "B"}}, rest); diff != "" {
		t.Fatalf("(-want, +got):\n%s", diff)
	}
	if _, removed := Without(list, "zzz"); removed {
		t.Fatalf("nothing should be removed")
	}
}

func TestTag(t *testing.T) {
	if got := (Preset{ID: "42-abc"}).Tag(); got != "saved:42-abc" {
		t.Fatalf("Tag() = %q", got)
	}
}
