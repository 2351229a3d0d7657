package council

import (
	"errors"
	"testing"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/catalog"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestCanBeChairman(t *testing.T) {
	tests := []struct {
		name  string
		entry *catalog.Entry
		want  bool
	}{
		{"nil entry", nil, false},
		{"below threshold", &catalog.Entry{ID: "a", ContextLength: MinChairmanContext - 1}, false},
		{"at threshold", &catalog.Entry{ID: "a", ContextLength: MinChairmanContext}, true},
		{"missing context", &catalog.Entry{ID: "a"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanBeChairman(tc.entry); got != tc.want {
				t.Fatalf("CanBeChairman() = %v, want %v", got, tc.want)
			}
		})
	}

	cat := exampleCatalog()
	if CanBeChairmanID(cat, "ghost") {
		t.Errorf("absent id must not be eligible")
	}
	if !CanBeChairmanID(cat, "m4") {
		t.Errorf("m4 should be eligible")
	}
}

func TestToggle(t *testing.T) {
	e := newTestEngine(exampleCatalog())

	for _, id := range []string{"m1", "m2", "m3", "m4", "m5"} {
		if res := e.Toggle(id); !res.Changed || res.Reason != nil {
			t.Fatalf("Toggle(%s) = %+v, want change", id, res)
		}
	}
	if res := e.Toggle("m6"); res.Changed || !errors.Is(res.Reason, ErrCouncilFull) {
		t.Fatalf("Toggle on full council = %+v, want ErrCouncilFull", res)
	}
	if res := e.Toggle("ghost"); res.Changed || !errors.Is(res.Reason, ErrUnknownEntry) {
		t.Fatalf("Toggle(ghost) = %+v, want ErrUnknownEntry", res)
	}

	e.SetChairman("m4")
	e.Toggle("m4")
	want := State{Selected: []string{"m1", "m2", "m3", "m5"}, TargetSize: DefaultMaxModels}
	if diff := cmp.Diff(want, e.State()); diff != "" {
		t.Fatalf("state mismatch (-want, +got):\n%s", diff)
	}
}

func TestToggle_ClearsPresetTag(t *testing.T) {
	e := newTestEngine(exampleCatalog())
	e.SetState(State{Selected: []string{"m4", "m5"}, Chairman: "m4", TargetSize: 2, ActivePreset: "ultra"})

	e.Toggle("m1")
	if got := e.State().ActivePreset; got != "" {
		t.Fatalf("expected preset tag to be cleared, got %q", got)
	}
}

func TestSetChairman(t *testing.T) {
	tests := []struct {
		name       string
		start      State
		id         string
		want       State
		wantReason error
	}{
		{
			name:       "ineligible entry refused",
			start:      State{Selected: []string{"m1", "m4"}, Chairman: "m4", TargetSize: 2},
			id:         "m1",
			want:       State{Selected: []string{"m1", "m4"}, Chairman: "m4", TargetSize: 2},
			wantReason: ErrChairmanIneligible,
		},
		{
			name:  "non-member appended",
			start: State{Selected: []string{"m1"}, TargetSize: 2},
			id:    "m5",
			want:  State{Selected: []string{"m1", "m5"}, Chairman: "m5", TargetSize: 2},
		},
		{
			name:  "member promoted and tag cleared",
			start: State{Selected: []string{"m4", "m5"}, Chairman: "m4", TargetSize: 2, ActivePreset: "saved:1-a"},
			id:    "m5",
			want:  State{Selected: []string{"m4", "m5"}, Chairman: "m5", TargetSize: 2},
		},
		{
			name:       "full council refuses a non-member",
			start:      State{Selected: []string{"m1", "m2", "m3", "m5", "m6"}, Chairman: "m5", TargetSize: 5},
			id:         "m4",
			want:       State{Selected: []string{"m1", "m2", "m3", "m5", "m6"}, Chairman: "m5", TargetSize: 5},
			wantReason: ErrCouncilFull,
		},
		{
			name:       "unknown entry refused",
			start:      State{TargetSize: 2},
			id:         "ghost",
			want:       State{TargetSize: 2},
			wantReason: ErrUnknownEntry,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(exampleCatalog())
			e.SetState(tc.start)
			res := e.SetChairman(tc.id)
			if !errors.Is(res.Reason, tc.wantReason) {
				t.Fatalf("reason = %v, want %v", res.Reason, tc.wantReason)
			}
			if diff := cmp.Diff(tc.want, e.State(), cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("state mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestRemove(t *testing.T) {
	e := newTestEngine(exampleCatalog())
	e.SetState(State{Selected: []string{"m1", "m4"}, Chairman: "m4", TargetSize: 2})

	if res := e.Remove("m4"); !res.Changed {
		t.Fatalf("expected Remove to change the state")
	}
	want := State{Selected: []string{"m1"}, TargetSize: 2}
	if diff := cmp.Diff(want, e.State()); diff != "" {
		t.Fatalf("state mismatch (-want, +got):\n%s", diff)
	}
	if res := e.Remove("m9"); res.Changed {
		t.Fatalf("removing a non-member should not change anything")
	}
}

func TestSetMaxModels(t *testing.T) {
	e := newTestEngine(exampleCatalog())
	e.SetState(State{Selected: []string{"m1", "m2", "m3", "m4", "m5"}, Chairman: "m5", TargetSize: 5})

	e.SetMaxModels(3)
	want := State{Selected: []string{"m1", "m2", "m5"}, Chairman: "m5", TargetSize: 3}
	if diff := cmp.Diff(want, e.State()); diff != "" {
		t.Fatalf("state mismatch (-want, +got):\n%s", diff)
	}

	e.SetMaxModels(1)
	if e.MaxModels() != MinModels {
		t.Fatalf("MaxModels() = %d, want %d", e.MaxModels(), MinModels)
	}
	if err := CheckInvariants(e.State(), e.Catalog(), e.MaxModels()); err != nil {
		t.Fatalf("invariants broken: %v", err)
	}

	e.SetMaxModels(8)
	if got := e.State().TargetSize; got != MinModels {
		t.Fatalf("raising the limit should not move the target, got %d", got)
	}
}

func TestSetState_Sanitizes(t *testing.T) {
	e := newTestEngine(exampleCatalog(), WithMaxModels(3))
	e.SetState(State{
		Selected:   []string{"m1", "", "m1", "m2", "m3", "m4"},
		Chairman:   "m6",
		TargetSize: 9,
	})
	want := State{Selected: []string{"m1", "m2", "m3"}, TargetSize: 3}
	if diff := cmp.Diff(want, e.State()); diff != "" {
		t.Fatalf("state mismatch (-want, +got):\n%s", diff)
	}
}

func TestOnChange(t *testing.T) {
	var ops []string
	e := newTestEngine(exampleCatalog(), WithOnChange(func(c Change) {
		ops = append(ops, c.Op)
	}))

	e.Toggle("m1")
	e.Toggle("ghost")
	e.SetChairman("m4")
	e.AdjustToSize(2)
	e.AdjustToSize(2)

	want := []string{"toggle", "set-chairman", "adjust-to-size"}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Fatalf("ops mismatch (-want, +got):\n%s", diff)
	}
}

func TestResetForSource(t *testing.T) {
	e := newTestEngine(exampleCatalog())
	e.SetFilter(catalog.Filter{Search: "m", Provider: "large", Tier: catalog.TierStandard, FreeOnly: true, SortBy: "name-desc"})
	e.SetState(State{Selected: []string{"m4", "m5"}, Chairman: "m4", TargetSize: 2, ActivePreset: "last"})

	e.ResetForSource("")
	if diff := cmp.Diff(State{TargetSize: 2}, e.State(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("state mismatch (-want, +got):\n%s", diff)
	}
	wantFilter := catalog.Filter{Search: "m", SortBy: "name-desc"}
	if diff := cmp.Diff(wantFilter, e.Filter()); diff != "" {
		t.Fatalf("filter mismatch (-want, +got):\n%s", diff)
	}
	if got := e.Session().RouterSource; got != DefaultRouterSource {
		t.Fatalf("router source = %q, want %q", got, DefaultRouterSource)
	}
}

func TestSetExecutionMode(t *testing.T) {
	e := newTestEngine(exampleCatalog())
	if err := e.SetExecutionMode("chat_only"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.SetExecutionMode("turbo"); !errors.Is(err, ErrInvalidExecutionMode) {
		t.Fatalf("expected ErrInvalidExecutionMode, got %v", err)
	}
	if got := e.Session().ExecutionMode; got != ModeChatOnly {
		t.Fatalf("execution mode = %q, want %q", got, ModeChatOnly)
	}
}

func TestSetSession(t *testing.T) {
	e := newTestEngine(exampleCatalog())
	e.SetSession(Session{ExecutionMode: ModeChatRanking, RouterSource: "ollama"})
	want := Session{ExecutionMode: ModeChatRanking, RouterSource: "ollama"}
	if diff := cmp.Diff(want, e.Session()); diff != "" {
		t.Fatalf("session mismatch (-want, +got):\n%s", diff)
	}

	e.SetSession(Session{ExecutionMode: "bogus"})
	if diff := cmp.Diff(want, e.Session()); diff != "" {
		t.Fatalf("invalid values should be ignored (-want, +got):\n%s", diff)
	}
}
