package council

import (
	"errors"
	"testing"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/catalog"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestAdjustToSize(t *testing.T) {
	full := exampleCatalog()

	tests := []struct {
		name       string
		cat        *catalog.Catalog
		filter     catalog.Filter
		start      State
		target     int
		want       State
		wantReason error
	}{
		{
			name:   "grow from empty swaps in an eligible chairman",
			cat:    full,
			start:  State{TargetSize: 5},
			target: 3,
			want:   State{Selected: []string{"m1", "m2", "m4"}, Chairman: "m4", TargetSize: 3},
		},
		{
			name:   "grow follows the view order",
			cat:    full,
			filter: catalog.Filter{SortBy: "context-desc"},
			start:  State{TargetSize: 5},
			target: 3,
			want:   State{Selected: []string{"m4", "m5", "m6"}, Chairman: "m4", TargetSize: 3},
		},
		{
			name:   "same size is a no-op",
			cat:    full,
			start:  State{Selected: []string{"m1", "m4"}, Chairman: "m4", TargetSize: 2},
			target: 2,
			want:   State{Selected: []string{"m1", "m4"}, Chairman: "m4", TargetSize: 2},
		},
		{
			name:   "shrink keeps the chairman first",
			cat:    full,
			start:  State{Selected: []string{"m1", "m2", "m3", "m5"}, Chairman: "m5", TargetSize: 4},
			target: 2,
			want:   State{Selected: []string{"m5", "m1"}, Chairman: "m5", TargetSize: 2},
		},
		{
			name:   "stale members and chairman are reconciled",
			cat:    subset(full, "m1", "m2", "m3", "m5", "m6"),
			start:  State{Selected: []string{"m1", "m4", "m5"}, Chairman: "m4", TargetSize: 3},
			target: 3,
			want:   State{Selected: []string{"m1", "m5", "m2"}, Chairman: "m5", TargetSize: 3},
		},
		{
			name:   "ineligible chairman replaced from the council",
			cat:    full,
			start:  State{Selected: []string{"m1", "m6"}, TargetSize: 2},
			target: 2,
			want:   State{Selected: []string{"m1", "m6"}, Chairman: "m6", TargetSize: 2},
		},
		{
			name:   "target clamped to max models",
			cat:    full,
			start:  State{TargetSize: 2},
			target: 100,
			want:   State{Selected: []string{"m1", "m2", "m3", "m4", "m5"}, Chairman: "m4", TargetSize: 5},
		},
		{
			name:   "target clamped to min models",
			cat:    full,
			start:  State{Selected: []string{"m4", "m5", "m6"}, Chairman: "m6", TargetSize: 3},
			target: -1,
			want:   State{Selected: []string{"m6", "m4"}, Chairman: "m6", TargetSize: 2},
		},
		{
			name:       "short catalog fills what it can",
			cat:        subset(full, "m4", "m5", "m6"),
			start:      State{TargetSize: 2},
			target:     5,
			want:       State{Selected: []string{"m4", "m5", "m6"}, Chairman: "m4", TargetSize: 5},
			wantReason: ErrInsufficientCandidates,
		},
		{
			name:   "no eligible entry anywhere keeps the first member",
			cat:    subset(full, "m1", "m2", "m3"),
			start:  State{TargetSize: 2},
			target: 2,
			want:   State{Selected: []string{"m1", "m2"}, Chairman: "m1", TargetSize: 2},
		},
		{
			name:   "preset tag cleared",
			cat:    full,
			start:  State{Selected: []string{"m4", "m5"}, Chairman: "m4", TargetSize: 2, ActivePreset: "ultra"},
			target: 2,
			want:   State{Selected: []string{"m4", "m5"}, Chairman: "m4", TargetSize: 2},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(tc.cat)
			if tc.filter.SortBy != "" {
				e.SetFilter(tc.filter)
			}
			e.SetState(tc.start)

			res := e.AdjustToSize(tc.target)
			if !errors.Is(res.Reason, tc.wantReason) {
				t.Fatalf("reason = %v, want %v", res.Reason, tc.wantReason)
			}
			if diff := cmp.Diff(tc.want, e.State(), cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("state mismatch (-want, +got):\n%s", diff)
			}
			if err := CheckInvariants(e.State(), tc.cat, e.MaxModels()); err != nil {
				t.Fatalf("invariants broken: %v", err)
			}
		})
	}
}

func TestAdjustToSize_Idempotent(t *testing.T) {
	starts := []State{
		{TargetSize: 5},
		{Selected: []string{"m1"}, TargetSize: 2},
		{Selected: []string{"m1", "m2", "m3"}, TargetSize: 3},
		{Selected: []string{"m3", "m6", "m2", "m5"}, Chairman: "m5", TargetSize: 4},
		{Selected: []string{"m2", "ghost", "m4"}, Chairman: "ghost", TargetSize: 3},
	}
	filters := []catalog.Filter{
		{SortBy: catalog.DefaultSort},
		{Provider: "small", SortBy: "name-desc"},
		{Search: "m5", SortBy: "context-asc"},
	}

	for _, start := range starts {
		for _, f := range filters {
			for target := 0; target <= 6; target++ {
				e := newTestEngine(exampleCatalog())
				e.SetFilter(f)
				e.SetState(start)

				e.AdjustToSize(target)
				first := e.State()
				res := e.AdjustToSize(target)
				if res.Changed {
					t.Errorf("start %+v filter %+v target %d: second call changed the state", start, f, target)
				}
				if diff := cmp.Diff(first, e.State(), cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("start %+v filter %+v target %d (-first, +second):\n%s", start, f, target, diff)
				}
			}
		}
	}
}

func TestAdjustToSize_RoundTripKeepsChairman(t *testing.T) {
	for n := MinModels; n <= DefaultMaxModels; n++ {
		for m := MinModels; m <= DefaultMaxModels; m++ {
			e := newTestEngine(exampleCatalog())
			e.SetState(State{Selected: []string{"m1", "m2", "m5", "m3"}, Chairman: "m5", TargetSize: 4})

			e.AdjustToSize(n)
			e.AdjustToSize(m)
			e.AdjustToSize(n)

			st := e.State()
			if st.Chairman != "m5" || !st.Has("m5") {
				t.Errorf("n=%d m=%d: chairman lost, state %+v", n, m, st)
			}
		}
	}
}

func TestAdjustToSize_RoundTripSequence(t *testing.T) {
	e := newTestEngine(exampleCatalog())
	e.SetState(State{Selected: []string{"m1", "m2", "m5", "m3"}, Chairman: "m5", TargetSize: 4})

	e.AdjustToSize(2)
	if diff := cmp.Diff([]string{"m5", "m1"}, e.State().Selected); diff != "" {
		t.Fatalf("after shrink (-want, +got):\n%s", diff)
	}
	e.AdjustToSize(4)
	if diff := cmp.Diff([]string{"m5", "m1", "m2", "m3"}, e.State().Selected); diff != "" {
		t.Fatalf("after grow (-want, +got):\n%s", diff)
	}
}
