package board

import "testing"

func testPairs() []Pair {
	return []Pair{
		{ID: 1, PairNumber: 1, Type: TypeObjectChange, Stage: StageNeedsAssignment, Description: "Film table with mug"},
		{ID: 2, PairNumber: 2, Type: TypeObjectChange, Stage: StageInProgress, Assignee: "Nate P.", Description: "Film desk with laptop"},
		{ID: 3, PairNumber: 3, Type: TypeActionChange, Stage: StageInProgress, Assignee: "Joy S.", Notes: "retake lighting"},
		{ID: 4, PairNumber: 4, Type: TypeSpeechChange, Stage: StageInternalReview, Assignee: "Nate P.", Instructions: "say hello"},
		{ID: 5, PairNumber: 5, Type: TypeAudioChange, Stage: StageComplete, Assignee: "Joy S."},
	}
}

func ids(pairs []Pair) []int64 {
	out := make([]int64, len(pairs))
	for i, p := range pairs {
		out[i] = p.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterPreservesOrder(t *testing.T) {
	filter := Filter{Assignee: "Nate P."}
	got := ids(filter.Apply(testPairs()))
	if !equalIDs(got, []int64{2, 4}) {
		t.Fatalf("got %v", got)
	}
}

func TestFilterSearchIsCaseInsensitive(t *testing.T) {
	cases := []struct {
		search string
		want   []int64
	}{
		{"LAPTOP", []int64{2}},
		{"lighting", []int64{3}},
		{"pair 4", []int64{4}},
		{"film", []int64{1, 2}},
		{"", []int64{1, 2, 3, 4, 5}},
	}
	for _, tc := range cases {
		got := ids(Filter{Search: tc.search}.Apply(testPairs()))
		if !equalIDs(got, tc.want) {
			t.Fatalf("search %q: got %v want %v", tc.search, got, tc.want)
		}
	}
}

func TestFiltersCommute(t *testing.T) {
	pairs := testPairs()
	combined := Filter{Type: TypeObjectChange, Assignee: "Nate P.", Search: "desk"}.Apply(pairs)

	byType := Filter{Type: TypeObjectChange}.Apply(pairs)
	thenAssignee := Filter{Assignee: "Nate P."}.Apply(byType)
	thenSearch := Filter{Search: "desk"}.Apply(thenAssignee)

	bySearch := Filter{Search: "desk"}.Apply(pairs)
	thenType := Filter{Type: TypeObjectChange}.Apply(bySearch)
	other := Filter{Assignee: "Nate P."}.Apply(thenType)

	if !equalIDs(ids(combined), ids(thenSearch)) || !equalIDs(ids(combined), ids(other)) {
		t.Fatalf("filter orders disagree: %v / %v / %v", ids(combined), ids(thenSearch), ids(other))
	}
}

func TestGroupIsExactPartition(t *testing.T) {
	pairs := testPairs()
	groups := Group(pairs)
	if len(groups) != len(AllStages()) {
		t.Fatalf("expected %d buckets, got %d", len(AllStages()), len(groups))
	}
	seen := make(map[int64]int)
	total := 0
	for _, stage := range AllStages() {
		for _, pair := range groups[stage] {
			if pair.Stage != stage {
				t.Fatalf("pair %d in wrong bucket %q", pair.ID, stage)
			}
			seen[pair.ID]++
			total++
		}
	}
	if total != len(pairs) {
		t.Fatalf("partition covered %d of %d pairs", total, len(pairs))
	}
	for id, count := range seen {
		if count != 1 {
			t.Fatalf("pair %d appeared %d times", id, count)
		}
	}
}

func TestSummarize(t *testing.T) {
	pairs := testPairs()
	pairs[4].Delivered = true
	summary := Summarize(pairs)
	if summary.Pairs != 5 || summary.Videos != 10 {
		t.Fatalf("unexpected totals %+v", summary)
	}
	if summary.Complete != 1 || summary.Delivered != 1 {
		t.Fatalf("unexpected counts %+v", summary)
	}
}

func TestRosterResolve(t *testing.T) {
	roster := Roster{"Nate P.", "Joy S."}
	if name, ok := roster.Resolve("nate  p."); !ok || name != "Nate P." {
		t.Fatalf("got %q %v", name, ok)
	}
	if _, ok := roster.Resolve("Sam K."); ok {
		t.Fatal("unexpected roster match")
	}
	if _, ok := roster.Resolve("   "); ok {
		t.Fatal("blank name resolved")
	}
}
