package notifier

import (
	"strings"
	"testing"

	"BourseWatch/internal/model"
)

func TestGroupByAction(t *testing.T) {
	items := []model.AssetSignal{
		{Code: "A", Action: model.ActionBuy},
		{Code: "B", Action: model.ActionSell},
		{Code: "C", Action: model.ActionBuy},
		{Code: "D", Action: model.Action("MYSTERY")},
	}
	groups := GroupByAction(items)
	if len(groups) != 4 {
		t.Fatalf("expected 4 fixed buckets, got %d", len(groups))
	}
	if len(groups[model.ActionBuy]) != 2 || len(groups[model.ActionSell]) != 1 {
		t.Errorf("unexpected bucket sizes: %v", groups)
	}
	if len(groups[model.ActionKeep]) != 0 || len(groups[model.ActionTakeProfit]) != 0 {
		t.Errorf("empty buckets should stay empty: %v", groups)
	}
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	if total != 3 {
		t.Errorf("unrecognized action should be dropped, got %d grouped items", total)
	}
}

func TestFormatListing_SortAndSign(t *testing.T) {
	items := []model.AssetSignal{
		{Code: "A", Name: "Alpha", Potential: 5.0},
		{Code: "B", Name: "Beta", Potential: -2.0},
		{Code: "C", Name: "Gamma", Potential: 10.0},
	}
	got := FormatListing(items)
	want := "Gamma (C) — +10.00%\nAlpha (A) — +5.00%\nBeta (B) — -2.00%"
	if got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestFormatListing_ZeroUnsigned(t *testing.T) {
	got := FormatListing([]model.AssetSignal{{Code: "Z", Name: "Zero", Potential: 0}})
	if got != "Zero (Z) — 0.00%" {
		t.Errorf("zero should be unsigned, got %q", got)
	}
}

func TestFormatListing_StableTies(t *testing.T) {
	items := []model.AssetSignal{
		{Code: "FIRST", Name: "First", Potential: 3},
		{Code: "SECOND", Name: "Second", Potential: 3},
	}
	got := FormatListing(items)
	if strings.Index(got, "FIRST") > strings.Index(got, "SECOND") {
		t.Errorf("ties must keep original order, got:\n%s", got)
	}
}

func TestSplitMessage_ShortUnsplit(t *testing.T) {
	parts := SplitMessage("hello\nworld", 100)
	if len(parts) != 1 || parts[0] != "hello\nworld" {
		t.Errorf("unexpected parts: %q", parts)
	}
}

func TestSplitMessage_GreedyLinePacking(t *testing.T) {
	// Lines 1-3 fit under the limit; line 4 would exceed the remaining
	// budget and must start part two.
	lines := []string{
		"line-one-\n",
		"line-two-\n",
		"line-thr-\n",
		"line-fou-\n",
		"line-fiv-\n",
	}
	text := strings.Join(lines, "")
	parts := SplitMessage(text, 35)
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d: %q", len(parts), parts)
	}
	if parts[0] != lines[0]+lines[1]+lines[2] {
		t.Errorf("part one should hold lines 1-3, got %q", parts[0])
	}
	if parts[1] != lines[3]+lines[4] {
		t.Errorf("part two should hold lines 4-5, got %q", parts[1])
	}
}

func TestSplitMessage_NeverBreaksALine(t *testing.T) {
	long := strings.Repeat("x", 50)
	parts := SplitMessage(long+"\nshort", 10)
	for _, p := range parts {
		for _, line := range strings.Split(strings.TrimSuffix(p, "\n"), "\n") {
			if line != "short" && line != long {
				t.Errorf("line was broken: %q", line)
			}
		}
	}
	if parts[0] != long+"\n" {
		t.Errorf("oversize line must stay whole, got %q", parts[0])
	}
}
