package notifier

import (
	"fmt"
	"sort"
	"strings"

	"BourseWatch/internal/model"
)

// MessageLimit is the per-message character budget before splitting.
const MessageLimit = 4000

// GroupByAction partitions signals into the four fixed action buckets.
// Signals carrying an unrecognized action are dropped.
func GroupByAction(items []model.AssetSignal) map[model.Action][]model.AssetSignal {
	groups := map[model.Action][]model.AssetSignal{
		model.ActionBuy:        nil,
		model.ActionSell:       nil,
		model.ActionKeep:       nil,
		model.ActionTakeProfit: nil,
	}
	for _, it := range items {
		if _, ok := groups[it.Action]; ok {
			groups[it.Action] = append(groups[it.Action], it)
		}
	}
	return groups
}

// FormatListing renders one bucket sorted by potential descending, ties
// keeping their original relative order. Positive potentials carry an
// explicit leading "+"; zero is unsigned.
func FormatListing(items []model.AssetSignal) string {
	sorted := make([]model.AssetSignal, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Potential > sorted[j].Potential })

	lines := make([]string, 0, len(sorted))
	for _, it := range sorted {
		sign := ""
		if it.Potential > 0 {
			sign = "+"
		}
		lines = append(lines, fmt.Sprintf("%s (%s) — %s%.2f%%", it.Name, it.Code, sign, it.Potential))
	}
	return strings.Join(lines, "\n")
}

// SplitMessage splits text into parts no longer than limit, greedily packing
// whole lines into each part. A line is never broken, even when it alone
// exceeds the limit.
func SplitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var parts []string
	cur := ""
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		if cur != "" && len(cur)+len(line) > limit {
			parts = append(parts, cur)
			cur = line
		} else {
			cur += line
		}
	}
	if cur != "" {
		parts = append(parts, cur)
	}
	return parts
}
