package storage

import (
	"math"
	"testing"

	"github.com/matsen/semrank/internal/document"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestStatistics_Empty(t *testing.T) {
	s := newTestStore(t)
	stats := s.Statistics()

	if stats.Total != 0 || stats.Relevant != 0 || stats.Discarded != 0 {
		t.Errorf("counts = %d/%d/%d, want zeros", stats.Total, stats.Relevant, stats.Discarded)
	}
	if stats.Overall != (ScoreSummary{}) {
		t.Errorf("Overall = %+v, want zero", stats.Overall)
	}
	if len(stats.ByStatus) != len(document.Statuses) {
		t.Errorf("ByStatus has %d entries, want %d", len(stats.ByStatus), len(document.Statuses))
	}
	if len(stats.Categories) != 4 {
		t.Fatalf("Categories has %d entries, want 4", len(stats.Categories))
	}
	for i, c := range stats.Categories {
		if c.Category != document.Categories[i] || c.Count != 0 {
			t.Errorf("Categories[%d] = %+v, want zero-filled %q", i, c, document.Categories[i])
		}
	}
}

func TestStatistics(t *testing.T) {
	s := newTestStore(t)

	mustInsert(t, s, newDoc("a", 0.9, document.StatusRelevant))
	mustInsert(t, s, newDoc("b", 0.7, document.StatusRelevant))
	mustInsert(t, s, newDoc("c", 0.5, document.StatusRelevant))
	mustInsert(t, s, newDoc("d", 0.1, document.StatusDiscarded))
	mustInsert(t, s, newDoc("e", 0.3, document.StatusDiscarded))

	stats := s.Statistics()

	if stats.Total != 5 || stats.Relevant != 3 || stats.Discarded != 2 {
		t.Errorf("counts = %d/%d/%d, want 5/3/2", stats.Total, stats.Relevant, stats.Discarded)
	}

	tests := []struct {
		name       string
		got        ScoreSummary
		wantCount  int
		wantMean   float64
		wantMedian float64
	}{
		{"overall", stats.Overall, 5, 0.5, 0.5},
		{"relevant", stats.ByStatus[document.StatusRelevant], 3, 0.7, 0.7},
		{"discarded", stats.ByStatus[document.StatusDiscarded], 2, 0.2, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", tt.got.Count, tt.wantCount)
			}
			if !approxEqual(tt.got.Mean, tt.wantMean) {
				t.Errorf("Mean = %v, want %v", tt.got.Mean, tt.wantMean)
			}
			if !approxEqual(tt.got.Median, tt.wantMedian) {
				t.Errorf("Median = %v, want %v", tt.got.Median, tt.wantMedian)
			}
		})
	}

	wantHist := map[document.Category]int{
		document.CategoryLow:        2,
		document.CategorySomewhat:   1,
		document.CategoryModerately: 1,
		document.CategoryHighly:     1,
	}
	for _, c := range stats.Categories {
		if c.Count != wantHist[c.Category] {
			t.Errorf("histogram[%q] = %d, want %d", c.Category, c.Count, wantHist[c.Category])
		}
	}
}

func TestStatistics_OnlyOneStatus(t *testing.T) {
	s := newTestStore(t)
	mustInsert(t, s, newDoc("a", 0.9, document.StatusRelevant))

	stats := s.Statistics()
	if got := stats.ByStatus[document.StatusDiscarded]; got != (ScoreSummary{}) {
		t.Errorf("discarded summary = %+v, want zero", got)
	}
	if got := stats.Categories[0]; got.Category != document.CategoryLow || got.Count != 0 {
		t.Errorf("Categories[0] = %+v, want zero Low Relevance", got)
	}
}

func TestSummarize_EvenMedian(t *testing.T) {
	got := summarize([]float64{0.4, 0.1, 0.3, 0.2})
	if !approxEqual(got.Median, 0.25) {
		t.Errorf("Median = %v, want 0.25", got.Median)
	}
	if !approxEqual(got.Mean, 0.25) {
		t.Errorf("Mean = %v, want 0.25", got.Mean)
	}
}
