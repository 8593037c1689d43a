package storage

import (
	"sort"

	"github.com/matsen/semrank/internal/document"
)

// ScoreSummary aggregates the scores of a group of documents.
// Mean and Median are zero when Count is zero.
type ScoreSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// CategoryCount is one bar of the category histogram.
type CategoryCount struct {
	Category document.Category `json:"category"`
	Count    int               `json:"count"`
}

// Statistics describes the whole collection.
type Statistics struct {
	Total      int                              `json:"total"`
	Relevant   int                              `json:"relevant"`
	Discarded  int                              `json:"discarded"`
	Overall    ScoreSummary                     `json:"overall"`
	ByStatus   map[document.Status]ScoreSummary `json:"by_status"`
	Categories []CategoryCount                  `json:"categories"` // All four tiers, lowest first
}

// Statistics computes counts, score summaries, and the category histogram.
func (s *Store) Statistics() Statistics {
	return ComputeStatistics(s.docs)
}

// ComputeStatistics summarizes docs. Every status and every category
// appears in the result, zero-filled when absent.
func ComputeStatistics(docs []document.Document) Statistics {
	all := make([]float64, 0, len(docs))
	byStatus := make(map[document.Status][]float64, len(document.Statuses))
	byCategory := make(map[document.Category]int, len(document.Categories))

	for _, d := range docs {
		all = append(all, d.Score)
		byStatus[d.Status] = append(byStatus[d.Status], d.Score)
		byCategory[d.Category]++
	}

	stats := Statistics{
		Total:      len(docs),
		Relevant:   len(byStatus[document.StatusRelevant]),
		Discarded:  len(byStatus[document.StatusDiscarded]),
		Overall:    summarize(all),
		ByStatus:   make(map[document.Status]ScoreSummary, len(document.Statuses)),
		Categories: make([]CategoryCount, 0, len(document.Categories)),
	}
	for _, st := range document.Statuses {
		stats.ByStatus[st] = summarize(byStatus[st])
	}
	for _, c := range document.Categories {
		stats.Categories = append(stats.Categories, CategoryCount{Category: c, Count: byCategory[c]})
	}
	return stats
}

func summarize(scores []float64) ScoreSummary {
	n := len(scores)
	if n == 0 {
		return ScoreSummary{}
	}

	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return ScoreSummary{Count: n, Mean: sum / float64(n), Median: median}
}
