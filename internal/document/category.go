package document

import "fmt"

// Category is one of four ordered relevance tiers derived from a score.
type Category string

const (
	CategoryLow        Category = "Low Relevance"
	CategorySomewhat   Category = "Somewhat Relevant"
	CategoryModerately Category = "Moderately Relevant"
	CategoryHighly     Category = "Highly Relevant"
)

// Lower bounds of each tier. A score equal to a bound belongs to the higher tier.
const (
	SomewhatThreshold   = 0.45
	ModeratelyThreshold = 0.65
	HighlyThreshold     = 0.85
)

// Categories lists all tiers from lowest to highest.
var Categories = []Category{CategoryLow, CategorySomewhat, CategoryModerately, CategoryHighly}

// CategoryFor maps a clamped score in [0,1] to its tier.
func CategoryFor(score float64) Category {
	switch {
	case score >= HighlyThreshold:
		return CategoryHighly
	case score >= ModeratelyThreshold:
		return CategoryModerately
	case score >= SomewhatThreshold:
		return CategorySomewhat
	default:
		return CategoryLow
	}
}

// Rank returns the tier's position (0 = Low, 3 = Highly), or -1 if unknown.
func (c Category) Rank() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return -1
}

// ParseCategory converts a string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if c.Rank() < 0 {
		return "", fmt.Errorf("invalid category: %q", s)
	}
	return c, nil
}

// Short returns a one-word label for compact output.
func (c Category) Short() string {
	switch c {
	case CategoryHighly:
		return "high"
	case CategoryModerately:
		return "moderate"
	case CategorySomewhat:
		return "some"
	case CategoryLow:
		return "low"
	}
	return "unknown"
}
