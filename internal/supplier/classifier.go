// Package supplier holds the per-vendor knowledge used by the extraction
// pipeline: content-based classification, filename hints, and the static
// template registry (expected columns, prompt guidance, post-processors).
package supplier

import (
	"log/slog"
	"regexp"
)

// Unknown is the sentinel supplier id. It is always present in the registry
// and is the classifier's answer when nothing matches.
const Unknown = "unknown"

type classifierEntry struct {
	id       string
	patterns []*regexp.Regexp
}

// Classifier scores raw invoice text against per-supplier pattern sets.
type Classifier struct {
	entries []classifierEntry
	logger  *slog.Logger
}

// NewClassifier builds the classifier with the built-in supplier patterns.
// Registration order is significant: ties resolve to the earliest entry.
func NewClassifier(logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	compile := func(patterns ...string) []*regexp.Regexp {
		out := make([]*regexp.Regexp, 0, len(patterns))
		for _, p := range patterns {
			out = append(out, regexp.MustCompile(`(?i)`+p))
		}
		return out
	}
	return &Classifier{
		logger: logger,
		entries: []classifierEntry{
			{id: UnitedDrug, patterns: compile(
				`United Drug \(Wholesale\) Limited`,
				`VAT REG NO\. 2226527T`,
				`Magna Business Park, Citywest Road, Dublin 24`,
			)},
			{id: Genamed, patterns: compile(
				`NiAm Pharma Ltd trading as GenaMed`,
				`Fitzwilliam Business Centre`,
				`info@genamed\.ie`,
			)},
			{id: Iskus, patterns: compile(
				`Iskus Health Ltd`,
				`Citywest Business Park`,
				`info@iskushealth\.com`,
			)},
			{id: Feehily, patterns: compile(
				`Feehily`,
				`Fehily`,
			)},
		},
	}
}

// Classify returns the supplier whose patterns match the text most often.
// Only a strictly higher score replaces the current winner, so ties resolve
// to the earliest-registered supplier. Empty text or a zero top score yields
// Unknown. Classify is total and deterministic.
func (c *Classifier) Classify(text string) string {
	if text == "" {
		c.logger.Warn("supplier.classify.empty_text")
		return Unknown
	}

	best := Unknown
	bestScore := 0
	for _, e := range c.entries {
		score := 0
		for _, p := range e.patterns {
			if p.MatchString(text) {
				score++
			}
		}
		if score > bestScore {
			best = e.id
			bestScore = score
		}
	}

	if bestScore == 0 {
		c.logger.Warn("supplier.classify.no_match")
		return Unknown
	}
	c.logger.Info("supplier.classify.ok", "supplier", best, "score", bestScore)
	return best
}
