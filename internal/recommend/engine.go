// Package recommend matches user preferences against the strain catalog and
// serves the recommendation API.
package recommend

import (
	"fmt"
	"sort"
	"strings"

	pkgcatalog "github.com/HerbHall/strainwise/pkg/catalog"
)

// MaxResults is the number of matches returned per request.
const MaxResults = 3

// Match is a catalog strain paired with its ranking score.
type Match struct {
	pkgcatalog.Strain
	Score int `json:"match_score"`
}

// Engine filters and ranks catalog strains.
type Engine struct {
	cat *pkgcatalog.Catalog
}

// NewEngine creates a new recommendation engine backed by the given catalog.
func NewEngine(cat *pkgcatalog.Catalog) *Engine {
	return &Engine{cat: cat}
}

// Recommend normalizes prefs, keeps the strains that pass the type, effect and
// flavor filters, and returns up to MaxResults of them ordered by score. Equal
// scores keep catalog order. An empty result is not an error.
func (e *Engine) Recommend(prefs Preferences) ([]Match, error) {
	strains, err := e.cat.Strains()
	if err != nil {
		return nil, err
	}

	p := Normalize(prefs)
	matches := make([]Match, 0, len(strains))
	for i := range strains {
		s := &strains[i]
		if !passesFilters(s, p) {
			continue
		}
		exp, err := experienceScore(s, p.Experience)
		if err != nil {
			return nil, fmt.Errorf("score: %w", err)
		}
		matches = append(matches, Match{
			Strain: *s,
			Score:  effectScore(s, p.Effects) + exp,
		})
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})

	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}
	return matches, nil
}

// passesFilters applies the hard filters. Empty preference fields do not filter.
func passesFilters(s *pkgcatalog.Strain, p Preferences) bool {
	if p.Type != "" && !strings.EqualFold(string(s.Type), p.Type) {
		return false
	}
	if len(p.Effects) > 0 && !anyTagContains(s.Effects, p.Effects) {
		return false
	}
	if len(p.Flavors) > 0 && !anyTagContains(s.Flavors, p.Flavors) {
		return false
	}
	return true
}
