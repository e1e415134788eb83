package recommend

import (
	"strings"

	pkgcatalog "github.com/HerbHall/strainwise/pkg/catalog"
)

// experienceBonus is added when a strain's THC low bound suits the requested level.
const experienceBonus = 2

// thcBand reports whether a THC low bound is appropriate for one experience level.
type thcBand func(low float64) bool

var experienceBands = map[Experience]thcBand{
	ExperienceNew:         func(low float64) bool { return low < 18 },
	ExperienceOccasional:  func(low float64) bool { return low >= 18 && low <= 22 },
	ExperienceExperienced: func(low float64) bool { return low > 22 },
}

// containsFold reports whether sub is a case-insensitive substring of s.
func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// anyTagContains reports whether some desired string is a substring of some tag.
func anyTagContains(tags, desired []string) bool {
	for _, tag := range tags {
		for _, d := range desired {
			if containsFold(tag, d) {
				return true
			}
		}
	}
	return false
}

// effectScore counts the strain's effect tags that contain any desired effect.
func effectScore(s *pkgcatalog.Strain, desired []string) int {
	if len(desired) == 0 {
		return 0
	}
	n := 0
	for _, tag := range s.Effects {
		for _, d := range desired {
			if containsFold(tag, d) {
				n++
				break
			}
		}
	}
	return n
}

// experienceScore awards the bonus when the strain's THC low bound falls in the
// band for level. Absent and unrecognized levels score zero without parsing
// THC; a recognized level with a malformed THC range is an error.
func experienceScore(s *pkgcatalog.Strain, level Experience) (int, error) {
	band, ok := experienceBands[level]
	if !ok {
		return 0, nil
	}
	low, err := s.THCLow()
	if err != nil {
		return 0, err
	}
	if band(low) {
		return experienceBonus, nil
	}
	return 0, nil
}
