package recommend

import (
	"encoding/json"
	"strings"
)

// Experience is a user's self-reported familiarity with cannabis.
type Experience string

const (
	ExperienceNew         Experience = "New to cannabis"
	ExperienceOccasional  Experience = "Occasional user"
	ExperienceExperienced Experience = "Experienced user"
)

// StringList accepts either a JSON string or an array of strings. Blank
// entries are dropped and the rest trimmed.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*l = compact([]string{one})
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = compact(many)
	return nil
}

func compact(in []string) StringList {
	out := make(StringList, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Preferences is the per-request input to the engine. Every field is optional.
type Preferences struct {
	Type       string     `json:"type,omitempty"`
	Effects    StringList `json:"effect,omitempty"`
	Flavors    StringList `json:"flavor,omitempty"`
	Experience Experience `json:"experience,omitempty"`
}

// UnmarshalJSON decodes preferences leniently: unknown keys and fields of the
// wrong JSON type are ignored rather than rejected.
func (p *Preferences) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out Preferences
	if t, ok := rawString(raw["type"]); ok {
		out.Type = t
	}
	if e, ok := rawString(raw["experience"]); ok {
		out.Experience = Experience(e)
	}
	if v, ok := raw["effect"]; ok {
		var l StringList
		if l.UnmarshalJSON(v) == nil {
			out.Effects = l
		}
	}
	if v, ok := raw["flavor"]; ok {
		var l StringList
		if l.UnmarshalJSON(v) == nil {
			out.Flavors = l
		}
	}

	*p = out
	return nil
}

// rawString decodes v as a trimmed string. Missing values, null and
// non-strings report false.
func rawString(v json.RawMessage) (string, bool) {
	var s *string
	if len(v) == 0 || json.Unmarshal(v, &s) != nil || s == nil {
		return "", false
	}
	return strings.TrimSpace(*s), true
}

// experienceEffects lists the effects implied by each experience level.
var experienceEffects = map[Experience][]string{
	ExperienceNew:         {"Relaxed", "Happy", "Mild", "Balanced"},
	ExperienceOccasional:  {"Creative", "Uplifted", "Focused", "Energetic"},
	ExperienceExperienced: {"Euphoric", "Potent", "Intense", "Strong"},
}

// Normalize returns a copy of p with the experience-implied effects placed
// ahead of any explicit ones. Without an experience level p is returned
// unchanged; an unrecognized level contributes no effects. Duplicates are kept
// since every entry counts toward the effect score.
func Normalize(p Preferences) Preferences {
	if p.Experience == "" {
		return p
	}
	implied := experienceEffects[p.Experience]
	merged := make(StringList, 0, len(implied)+len(p.Effects))
	merged = append(merged, implied...)
	merged = append(merged, p.Effects...)
	if len(merged) == 0 {
		merged = nil
	}

	out := p
	out.Effects = merged
	out.Flavors = append(StringList(nil), p.Flavors...)
	return out
}
