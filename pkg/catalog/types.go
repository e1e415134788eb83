// Package catalog defines the strain catalog records and loads the embedded
// catalog data.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StrainType is the botanical classification of a strain.
type StrainType string

const (
	TypeIndica StrainType = "Indica"
	TypeSativa StrainType = "Sativa"
	TypeHybrid StrainType = "Hybrid"
)

// ParseStrainType matches s against the enumerated types, ignoring case.
func ParseStrainType(s string) (StrainType, bool) {
	for _, t := range []StrainType{TypeIndica, TypeSativa, TypeHybrid} {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, true
		}
	}
	return "", false
}

// ErrMalformedRange is returned when a "low-high" content range cannot be parsed.
var ErrMalformedRange = errors.New("malformed content range")

// Terpene is a named aromatic compound with an optional description.
type Terpene struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Strain is a single read-only catalog record.
type Strain struct {
	Name            string     `yaml:"name" json:"name" validate:"notblank"`
	Type            StrainType `yaml:"type" json:"type" validate:"oneof=Indica Sativa Hybrid"`
	Effects         []string   `yaml:"effects" json:"effects"`
	Flavors         []string   `yaml:"flavors" json:"flavors"`
	THCContent      string     `yaml:"thc_content" json:"thc_content" validate:"thcrange"`
	CBDContent      string     `yaml:"cbd_content" json:"cbd_content"`
	Description     string     `yaml:"description" json:"description"`
	MedicalBenefits []string   `yaml:"medical_benefits" json:"medical_benefits"`
	Terpenes        []Terpene  `yaml:"terpenes,omitempty" json:"terpenes,omitempty"`
	GrowingTime     string     `yaml:"growing_time" json:"growing_time"`
	PotencyLevel    string     `yaml:"potency_level,omitempty" json:"potency_level,omitempty"`
	AveragePrice    string     `yaml:"average_price,omitempty" json:"average_price,omitempty"`
	GrowDifficulty  string     `yaml:"grow_difficulty,omitempty" json:"grow_difficulty,omitempty"`
}

// THCLow returns the lower bound of the strain's THC range.
func (s *Strain) THCLow() (float64, error) {
	low, err := RangeLow(s.THCContent)
	if err != nil {
		return 0, fmt.Errorf("strain %q thc: %w", s.Name, err)
	}
	return low, nil
}

// RangeLow parses the first segment of a "low-high" range string. Anything
// that is not a finite, non-negative number is ErrMalformedRange.
func RangeLow(raw string) (float64, error) {
	first, _, _ := strings.Cut(raw, "-")
	first = strings.TrimSpace(first)
	v, err := strconv.ParseFloat(first, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedRange, raw)
	}
	return v, nil
}
