package testutil

import (
	pkgcatalog "github.com/HerbHall/strainwise/pkg/catalog"
)

// StrainOption customizes a fixture strain.
type StrainOption func(*pkgcatalog.Strain)

// NewStrain returns a well-formed Hybrid strain. Override fields with options.
func NewStrain(name string, opts ...StrainOption) pkgcatalog.Strain {
	s := pkgcatalog.Strain{
		Name:            name,
		Type:            pkgcatalog.TypeHybrid,
		Effects:         []string{"Happy"},
		Flavors:         []string{"Earthy"},
		THCContent:      "18-22",
		CBDContent:      "0.1-0.2",
		Description:     name + " test strain",
		MedicalBenefits: []string{"Stress"},
		GrowingTime:     "8-9 weeks",
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithType sets the strain type.
func WithType(t pkgcatalog.StrainType) StrainOption {
	return func(s *pkgcatalog.Strain) { s.Type = t }
}

// WithEffects replaces the effect tags.
func WithEffects(effects ...string) StrainOption {
	return func(s *pkgcatalog.Strain) { s.Effects = effects }
}

// WithFlavors replaces the flavor tags.
func WithFlavors(flavors ...string) StrainOption {
	return func(s *pkgcatalog.Strain) { s.Flavors = flavors }
}

// WithTHC sets the raw THC range string.
func WithTHC(thc string) StrainOption {
	return func(s *pkgcatalog.Strain) { s.THCContent = thc }
}

// NewCatalog builds an in-memory catalog from strains.
func NewCatalog(strains ...pkgcatalog.Strain) *pkgcatalog.Catalog {
	return pkgcatalog.FromStrains(strains)
}
