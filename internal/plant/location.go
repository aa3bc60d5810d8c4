package plant

import (
	"strings"

	"github.com/potagerapp/careengine/internal/common"
)

// LocationKind classifies where a plantation lives. Outdoor plantations are
// exposed to rain and get the weather-driven watering rules; everything
// unmatched is treated as indoor.
type LocationKind int

const (
	Indoor LocationKind = iota
	Outdoor
)

func (k LocationKind) String() string {
	if k == Outdoor {
		return "outdoor"
	}
	return "indoor"
}

// outdoorKeywords is substring-matched against the lowercased location
// label. "ext" also covers "exterior"/"extérieur" and "veranda" covers the
// accented spelling once lowercased labels are normalized by users.
var outdoorKeywords = []string{
	"ext", "garden", "jardin", "balcon", "balcony", "terrace", "terrasse",
	"greenhouse", "serre", "patio", "veranda", "véranda", "yard", "cour",
}

// ClassifyLocation resolves a free-text location label to indoor/outdoor.
func ClassifyLocation(label string) LocationKind {
	sanitized := strings.TrimSpace(strings.ToLower(label))
	if sanitized == "" {
		return Indoor
	}
	if common.HasAny(sanitized, outdoorKeywords...) {
		return Outdoor
	}
	return Indoor
}

// typeKeywords resolves free-text template types to the tagged enumeration.
var typeKeywords = []struct {
	keyword string
	t       Type
}{
	{"fruit", TypeFruit},
	{"légume", TypeVegetable},
	{"legume", TypeVegetable},
	{"vegetable", TypeVegetable},
	{"herb", TypeHerb},
	{"herbe", TypeHerb},
	{"aromatique", TypeHerb},
	{"flower", TypeFlower},
	{"fleur", TypeFlower},
}

// ClassifyType resolves a free-text template type to the tagged enumeration.
func ClassifyType(label string) Type {
	sanitized := strings.TrimSpace(strings.ToLower(label))
	for _, entry := range typeKeywords {
		if strings.Contains(sanitized, entry.keyword) {
			return entry.t
		}
	}
	return TypeUnknown
}
