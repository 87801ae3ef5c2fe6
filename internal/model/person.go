package model

import "strings"

// Person is a resolved individual.
// Identity is immutable once assigned; merged-away duplicates keep their
// identity and point at the surviving record via MergedInto.
type Person struct {
	ID          int      `json:"id"`
	GivenNames  []string `json:"given_names"`             // first entry is the primary given name
	FamilyName  string   `json:"family_name"`
	NameVariants []string `json:"name_variants,omitempty"` // alternate recorded spellings, deduplicated

	BirthDate    string `json:"birth_date,omitempty"`
	DeathDate    string `json:"death_date,omitempty"`
	MarriageDate string `json:"marriage_date,omitempty"`
	BirthPlace   string `json:"birth_place,omitempty"`
	DeathPlace   string `json:"death_place,omitempty"`
	BurialPlace  string `json:"burial_place,omitempty"`

	Professions []string `json:"professions,omitempty"`
	Title       Title    `json:"title,omitempty"`
	Lands       []string `json:"lands,omitempty"` // held estates, title-cased
	Notable     bool     `json:"notable,omitempty"`

	// Back-references by identity; 0 means unknown.
	FatherID    int `json:"father_id,omitempty"`
	MotherID    int `json:"mother_id,omitempty"`
	SpouseID    int `json:"spouse_id,omitempty"`
	GodfatherID int `json:"godfather_id,omitempty"`
	GodmotherID int `json:"godmother_id,omitempty"`

	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources,omitempty"`

	// MergedInto is the surviving identity when this record was folded
	// into a duplicate; 0 for live records.
	MergedInto int `json:"merged_into,omitempty"`
}

// PrimaryGiven returns the primary (first) given name, or "" when none is recorded.
func (p *Person) PrimaryGiven() string {
	if len(p.GivenNames) == 0 {
		return ""
	}
	return p.GivenNames[0]
}

// FullName returns "Given Family" with whatever parts are present.
func (p *Person) FullName() string {
	return strings.TrimSpace(p.PrimaryGiven() + " " + p.FamilyName)
}

// BirthYear extracts the four-digit year from the birth date string, 0 if absent.
func (p *Person) BirthYear() int { return ExtractYear(p.BirthDate) }

// DeathYear extracts the four-digit year from the death date string, 0 if absent.
func (p *Person) DeathYear() int { return ExtractYear(p.DeathDate) }

// MarriageYear extracts the four-digit year from the marriage date string, 0 if absent.
func (p *Person) MarriageYear() int { return ExtractYear(p.MarriageDate) }

// HasLand reports whether the person holds the given (title-cased) estate.
func (p *Person) HasLand(land string) bool {
	for _, l := range p.Lands {
		if strings.EqualFold(l, land) {
			return true
		}
	}
	return false
}

// HasProfession reports whether the person has the given profession recorded.
func (p *Person) HasProfession(prof string) bool {
	for _, pr := range p.Professions {
		if strings.EqualFold(pr, prof) {
			return true
		}
	}
	return false
}

// Title represents the ranked social-status titles of the Ancien Régime.
// Order matters: a merge may only upgrade the title, never downgrade it.
type Title int

const (
	TitleNone     Title = 0
	TitleSieur    Title = 1
	TitleEcuyer   Title = 2
	TitleSeigneur Title = 3
)

func (t Title) String() string {
	switch t {
	case TitleSieur:
		return "sieur"
	case TitleEcuyer:
		return "écuyer"
	case TitleSeigneur:
		return "seigneur"
	default:
		return ""
	}
}

// ParseTitle maps recorded title spellings (including the usual register
// abbreviations) onto the ranked enum. Unknown spellings map to TitleNone.
func ParseTitle(s string) Title {
	switch strings.ToLower(strings.TrimSpace(strings.TrimSuffix(s, "."))) {
	case "sieur", "sr":
		return TitleSieur
	case "écuyer", "ecuyer", "éc", "ec":
		return TitleEcuyer
	case "seigneur", "sgr", "messire":
		return TitleSeigneur
	default:
		return TitleNone
	}
}
