package model

import "regexp"

// ActeType classifies a parish register entry.
type ActeType string

const (
	ActeBapteme    ActeType = "baptême"
	ActeMariage    ActeType = "mariage"
	ActeInhumation ActeType = "inhumation"
	ActeNaissance  ActeType = "naissance"
	ActeDeces      ActeType = "décès"
)

// ActeRecord is a single dated parish entry naming persons in fixed roles.
// Role fields hold person identities; 0 means the role is not filled.
type ActeRecord struct {
	ID    int      `json:"id"`
	Type  ActeType `json:"type"`
	Date  string   `json:"date,omitempty"`
	Year  int      `json:"year,omitempty"` // extracted from Date, 0 when absent
	Place string   `json:"place,omitempty"`

	PrincipalID int   `json:"principal_id,omitempty"`
	FatherID    int   `json:"father_id,omitempty"`
	MotherID    int   `json:"mother_id,omitempty"`
	SpouseID    int   `json:"spouse_id,omitempty"`
	GodfatherID int   `json:"godfather_id,omitempty"`
	GodmotherID int   `json:"godmother_id,omitempty"`
	WitnessIDs  []int `json:"witness_ids,omitempty"`

	OriginalText string `json:"original_text,omitempty"`
	Notable      bool   `json:"notable,omitempty"`

	Validation *ValidationResult `json:"validation,omitempty"`
}

// ParentIDs returns the filled parental-role identities of the record.
func (a *ActeRecord) ParentIDs() []int {
	var ids []int
	if a.FatherID != 0 {
		ids = append(ids, a.FatherID)
	}
	if a.MotherID != 0 {
		ids = append(ids, a.MotherID)
	}
	return ids
}

// PersonIDs returns every person identity the record names, in role order.
func (a *ActeRecord) PersonIDs() []int {
	var ids []int
	for _, id := range []int{a.PrincipalID, a.FatherID, a.MotherID, a.SpouseID, a.GodfatherID, a.GodmotherID} {
		if id != 0 {
			ids = append(ids, id)
		}
	}
	ids = append(ids, a.WitnessIDs...)
	return ids
}

var yearPattern = regexp.MustCompile(`\b(1[0-9]{3}|20[0-9]{2})\b`)

// ExtractYear pulls the first plausible four-digit year out of a free-form
// date string ("le 3 janvier 1651" → 1651). Returns 0 when none is found.
func ExtractYear(date string) int {
	m := yearPattern.FindString(date)
	if m == "" {
		return 0
	}
	year := 0
	for _, r := range m {
		year = year*10 + int(r-'0')
	}
	return year
}
