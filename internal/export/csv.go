package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/RISKA667/Garmea-sub000/internal/model"
)

// WritePersonsCSV writes one row per resolved person.
func (e *Exporter) WritePersonsCSV(w io.Writer, persons []*model.Person) error {
	cw := csv.NewWriter(w)
	header := []string{
		"id", "given_names", "family_name", "name_variants",
		"title", "professions", "lands",
		"birth_date", "death_date", "marriage_date",
		"birth_place", "death_place",
		"father_id", "mother_id", "spouse_id",
		"confidence", "sources",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, p := range persons {
		row := []string{
			strconv.Itoa(p.ID),
			strings.Join(p.GivenNames, "; "),
			p.FamilyName,
			strings.Join(p.NameVariants, "; "),
			p.Title.String(),
			strings.Join(p.Professions, "; "),
			strings.Join(p.Lands, "; "),
			p.BirthDate,
			p.DeathDate,
			p.MarriageDate,
			p.BirthPlace,
			p.DeathPlace,
			strconv.Itoa(p.FatherID),
			strconv.Itoa(p.MotherID),
			strconv.Itoa(p.SpouseID),
			strconv.FormatFloat(p.Confidence, 'f', 2, 64),
			strings.Join(p.Sources, "; "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write person %d: %w", p.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRelationsCSV writes one row per relation edge.
func (e *Exporter) WriteRelationsCSV(w io.Writer, relations []model.Relation) error {
	cw := csv.NewWriter(w)
	header := []string{"subject_id", "object_id", "kind", "confidence", "inferred", "evidence"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, rel := range relations {
		row := []string{
			strconv.Itoa(rel.SubjectID),
			strconv.Itoa(rel.ObjectID),
			string(rel.Kind),
			strconv.FormatFloat(rel.Confidence, 'f', 2, 64),
			strconv.FormatBool(rel.Inferred),
			strings.Join(rel.Evidence, "; "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write relation %d-%d: %w", rel.SubjectID, rel.ObjectID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// PersonsCSVFile writes the persons table to path.
func (e *Exporter) PersonsCSVFile(path string, persons []*model.Person) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return e.WritePersonsCSV(f, persons)
}

// RelationsCSVFile writes the relations table to path.
func (e *Exporter) RelationsCSVFile(path string, relations []model.Relation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return e.WriteRelationsCSV(f, relations)
}
