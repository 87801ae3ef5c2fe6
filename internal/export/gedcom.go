package export

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/RISKA667/Garmea-sub000/internal/genealogy"
	"github.com/RISKA667/Garmea-sub000/internal/model"
)

// familyUnit is one FAM record: a parent couple (either side may be
// missing) and their shared children.
type familyUnit struct {
	father   int
	mother   int
	children []int
}

// WriteGEDCOM writes the resolved persons and their relation network as a
// GEDCOM 5.5.1 document. Alternate recorded spellings become secondary NAME
// lines; the social title becomes a TITL attribute. Families are derived
// from the relation graph, not from person back-references.
func (e *Exporter) WriteGEDCOM(w io.Writer, persons []*model.Person, network *genealogy.Network) error {
	var b strings.Builder

	b.WriteString("0 HEAD\n")
	b.WriteString("1 SOUR GARMEA\n")
	b.WriteString("1 GEDC\n")
	b.WriteString("2 VERS 5.5.1\n")
	b.WriteString("2 FORM LINEAGE-LINKED\n")
	b.WriteString("1 CHAR UTF-8\n")

	units := e.familyUnits(persons, network)
	famOf := indexFamilies(units)

	for _, person := range persons {
		writeIndividual(&b, person, famOf, units)
	}
	for i, unit := range units {
		writeFamily(&b, i+1, unit)
	}

	b.WriteString("0 TRLR\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write GEDCOM: %w", err)
	}
	return nil
}

// GEDCOMFile writes the GEDCOM document to path.
func (e *Exporter) GEDCOMFile(path string, persons []*model.Person, network *genealogy.Network) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return e.WriteGEDCOM(f, persons, network)
}

// familyUnits groups parent relations by couple. Spouse pairs without
// recorded children still form a unit so the marriage survives the export.
func (e *Exporter) familyUnits(persons []*model.Person, network *genealogy.Network) []familyUnit {
	if network == nil {
		return nil
	}

	type coupleKey struct{ a, b int }
	couples := map[coupleKey]*familyUnit{}
	keyFor := func(a, b int) coupleKey {
		if b != 0 && (a == 0 || b < a) {
			a, b = b, a
		}
		return coupleKey{a, b}
	}

	// One unit per child's parent set.
	for _, person := range persons {
		parents := network.Parents(person.ID)
		if len(parents) == 0 {
			continue
		}
		var father, mother int
		father = parents[0]
		if len(parents) > 1 {
			mother = parents[1]
		}
		key := keyFor(father, mother)
		unit, ok := couples[key]
		if !ok {
			unit = &familyUnit{father: key.a, mother: key.b}
			couples[key] = unit
		}
		unit.children = append(unit.children, person.ID)
	}

	for _, rel := range network.Relations {
		if rel.Kind != model.RelationSpouse {
			continue
		}
		key := keyFor(rel.SubjectID, rel.ObjectID)
		if _, ok := couples[key]; !ok {
			couples[key] = &familyUnit{father: key.a, mother: key.b}
		}
	}

	units := make([]familyUnit, 0, len(couples))
	for _, unit := range couples {
		sort.Ints(unit.children)
		units = append(units, *unit)
	}
	sort.Slice(units, func(i, j int) bool {
		if units[i].father != units[j].father {
			return units[i].father < units[j].father
		}
		return units[i].mother < units[j].mother
	})
	return units
}

// indexFamilies maps each person to the family numbers where they appear as
// a spouse (FAMS) and as a child (FAMC).
func indexFamilies(units []familyUnit) map[int]struct{ spouse, child []int } {
	idx := map[int]struct{ spouse, child []int }{}
	add := func(id, fam int, asChild bool) {
		if id == 0 {
			return
		}
		entry := idx[id]
		if asChild {
			entry.child = append(entry.child, fam)
		} else {
			entry.spouse = append(entry.spouse, fam)
		}
		idx[id] = entry
	}
	for i, unit := range units {
		fam := i + 1
		add(unit.father, fam, false)
		add(unit.mother, fam, false)
		for _, child := range unit.children {
			add(child, fam, true)
		}
	}
	return idx
}

func writeIndividual(b *strings.Builder, p *model.Person, famOf map[int]struct{ spouse, child []int }, units []familyUnit) {
	fmt.Fprintf(b, "0 @I%d@ INDI\n", p.ID)
	fmt.Fprintf(b, "1 NAME %s /%s/\n", p.PrimaryGiven(), p.FamilyName)
	for _, given := range p.GivenNames[min(1, len(p.GivenNames)):] {
		fmt.Fprintf(b, "1 NAME %s /%s/\n", given, p.FamilyName)
	}
	for _, variant := range p.NameVariants {
		fmt.Fprintf(b, "1 NAME %s\n", variant)
	}
	if p.Title != model.TitleNone {
		fmt.Fprintf(b, "1 TITL %s\n", p.Title)
	}
	for _, prof := range p.Professions {
		fmt.Fprintf(b, "1 OCCU %s\n", prof)
	}
	writeEvent(b, "BIRT", p.BirthYear(), p.BirthPlace)
	writeEvent(b, "DEAT", p.DeathYear(), p.DeathPlace)
	if p.BurialPlace != "" {
		b.WriteString("1 BURI\n")
		fmt.Fprintf(b, "2 PLAC %s\n", p.BurialPlace)
	}
	entry := famOf[p.ID]
	for _, fam := range entry.spouse {
		fmt.Fprintf(b, "1 FAMS @F%d@\n", fam)
	}
	for _, fam := range entry.child {
		fmt.Fprintf(b, "1 FAMC @F%d@\n", fam)
	}
	for _, source := range p.Sources {
		fmt.Fprintf(b, "1 SOUR %s\n", source)
	}
}

func writeEvent(b *strings.Builder, tag string, year int, place string) {
	if year == 0 && place == "" {
		return
	}
	fmt.Fprintf(b, "1 %s\n", tag)
	if year != 0 {
		fmt.Fprintf(b, "2 DATE %d\n", year)
	}
	if place != "" {
		fmt.Fprintf(b, "2 PLAC %s\n", place)
	}
}

func writeFamily(b *strings.Builder, num int, unit familyUnit) {
	fmt.Fprintf(b, "0 @F%d@ FAM\n", num)
	if unit.father != 0 {
		fmt.Fprintf(b, "1 HUSB @I%d@\n", unit.father)
	}
	if unit.mother != 0 {
		fmt.Fprintf(b, "1 WIFE @I%d@\n", unit.mother)
	}
	for _, child := range unit.children {
		fmt.Fprintf(b, "1 CHIL @I%d@\n", child)
	}
}
