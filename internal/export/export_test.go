package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RISKA667/Garmea-sub000/internal/genealogy"
	"github.com/RISKA667/Garmea-sub000/internal/model"
)

func testFamily() ([]*model.Person, *genealogy.Network) {
	persons := []*model.Person{
		{
			ID: 1, GivenNames: []string{"Jean", "Jehan"}, FamilyName: "Le Boucher",
			NameVariants: []string{"Jehan Le Bouchier"},
			Title:        model.TitleEcuyer,
			Professions:  []string{"avocat"},
			Lands:        []string{"La Granville"},
			BirthDate:    "1620", DeathDate: "1680", DeathPlace: "Bréville",
			Confidence: 0.9,
		},
		{ID: 2, GivenNames: []string{"Françoise"}, FamilyName: "Varin", Confidence: 0.9},
		{ID: 3, GivenNames: []string{"Pierre"}, FamilyName: "Le Boucher", BirthDate: "1651", Confidence: 0.9},
		{ID: 4, GivenNames: []string{"Anne"}, FamilyName: "Le Boucher", BirthDate: "1653", Confidence: 0.9},
	}
	network := &genealogy.Network{
		Persons: map[int]*model.Person{},
		Relations: []model.Relation{
			{SubjectID: 1, ObjectID: 3, Kind: model.RelationParent, Confidence: 0.95},
			{SubjectID: 2, ObjectID: 3, Kind: model.RelationParent, Confidence: 0.95},
			{SubjectID: 1, ObjectID: 4, Kind: model.RelationParent, Confidence: 0.95},
			{SubjectID: 2, ObjectID: 4, Kind: model.RelationParent, Confidence: 0.95},
			{SubjectID: 1, ObjectID: 2, Kind: model.RelationSpouse, Confidence: 0.80, Inferred: true},
		},
	}
	for _, p := range persons {
		network.Persons[p.ID] = p
	}
	return persons, network
}

func TestExporter_GEDCOMStructure(t *testing.T) {
	persons, network := testFamily()
	e := NewExporter(nil)

	var b strings.Builder
	if err := e.WriteGEDCOM(&b, persons, network); err != nil {
		t.Fatal(err)
	}
	out := b.String()

	for _, want := range []string{
		"0 HEAD",
		"2 VERS 5.5.1",
		"0 @I1@ INDI",
		"1 NAME Jean /Le Boucher/",
		"1 NAME Jehan /Le Boucher/",
		"1 NAME Jehan Le Bouchier",
		"1 TITL écuyer",
		"1 OCCU avocat",
		"2 DATE 1680",
		"2 PLAC Bréville",
		"0 @F1@ FAM",
		"1 CHIL @I3@",
		"1 CHIL @I4@",
		"0 TRLR",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("GEDCOM missing %q", want)
		}
	}

	// The couple appears once even though spouse edge and children both
	// describe it.
	if strings.Count(out, "0 @F") != 1 {
		t.Errorf("expected a single family record:\n%s", out)
	}
	if !strings.Contains(out, "1 FAMS @F1@") || !strings.Contains(out, "1 FAMC @F1@") {
		t.Error("persons should link back to their family record")
	}
}

func TestExporter_GEDCOMChildlessCouple(t *testing.T) {
	persons := []*model.Person{
		{ID: 1, GivenNames: []string{"Nicolas"}, FamilyName: "Véron", Confidence: 0.9},
		{ID: 2, GivenNames: []string{"Anne"}, FamilyName: "Anquetil", Confidence: 0.9},
	}
	network := &genealogy.Network{
		Persons: map[int]*model.Person{1: persons[0], 2: persons[1]},
		Relations: []model.Relation{
			{SubjectID: 1, ObjectID: 2, Kind: model.RelationSpouse, Confidence: 0.90},
		},
	}

	var b strings.Builder
	if err := NewExporter(nil).WriteGEDCOM(&b, persons, network); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	if !strings.Contains(out, "0 @F1@ FAM") {
		t.Error("spouse pair without children should still form a family")
	}
	if strings.Contains(out, "1 CHIL") {
		t.Error("no children expected")
	}
}

func TestExporter_JSONRoundTrip(t *testing.T) {
	report := &model.Report{Source: "registre", PersonCount: 4}
	path := filepath.Join(t.TempDir(), "report.json")

	if err := NewExporter(nil).JSONFile(path, report); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got model.Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON written: %v", err)
	}
	if got.Source != "registre" || got.PersonCount != 4 {
		t.Errorf("report mangled: %+v", got)
	}
}

func TestExporter_PersonsCSV(t *testing.T) {
	persons, _ := testFamily()

	var b strings.Builder
	if err := NewExporter(nil).WritePersonsCSV(&b, persons); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header plus 4 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,given_names,family_name") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "Jean; Jehan") {
		t.Errorf("given names should join with semicolons: %s", lines[1])
	}
	if !strings.Contains(lines[1], "écuyer") {
		t.Errorf("title missing from row: %s", lines[1])
	}
}

func TestExporter_RelationsCSV(t *testing.T) {
	_, network := testFamily()

	var b strings.Builder
	if err := NewExporter(nil).WriteRelationsCSV(&b, network.Relations); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected header plus 5 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[5], "spouse") || !strings.Contains(lines[5], "true") {
		t.Errorf("inferred spouse row wrong: %s", lines[5])
	}
}
