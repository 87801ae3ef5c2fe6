package chronology

import (
	"strings"
	"testing"

	"github.com/RISKA667/Garmea-sub000/internal/model"
	"github.com/RISKA667/Garmea-sub000/internal/resolver"
)

func newTestValidator() *Validator {
	return NewValidator(model.DefaultConfig().Chronology, nil)
}

func TestValidator_DeathBeforeBirth(t *testing.T) {
	v := newTestValidator()
	p := &model.Person{
		ID: 1, GivenNames: []string{"Jean"}, FamilyName: "Le Boucher",
		BirthDate: "1650", DeathDate: "1648",
	}

	result := v.ValidatePerson(p)
	if result.IsValid {
		t.Error("death before birth must be an error")
	}
	if result.Confidence < 0.59 || result.Confidence > 0.61 {
		t.Errorf("expected 0.4 deduction, got confidence %f", result.Confidence)
	}
}

func TestValidator_ExtremeAgeIsWarning(t *testing.T) {
	v := newTestValidator()
	p := &model.Person{
		ID: 1, GivenNames: []string{"Jean"}, FamilyName: "Le Boucher",
		BirthDate: "1550", DeathDate: "1665",
	}

	result := v.ValidatePerson(p)
	if !result.IsValid {
		t.Error("extreme age is a warning, not an error")
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected one warning, got %v", result.Warnings)
	}
}

func TestValidator_MarriageAgeBounds(t *testing.T) {
	v := newTestValidator()

	child := &model.Person{
		ID: 1, GivenNames: []string{"Anne"}, FamilyName: "Varin",
		BirthDate: "1650", MarriageDate: "1660",
	}
	if result := v.ValidatePerson(child); result.IsValid {
		t.Error("marriage below age 12 must be an error")
	}

	late := &model.Person{
		ID: 2, GivenNames: []string{"Jean"}, FamilyName: "Varin",
		BirthDate: "1600", MarriageDate: "1665",
	}
	result := v.ValidatePerson(late)
	if !result.IsValid || len(result.Warnings) != 1 {
		t.Errorf("marriage above 60 should warn only: %+v", result)
	}

	plausible := &model.Person{
		ID: 3, GivenNames: []string{"Pierre"}, FamilyName: "Varin",
		BirthDate: "1630", MarriageDate: "1655",
	}
	if result := v.ValidatePerson(plausible); !result.IsValid || len(result.Warnings) != 0 {
		t.Errorf("plausible marriage age should pass clean: %+v", result)
	}
}

func TestValidator_MissingDatesPass(t *testing.T) {
	v := newTestValidator()
	p := &model.Person{ID: 1, GivenNames: []string{"Jean"}, FamilyName: "Le Boucher"}

	result := v.ValidatePerson(p)
	if !result.IsValid || len(result.Warnings) != 0 {
		t.Errorf("person without dates should pass: %+v", result)
	}
}

func TestValidator_DeadParentOnRecord(t *testing.T) {
	v := newTestValidator()
	father := &model.Person{
		ID: 1, GivenNames: []string{"Jean"}, FamilyName: "Le Boucher",
		DeathDate: "1645",
	}
	persons := map[int]*model.Person{1: father}
	acte := &model.ActeRecord{ID: 1, Type: model.ActeBapteme, Year: 1651, FatherID: 1}

	result := v.ValidateRecord(acte, persons)
	if result.IsValid {
		t.Error("parent dead before the event year must be an error")
	}
	if result.Confidence < 0.59 || result.Confidence > 0.61 {
		t.Errorf("expected 0.4 deduction, got %f", result.Confidence)
	}
}

func TestValidator_CorrectRecordsRedirectsToHomonym(t *testing.T) {
	v := newTestValidator()
	r := resolver.NewResolver(model.DefaultConfig(), nil)

	dead := r.Resolve("Jean", "Le Boucher", model.Attributes{
		DeathDate: "1645", Lands: []string{"Bréville"},
	})
	alive := r.Resolve("Jean", "Le Boucher", model.Attributes{
		Lands: []string{"La Granville"},
	})
	if dead.ID == alive.ID {
		t.Fatal("fixture requires two distinct homonyms")
	}

	acte := &model.ActeRecord{ID: 1, Type: model.ActeBapteme, Year: 1651, FatherID: dead.ID}
	notes := v.CorrectRecords([]*model.ActeRecord{acte}, r)

	if acte.FatherID != alive.ID {
		t.Errorf("father should be re-pointed to the living homonym, got %d", acte.FatherID)
	}
	if len(notes) != 1 || !strings.Contains(notes[0], "re-pointed") {
		t.Errorf("expected a correction note, got %v", notes)
	}
	if v.Stats().CorrectionsMade != 1 {
		t.Errorf("expected 1 correction counted, got %+v", v.Stats())
	}
}

func TestValidator_CorrectRecordsLeavesWhenNoHomonym(t *testing.T) {
	v := newTestValidator()
	r := resolver.NewResolver(model.DefaultConfig(), nil)

	dead := r.Resolve("Jean", "Le Boucher", model.Attributes{DeathDate: "1645"})
	acte := &model.ActeRecord{ID: 1, Type: model.ActeBapteme, Year: 1651, FatherID: dead.ID}

	notes := v.CorrectRecords([]*model.ActeRecord{acte}, r)
	if acte.FatherID != dead.ID {
		t.Error("link must stay in place when no homonym fits")
	}
	if len(notes) != 1 || !strings.Contains(notes[0], "no valid homonym") {
		t.Errorf("expected an uncorrected note, got %v", notes)
	}
	if v.Stats().UncorrectedErrors != 1 {
		t.Errorf("expected 1 uncorrected error, got %+v", v.Stats())
	}
}

func TestValidator_CorrectRecordsSkipsDeadHomonym(t *testing.T) {
	v := newTestValidator()
	r := resolver.NewResolver(model.DefaultConfig(), nil)

	dead := r.Resolve("Jean", "Le Boucher", model.Attributes{
		DeathDate: "1645", Lands: []string{"Bréville"},
	})
	alsoDead := r.Resolve("Jean", "Le Boucher", model.Attributes{
		DeathDate: "1648", Lands: []string{"La Granville"},
	})
	_ = alsoDead

	acte := &model.ActeRecord{ID: 1, Type: model.ActeBapteme, Year: 1651, FatherID: dead.ID}
	notes := v.CorrectRecords([]*model.ActeRecord{acte}, r)

	if acte.FatherID != dead.ID {
		t.Error("a homonym dead before the event year must not be chosen")
	}
	if len(notes) != 1 || !strings.Contains(notes[0], "no valid homonym") {
		t.Errorf("expected an uncorrected note, got %v", notes)
	}
}

func TestValidator_ReportAttachesRecordValidation(t *testing.T) {
	v := newTestValidator()
	father := &model.Person{
		ID: 1, GivenNames: []string{"Jean"}, FamilyName: "Le Boucher",
		DeathDate: "1645",
	}
	acte := &model.ActeRecord{ID: 1, Type: model.ActeBapteme, Year: 1651, FatherID: 1}

	issues := v.Report([]*model.Person{father}, []*model.ActeRecord{acte})
	if acte.Validation == nil || acte.Validation.IsValid {
		t.Error("report should attach the failing validation to the record")
	}
	if len(issues) == 0 {
		t.Error("report should surface the record error")
	}
}
