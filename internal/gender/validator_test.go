package gender

import (
	"testing"

	"github.com/RISKA667/Garmea-sub000/internal/model"
)

func TestValidator_InferFeminine(t *testing.T) {
	v := NewValidator(nil)

	g := v.Infer("Françoise Varin", "Françoise Varin, épouse de Jean Le Boucher")
	if g != Feminine {
		t.Errorf("expected feminine, got %s", g)
	}
}

func TestValidator_InferMasculine(t *testing.T) {
	v := NewValidator(nil)

	g := v.Infer("Jean Le Boucher", "Jean Le Boucher, fils de Pierre, parrain de l'enfant")
	if g != Masculine {
		t.Errorf("expected masculine, got %s", g)
	}
}

func TestValidator_InferUnknownOnTie(t *testing.T) {
	v := NewValidator(nil)

	g := v.Infer("Jean Le Boucher", "épouse présente, fils présent, Jean Le Boucher")
	if g != Unknown {
		t.Errorf("tied indicators should be unknown, got %s", g)
	}
	if v.Infer("Jean Le Boucher", "") != Unknown {
		t.Error("empty context should be unknown")
	}
}

func TestValidator_WindowBoundsInference(t *testing.T) {
	v := NewValidator(nil)

	// The feminine indicator sits far outside the 100-rune window.
	padding := make([]byte, 0, 260)
	for i := 0; i < 26; i++ {
		padding = append(padding, "aaaaaaaaa "...)
	}
	ctx := "veuve " + string(padding) + "Jean Le Boucher fils de Pierre"
	if g := v.Infer("Jean Le Boucher", ctx); g != Masculine {
		t.Errorf("indicator beyond window should not count, got %s", g)
	}
}

func TestValidator_AccentInsensitiveIndicators(t *testing.T) {
	v := NewValidator(nil)

	g := v.Infer("Marie Anquetil", "Marie Anquetil, ÉPOUSE du marchand")
	if g != Feminine {
		t.Errorf("expected feminine despite accents and case, got %s", g)
	}
}

func TestValidator_CheckStripsMasculineTitle(t *testing.T) {
	v := NewValidator(nil)
	p := &model.Person{
		ID:         1,
		GivenNames: []string{"Marguerite"},
		FamilyName: "Varin",
		Title:      model.TitleSieur,
	}

	result, corrections := v.Check(p, "Marguerite Varin, fille de Jean Varin, marraine")
	if result.IsValid {
		t.Error("masculine title on feminine mention should be invalid")
	}
	if len(corrections) != 1 || corrections[0].Field != "title" {
		t.Fatalf("expected a title strip correction, got %v", corrections)
	}
	if p.Title != model.TitleSieur {
		t.Error("validator must not mutate the person")
	}
}

func TestValidator_TitleThroughMarriageIsWarning(t *testing.T) {
	v := NewValidator(nil)
	p := &model.Person{
		ID:         2,
		GivenNames: []string{"Marguerite"},
		FamilyName: "Varin",
		Title:      model.TitleSeigneur,
	}

	result, corrections := v.Check(p, "Marguerite Varin, veuve du seigneur de Bréville")
	if !result.IsValid {
		t.Error("marriage-held title should not be an error")
	}
	if len(result.Warnings) == 0 {
		t.Error("marriage-held title should be flagged as a warning")
	}
	if len(corrections) != 0 {
		t.Errorf("marriage-held title should not be stripped, got %v", corrections)
	}
}

func TestValidator_CheckStripsClergyProfession(t *testing.T) {
	v := NewValidator(nil)
	p := &model.Person{
		ID:          3,
		GivenNames:  []string{"Anne"},
		FamilyName:  "Véron",
		Professions: []string{"curé"},
	}

	result, corrections := v.Check(p, "Anne Véron, femme de Pierre, marraine de l'enfant")
	if result.IsValid {
		t.Error("clergy profession on feminine mention should be invalid")
	}
	if len(corrections) != 1 || corrections[0].Field != "profession" || corrections[0].Value != "curé" {
		t.Fatalf("expected a profession strip correction, got %v", corrections)
	}
}

func TestValidator_CheckMasculineUnaffected(t *testing.T) {
	v := NewValidator(nil)
	p := &model.Person{
		ID:          4,
		GivenNames:  []string{"Jean"},
		FamilyName:  "Le Boucher",
		Title:       model.TitleEcuyer,
		Professions: []string{"curé"},
	}

	result, corrections := v.Check(p, "Jean Le Boucher, fils de Guillaume")
	if !result.IsValid || len(corrections) != 0 {
		t.Errorf("masculine mention should pass untouched: %+v %v", result, corrections)
	}
}
