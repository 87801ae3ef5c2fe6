package extract

import (
	"testing"

	"github.com/RISKA667/Garmea-sub000/internal/model"
)

const registerEntry = `Le 3 janvier 1651, baptême de Pierre Le Boucher, fils de Jean Le Boucher et de Françoise Varin.
Parrain: Nicolas Véron. Marraine: Anne Anquetil.
Jean Le Boucher, écuyer, sieur de Bréville, avocat au parlement.`

func findMention(ds *model.Dataset, given, family string) *model.Mention {
	for i := range ds.Mentions {
		if ds.Mentions[i].Given == given && ds.Mentions[i].Family == family {
			return &ds.Mentions[i]
		}
	}
	return nil
}

func TestExtractor_Mentions(t *testing.T) {
	e := NewExtractor(nil)
	ds := e.Extract(registerEntry, "registre")

	for _, want := range [][2]string{
		{"Pierre", "Le Boucher"},
		{"Jean", "Le Boucher"},
		{"Françoise", "Varin"},
		{"Nicolas", "Véron"},
		{"Anne", "Anquetil"},
	} {
		if findMention(ds, want[0], want[1]) == nil {
			t.Errorf("mention %s %s not extracted", want[0], want[1])
		}
	}
	if e.Stats().MentionsExtracted < 5 {
		t.Errorf("stats undercount mentions: %+v", e.Stats())
	}
}

func TestExtractor_FiliationRelations(t *testing.T) {
	e := NewExtractor(nil)
	ds := e.Extract(registerEntry, "registre")

	parents := 0
	for _, rel := range ds.Relations {
		if rel.Kind != model.RelationParent {
			continue
		}
		parents++
		if rel.Object.Given != "Pierre" {
			t.Errorf("parent relation should point at the child, got %+v", rel.Object)
		}
		if rel.Year != 1651 {
			t.Errorf("relation year should come from the entry date, got %d", rel.Year)
		}
	}
	if parents != 2 {
		t.Errorf("expected father and mother relations, got %d", parents)
	}
}

func TestExtractor_MarriageRelation(t *testing.T) {
	e := NewExtractor(nil)
	ds := e.Extract("Françoise Varin, veuve de Jean Le Boucher, demeurant à Bréville.", "r")

	if len(ds.Relations) != 1 || ds.Relations[0].Kind != model.RelationSpouse {
		t.Fatalf("expected one spouse relation, got %+v", ds.Relations)
	}
	rel := ds.Relations[0]
	if rel.Subject.Given != "Françoise" || rel.Object.Given != "Jean" {
		t.Errorf("spouse relation endpoints wrong: %+v", rel)
	}
}

func TestExtractor_TitleLandProfession(t *testing.T) {
	e := NewExtractor(nil)
	ds := e.Extract(registerEntry, "registre")

	jean := findMention(ds, "Jean", "Le Boucher")
	if jean == nil {
		t.Fatal("Jean Le Boucher not extracted")
	}
	if jean.Attrs.Title != "écuyer" {
		t.Errorf("title not attached: %+v", jean.Attrs)
	}
}

func TestExtractor_AccentedBoundaries(t *testing.T) {
	e := NewExtractor(nil)
	ds := e.Extract("Éléonore Mathé, fille de Charles Mathé, écuyer, sieur d'Ouville.", "r")

	if findMention(ds, "Éléonore", "Mathé") == nil {
		t.Error("name starting with an accented letter not extracted")
	}
	charles := findMention(ds, "Charles", "Mathé")
	if charles == nil {
		t.Fatal("Charles Mathé not extracted")
	}
	if charles.Attrs.Title != "écuyer" {
		t.Errorf("écuyer after an accent-ending name not attached: %+v", charles.Attrs)
	}
	parents := 0
	for _, rel := range ds.Relations {
		if rel.Kind == model.RelationParent && rel.Object.Given == "Éléonore" {
			parents++
		}
	}
	if parents != 1 {
		t.Errorf("filiation with accented names should yield one parent relation, got %d", parents)
	}
}

func TestExtractor_OCRCorrection(t *testing.T) {
	e := NewExtractor(nil)
	ds := e.Extract("Jaeques Lefèvre, fils de Cliarles Lefèvre.", "r")

	if findMention(ds, "Jacques", "Lefèvre") == nil {
		t.Error("OCR error Jaeques should correct to Jacques")
	}
	if findMention(ds, "Charles", "Lefèvre") == nil {
		t.Error("OCR error Cliarles should correct to Charles")
	}
	if findMention(ds, "Jaeques", "Lefèvre") != nil {
		t.Error("uncorrected spelling must not survive")
	}
	if e.Stats().OCRCorrections != 2 {
		t.Errorf("expected 2 OCR corrections, got %d", e.Stats().OCRCorrections)
	}
}

func TestExtractor_DeduplicatesMentions(t *testing.T) {
	e := NewExtractor(nil)
	ds := e.Extract("Jean Le Boucher. Jean Le Boucher. Jean Le Boucher.", "r")

	count := 0
	for _, m := range ds.Mentions {
		if m.Given == "Jean" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("repeated mention should extract once, got %d", count)
	}
}

func TestExtractor_ExtractPages(t *testing.T) {
	e := NewExtractor(nil)
	ds := e.ExtractPages([]string{
		"Jean Le Boucher, sieur de Bréville.",
		"Anne Anquetil, femme de Nicolas Véron.",
	}, "registre")

	if len(ds.Mentions) < 3 {
		t.Errorf("pages should aggregate, got %+v", ds.Mentions)
	}
	if len(ds.Relations) != 1 {
		t.Errorf("expected the marriage relation from page 2, got %d", len(ds.Relations))
	}
}
