package resolver

import (
	"testing"

	"github.com/RISKA667/Garmea-sub000/internal/model"
)

func newTestResolver() *Resolver {
	return NewResolver(model.DefaultConfig(), nil)
}

func TestResolver_CreateThenMatch(t *testing.T) {
	r := newTestResolver()

	first := r.Resolve("Jean", "Le Boucher", model.Attributes{})
	second := r.Resolve("Jean", "Le Boucher", model.Attributes{})
	if first.ID != second.ID {
		t.Fatalf("same mention resolved to two identities: %d and %d", first.ID, second.ID)
	}

	stats := r.Stats()
	if stats.PersonsCreated != 1 || stats.PersonsMerged != 1 {
		t.Errorf("expected 1 created + 1 merged, got %+v", stats)
	}
}

func TestResolver_ResolutionIdempotent(t *testing.T) {
	r := newTestResolver()
	attrs := model.Attributes{Professions: []string{"marchand"}, Lands: []string{"bréville"}}

	a := r.Resolve("Pierre", "Véron", attrs)
	b := r.Resolve("Pierre", "Véron", attrs)
	c := r.Resolve("Pierre", "Véron", attrs)
	if a.ID != b.ID || b.ID != c.ID {
		t.Errorf("resolution not idempotent: %d %d %d", a.ID, b.ID, c.ID)
	}
}

func TestResolver_FuzzyMatchVariantSpelling(t *testing.T) {
	r := newTestResolver()

	canonical := r.Resolve("Jean", "Véron", model.Attributes{})
	variant := r.Resolve("Jehan", "Veron", model.Attributes{})
	if canonical.ID != variant.ID {
		t.Fatalf("variant spelling created a duplicate: %d vs %d", canonical.ID, variant.ID)
	}
	if len(variant.NameVariants) == 0 {
		t.Error("merged variant spelling should be recorded")
	}
}

func TestResolver_HomonymSeparationByLands(t *testing.T) {
	r := newTestResolver()

	breville := r.Resolve("Jean", "Le Boucher", model.Attributes{
		Title: "écuyer", Lands: []string{"Bréville"},
	})
	granville := r.Resolve("Jean", "Le Boucher", model.Attributes{
		Title: "écuyer", Lands: []string{"La Granville"},
	})
	if breville.ID == granville.ID {
		t.Fatal("disjoint non-empty land sets must not resolve to one identity")
	}
	if r.Stats().HomonymsDetected == 0 {
		t.Error("homonym rejection should be counted")
	}
}

func TestResolver_HomonymSeparationByProfession(t *testing.T) {
	r := newTestResolver()

	priest := r.Resolve("Guillaume", "Anquetil", model.Attributes{
		Professions: []string{"curé"},
	})
	merchant := r.Resolve("Guillaume", "Anquetil", model.Attributes{
		Professions: []string{"marchand"},
	})
	if priest.ID == merchant.ID {
		t.Fatal("clergy and civil professions must stay separate identities")
	}
}

func TestResolver_ContextBonusWeights(t *testing.T) {
	r := newTestResolver()
	p := r.Resolve("Jean", "Le Boucher", model.Attributes{
		Title: "écuyer", Professions: []string{"avocat"}, Lands: []string{"Bréville"},
	})

	if got := r.contextBonus(p, model.Attributes{Professions: []string{"avocat"}}); got != 0.15 {
		t.Errorf("shared profession should add 0.15, got %v", got)
	}
	if got := r.contextBonus(p, model.Attributes{Lands: []string{"Bréville"}}); got != 0.15 {
		t.Errorf("shared land should add 0.15, got %v", got)
	}
	got := r.contextBonus(p, model.Attributes{
		Title: "écuyer", Professions: []string{"avocat"}, Lands: []string{"Bréville"},
	})
	if limit := model.DefaultConfig().Resolver.ContextBonusCap; got != limit {
		t.Errorf("combined bonus should clamp at %v, got %v", limit, got)
	}
}

func TestResolver_LandMentionedLaterStillMatches(t *testing.T) {
	r := newTestResolver()

	// First mention carries no lands; the land-bearing mention must still
	// fold into it, since only disjoint non-empty sets signal a homonym.
	bare := r.Resolve("Jean", "Le Boucher", model.Attributes{})
	landed := r.Resolve("Jean", "Le Boucher", model.Attributes{Lands: []string{"Bréville"}})
	if bare.ID != landed.ID {
		t.Errorf("empty land set should not block the merge: %d vs %d", bare.ID, landed.ID)
	}
}

func TestResolver_MergeMonotonicity(t *testing.T) {
	r := newTestResolver()

	p := r.Resolve("Jean", "Le Boucher", model.Attributes{
		Professions: []string{"avocat"},
		Lands:       []string{"Bréville"},
		Title:       "écuyer",
	})
	preProfs := len(p.Professions)
	preLands := len(p.Lands)
	preTitle := p.Title

	r.Resolve("Jean", "Le Boucher", model.Attributes{
		Professions: []string{"notaire"},
		Lands:       []string{"Bréville", "Cambes"},
		Title:       "sieur", // lower rank, must not downgrade
		Notable:     true,
	})

	if len(p.Professions) < preProfs || len(p.Lands) < preLands {
		t.Error("merge shrank profession or land sets")
	}
	if p.Title < preTitle {
		t.Errorf("merge downgraded title: %s -> %s", preTitle, p.Title)
	}
	if !p.Notable {
		t.Error("notable flag should OR in")
	}
	if !p.HasLand("Cambes") {
		t.Error("new land missing after merge")
	}
}

func TestResolver_TitleUpgradeOnly(t *testing.T) {
	r := newTestResolver()

	p := r.Resolve("Jean", "Véron", model.Attributes{Title: "sieur"})
	if p.Title != model.TitleSieur {
		t.Fatalf("expected sieur, got %s", p.Title)
	}
	r.Resolve("Jean", "Véron", model.Attributes{Title: "seigneur"})
	if p.Title != model.TitleSeigneur {
		t.Errorf("higher title should upgrade, got %s", p.Title)
	}
	r.Resolve("Jean", "Véron", model.Attributes{Title: "écuyer"})
	if p.Title != model.TitleSeigneur {
		t.Errorf("lower title should not downgrade, got %s", p.Title)
	}
}

func TestResolver_PlaceholderOnUnusableName(t *testing.T) {
	r := newTestResolver()

	p := r.Resolve("", "  ", model.Attributes{})
	if p == nil {
		t.Fatal("unusable names must still yield a person")
	}
	if p.PrimaryGiven() != "Inconnu" || p.FamilyName != "Inconnu" {
		t.Errorf("expected placeholder names, got %q %q", p.PrimaryGiven(), p.FamilyName)
	}
	if p.Confidence != 0.3 {
		t.Errorf("placeholder confidence should be 0.3, got %f", p.Confidence)
	}

	q := r.Resolve("X", "", model.Attributes{})
	if q.ID == p.ID {
		t.Error("placeholders must not merge with each other")
	}
	if r.Stats().Placeholders != 2 {
		t.Errorf("expected 2 placeholders counted, got %d", r.Stats().Placeholders)
	}
}

func TestResolver_GenderCorrectionStripsTitle(t *testing.T) {
	r := newTestResolver()

	p := r.Resolve("Marguerite", "Varin", model.Attributes{
		Title:   "sieur",
		Context: "Marguerite Varin, fille de Jean Varin, marraine de l'enfant",
	})
	if p.Title != model.TitleNone {
		t.Errorf("impossible title should be stripped, got %s", p.Title)
	}
	if r.Stats().GenderCorrections != 1 {
		t.Errorf("expected 1 gender correction, got %d", r.Stats().GenderCorrections)
	}
}

func TestResolver_MergeInto(t *testing.T) {
	r := newTestResolver()

	winner := r.Resolve("Jean", "Le Boucher", model.Attributes{Lands: []string{"Bréville"}})
	loser := r.Resolve("Guillaume", "Anquetil", model.Attributes{Professions: []string{"marchand"}})

	if err := r.MergeInto(winner.ID, loser.ID); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if loser.MergedInto != winner.ID {
		t.Error("loser should redirect to winner")
	}
	if got, ok := r.Person(loser.ID); !ok || got.ID != winner.ID {
		t.Error("lookup by retired identity should follow the redirect")
	}
	if !winner.HasProfession("marchand") {
		t.Error("loser attributes should transfer to winner")
	}
	for _, p := range r.Persons() {
		if p.ID == loser.ID {
			t.Error("retired identity should not list as active")
		}
	}
}

func TestResolver_MergeIntoKeepsAllGivenNames(t *testing.T) {
	r := newTestResolver()

	winner := r.Resolve("Jean", "Le Boucher", model.Attributes{Lands: []string{"Bréville"}})
	loser := r.Resolve("Guillaume", "Anquetil", model.Attributes{})
	// Second spelling accumulates on the loser before the merge.
	if got := r.Resolve("Guillaulme", "Anquetil", model.Attributes{}); got.ID != loser.ID {
		t.Fatalf("variant spelling should land on the same identity, got %d", got.ID)
	}
	if len(loser.GivenNames) < 2 {
		t.Fatalf("loser should carry both spellings, got %v", loser.GivenNames)
	}

	if err := r.MergeInto(winner.ID, loser.ID); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	for _, given := range []string{"Guillaume", "Guillaulme"} {
		found := false
		for _, g := range winner.GivenNames {
			if g == given {
				found = true
			}
		}
		if !found {
			t.Errorf("given name %s lost in merge: %v", given, winner.GivenNames)
		}
	}
	named := r.Named("Guillaulme", "Le Boucher")
	if len(named) != 1 || named[0].ID != winner.ID {
		t.Errorf("secondary spelling should stay findable on the winner, got %+v", named)
	}
}

func TestResolver_MergeIntoUnknownIdentity(t *testing.T) {
	r := newTestResolver()
	p := r.Resolve("Jean", "Le Boucher", model.Attributes{})

	if err := r.MergeInto(p.ID, 999); err == nil {
		t.Error("merging an unknown identity must error")
	}
	if err := r.MergeInto(999, p.ID); err == nil {
		t.Error("merging into an unknown identity must error")
	}
	if err := r.MergeInto(p.ID, p.ID); err == nil {
		t.Error("self-merge must error")
	}
}

func TestResolver_NamedLookup(t *testing.T) {
	r := newTestResolver()

	a := r.Resolve("Jean", "Le Boucher", model.Attributes{Lands: []string{"Bréville"}})
	b := r.Resolve("Jean", "Le Boucher", model.Attributes{Lands: []string{"La Granville"}})

	named := r.Named("Jean", "Le Boucher")
	if len(named) != 2 {
		t.Fatalf("expected both homonyms under the name, got %d", len(named))
	}
	ids := map[int]bool{named[0].ID: true, named[1].ID: true}
	if !ids[a.ID] || !ids[b.ID] {
		t.Error("Named should return both distinct identities")
	}
}

func TestResolver_CacheCounters(t *testing.T) {
	r := newTestResolver()

	// A fuzzy lookup that misses, then repeats with no intervening merge
	// that touches its tokens.
	r.Resolve("Jean", "Véron", model.Attributes{})
	r.Resolve("Thomas", "Anquetil", model.Attributes{})

	stats := r.Stats()
	if stats.CacheMisses == 0 {
		t.Error("fuzzy scans should record cache misses")
	}
}
