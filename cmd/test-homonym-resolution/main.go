// Test program to demonstrate homonym resolution
// This shows land-based separation and fuzzy variant merging working
package main

import (
	"fmt"
	"strings"

	"github.com/RISKA667/Garmea-sub000/internal/model"
	"github.com/RISKA667/Garmea-sub000/internal/resolver"
	"go.uber.org/zap"
)

func main() {
	fmt.Println("=== Homonym Resolution Test ===")
	fmt.Println()

	r := resolver.NewResolver(model.DefaultConfig(), zap.NewNop())

	// Two sieurs of the same name but different estates
	mentions := []struct {
		given, family string
		attrs         model.Attributes
	}{
		{"Jean", "Le Boucher", model.Attributes{Title: "écuyer", Lands: []string{"Bréville"}}},
		{"Jean", "Le Boucher", model.Attributes{Title: "écuyer", Lands: []string{"La Granville"}}},
		{"Jehan", "Le Boucher", model.Attributes{Lands: []string{"Bréville"}}},
		{"Jean", "Le Bouchier", model.Attributes{Lands: []string{"La Granville"}}},
		{"Françoise", "Varin", model.Attributes{}},
		{"Francoise", "Varin", model.Attributes{}},
	}

	for _, m := range mentions {
		fmt.Printf("Resolving: %s %s", m.given, m.family)
		if len(m.attrs.Lands) > 0 {
			fmt.Printf(" (sr de %s)", strings.Join(m.attrs.Lands, ", "))
		}
		fmt.Println()

		person := r.Resolve(m.given, m.family, m.attrs)
		fmt.Printf("  -> identity %d: %s\n", person.ID, person.FullName())
	}

	fmt.Println()
	fmt.Println(strings.Repeat("-", 60))
	fmt.Println("Resolved persons:")
	for _, p := range r.Persons() {
		fmt.Printf("  [%d] %s", p.ID, p.FullName())
		if p.Title != model.TitleNone {
			fmt.Printf(", %s", p.Title)
		}
		if len(p.Lands) > 0 {
			fmt.Printf(", sr de %s", strings.Join(p.Lands, " et de "))
		}
		if len(p.NameVariants) > 0 {
			fmt.Printf("  (also recorded as %s)", strings.Join(p.NameVariants, ", "))
		}
		fmt.Println()
	}

	stats := r.Stats()
	fmt.Println()
	fmt.Println("=== Test Complete ===")
	fmt.Printf("Created: %d, merged: %d, homonyms kept apart: %d\n",
		stats.PersonsCreated, stats.PersonsMerged, stats.HomonymsDetected)
	fmt.Println()
	fmt.Println("Note: homonym separation relies on disjoint land holdings.")
	fmt.Println("Mentions without distinguishing context merge into the best match.")
}
