package gender

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/RISKA667/Garmea-sub000/internal/model"
)

// Gender is the apparent gender inferred from surrounding text.
type Gender int

const (
	Unknown Gender = iota
	Feminine
	Masculine
)

func (g Gender) String() string {
	switch g {
	case Feminine:
		return "feminine"
	case Masculine:
		return "masculine"
	default:
		return "unknown"
	}
}

// contextWindow is the number of runes inspected on each side of a name
// occurrence when looking for gender indicators.
const contextWindow = 100

// Kinship and role words that bias the inference. Matched on lowercase,
// accent-stripped word boundaries. Title words (sieur, seigneur) are handled
// through Person.Title, not here, so that "veuve du sieur X" still reads
// feminine.
var (
	feminineIndicators = map[string]struct{}{
		"epouse": {}, "femme": {}, "veuve": {}, "fille": {},
		"marraine": {}, "dame": {}, "demoiselle": {}, "mere": {},
		"soeur": {}, "sœur": {},
	}
	masculineIndicators = map[string]struct{}{
		"epoux": {}, "mari": {}, "veuf": {}, "fils": {},
		"parrain": {}, "pere": {}, "frere": {}, "oncle": {},
	}
)

// masculineProfessions are roles the period reserved for men; a feminine
// inference alongside one of these is a transcription or resolution error.
var masculineProfessions = map[string]struct{}{
	"curé": {}, "cure": {}, "prêtre": {}, "pretre": {},
	"vicaire": {}, "abbé": {}, "abbe": {}, "chapelain": {},
}

// marriageMarkers signal a title held through a husband rather than in the
// person's own right.
var marriageMarkers = []string{
	"epouse de", "epouse du", "femme de", "femme du",
	"veuve de", "veuve du",
}

// Correction is an attribute the caller should strip from the Person.
type Correction struct {
	Field  string `json:"field"` // "title" or "profession"
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// Validator checks a Person snapshot against its surrounding text for
// gender/title contradictions. It never mutates the Person; the caller
// applies the returned corrections.
type Validator struct {
	log *zap.Logger
}

func NewValidator(log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{log: log}
}

// Infer returns the apparent gender of the named person by majority vote of
// indicator words within a bounded window around the name's occurrence in
// context. Ties and absent indicators yield Unknown.
func (v *Validator) Infer(fullName, context string) Gender {
	if context == "" {
		return Unknown
	}
	window := extractWindow(fullName, context)

	var fem, masc int
	for _, word := range tokenize(window) {
		if _, ok := feminineIndicators[word]; ok {
			fem++
		}
		if _, ok := masculineIndicators[word]; ok {
			masc++
		}
	}
	switch {
	case fem > masc:
		return Feminine
	case masc > fem:
		return Masculine
	default:
		return Unknown
	}
}

// Check validates a Person's title and professions against the gender
// inferred from context. A masculine-only title or profession on a feminine
// inference is an error and yields a strip correction, except a title that
// the context attributes to marriage, which is only flagged.
func (v *Validator) Check(p *model.Person, context string) (*model.ValidationResult, []Correction) {
	result := model.NewValidationResult()
	if p == nil {
		return result, nil
	}

	inferred := v.Infer(p.FullName(), context)
	if inferred != Feminine {
		return result, nil
	}

	var corrections []Correction

	if p.Title != model.TitleNone {
		if titleThroughMarriage(context) {
			result.AddWarning(
				"title "+p.Title.String()+" likely held through marriage for "+p.FullName(), 0.05)
		} else {
			result.AddError(
				"masculine title "+p.Title.String()+" on feminine mention "+p.FullName(), 0.3)
			corrections = append(corrections, Correction{
				Field:  "title",
				Value:  p.Title.String(),
				Reason: "masculine title contradicts feminine context",
			})
		}
	}

	for _, prof := range p.Professions {
		if _, ok := masculineProfessions[strings.ToLower(strings.TrimSpace(prof))]; ok {
			result.AddError(
				"masculine profession "+prof+" on feminine mention "+p.FullName(), 0.3)
			corrections = append(corrections, Correction{
				Field:  "profession",
				Value:  prof,
				Reason: "profession reserved to men in-period",
			})
		}
	}

	if len(corrections) > 0 {
		v.log.Debug("gender corrections proposed",
			zap.String("person", p.FullName()),
			zap.Int("count", len(corrections)))
	}
	return result, corrections
}

func titleThroughMarriage(context string) bool {
	folded := foldText(context)
	for _, marker := range marriageMarkers {
		if strings.Contains(folded, marker) {
			return true
		}
	}
	return false
}

// extractWindow returns the slice of context within contextWindow runes of
// the first occurrence of fullName, or the whole context when the name does
// not appear verbatim.
func extractWindow(fullName, context string) string {
	folded := foldText(context)
	name := foldText(fullName)
	idx := -1
	if name != "" {
		idx = strings.Index(folded, name)
	}
	if idx < 0 {
		return folded
	}
	r := []rune(folded)
	// Re-locate the match in rune space.
	start := len([]rune(folded[:idx]))
	end := start + len([]rune(name))
	lo := start - contextWindow
	if lo < 0 {
		lo = 0
	}
	hi := end + contextWindow
	if hi > len(r) {
		hi = len(r)
	}
	return string(r[lo:hi])
}

var foldTransform = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldText lowercases and strips accents for indicator matching.
func foldText(s string) string {
	out, _, err := transform.String(foldTransform, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
