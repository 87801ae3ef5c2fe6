package similarity

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/RISKA667/Garmea-sub000/internal/cache"
	"github.com/RISKA667/Garmea-sub000/internal/model"
)

// Result is the outcome of comparing two name pairs.
type Result struct {
	Score        float64  `json:"score"`        // combined similarity in [0,1]
	Confidence   float64  `json:"confidence"`   // score adjusted by rule agreement
	AppliedRules []string `json:"applied_rules,omitempty"`
}

// Engine computes name-pair similarity with historical-transcription
// correction rules on top of plain edit distance. Comparisons are
// deterministic and memoized by input tuple.
type Engine struct {
	memoCapacity int
	memo         *gocache.Cache
}

// Boosts for the fixed transcription rule table. A matching rule lifts the
// family-name component to at least its boost value.
const (
	boostParticle  = 0.95 // "de Montigny" recorded as "Demontigny"
	boostAccent    = 0.92 // accent loss: "Véron" vs "Veron"
	boostYI        = 0.90 // y/i substitution: "Thyphaigne" vs "Thiphaigne"
	boostConsonant = 0.88 // doubled-consonant collapse: "Nicollas" vs "Nicolas"
	boostVariant   = 0.85 // known given-name variant pair
)

// givenVariants maps a canonical given name to its recorded variants.
var givenVariants = map[string][]string{
	"jean":      {"jehan", "jhan", "jan"},
	"françois":  {"francois", "françoys", "franchois", "fraisois"},
	"jacques":   {"jaques", "jacque", "jaque"},
	"guillaume": {"guilleaume", "guillame", "guilhaume"},
	"madeleine": {"magdeleine", "magdaleine", "maudeleine"},
	"antoine":   {"anthoine", "anthoyne", "antoinne"},
	"catherine": {"katerine", "katharine", "catarine"},
	"nicolas":   {"nicollas", "nichollas", "nycollas"},
	"marguerite": {"margueritte", "marguarite", "margrite"},
	"pierre":    {"piarre", "piere", "pier"},
	"michel":    {"michell", "mychel", "myquel"},
	"marie":     {"mairie", "maria", "mary"},
	"anne":      {"anna", "ane"},
}

// NewEngine creates a similarity engine with a bounded memo cache.
func NewEngine(cfg model.SimilarityConfig) *Engine {
	capacity := cfg.MemoCapacity
	if capacity <= 0 {
		capacity = 2000
	}
	return &Engine{
		memoCapacity: capacity,
		memo:         gocache.New(time.Hour, 10*time.Minute),
	}
}

// Compare scores the similarity between two (family, given) name pairs.
// Empty inputs yield a zero result, never an error.
func (e *Engine) Compare(family1, given1, family2, given2 string) Result {
	family1 = strings.TrimSpace(family1)
	given1 = strings.TrimSpace(given1)
	family2 = strings.TrimSpace(family2)
	given2 = strings.TrimSpace(given2)

	if family1 == "" || family2 == "" {
		return Result{}
	}

	key := cache.Key("sim", family1, given1, family2, given2)
	if cached, found := e.memo.Get(key); found {
		return cached.(Result)
	}

	baseFamily := ratio(strings.ToLower(family1), strings.ToLower(family2))
	baseGiven := ratio(strings.ToLower(given1), strings.ToLower(given2))

	ruleBoost, rules := e.applyRules(family1, family2, given1, given2)

	familyComponent := baseFamily
	if ruleBoost > familyComponent {
		familyComponent = ruleBoost
	}
	score := 0.6*familyComponent + 0.4*baseGiven

	confidence := score + float64(len(rules))*0.05
	if baseFamily < 0.3 {
		confidence -= 0.2
	}
	if len(rules) >= 2 {
		confidence += 0.1
	}
	confidence = clamp01(confidence)

	result := Result{
		Score:        clamp01(score),
		Confidence:   confidence,
		AppliedRules: rules,
	}

	if e.memo.ItemCount() >= e.memoCapacity {
		e.memo.Flush()
	}
	e.memo.Set(key, result, gocache.DefaultExpiration)

	return result
}

// applyRules runs the fixed transcription rule table and returns the maximum
// boost among matching rules plus the names of every rule that matched.
func (e *Engine) applyRules(family1, family2, given1, given2 string) (float64, []string) {
	var boost float64
	var rules []string

	apply := func(matched bool, value float64, name string) {
		if !matched {
			return
		}
		if value > boost {
			boost = value
		}
		rules = append(rules, name)
	}

	apply(particleError(family1, family2), boostParticle, "particle_attachment")
	apply(accentLoss(family1, family2), boostAccent, "accent_loss")
	apply(yiVariation(family1, family2), boostYI, "y_i_variation")
	apply(consonantVariation(family1, family2), boostConsonant, "consonant_variation")
	apply(givenVariant(given1, given2), boostVariant, "given_name_variant")

	return boost, rules
}

// ratio converts edit distance into a similarity in [0,1].
func ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 0
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

// particleError detects particle-attachment transcription errors:
// "de Montigny" against "Demontigny", "Le Boucher" against "Leboucher".
func particleError(a, b string) bool {
	fold := func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), " ", "")
	}
	fa, fb := fold(a), fold(b)
	if fa != fb {
		return false
	}
	// Only meaningful when exactly one side carried the space.
	return strings.Contains(strings.TrimSpace(a), " ") != strings.Contains(strings.TrimSpace(b), " ")
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// stripAccents removes combining marks: "écuyer" → "ecuyer".
func stripAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// accentLoss detects names equal up to accent marks but not byte-equal.
func accentLoss(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == lb {
		return false
	}
	return stripAccents(la) == stripAccents(lb)
}

// yiVariation detects the y/i spelling alternation.
func yiVariation(a, b string) bool {
	sa := stripAccents(strings.ToLower(a))
	sb := stripAccents(strings.ToLower(b))
	if sa == sb {
		// Accent loss alone, handled by its own rule.
		return false
	}
	return strings.ReplaceAll(sa, "y", "i") == strings.ReplaceAll(sb, "y", "i")
}

var doubledConsonants = []string{"ll", "nn", "mm", "tt", "ss", "rr"}

// consonantVariation detects doubled-consonant collapse.
func consonantVariation(a, b string) bool {
	fold := func(s string) string {
		s = strings.ToLower(s)
		for _, d := range doubledConsonants {
			s = strings.ReplaceAll(s, d, d[:1])
		}
		return s
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == lb {
		return false
	}
	return fold(a) == fold(b)
}

// givenVariant reports whether the two given names are a known variant pair.
func givenVariant(a, b string) bool {
	la, lb := strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" || la == lb {
		return false
	}
	inList := func(name string, list []string) bool {
		for _, v := range list {
			if v == name {
				return true
			}
		}
		return false
	}
	for canonical, variants := range givenVariants {
		if (la == canonical && inList(lb, variants)) || (lb == canonical && inList(la, variants)) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
