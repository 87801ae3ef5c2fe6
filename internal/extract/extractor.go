// Package extract turns raw register text into a mention dataset using
// regular expressions tuned for 17th-century French parish entries. It is
// the default extraction path; the LLM extractor is the alternative.
package extract

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/RISKA667/Garmea-sub000/internal/model"
)

// Name fragments. Particles stay attached to the family name so
// "Jean Le Boucher" and "Anne de Verdun" come out whole.
const (
	namePart = `[A-ZÀ-ÖØ-Þ][a-zà-öø-ÿ'’\-]+`
	fullName = namePart + `(?:\s+(?:[Ll][ae]\s+|[Dd][eu]\s+|[Dd]es\s+)?` + namePart + `)`
)

// boundary stands in for \b, which in Go regexps is ASCII-only and never
// matches next to accented letters (no match before "écuyer" or after
// "Mathé"). An explicit non-letter class handles the full range.
const boundary = `(?:^|[^\p{L}])`

var (
	mentionPattern   = regexp.MustCompile(boundary + `(` + fullName + `)`)
	titledPattern    = regexp.MustCompile(`(?i)` + boundary + `(messire|sieur|sr\.?|écuyer|éc\.?|seigneur|sgr\.?)\s+(` + fullName + `)`)
	landPattern      = regexp.MustCompile(`(?i)` + boundary + `(?:sieur|sr\.?|seigneur|sgr\.?)\s+d[eu]\s+((?:La\s+|Le\s+)?` + namePart + `)`)
	filiationPattern = regexp.MustCompile(boundary + `(` + fullName + `),?\s+fil(?:s|le)\s+de\s+(` + fullName + `)(?:\s+et\s+(?:de\s+)?(` + fullName + `))?`)
	marriagePattern  = regexp.MustCompile(boundary + `(` + fullName + `),?\s+(?:épouse|femme|veuve)\s+d[eu]\s+(?:sieur\s+)?(` + fullName + `)`)
	godparentPattern = regexp.MustCompile(`(?i)` + boundary + `(?:parr?ain|marr?aine)\s*[:\.]?\s+(` + fullName + `)`)
	titleWordPattern = regexp.MustCompile(`(?i)` + boundary + `(messire|sieur|sr|écuyer|ecuyer|seigneur|sgr)(?:$|[^\p{L}])`)
	yearPattern      = regexp.MustCompile(`\b1[4-7]\d{2}\b`)
)

// professionWords are occupations commonly recorded next to a name.
var professionWords = []string{
	"curé", "prêtre", "vicaire", "abbé", "chapelain",
	"avocat", "marchand", "laboureur", "notaire", "tabellion", "chirurgien",
}

// ocrCorrections maps recurring transcription errors seen in digitized
// registers onto the intended spellings.
var ocrCorrections = map[string]string{
	"Jaeques":    "Jacques",
	"Jeau":       "Jean",
	"Franteois":  "François",
	"Catlierhie": "Catherine",
	"Guillaïune": "Guillaume",
	"Iagdeleine": "Madeleine",
	"Nicollas":   "Nicolas",
	"Toussaiut":  "Toussaint",
	"Muiiie":     "Marie",
	"Cliarles":   "Charles",
	"Vietoire":   "Victoire",
	"Padelaine":  "Madeleine",
	"Cardinne":   "Catherine",
	"Aiicelle":   "Ancelle",
	"Aiiber":     "Auber",
	"Aiimont":    "Aumont",
	"Aiivray":    "Auvray",
}

// Stats counts extraction outcomes.
type Stats struct {
	MentionsExtracted  int
	RelationsExtracted int
	OCRCorrections     int
}

// Extractor scans register text for person mentions and stated relations.
type Extractor struct {
	log   *zap.Logger
	stats Stats
}

// NewExtractor creates an extractor. A nil logger is replaced with a no-op one.
func NewExtractor(log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{log: log}
}

// Stats returns a copy of the extraction counters.
func (e *Extractor) Stats() Stats { return e.stats }

// Extract scans one block of register text and returns the mention dataset.
// Every name near a title, land or profession marker carries those as
// attributes; filiation, marriage and godparent phrases become declared
// relations.
func (e *Extractor) Extract(text, source string) *model.Dataset {
	text = e.correctOCR(text)
	ds := &model.Dataset{Source: source}
	year := firstYear(text)

	seen := map[string]bool{}
	addMention := func(name string) *model.Mention {
		name = strings.TrimSpace(name)
		given, family := splitName(name)
		if family == "" {
			return nil
		}
		m := model.Mention{Given: given, Family: family}
		m.Attrs.Source = source
		e.enrich(&m, text)
		key := strings.ToLower(given + "\x00" + family)
		if !seen[key] {
			seen[key] = true
			ds.Mentions = append(ds.Mentions, m)
			e.stats.MentionsExtracted++
		}
		return &m
	}

	for _, match := range filiationPattern.FindAllStringSubmatch(text, -1) {
		child := addMention(match[1])
		father := addMention(match[2])
		if child == nil || father == nil {
			continue
		}
		ds.Relations = append(ds.Relations, model.RelationInput{
			Kind: model.RelationParent, Subject: *father, Object: *child,
			Evidence: trimEvidence(match[0]), Year: year,
		})
		e.stats.RelationsExtracted++
		if mother := addMention(match[3]); match[3] != "" && mother != nil {
			ds.Relations = append(ds.Relations, model.RelationInput{
				Kind: model.RelationParent, Subject: *mother, Object: *child,
				Evidence: trimEvidence(match[0]), Year: year,
			})
			e.stats.RelationsExtracted++
		}
	}

	for _, match := range marriagePattern.FindAllStringSubmatch(text, -1) {
		wife := addMention(match[1])
		husband := addMention(match[2])
		if wife == nil || husband == nil {
			continue
		}
		ds.Relations = append(ds.Relations, model.RelationInput{
			Kind: model.RelationSpouse, Subject: *wife, Object: *husband,
			Evidence: trimEvidence(match[0]), Year: year,
		})
		e.stats.RelationsExtracted++
	}

	for _, match := range godparentPattern.FindAllStringSubmatch(text, -1) {
		addMention(match[1])
	}
	for _, match := range titledPattern.FindAllStringSubmatch(text, -1) {
		addMention(match[2])
	}
	for _, match := range mentionPattern.FindAllStringSubmatch(text, -1) {
		if !startsWithMarker(match[1]) {
			addMention(match[1])
		}
	}

	return ds
}

// ExtractPages runs extraction over several pages and concatenates the
// results into one dataset.
func (e *Extractor) ExtractPages(pages []string, source string) *model.Dataset {
	ds := &model.Dataset{Source: source}
	for _, page := range pages {
		part := e.Extract(page, source)
		ds.Mentions = append(ds.Mentions, part.Mentions...)
		ds.Relations = append(ds.Relations, part.Relations...)
	}
	return ds
}

// enrich attaches title, land and profession attributes found next to the
// mention in the surrounding text. Titles appear before the name
// ("Messire Jean...") or after it ("Jean Le Boucher, écuyer"); the highest
// ranked spelling in the clause wins.
func (e *Extractor) enrich(m *model.Mention, text string) {
	name := strings.TrimSpace(m.Given + " " + m.Family)
	best := model.TitleNone

	for start := 0; ; {
		j := strings.Index(text[start:], name)
		if j < 0 {
			break
		}
		pos := start + j
		start = pos + len(name)

		// Status markers trail the name within the same clause.
		window := text[pos:]
		if end := strings.IndexAny(window, ".;\n"); end > 0 {
			window = window[:end]
		}
		prefixStart := pos - 12
		if prefixStart < 0 {
			prefixStart = 0
		}
		scope := text[prefixStart:pos] + window

		for _, match := range titleWordPattern.FindAllStringSubmatch(scope, -1) {
			if t := model.ParseTitle(match[1]); t > best {
				best = t
			}
		}
		if match := landPattern.FindStringSubmatch(window); match != nil {
			m.Attrs.Lands = appendFold(m.Attrs.Lands, strings.TrimSpace(match[1]))
		}
		lower := strings.ToLower(window)
		for _, prof := range professionWords {
			if strings.Contains(lower, prof) {
				m.Attrs.Professions = appendFold(m.Attrs.Professions, prof)
			}
		}
	}

	if best != model.TitleNone {
		m.Attrs.Title = best.String()
	}
}

// trimEvidence strips the boundary character and surrounding punctuation a
// relation match drags in from the text.
func trimEvidence(s string) string {
	return strings.Trim(s, " \t\n,;:")
}

// appendFold appends value unless an equal-fold entry is already present.
func appendFold(list []string, value string) []string {
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return list
		}
	}
	return append(list, value)
}

// correctOCR rewrites known transcription errors token by token.
func (e *Extractor) correctOCR(text string) string {
	for wrong, right := range ocrCorrections {
		if strings.Contains(text, wrong) {
			text = strings.ReplaceAll(text, wrong, right)
			e.stats.OCRCorrections++
		}
	}
	return text
}

// splitName breaks "Given Family" apart, keeping particles with the family
// name.
func splitName(name string) (given, family string) {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return name, ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// startsWithMarker filters capitalized phrases that are really record
// markers, not names ("Le Boucher" standing alone, "Baptême de Pierre").
func startsWithMarker(name string) bool {
	first := strings.ToLower(strings.Fields(name)[0])
	switch first {
	case "le", "la", "de", "du", "des",
		"baptême", "bapteme", "mariage", "inhumation", "sépulture", "naissance",
		"parrain", "marraine", "messire", "sieur", "seigneur", "damoiselle":
		return true
	}
	return false
}

func firstYear(text string) int {
	return model.ExtractYear(yearPattern.FindString(text))
}
