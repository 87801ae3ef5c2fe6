package analyze

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/RISKA667/Garmea-sub000/internal/model"
)

// Scoring weights for page-content signals.
const (
	weightParish    = 3.0
	weightRelation  = 2.5
	weightDate      = 1.5
	weightPerson    = 0.8
	bonusFrench     = 2.0
	bonusFrenchWeak = 0.5
	bonusSubstance  = 0.5
	penaltyNoSignal = 2.0
)

// parishTerms are vocabulary markers of a parish register page.
var parishTerms = []string{
	"baptême", "baptesme", "baptisé", "baptisée",
	"mariage", "marié", "mariée",
	"inhumation", "inhumé", "inhumée",
	"paroisse", "curé", "prêtre", "vicaire",
	"parrain", "marraine", "registre",
}

var (
	relationPattern = regexp.MustCompile(`(?i)\b(fils|fille|femme|veuve|veuf|épouse|époux|mari)\s+d[eu]\b|\b(parrain|marraine)\b`)
	datePattern     = regexp.MustCompile(`\b1[0-9]{3}\b|(?i)\b(janvier|février|mars|avril|mai|juin|juillet|août|septembre|octobre|novembre|décembre)\b`)
	personPattern   = regexp.MustCompile(`\b[A-ZÀ-Ý][a-zà-ÿ]+\s+(?:[Ll][ae]\s+)?[A-ZÀ-Ý][a-zà-ÿ]+\b`)
)

// frenchStopwords detect the page's language cheaply.
var frenchStopwords = []string{" le ", " la ", " les ", " de ", " du ", " des ", " et ", " en ", " dans "}

// PageScore is the quality assessment of one extracted text page.
type PageScore struct {
	Number          int     `json:"number"`
	Score           float64 `json:"score"`
	WordCount       int     `json:"word_count"`
	ParishSignals   int     `json:"parish_signals"`
	RelationSignals int     `json:"relation_signals"`
	DateSignals     int     `json:"date_signals"`
	PersonNames     int     `json:"person_names"`
	Recommended     bool    `json:"recommended"`
}

// Scorer rates extracted text pages by how much genealogical content they
// are likely to yield. Pure and safe for concurrent use.
type Scorer struct {
	cfg model.AnalyzeConfig
	log *zap.Logger
}

func NewScorer(cfg model.AnalyzeConfig, log *zap.Logger) *Scorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scorer{cfg: cfg, log: log}
}

// ScorePage computes the quality score of one page of extracted text.
func (s *Scorer) ScorePage(number int, text string) *PageScore {
	lower := strings.ToLower(text)
	padded := " " + lower + " "

	score := &PageScore{
		Number:    number,
		WordCount: len(strings.Fields(text)),
	}
	for _, term := range parishTerms {
		score.ParishSignals += strings.Count(lower, term)
	}
	score.RelationSignals = len(relationPattern.FindAllString(text, -1))
	score.DateSignals = len(datePattern.FindAllString(text, -1))

	names := make(map[string]struct{})
	for _, m := range personPattern.FindAllString(text, -1) {
		names[m] = struct{}{}
	}
	score.PersonNames = len(names)

	value := float64(score.ParishSignals)*weightParish +
		float64(score.RelationSignals)*weightRelation +
		float64(score.DateSignals)*weightDate +
		float64(score.PersonNames)*weightPerson

	switch hits := countStopwords(padded); {
	case hits >= 5:
		value += bonusFrench
	case hits >= 1:
		value += bonusFrenchWeak
	}
	if score.WordCount > s.cfg.MinWordCount {
		value += bonusSubstance
	}
	if score.ParishSignals == 0 && score.RelationSignals == 0 {
		value -= penaltyNoSignal
	}
	if value < 0 {
		value = 0
	}

	score.Score = value
	score.Recommended = value >= s.cfg.QualityThreshold
	return score
}

// AnalyzePage scores one page, honoring context cancellation so batches can
// shut down early.
func (s *Scorer) AnalyzePage(ctx context.Context, number int, text string) (*PageScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.ScorePage(number, text), nil
}

// Recommend returns the best pages in descending score order, capped at the
// configured count, keeping only recommended ones.
func (s *Scorer) Recommend(scores []*PageScore) []*PageScore {
	var out []*PageScore
	for _, sc := range scores {
		if sc != nil && sc.Recommended {
			out = append(out, sc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Number < out[j].Number
	})
	if s.cfg.TopPages > 0 && len(out) > s.cfg.TopPages {
		out = out[:s.cfg.TopPages]
	}
	return out
}

func countStopwords(padded string) int {
	hits := 0
	for _, w := range frenchStopwords {
		hits += strings.Count(padded, w)
	}
	return hits
}
