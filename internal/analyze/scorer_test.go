package analyze

import (
	"context"
	"testing"

	"github.com/RISKA667/Garmea-sub000/internal/model"
)

const registerPage = `Le troisième jour de janvier 1651 a été baptisé Pierre,
fils de Jean Le Boucher, écuyer, et de Françoise Varin, de cette paroisse.
Le parrain Nicolas Véron, la marraine Anne Anquetil.`

const blankPage = `Table of contents. Introduction. Chapter one. Appendix.`

func newTestScorer() *Scorer {
	return NewScorer(model.DefaultConfig().Analyze, nil)
}

func TestScorer_RegisterPageScoresHigh(t *testing.T) {
	s := newTestScorer()

	score := s.ScorePage(1, registerPage)
	if score.ParishSignals == 0 {
		t.Error("parish vocabulary should be detected")
	}
	if score.RelationSignals == 0 {
		t.Error("relation patterns should be detected")
	}
	if score.DateSignals == 0 {
		t.Error("dates should be detected")
	}
	if score.PersonNames == 0 {
		t.Error("person names should be detected")
	}
	if !score.Recommended {
		t.Errorf("register page should be recommended, score %f", score.Score)
	}
}

func TestScorer_BlankPageScoresLow(t *testing.T) {
	s := newTestScorer()

	score := s.ScorePage(2, blankPage)
	if score.Recommended {
		t.Errorf("non-register page should not be recommended, score %f", score.Score)
	}
	if score.Score < 0 {
		t.Errorf("score must clamp at zero, got %f", score.Score)
	}
}

func TestScorer_EmptyPage(t *testing.T) {
	s := newTestScorer()

	score := s.ScorePage(3, "")
	if score.Score != 0 {
		t.Errorf("empty page should score zero, got %f", score.Score)
	}
}

func TestScorer_SubstanceBonus(t *testing.T) {
	s := newTestScorer()

	short := s.ScorePage(1, "baptême de Pierre")
	long := s.ScorePage(2, registerPage+" "+registerPage+" "+registerPage)
	if long.WordCount <= s.cfg.MinWordCount {
		t.Fatalf("fixture should exceed the word threshold, got %d", long.WordCount)
	}
	if long.Score <= short.Score {
		t.Error("substantial page should outscore a fragment")
	}
}

func TestScorer_Recommend(t *testing.T) {
	cfg := model.DefaultConfig().Analyze
	cfg.TopPages = 2
	s := NewScorer(cfg, nil)

	scores := []*PageScore{
		s.ScorePage(1, registerPage),
		s.ScorePage(2, blankPage),
		s.ScorePage(3, registerPage+" mariage inhumation"),
		s.ScorePage(4, registerPage),
	}
	top := s.Recommend(scores)
	if len(top) != 2 {
		t.Fatalf("expected 2 recommended pages, got %d", len(top))
	}
	if top[0].Score < top[1].Score {
		t.Error("recommendations should be ordered best first")
	}
	for _, sc := range top {
		if sc.Number == 2 {
			t.Error("non-recommended page leaked into recommendations")
		}
	}
}

func TestScorer_AnalyzePageHonorsCancellation(t *testing.T) {
	s := newTestScorer()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.AnalyzePage(ctx, 1, registerPage); err == nil {
		t.Error("cancelled context should abort analysis")
	}
}
