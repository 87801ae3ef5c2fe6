package resolver

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/RISKA667/Garmea-sub000/internal/cache"
	"github.com/RISKA667/Garmea-sub000/internal/gender"
	"github.com/RISKA667/Garmea-sub000/internal/model"
	"github.com/RISKA667/Garmea-sub000/internal/similarity"
)

// Profession families that never describe the same individual. A candidate
// holding a profession from one set while the mention carries one from the
// other is a distinct homonym, not a match.
var (
	clergyProfessions = map[string]struct{}{
		"curé": {}, "prêtre": {}, "vicaire": {},
	}
	civilProfessions = map[string]struct{}{
		"avocat": {}, "marchand": {}, "laboureur": {}, "notaire": {},
	}
)

const searchCacheTTL = 30 * time.Minute

// Resolver owns the canonical Person set for one processing run. Mentions
// are resolved sequentially by a single writer; separate runs must use
// separate Resolver instances.
type Resolver struct {
	log    *zap.Logger
	cfg    *model.Config
	engine *similarity.Engine
	gender *gender.Validator

	nextID  int
	persons map[int]*model.Person
	exact   map[string][]int // normalized "family\x00given" -> identities
	search  *cache.TaggedCache

	stats model.ResolverStats
}

// NewResolver creates a resolver with its own similarity engine, gender
// validator and fuzzy-search cache.
func NewResolver(cfg *model.Config, log *zap.Logger) *Resolver {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		log:     log,
		cfg:     cfg,
		engine:  similarity.NewEngine(cfg.Similarity),
		gender:  gender.NewValidator(log),
		nextID:  1,
		persons: make(map[int]*model.Person),
		exact:   make(map[string][]int),
		search:  cache.NewTaggedCache(cfg.Cache.MemoryTTL),
	}
}

// Resolve is the create-or-merge entry point. It never returns an error:
// unusable names produce a low-confidence placeholder Person and a stats
// counter bump, so one bad mention cannot abort a batch.
func (r *Resolver) Resolve(givenName, familyName string, attrs model.Attributes) *model.Person {
	givenName = strings.TrimSpace(givenName)
	familyName = strings.TrimSpace(familyName)
	sanitizeAttributes(&attrs)

	if !usableName(givenName) || !usableName(familyName) {
		return r.createPlaceholder(givenName, familyName, attrs)
	}

	candidates := r.findCandidates(givenName, familyName, attrs)

	for _, id := range candidates {
		p := r.persons[id]
		if p == nil || p.MergedInto != 0 {
			continue
		}
		if r.isHomonym(p, attrs) {
			r.stats.HomonymsDetected++
			r.log.Debug("homonym rejected",
				zap.String("name", p.FullName()),
				zap.Int("candidate", p.ID))
			continue
		}
		r.merge(p, givenName, familyName, attrs)
		r.stats.PersonsMerged++
		return p
	}

	return r.create(givenName, familyName, attrs)
}

// Person returns the active record for an identity, following merge
// redirects. The second return is false for identities never issued.
func (r *Resolver) Person(id int) (*model.Person, bool) {
	for {
		p, ok := r.persons[id]
		if !ok {
			return nil, false
		}
		if p.MergedInto == 0 {
			return p, true
		}
		id = p.MergedInto
	}
}

// Persons returns every active Person, ordered by identity.
func (r *Resolver) Persons() []*model.Person {
	out := make([]*model.Person, 0, len(r.persons))
	for _, p := range r.persons {
		if p.MergedInto == 0 {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Named returns the active Persons recorded under exactly this name.
// The chronology correction step uses it to hunt for homonym candidates.
func (r *Resolver) Named(givenName, familyName string) []*model.Person {
	var out []*model.Person
	for _, id := range r.exact[exactKey(familyName, givenName)] {
		if p, ok := r.Person(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// MergeInto folds the loser identity into the winner. Unknown identities are
// a contract violation and return an error; everything else is absorbed.
func (r *Resolver) MergeInto(winnerID, loserID int) error {
	winner, ok := r.persons[winnerID]
	if !ok || winner.MergedInto != 0 {
		return fmt.Errorf("merge into unknown or retired identity %d", winnerID)
	}
	loser, ok := r.persons[loserID]
	if !ok || loser.MergedInto != 0 {
		return fmt.Errorf("merge of unknown or retired identity %d", loserID)
	}
	if winnerID == loserID {
		return fmt.Errorf("cannot merge identity %d into itself", winnerID)
	}

	r.merge(winner, loser.PrimaryGiven(), loser.FamilyName, model.Attributes{
		Professions:  loser.Professions,
		Title:        loser.Title.String(),
		Lands:        loser.Lands,
		Notable:      loser.Notable,
		BirthDate:    loser.BirthDate,
		DeathDate:    loser.DeathDate,
		MarriageDate: loser.MarriageDate,
		BirthPlace:   loser.BirthPlace,
		DeathPlace:   loser.DeathPlace,
	})
	// Secondary given-name spellings carry over and stay findable in the
	// exact index, not just the loser's primary one.
	for _, given := range loser.GivenNames {
		r.merge(winner, given, loser.FamilyName, model.Attributes{})
	}
	winner.Sources = appendUnique(winner.Sources, loser.Sources...)
	for _, v := range loser.NameVariants {
		winner.NameVariants = appendUnique(winner.NameVariants, v)
	}

	// Retire the loser from the index but keep the record so external
	// references stay valid.
	loser.MergedInto = winnerID
	r.dropFromIndex(loser)
	r.invalidateSearches(loser)
	r.stats.PersonsMerged++
	return nil
}

// Stats returns a copy of the run counters.
func (r *Resolver) Stats() model.ResolverStats { return r.stats }

// findCandidates returns candidate identities for a mention: the exact-name
// index when it has entries, otherwise a bounded fuzzy scan whose result set
// is cached by name plus disambiguating attributes.
func (r *Resolver) findCandidates(givenName, familyName string, attrs model.Attributes) []int {
	if ids := r.exact[exactKey(familyName, givenName)]; len(ids) > 0 {
		return ids
	}

	key := r.searchKey(givenName, familyName, attrs)
	if raw, found := r.search.Get(key); found {
		var ids []int
		if err := json.Unmarshal(raw, &ids); err == nil {
			r.stats.CacheHits++
			return ids
		}
		// Corrupted entry: fall through to a fresh scan, which overwrites it.
	}
	r.stats.CacheMisses++

	ids := r.fuzzyScan(givenName, familyName, attrs)

	if raw, err := json.Marshal(ids); err == nil {
		_ = r.search.Set(key, raw, searchCacheTTL, nameTokens(givenName, familyName)...)
	}
	return ids
}

// fuzzyScan scores every active Person whose family-name length is within
// MaxLengthDelta of the mention's, keeping those above the similarity
// threshold after the contextual bonus. Results are ordered best first.
func (r *Resolver) fuzzyScan(givenName, familyName string, attrs model.Attributes) []int {
	type scored struct {
		id    int
		score float64
	}
	var hits []scored

	mentionLen := utf8.RuneCountInString(familyName)
	for _, p := range r.persons {
		if p.MergedInto != 0 {
			continue
		}
		delta := utf8.RuneCountInString(p.FamilyName) - mentionLen
		if delta < 0 {
			delta = -delta
		}
		if delta > r.cfg.Resolver.MaxLengthDelta {
			continue
		}
		res := r.engine.Compare(p.FamilyName, p.PrimaryGiven(), familyName, givenName)
		score := res.Score + r.contextBonus(p, attrs)
		if score >= r.cfg.Similarity.Threshold {
			hits = append(hits, scored{id: p.ID, score: score})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].id < hits[j].id
	})
	ids := make([]int, len(hits))
	for i, h := range hits {
		ids[i] = h.id
	}
	return ids
}

// contextBonus rewards shared disambiguating attributes, capped by config.
func (r *Resolver) contextBonus(p *model.Person, attrs model.Attributes) float64 {
	var bonus float64
	for _, prof := range attrs.Professions {
		if p.HasProfession(prof) {
			bonus += 0.15
			break
		}
	}
	for _, land := range attrs.Lands {
		if p.HasLand(land) {
			bonus += 0.15
			break
		}
	}
	if t := model.ParseTitle(attrs.Title); t != model.TitleNone && t == p.Title {
		bonus += 0.05
	}
	if limit := r.cfg.Resolver.ContextBonusCap; bonus > limit {
		bonus = limit
	}
	return bonus
}

// isHomonym reports whether the candidate and the mention describe provably
// distinct individuals: disjoint non-empty land sets, or professions from
// incompatible families.
func (r *Resolver) isHomonym(p *model.Person, attrs model.Attributes) bool {
	if len(p.Lands) > 0 && len(attrs.Lands) > 0 && !sharesLand(p, attrs.Lands) {
		return true
	}
	if crossIncompatible(p.Professions, attrs.Professions) {
		return true
	}
	return false
}

func sharesLand(p *model.Person, lands []string) bool {
	for _, land := range lands {
		if p.HasLand(land) {
			return true
		}
	}
	return false
}

func crossIncompatible(a, b []string) bool {
	inSet := func(profs []string, set map[string]struct{}) bool {
		for _, prof := range profs {
			if _, ok := set[strings.ToLower(strings.TrimSpace(prof))]; ok {
				return true
			}
		}
		return false
	}
	if inSet(a, clergyProfessions) && inSet(b, civilProfessions) {
		return true
	}
	if inSet(a, civilProfessions) && inSet(b, clergyProfessions) {
		return true
	}
	return false
}

// create registers a new Person for an unmatched mention.
func (r *Resolver) create(givenName, familyName string, attrs model.Attributes) *model.Person {
	p := &model.Person{
		ID:         r.nextID,
		GivenNames: []string{givenName},
		FamilyName: familyName,
		Confidence: 0.8,
	}
	r.nextID++

	r.applyAttributes(p, attrs)
	r.persons[p.ID] = p
	key := exactKey(familyName, givenName)
	r.exact[key] = append(r.exact[key], p.ID)
	r.invalidateSearches(p)

	r.stats.PersonsCreated++
	r.log.Debug("person created",
		zap.Int("id", p.ID),
		zap.String("name", p.FullName()))
	return p
}

// createPlaceholder recovers from an unusable name by synthesizing a
// low-confidence record. Placeholders are indexed for reporting but never
// merged with each other or fuzzy-matched.
func (r *Resolver) createPlaceholder(givenName, familyName string, attrs model.Attributes) *model.Person {
	if !usableName(givenName) {
		givenName = r.cfg.Resolver.PlaceholderName
	}
	if !usableName(familyName) {
		familyName = r.cfg.Resolver.PlaceholderName
	}
	p := &model.Person{
		ID:         r.nextID,
		GivenNames: []string{givenName},
		FamilyName: familyName,
		Confidence: 0.3,
	}
	r.nextID++

	r.applyAttributes(p, attrs)
	r.persons[p.ID] = p

	r.stats.Placeholders++
	r.log.Warn("unusable name, placeholder created",
		zap.Int("id", p.ID),
		zap.String("name", p.FullName()))
	return p
}

// merge folds new mention attributes into an existing Person: union lists,
// upgrade-only title, OR notable, fill-if-empty dates and places, record the
// new spelling as a variant, then sweep stale search-cache entries.
func (r *Resolver) merge(p *model.Person, givenName, familyName string, attrs model.Attributes) {
	if givenName != "" && !containsFold(p.GivenNames, givenName) {
		p.GivenNames = append(p.GivenNames, givenName)
		key := exactKey(p.FamilyName, givenName)
		if !containsID(r.exact[key], p.ID) {
			r.exact[key] = append(r.exact[key], p.ID)
		}
	}
	spelling := strings.TrimSpace(givenName + " " + familyName)
	if spelling != "" && !strings.EqualFold(spelling, p.FullName()) {
		p.NameVariants = appendUnique(p.NameVariants, spelling)
	}

	r.applyAttributes(p, attrs)
	r.invalidateSearches(p)
}

// applyAttributes writes sanitized mention attributes onto a Person after
// the gender check has stripped impossible title/profession combinations.
func (r *Resolver) applyAttributes(p *model.Person, attrs model.Attributes) {
	attrs = r.applyGenderCheck(p, attrs)

	for _, prof := range attrs.Professions {
		if !p.HasProfession(prof) {
			p.Professions = append(p.Professions, prof)
		}
	}
	for _, land := range attrs.Lands {
		if !p.HasLand(land) {
			p.Lands = append(p.Lands, land)
		}
	}
	if t := model.ParseTitle(attrs.Title); t > p.Title {
		p.Title = t
	}
	p.Notable = p.Notable || attrs.Notable

	fillIfEmpty(&p.BirthDate, attrs.BirthDate)
	fillIfEmpty(&p.DeathDate, attrs.DeathDate)
	fillIfEmpty(&p.MarriageDate, attrs.MarriageDate)
	fillIfEmpty(&p.BirthPlace, attrs.BirthPlace)
	fillIfEmpty(&p.DeathPlace, attrs.DeathPlace)

	if attrs.Source != "" {
		p.Sources = appendUnique(p.Sources, attrs.Source)
	}
}

// applyGenderCheck runs the gender/title validator over the would-be state
// of the Person and strips the attributes it rejects.
func (r *Resolver) applyGenderCheck(p *model.Person, attrs model.Attributes) model.Attributes {
	if attrs.Context == "" {
		return attrs
	}
	draft := model.Person{
		ID:          p.ID,
		GivenNames:  p.GivenNames,
		FamilyName:  p.FamilyName,
		Title:       model.ParseTitle(attrs.Title),
		Professions: attrs.Professions,
	}
	if draft.Title == model.TitleNone {
		draft.Title = p.Title
	}
	_, corrections := r.gender.Check(&draft, attrs.Context)
	for _, c := range corrections {
		r.stats.GenderCorrections++
		switch c.Field {
		case "title":
			attrs.Title = ""
			if p.Title.String() == c.Value {
				p.Title = model.TitleNone
			}
		case "profession":
			attrs.Professions = removeFold(attrs.Professions, c.Value)
		}
		r.log.Debug("gender correction applied",
			zap.Int("id", p.ID),
			zap.String("field", c.Field),
			zap.String("value", c.Value))
	}
	return attrs
}

// invalidateSearches sweeps every cached fuzzy search whose key carries one
// of the person's name tokens. Over-invalidation is fine.
func (r *Resolver) invalidateSearches(p *model.Person) {
	tokens := nameTokens(p.PrimaryGiven(), p.FamilyName)
	for _, v := range p.NameVariants {
		tokens = append(tokens, nameTokens("", v)...)
	}
	for _, tok := range tokens {
		r.search.InvalidateTag(tok)
	}
}

func (r *Resolver) dropFromIndex(p *model.Person) {
	for _, g := range p.GivenNames {
		key := exactKey(p.FamilyName, g)
		ids := r.exact[key]
		for i, id := range ids {
			if id == p.ID {
				r.exact[key] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
	}
}

func (r *Resolver) searchKey(givenName, familyName string, attrs model.Attributes) string {
	parts := []string{"resolve", foldName(familyName), foldName(givenName)}
	profs := append([]string(nil), attrs.Professions...)
	for i := range profs {
		profs[i] = foldName(profs[i])
	}
	sort.Strings(profs)
	lands := append([]string(nil), attrs.Lands...)
	for i := range lands {
		lands[i] = foldName(lands[i])
	}
	sort.Strings(lands)
	parts = append(parts, strings.Join(profs, ","), strings.Join(lands, ","), foldName(attrs.Title))
	return cache.Key(parts...)
}

func usableName(name string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(name)) >= 2
}

var landTitleCaser = cases.Title(language.French)

// sanitizeAttributes trims every string field, drops empty list entries and
// normalizes land spellings to title case so set comparisons are stable.
func sanitizeAttributes(attrs *model.Attributes) {
	attrs.Title = strings.TrimSpace(attrs.Title)
	attrs.Source = strings.TrimSpace(attrs.Source)
	attrs.Date = strings.TrimSpace(attrs.Date)
	attrs.BirthDate = strings.TrimSpace(attrs.BirthDate)
	attrs.DeathDate = strings.TrimSpace(attrs.DeathDate)
	attrs.MarriageDate = strings.TrimSpace(attrs.MarriageDate)
	attrs.BirthPlace = strings.TrimSpace(attrs.BirthPlace)
	attrs.DeathPlace = strings.TrimSpace(attrs.DeathPlace)

	attrs.Professions = cleanList(attrs.Professions, strings.ToLower)
	attrs.Lands = cleanList(attrs.Lands, landTitleCaser.String)
}

func cleanList(in []string, normalize func(string) string) []string {
	var out []string
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		v = normalize(v)
		if !containsFold(out, v) {
			out = append(out, v)
		}
	}
	return out
}

var nameFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldName lowercases, strips accents and collapses inner whitespace.
func foldName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if out, _, err := transform.String(nameFolder, s); err == nil {
		s = out
	}
	return strings.Join(strings.Fields(s), " ")
}

func exactKey(familyName, givenName string) string {
	return foldName(familyName) + "\x00" + foldName(givenName)
}

// nameTokens returns the folded word tokens of a name pair, used as cache
// invalidation tags.
func nameTokens(givenName, familyName string) []string {
	return strings.Fields(foldName(givenName) + " " + foldName(familyName))
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

func removeFold(list []string, v string) []string {
	var out []string
	for _, item := range list {
		if !strings.EqualFold(item, v) {
			out = append(out, item)
		}
	}
	return out
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		if v != "" && !containsFold(list, v) {
			list = append(list, v)
		}
	}
	return list
}

func fillIfEmpty(dst *string, src string) {
	if *dst == "" && src != "" {
		*dst = src
	}
}
