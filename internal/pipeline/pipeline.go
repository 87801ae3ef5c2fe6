package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/RISKA667/Garmea-sub000/internal/cache"
	"github.com/RISKA667/Garmea-sub000/internal/chronology"
	"github.com/RISKA667/Garmea-sub000/internal/genealogy"
	"github.com/RISKA667/Garmea-sub000/internal/llm"
	"github.com/RISKA667/Garmea-sub000/internal/model"
	"github.com/RISKA667/Garmea-sub000/internal/resolver"
)

// Pipeline orchestrates one processing run: resolve mentions, store and
// validate records, correct chronology, build the family network and
// assemble the report. Each run gets a fresh Pipeline; nothing is shared.
type Pipeline struct {
	resolver     *resolver.Resolver
	builder      *genealogy.Builder
	chronology   *chronology.Validator
	store        *ActeStore
	extractor    llm.Provider // nil when disabled
	extractCache cache.Cache  // nil unless a disk cache dir is configured
	config       *model.Config
	log          *zap.Logger
}

// NewPipeline creates a pipeline with the given configuration.
func NewPipeline(cfg *model.Config, log *zap.Logger) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}

	var extractor llm.Provider
	if cfg.LLM.Provider != "" {
		p, err := llm.NewProvider(cfg.LLM, log)
		if err != nil {
			log.Warn("LLM extractor disabled", zap.Error(err))
		} else {
			extractor = p
		}
	}

	var extractCache cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.DiskDir != "" {
		extractCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.DiskDir, cfg.Cache.DiskTTL)
	}

	return &Pipeline{
		resolver:     resolver.NewResolver(cfg, log),
		builder:      genealogy.NewBuilder(log),
		chronology:   chronology.NewValidator(cfg.Chronology, log),
		store:        NewActeStore(),
		extractor:    extractor,
		extractCache: extractCache,
		config:       cfg,
		log:          log,
	}
}

// Result is the complete outcome of one run.
type Result struct {
	Report  *model.Report
	Persons []*model.Person
	Network *genealogy.Network
	Actes   []*model.ActeRecord
}

// Process runs a dataset through the full pipeline. Individual bad mentions
// degrade to placeholders or warnings; only a nil dataset is an error.
func (p *Pipeline) Process(ctx context.Context, ds *model.Dataset) (*Result, error) {
	if ds == nil {
		return nil, fmt.Errorf("nil dataset")
	}

	for i := range ds.Mentions {
		p.resolveMention(&ds.Mentions[i], ds.Source)
	}
	for i := range ds.Actes {
		p.ingestActe(&ds.Actes[i], ds.Source)
	}
	for i := range ds.Relations {
		p.ingestRelation(&ds.Relations[i], ds.Source)
	}

	var warnings []string
	for _, record := range p.store.Records() {
		result := p.store.Validate(record)
		warnings = append(warnings, result.Errors...)
		warnings = append(warnings, result.Warnings...)
	}

	corrections := p.chronology.CorrectRecords(p.store.Records(), p.resolver)
	p.resyncParentRefs()

	persons := p.resolver.Persons()
	warnings = append(warnings, p.chronology.Report(persons, p.store.Records())...)

	network := p.builder.Build(persons, p.store.Records())

	report := p.assembleReport(ds.Source, persons, network, corrections, warnings)
	return &Result{
		Report:  report,
		Persons: persons,
		Network: network,
		Actes:   p.store.Records(),
	}, nil
}

// ExtractDataset reads raw text pages through the optional LLM extractor and
// returns a dataset the core can process. Pages that fail extraction are
// skipped with a warning so one bad page cannot lose the batch.
func (p *Pipeline) ExtractDataset(ctx context.Context, pages []string, source string) (*model.Dataset, error) {
	if p.extractor == nil {
		return nil, fmt.Errorf("no LLM extractor configured")
	}

	ds := &model.Dataset{Source: source}
	for i, text := range pages {
		part, err := p.extractPage(ctx, text, fmt.Sprintf("%s page %d", source, i+1))
		if err != nil {
			p.log.Warn("page extraction failed, skipping",
				zap.Int("page", i+1),
				zap.Error(err))
			continue
		}
		ds.Mentions = append(ds.Mentions, part.Mentions...)
		ds.Actes = append(ds.Actes, part.Actes...)
		ds.Relations = append(ds.Relations, part.Relations...)
	}
	return ds, nil
}

// extractPage runs one page through the extractor, caching the result on
// disk keyed by model and page content. Register pages never change, so a
// hit skips the provider call entirely.
func (p *Pipeline) extractPage(ctx context.Context, text, source string) (*model.Dataset, error) {
	key := cache.Key("extract", p.extractor.Name(), p.config.LLM.Model, text)
	if p.extractCache != nil {
		if data, ok := p.extractCache.Get(key); ok {
			var cached model.Dataset
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	resp, err := p.extractor.Extract(ctx, llm.ExtractRequest{Text: text, Source: source})
	if err != nil {
		return nil, err
	}

	if p.extractCache != nil {
		if data, err := json.Marshal(resp.Dataset); err == nil {
			_ = p.extractCache.Set(key, data, p.config.Cache.DiskTTL)
		}
	}
	return &resp.Dataset, nil
}

func (p *Pipeline) resolveMention(m *model.Mention, source string) *model.Person {
	if m == nil {
		return nil
	}
	attrs := m.Attrs
	if attrs.Source == "" {
		attrs.Source = source
	}
	return p.resolver.Resolve(m.Given, m.Family, attrs)
}

// ingestActe resolves every role mention of one acte, enriches the
// principal's dates from the event, and stores the record.
func (p *Pipeline) ingestActe(in *model.ActeInput, source string) {
	resolveRole := func(m *model.Mention) int {
		if m == nil {
			return 0
		}
		if m.Attrs.Context == "" {
			m.Attrs.Context = in.Text
		}
		person := p.resolveMention(m, source)
		if person == nil {
			return 0
		}
		return person.ID
	}

	record := &model.ActeRecord{
		Type:         in.Type,
		Date:         in.Date,
		Place:        in.Place,
		PrincipalID:  resolveRole(in.Principal),
		FatherID:     resolveRole(in.Father),
		MotherID:     resolveRole(in.Mother),
		SpouseID:     resolveRole(in.Spouse),
		GodfatherID:  resolveRole(in.Godfather),
		GodmotherID:  resolveRole(in.Godmother),
		OriginalText: in.Text,
		Notable:      in.Notable,
	}
	for i := range in.Witnesses {
		if id := resolveRole(&in.Witnesses[i]); id != 0 {
			record.WitnessIDs = append(record.WitnessIDs, id)
		}
	}
	p.store.Add(record)

	principal, ok := p.resolver.Person(record.PrincipalID)
	if !ok {
		return
	}
	switch record.Type {
	case model.ActeBapteme, model.ActeNaissance:
		if principal.BirthDate == "" {
			principal.BirthDate = record.Date
		}
		if principal.BirthPlace == "" {
			principal.BirthPlace = record.Place
		}
		setIfZero(&principal.FatherID, record.FatherID)
		setIfZero(&principal.MotherID, record.MotherID)
		setIfZero(&principal.GodfatherID, record.GodfatherID)
		setIfZero(&principal.GodmotherID, record.GodmotherID)
	case model.ActeMariage:
		if principal.MarriageDate == "" {
			principal.MarriageDate = record.Date
		}
		setIfZero(&principal.SpouseID, record.SpouseID)
		if spouse, ok := p.resolver.Person(record.SpouseID); ok {
			setIfZero(&spouse.SpouseID, principal.ID)
			if spouse.MarriageDate == "" {
				spouse.MarriageDate = record.Date
			}
		}
	case model.ActeInhumation, model.ActeDeces:
		if principal.DeathDate == "" {
			principal.DeathDate = record.Date
		}
		if principal.DeathPlace == "" {
			principal.DeathPlace = record.Place
		}
		if record.Notable {
			principal.Notable = true
		}
	}
}

// ingestRelation resolves a declared relation's mentions and writes the
// matching back-references onto the persons.
func (p *Pipeline) ingestRelation(in *model.RelationInput, source string) {
	subject := p.resolveMention(&in.Subject, source)
	object := p.resolveMention(&in.Object, source)
	if subject == nil || object == nil || subject.ID == object.ID {
		return
	}

	switch in.Kind {
	case model.RelationParent:
		// Subject is the parent. Fill the first free parental slot.
		if object.FatherID == 0 {
			object.FatherID = subject.ID
		} else if object.MotherID == 0 && object.FatherID != subject.ID {
			object.MotherID = subject.ID
		}
	case model.RelationSpouse:
		setIfZero(&subject.SpouseID, object.ID)
		setIfZero(&object.SpouseID, subject.ID)
	case model.RelationGodparent:
		if object.GodfatherID == 0 {
			object.GodfatherID = subject.ID
		} else if object.GodmotherID == 0 && object.GodfatherID != subject.ID {
			object.GodmotherID = subject.ID
		}
	default:
		p.log.Debug("ignoring undeclared relation kind", zap.String("kind", string(in.Kind)))
	}
}

// resyncParentRefs re-applies corrected acte parental roles onto the
// principal's back-references, so the network builder sees the repair.
func (p *Pipeline) resyncParentRefs() {
	for _, record := range p.store.Records() {
		if record.Type != model.ActeBapteme && record.Type != model.ActeNaissance {
			continue
		}
		principal, ok := p.resolver.Person(record.PrincipalID)
		if !ok {
			continue
		}
		if record.FatherID != 0 {
			principal.FatherID = record.FatherID
		}
		if record.MotherID != 0 {
			principal.MotherID = record.MotherID
		}
	}
}

func (p *Pipeline) assembleReport(source string, persons []*model.Person, network *genealogy.Network, corrections, warnings []string) *model.Report {
	return &model.Report{
		Source:          source,
		ProcessedAt:     time.Now().UTC(),
		PersonCount:     len(persons),
		ActeCount:       len(p.store.Records()),
		RelationCount:   len(network.Relations),
		RelationKinds:   network.RelationCounts(),
		GenerationDepth: network.GenerationDepth(),
		FamilyGroups:    len(network.Groups),
		LargestFamily:   network.LargestGroup(),
		Resolver:        p.resolver.Stats(),
		Chronology:      p.chronology.Stats(),
		Corrections:     corrections,
		Warnings:        warnings,
	}
}

func setIfZero(dst *int, v int) {
	if *dst == 0 && v != 0 {
		*dst = v
	}
}
