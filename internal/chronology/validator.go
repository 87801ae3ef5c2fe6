package chronology

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/RISKA667/Garmea-sub000/internal/model"
	"github.com/RISKA667/Garmea-sub000/internal/resolver"
)

// Confidence deductions per finding.
const (
	deductDeathBeforeBirth = 0.4
	deductExtremeAge       = 0.1
	deductChildMarriage    = 0.3
	deductLateMarriage     = 0.1
	deductDeadParent       = 0.4
)

// Validator checks persons and dated records for temporal plausibility and
// repairs impossible parental links when an exact-name homonym fits. It is
// the only component that mutates records instead of just reporting.
type Validator struct {
	cfg   model.ChronologyConfig
	log   *zap.Logger
	stats model.ChronologyStats
}

func NewValidator(cfg model.ChronologyConfig, log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{cfg: cfg, log: log}
}

// ValidatePerson checks a single Person's recorded dates against each other.
func (v *Validator) ValidatePerson(p *model.Person) *model.ValidationResult {
	result := model.NewValidationResult()
	if p == nil {
		return result
	}
	v.stats.PersonsChecked++

	birth := p.BirthYear()
	death := p.DeathYear()
	marriage := p.MarriageYear()

	if birth != 0 && death != 0 {
		if death <= birth {
			result.AddError(
				fmt.Sprintf("%s: death year %d not after birth year %d", p.FullName(), death, birth),
				deductDeathBeforeBirth)
			v.stats.ErrorsFound++
		} else if death-birth > v.cfg.MaxAge {
			result.AddWarning(
				fmt.Sprintf("%s: age at death %d exceeds %d", p.FullName(), death-birth, v.cfg.MaxAge),
				deductExtremeAge)
		}
	}

	if birth != 0 && marriage != 0 {
		age := marriage - birth
		if age < v.cfg.MinMarriageAge {
			result.AddError(
				fmt.Sprintf("%s: married at %d, below %d", p.FullName(), age, v.cfg.MinMarriageAge),
				deductChildMarriage)
			v.stats.ErrorsFound++
		} else if age > v.cfg.MaxMarriageAge {
			result.AddWarning(
				fmt.Sprintf("%s: married at %d, above %d", p.FullName(), age, v.cfg.MaxMarriageAge),
				deductLateMarriage)
		}
	}

	return result
}

// ValidateRecord checks every parental role on a dated record against the
// role-holder's recorded death year.
func (v *Validator) ValidateRecord(acte *model.ActeRecord, persons map[int]*model.Person) *model.ValidationResult {
	result := model.NewValidationResult()
	if acte == nil || acte.Year == 0 {
		return result
	}
	v.stats.RecordsChecked++

	for _, id := range acte.ParentIDs() {
		p, ok := persons[id]
		if !ok {
			continue
		}
		if death := p.DeathYear(); death != 0 && death < acte.Year {
			result.AddError(
				fmt.Sprintf("%s named as parent in %d but died %d", p.FullName(), acte.Year, death),
				deductDeadParent)
			v.stats.ErrorsFound++
		}
	}
	return result
}

// CorrectRecords hunts for chronologically impossible parental links and
// re-points each to an exact-name homonym whose lifespan can include the
// event year. Links with no valid homonym stay in place and are reported as
// uncorrected. Returns human-readable notes for everything it touched.
func (v *Validator) CorrectRecords(actes []*model.ActeRecord, r *resolver.Resolver) []string {
	var notes []string
	for _, acte := range actes {
		if acte == nil || acte.Year == 0 {
			continue
		}
		v.correctRole(acte, &acte.FatherID, "father", r, &notes)
		v.correctRole(acte, &acte.MotherID, "mother", r, &notes)
	}
	return notes
}

func (v *Validator) correctRole(acte *model.ActeRecord, roleID *int, role string, r *resolver.Resolver, notes *[]string) {
	if *roleID == 0 {
		return
	}
	p, ok := r.Person(*roleID)
	if !ok {
		return
	}
	death := p.DeathYear()
	if death == 0 || death >= acte.Year {
		return
	}

	if replacement := v.findLivingHomonym(p, acte.Year, r); replacement != nil {
		old := *roleID
		*roleID = replacement.ID
		v.stats.CorrectionsMade++
		note := fmt.Sprintf("record %d: %s %s (died %d) re-pointed from %d to homonym %d alive in %d",
			acte.ID, role, p.FullName(), death, old, replacement.ID, acte.Year)
		*notes = append(*notes, note)
		v.log.Info("parental link corrected",
			zap.Int("acte", acte.ID),
			zap.String("role", role),
			zap.Int("from", old),
			zap.Int("to", replacement.ID))
		return
	}

	v.stats.UncorrectedErrors++
	*notes = append(*notes, fmt.Sprintf("record %d: %s %s died %d before event year %d, no valid homonym found",
		acte.ID, role, p.FullName(), death, acte.Year))
}

// findLivingHomonym returns another Person under exactly the same name whose
// recorded lifespan could include the event year, or nil.
func (v *Validator) findLivingHomonym(p *model.Person, year int, r *resolver.Resolver) *model.Person {
	for _, candidate := range r.Named(p.PrimaryGiven(), p.FamilyName) {
		if candidate.ID == p.ID {
			continue
		}
		if death := candidate.DeathYear(); death != 0 && death < year {
			continue
		}
		if birth := candidate.BirthYear(); birth != 0 {
			age := year - birth
			if age < 0 || age > v.cfg.MaxAge {
				continue
			}
		}
		return candidate
	}
	return nil
}

// Report runs the per-person and per-record checks over a whole run and
// attaches each record's result to the record itself.
func (v *Validator) Report(persons []*model.Person, actes []*model.ActeRecord) []string {
	index := make(map[int]*model.Person, len(persons))
	for _, p := range persons {
		index[p.ID] = p
	}

	var issues []string
	for _, p := range persons {
		result := v.ValidatePerson(p)
		issues = append(issues, result.Errors...)
		issues = append(issues, result.Warnings...)
	}
	for _, acte := range actes {
		result := v.ValidateRecord(acte, index)
		acte.Validation = result
		issues = append(issues, result.Errors...)
		issues = append(issues, result.Warnings...)
	}
	return issues
}

// Stats returns a copy of the run counters.
func (v *Validator) Stats() model.ChronologyStats { return v.stats }
