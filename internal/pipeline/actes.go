package pipeline

import (
	"fmt"

	"github.com/RISKA667/Garmea-sub000/internal/model"
)

// ActeStore holds the run's event records with year, type and person
// indices. Like the Person index it is single-writer, per-run state.
type ActeStore struct {
	records  []*model.ActeRecord
	byYear   map[int][]*model.ActeRecord
	byType   map[model.ActeType][]*model.ActeRecord
	byPerson map[int][]*model.ActeRecord
	nextID   int
}

func NewActeStore() *ActeStore {
	return &ActeStore{
		byYear:   make(map[int][]*model.ActeRecord),
		byType:   make(map[model.ActeType][]*model.ActeRecord),
		byPerson: make(map[int][]*model.ActeRecord),
		nextID:   1,
	}
}

// Add assigns the record an identity and indexes it.
func (s *ActeStore) Add(record *model.ActeRecord) *model.ActeRecord {
	record.ID = s.nextID
	s.nextID++
	if record.Year == 0 {
		record.Year = model.ExtractYear(record.Date)
	}

	s.records = append(s.records, record)
	if record.Year != 0 {
		s.byYear[record.Year] = append(s.byYear[record.Year], record)
	}
	s.byType[record.Type] = append(s.byType[record.Type], record)
	for _, id := range record.PersonIDs() {
		s.byPerson[id] = append(s.byPerson[id], record)
	}
	return record
}

// Records returns every stored record in insertion order.
func (s *ActeStore) Records() []*model.ActeRecord { return s.records }

// ByYear returns the records dated to a year.
func (s *ActeStore) ByYear(year int) []*model.ActeRecord { return s.byYear[year] }

// ByType returns the records of one acte type.
func (s *ActeStore) ByType(t model.ActeType) []*model.ActeRecord { return s.byType[t] }

// ByPerson returns the records naming a person in any role.
func (s *ActeStore) ByPerson(id int) []*model.ActeRecord { return s.byPerson[id] }

// Validate applies the record-level structural rules and attaches the
// result to the record.
func (s *ActeStore) Validate(record *model.ActeRecord) *model.ValidationResult {
	result := model.NewValidationResult()

	switch record.Type {
	case model.ActeMariage:
		if record.PrincipalID == 0 || record.SpouseID == 0 {
			result.AddError(
				fmt.Sprintf("marriage record %d does not name both spouses", record.ID), 0.3)
		}
	case model.ActeBapteme, model.ActeNaissance:
		if record.FatherID == 0 && record.MotherID == 0 {
			result.AddWarning(
				fmt.Sprintf("baptism record %d names no parent", record.ID), 0.1)
		}
	}
	if record.Year == 0 {
		result.AddWarning(
			fmt.Sprintf("record %d has no usable date", record.ID), 0.1)
	}

	record.Validation = result
	return result
}
