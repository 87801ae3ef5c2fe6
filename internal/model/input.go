package model

// Attributes is the fixed, typed attribute bag attached to a mention.
// It deliberately replaces the open map the extraction layer used to emit,
// so the resolver's sanitation step stays exhaustive.
type Attributes struct {
	Professions []string `json:"professions,omitempty" yaml:"professions,omitempty"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Lands       []string `json:"lands,omitempty" yaml:"lands,omitempty"`
	Notable     bool     `json:"notable,omitempty" yaml:"notable,omitempty"`

	BirthDate    string `json:"birth_date,omitempty" yaml:"birth_date,omitempty"`
	DeathDate    string `json:"death_date,omitempty" yaml:"death_date,omitempty"`
	MarriageDate string `json:"marriage_date,omitempty" yaml:"marriage_date,omitempty"`
	BirthPlace   string `json:"birth_place,omitempty" yaml:"birth_place,omitempty"`
	DeathPlace   string `json:"death_place,omitempty" yaml:"death_place,omitempty"`

	Source  string `json:"source,omitempty" yaml:"source,omitempty"`
	Date    string `json:"date,omitempty" yaml:"date,omitempty"`
	Context string `json:"context,omitempty" yaml:"context,omitempty"` // free-text window around the mention
}

// Mention is one raw name occurrence produced by upstream extraction.
type Mention struct {
	Given  string     `json:"given" yaml:"given"`
	Family string     `json:"family" yaml:"family"`
	Attrs  Attributes `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// ActeInput is a parish entry as delivered by the extraction layer, with
// role mentions still unresolved.
type ActeInput struct {
	Type  ActeType `json:"type" yaml:"type"`
	Date  string   `json:"date,omitempty" yaml:"date,omitempty"`
	Place string   `json:"place,omitempty" yaml:"place,omitempty"`

	Principal *Mention  `json:"principal,omitempty" yaml:"principal,omitempty"`
	Father    *Mention  `json:"father,omitempty" yaml:"father,omitempty"`
	Mother    *Mention  `json:"mother,omitempty" yaml:"mother,omitempty"`
	Spouse    *Mention  `json:"spouse,omitempty" yaml:"spouse,omitempty"`
	Godfather *Mention  `json:"godfather,omitempty" yaml:"godfather,omitempty"`
	Godmother *Mention  `json:"godmother,omitempty" yaml:"godmother,omitempty"`
	Witnesses []Mention `json:"witnesses,omitempty" yaml:"witnesses,omitempty"`

	Text    string `json:"text,omitempty" yaml:"text,omitempty"`
	Notable bool   `json:"notable,omitempty" yaml:"notable,omitempty"`
}

// RelationInput is a declared-relation record not tied to an acte:
// a relation stated directly in the source text.
type RelationInput struct {
	Kind     RelationKind `json:"kind" yaml:"kind"`
	Subject  Mention      `json:"subject" yaml:"subject"`
	Object   Mention      `json:"object" yaml:"object"`
	Evidence string       `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	Year     int          `json:"year,omitempty" yaml:"year,omitempty"`
}

// Dataset is the full input of one processing run.
type Dataset struct {
	Source    string          `json:"source,omitempty" yaml:"source,omitempty"`
	Mentions  []Mention       `json:"mentions,omitempty" yaml:"mentions,omitempty"`
	Actes     []ActeInput     `json:"actes,omitempty" yaml:"actes,omitempty"`
	Relations []RelationInput `json:"relations,omitempty" yaml:"relations,omitempty"`
}
