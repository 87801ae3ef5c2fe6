package model

// RelationKind classifies a family relation edge.
type RelationKind string

const (
	RelationParent      RelationKind = "parent"      // subject is parent of object
	RelationSpouse      RelationKind = "spouse"      // symmetric
	RelationSibling     RelationKind = "sibling"     // symmetric
	RelationGodparent   RelationKind = "godparent"   // subject is godparent of object
	RelationGrandparent RelationKind = "grandparent" // subject is grandparent of object
)

// Relation is a directed or symmetric fact linking two person identities.
// Relations are immutable once created; the network is a multigraph, so
// parallel edges of different kinds between the same pair are legal.
type Relation struct {
	SubjectID  int          `json:"subject_id"`
	ObjectID   int          `json:"object_id"`
	Kind       RelationKind `json:"kind"`
	Confidence float64      `json:"confidence"` // always in (0,1]
	Evidence   []string     `json:"evidence,omitempty"`

	// Inferred marks relations derived transitively from declared ones.
	// An inferred relation cites at least one declared relation in Evidence.
	Inferred bool `json:"inferred,omitempty"`
}

// Symmetric reports whether the relation kind has no subject/object direction.
func (k RelationKind) Symmetric() bool {
	return k == RelationSpouse || k == RelationSibling
}
