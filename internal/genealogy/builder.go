package genealogy

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/RISKA667/Garmea-sub000/internal/model"
)

// Confidences for relations taken directly from a source mention.
const (
	confDeclaredParent    = 0.95
	confDeclaredSpouse    = 0.90
	confDeclaredGodparent = 0.85
)

// Confidences for relations derived transitively from declared ones.
const (
	confInferredSibling     = 0.85
	confInferredSpouse      = 0.80
	confInferredGrandparent = 0.75
)

// Builder assembles a Network snapshot from the resolved Person set and the
// per-event records. The snapshot is rebuilt from scratch on every call.
type Builder struct {
	log *zap.Logger
}

func NewBuilder(log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{log: log}
}

// Build materializes declared relations from Person back-references and
// baptism godparent roles, assigns generations, partitions family groups and
// runs the inference passes.
func (b *Builder) Build(persons []*model.Person, actes []*model.ActeRecord) *Network {
	n := &Network{
		Persons:     make(map[int]*model.Person, len(persons)),
		Generations: make(map[int]int),
	}
	for _, p := range persons {
		if p != nil && p.MergedInto == 0 {
			n.Persons[p.ID] = p
		}
	}

	b.collectDeclared(n, actes)
	b.assignGenerations(n)
	b.partitionGroups(n)
	b.inferSiblings(n)
	b.inferSpouses(n)
	b.inferGrandparents(n)

	b.log.Debug("family network built",
		zap.Int("persons", len(n.Persons)),
		zap.Int("relations", len(n.Relations)),
		zap.Int("groups", len(n.Groups)))
	return n
}

type edgeKey struct {
	kind    model.RelationKind
	subject int
	object  int
}

// collectDeclared walks Person back-references and acte godparent roles and
// emits one declared relation per distinct fact.
func (b *Builder) collectDeclared(n *Network, actes []*model.ActeRecord) {
	seen := make(map[edgeKey]struct{})

	add := func(kind model.RelationKind, subject, object int, confidence float64, evidence string) {
		if subject == 0 || object == 0 || subject == object {
			return
		}
		if _, ok := n.Persons[subject]; !ok {
			return
		}
		if _, ok := n.Persons[object]; !ok {
			return
		}
		key := edgeKey{kind: kind, subject: subject, object: object}
		if kind.Symmetric() && subject > object {
			key.subject, key.object = object, subject
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		n.Relations = append(n.Relations, model.Relation{
			SubjectID:  subject,
			ObjectID:   object,
			Kind:       kind,
			Confidence: confidence,
			Evidence:   []string{evidence},
		})
	}

	ids := make([]int, 0, len(n.Persons))
	for id := range n.Persons {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		p := n.Persons[id]
		name := p.FullName()
		add(model.RelationParent, p.FatherID, p.ID, confDeclaredParent,
			fmt.Sprintf("declared father of %s", name))
		add(model.RelationParent, p.MotherID, p.ID, confDeclaredParent,
			fmt.Sprintf("declared mother of %s", name))
		add(model.RelationSpouse, p.ID, p.SpouseID, confDeclaredSpouse,
			fmt.Sprintf("declared spouse of %s", name))
		add(model.RelationGodparent, p.GodfatherID, p.ID, confDeclaredGodparent,
			fmt.Sprintf("declared godfather of %s", name))
		add(model.RelationGodparent, p.GodmotherID, p.ID, confDeclaredGodparent,
			fmt.Sprintf("declared godmother of %s", name))
	}

	for _, acte := range actes {
		if acte == nil || acte.Type != model.ActeBapteme {
			continue
		}
		evidence := fmt.Sprintf("baptism record %d", acte.ID)
		if acte.Date != "" {
			evidence = fmt.Sprintf("baptism record %d dated %s", acte.ID, acte.Date)
		}
		add(model.RelationGodparent, acte.GodfatherID, acte.PrincipalID, confDeclaredGodparent, evidence)
		add(model.RelationGodparent, acte.GodmotherID, acte.PrincipalID, confDeclaredGodparent, evidence)
		add(model.RelationParent, acte.FatherID, acte.PrincipalID, confDeclaredParent, evidence)
		add(model.RelationParent, acte.MotherID, acte.PrincipalID, confDeclaredParent, evidence)
	}
}

// assignGenerations treats parent edges as a DAG. Roots are identities with
// no recorded parent; a breadth-first walk from the roots assigns each child
// its parent's generation plus one. Identities the walk never reaches stay
// at generation 0.
func (b *Builder) assignGenerations(n *Network) {
	children := make(map[int][]int)
	hasParent := make(map[int]bool)
	for _, rel := range n.Relations {
		if rel.Kind != model.RelationParent {
			continue
		}
		children[rel.SubjectID] = append(children[rel.SubjectID], rel.ObjectID)
		hasParent[rel.ObjectID] = true
	}

	var queue []int
	for id := range n.Persons {
		n.Generations[id] = 0
		if !hasParent[id] {
			queue = append(queue, id)
		}
	}
	sort.Ints(queue)

	visited := make(map[int]bool, len(queue))
	for _, id := range queue {
		visited[id] = true
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range children[current] {
			if visited[child] {
				continue
			}
			visited[child] = true
			n.Generations[child] = n.Generations[current] + 1
			queue = append(queue, child)
		}
	}
}

// partitionGroups builds an undirected adjacency over parent, spouse and
// sibling edges and groups connected identities with a depth-first walk.
// Singleton groups are discarded.
func (b *Builder) partitionGroups(n *Network) {
	adjacency := make(map[int][]int)
	link := func(a, c int) {
		adjacency[a] = append(adjacency[a], c)
		adjacency[c] = append(adjacency[c], a)
	}
	for _, rel := range n.Relations {
		switch rel.Kind {
		case model.RelationParent, model.RelationSpouse, model.RelationSibling:
			link(rel.SubjectID, rel.ObjectID)
		}
	}

	ids := make([]int, 0, len(n.Persons))
	for id := range n.Persons {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	visited := make(map[int]bool)
	for _, start := range ids {
		if visited[start] {
			continue
		}
		var group []int
		stack := []int{start}
		visited[start] = true
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			group = append(group, current)
			for _, next := range adjacency[current] {
				if !visited[next] {
					visited[next] = true
					stack = append(stack, next)
				}
			}
		}
		if len(group) > 1 {
			sort.Ints(group)
			n.Groups = append(n.Groups, group)
		}
	}
}

// inferSiblings emits one sibling relation per unordered pair of children
// sharing a recorded parent.
func (b *Builder) inferSiblings(n *Network) {
	seen := make(map[edgeKey]struct{})
	for _, rel := range n.Relations {
		if rel.Kind == model.RelationSibling {
			seen[symmetricKey(model.RelationSibling, rel.SubjectID, rel.ObjectID)] = struct{}{}
		}
	}

	parents := sortedParentIDs(n)
	for _, parent := range parents {
		kids := n.Children(parent)
		if len(kids) < 2 {
			continue
		}
		parentName := n.Persons[parent].FullName()
		for i := 0; i < len(kids); i++ {
			for j := i + 1; j < len(kids); j++ {
				key := symmetricKey(model.RelationSibling, kids[i], kids[j])
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				n.Relations = append(n.Relations, model.Relation{
					SubjectID:  kids[i],
					ObjectID:   kids[j],
					Kind:       model.RelationSibling,
					Confidence: confInferredSibling,
					Evidence:   []string{fmt.Sprintf("shared declared parent %s", parentName)},
					Inferred:   true,
				})
			}
		}
	}
}

// inferSpouses emits a spouse relation for every unordered pair of parents
// sharing at least one child and lacking a declared spouse relation.
func (b *Builder) inferSpouses(n *Network) {
	existing := make(map[edgeKey]struct{})
	for _, rel := range n.Relations {
		if rel.Kind == model.RelationSpouse {
			existing[symmetricKey(model.RelationSpouse, rel.SubjectID, rel.ObjectID)] = struct{}{}
		}
	}

	childParents := make(map[int][]int)
	for _, rel := range n.Relations {
		if rel.Kind == model.RelationParent && !rel.Inferred {
			childParents[rel.ObjectID] = append(childParents[rel.ObjectID], rel.SubjectID)
		}
	}

	childIDs := make([]int, 0, len(childParents))
	for id := range childParents {
		childIDs = append(childIDs, id)
	}
	sort.Ints(childIDs)

	for _, child := range childIDs {
		coParents := childParents[child]
		sort.Ints(coParents)
		for i := 0; i < len(coParents); i++ {
			for j := i + 1; j < len(coParents); j++ {
				key := symmetricKey(model.RelationSpouse, coParents[i], coParents[j])
				if _, dup := existing[key]; dup {
					continue
				}
				existing[key] = struct{}{}
				n.Relations = append(n.Relations, model.Relation{
					SubjectID:  coParents[i],
					ObjectID:   coParents[j],
					Kind:       model.RelationSpouse,
					Confidence: confInferredSpouse,
					Evidence:   []string{fmt.Sprintf("declared co-parents of %s", n.Persons[child].FullName())},
					Inferred:   true,
				})
			}
		}
	}
}

// inferGrandparents emits a grandparent relation for every parent-of-parent
// two-hop chain.
func (b *Builder) inferGrandparents(n *Network) {
	seen := make(map[edgeKey]struct{})

	parents := sortedParentIDs(n)
	for _, grandparent := range parents {
		for _, parent := range n.Children(grandparent) {
			for _, grandchild := range n.Children(parent) {
				if grandchild == grandparent {
					continue
				}
				key := edgeKey{kind: model.RelationGrandparent, subject: grandparent, object: grandchild}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				n.Relations = append(n.Relations, model.Relation{
					SubjectID:  grandparent,
					ObjectID:   grandchild,
					Kind:       model.RelationGrandparent,
					Confidence: confInferredGrandparent,
					Evidence:   []string{fmt.Sprintf("declared parent chain through %s", n.Persons[parent].FullName())},
					Inferred:   true,
				})
			}
		}
	}
}

func symmetricKey(kind model.RelationKind, a, c int) edgeKey {
	if a > c {
		a, c = c, a
	}
	return edgeKey{kind: kind, subject: a, object: c}
}

func sortedParentIDs(n *Network) []int {
	set := make(map[int]struct{})
	for _, rel := range n.Relations {
		if rel.Kind == model.RelationParent {
			set[rel.SubjectID] = struct{}{}
		}
	}
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
