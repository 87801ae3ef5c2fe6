package genealogy

import (
	"sort"

	"github.com/RISKA667/Garmea-sub000/internal/model"
)

// Network is a derived, recomputable snapshot of the family graph. It is
// immutable once built; after any Person merge or new declared relation the
// caller rebuilds it rather than patching it.
type Network struct {
	Persons     map[int]*model.Person
	Relations   []model.Relation
	Generations map[int]int // identity -> depth from the nearest root
	Groups      [][]int     // disjoint family groups, singletons discarded
}

// RelationsOf returns every relation that touches the identity.
func (n *Network) RelationsOf(id int) []model.Relation {
	var out []model.Relation
	for _, rel := range n.Relations {
		if rel.SubjectID == id || rel.ObjectID == id {
			out = append(out, rel)
		}
	}
	return out
}

// Children returns the identities recorded as children of the parent,
// ordered by identity.
func (n *Network) Children(parentID int) []int {
	var out []int
	for _, rel := range n.Relations {
		if rel.Kind == model.RelationParent && rel.SubjectID == parentID {
			out = append(out, rel.ObjectID)
		}
	}
	sort.Ints(out)
	return out
}

// Parents returns the identities recorded as parents of the child.
func (n *Network) Parents(childID int) []int {
	var out []int
	for _, rel := range n.Relations {
		if rel.Kind == model.RelationParent && rel.ObjectID == childID {
			out = append(out, rel.SubjectID)
		}
	}
	sort.Ints(out)
	return out
}

// CommonAncestors returns the shared ancestors of two identities, closest
// first by summed hop distance.
func (n *Network) CommonAncestors(a, b int) []int {
	distA := n.ancestorDistances(a)
	distB := n.ancestorDistances(b)

	var shared []int
	for id := range distA {
		if _, ok := distB[id]; ok {
			shared = append(shared, id)
		}
	}
	sort.Slice(shared, func(i, j int) bool {
		si := distA[shared[i]] + distB[shared[i]]
		sj := distA[shared[j]] + distB[shared[j]]
		if si != sj {
			return si < sj
		}
		return shared[i] < shared[j]
	})
	return shared
}

// ancestorDistances walks parent edges upward from id and maps each reached
// ancestor to its hop count.
func (n *Network) ancestorDistances(id int) map[int]int {
	dist := make(map[int]int)
	queue := []int{id}
	dist[id] = 0
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, parent := range n.Parents(current) {
			if _, seen := dist[parent]; seen {
				continue
			}
			dist[parent] = dist[current] + 1
			queue = append(queue, parent)
		}
	}
	delete(dist, id)
	return dist
}

// GenerationDepth is the deepest generation assigned in the snapshot.
func (n *Network) GenerationDepth() int {
	depth := 0
	for _, g := range n.Generations {
		if g > depth {
			depth = g
		}
	}
	return depth
}

// LargestGroup is the size of the biggest family group.
func (n *Network) LargestGroup() int {
	largest := 0
	for _, group := range n.Groups {
		if len(group) > largest {
			largest = len(group)
		}
	}
	return largest
}

// RelationCounts tallies relations by kind for reporting.
func (n *Network) RelationCounts() map[model.RelationKind]int {
	counts := make(map[model.RelationKind]int)
	for _, rel := range n.Relations {
		counts[rel.Kind]++
	}
	return counts
}
