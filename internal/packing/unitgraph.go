package packing

import "math"

// Edge is one directed conversion rule within a category's packaging
// hierarchy: Quantity units of From equal 1 unit of To.
type Edge struct {
	From     Unit
	To       Unit
	Quantity float64
	Level    int
}

// PathKind tags how a conversion was resolved.
type PathKind string

const (
	PathDirect   PathKind = "direct"   // single edge (or identity)
	PathIndirect PathKind = "indirect" // multi-edge walk
	PathNotFound PathKind = "not_found"
)

// Conversion is the result of a graph walk: the converted quantity, the edges
// traversed, and how the path was resolved.
type Conversion struct {
	Quantity float64
	Path     []Edge
	Kind     PathKind
}

// Graph indexes a category's conversion edges by from-unit for traversal.
// A category's edge set is a general directed graph and may contain
// disconnected components; nothing guarantees a single chain.
type Graph struct {
	edges    []Edge
	outgoing map[Unit][]int
}

// NewGraph validates and indexes the given edges. Edge order is preserved:
// the walk always picks the first untraversed outgoing edge.
func NewGraph(edges []Edge) (*Graph, error) {
	g := &Graph{
		edges:    make([]Edge, 0, len(edges)),
		outgoing: make(map[Unit][]int, len(edges)),
	}
	for _, e := range edges {
		if e.Quantity <= 0 {
			return nil, ErrInvalidConversionEdge
		}
		idx := len(g.edges)
		g.edges = append(g.edges, e)
		g.outgoing[e.From] = append(g.outgoing[e.From], idx)
	}
	return g, nil
}

// Convert converts quantity units of from into units of to.
//
// The search is a greedy single-pass forward walk, not a shortest-path or
// backtracking search: at each step the first untraversed edge leaving the
// current unit is taken, and if that edge leads to a dead end no alternative
// from an earlier node is tried. Historical totals depend on which path an
// ambiguous graph resolves to, so the walk order must stay stable.
// TODO: confirm with operations whether ambiguous multi-path categories
// actually exist in production data.
//
// Moving "up" the hierarchy (N small = 1 large) divides the running quantity.
// If no forward walk reaches the target, the reversed orientation is tried
// (walking target→from and multiplying instead), so a chain built as
// pieces→box→pallet also answers pallet→pieces.
func (g *Graph) Convert(from, to Unit, quantity float64) (Conversion, error) {
	if from == to {
		return Conversion{Quantity: round2(quantity), Kind: PathDirect}, nil
	}

	if factor, path, ok := g.walk(from, to); ok {
		return Conversion{
			Quantity: round2(quantity / factor),
			Path:     path,
			Kind:     kindFor(path),
		}, nil
	}
	if factor, path, ok := g.walk(to, from); ok {
		return Conversion{
			Quantity: round2(quantity * factor),
			Path:     path,
			Kind:     kindFor(path),
		}, nil
	}

	return Conversion{Kind: PathNotFound}, &NoConversionPathError{From: from, To: to}
}

// walk performs the greedy forward traversal and returns the cumulative
// product of edge quantities along the path.
func (g *Graph) walk(from, to Unit) (float64, []Edge, bool) {
	factor := 1.0
	var path []Edge
	traversed := make(map[int]bool, len(g.edges))
	current := from

	for {
		next := -1
		for _, idx := range g.outgoing[current] {
			if !traversed[idx] {
				next = idx
				break
			}
		}
		if next < 0 {
			return 0, nil, false
		}

		traversed[next] = true
		e := g.edges[next]
		factor *= e.Quantity
		path = append(path, e)

		if e.To == to {
			return factor, path, true
		}
		current = e.To
	}
}

// WeightAt derives the weight of one target unit from the profile's unit
// weight, multiplying through the cumulative quantity product along the path
// from the measurement node to the target (or dividing when walking the other
// way). Used to populate the per-level weight entries.
func (g *Graph) WeightAt(p Profile, target Unit) (float64, error) {
	if p.UnitWeight <= 0 {
		return 0, &MissingPackagingDataError{Field: "unitWeight"}
	}
	if target == p.WeightUnitType {
		return round2(p.UnitWeight), nil
	}

	if factor, _, ok := g.walk(p.WeightUnitType, target); ok {
		return round2(p.UnitWeight * factor), nil
	}
	if factor, _, ok := g.walk(target, p.WeightUnitType); ok {
		return round2(p.UnitWeight / factor), nil
	}

	return 0, &NoConversionPathError{From: p.WeightUnitType, To: target}
}

func kindFor(path []Edge) PathKind {
	if len(path) > 1 {
		return PathIndirect
	}
	return PathDirect
}

// round2 rounds to 2 decimal places, the precision carried on invoices.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
