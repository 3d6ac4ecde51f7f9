package packing

import "strings"

// Unit is a normalized packaging unit name ("pieces", "box", "pallet", ...).
// Categories may define their own unit names; the well-known ones below get
// dedicated calculator branches.
type Unit string

const (
	UnitPieces Unit = "pieces"
	UnitKg     Unit = "kg"
	UnitBox    Unit = "box"
	UnitPallet Unit = "pallet"
	UnitSqm    Unit = "sqm"
)

// Normalize lowercases a raw unit name and folds common plural/abbreviation
// variants onto their canonical Unit.
func Normalize(raw string) Unit {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "pcs", "piece", "pieces":
		return UnitPieces
	case "kg", "kgs", "kilogram", "kilograms":
		return UnitKg
	case "box", "boxes":
		return UnitBox
	case "pallet", "pallets":
		return UnitPallet
	case "sqm", "m2", "square meter", "square meters":
		return UnitSqm
	}
	return Unit(s)
}

// NodePair identifies a directed conversion between two packaging levels,
// e.g. {pieces, box} keyed to "how many pieces fit in one box".
type NodePair struct {
	From Unit
	To   Unit
}

// Profile is the per-product packaging hierarchy. It mirrors a subset of the
// category's conversion edges (a product may skip levels) plus the product's
// unit weight measured at WeightUnitType.
type Profile struct {
	UnitWeight     float64
	WeightUnitType Unit

	// Quantities holds "<From>Per<To>" entries: Quantities[{pieces,box}] = 12
	// means 12 pieces = 1 box for this product.
	Quantities map[NodePair]float64

	// Weights holds "weightPer<Unit>" entries derived from UnitWeight.
	Weights map[Unit]float64

	CBMPerBox         float64
	GrossWeightPerBox float64
}

// Quantity returns the conversion quantity between two levels if the product
// defines it.
func (p Profile) Quantity(from, to Unit) (float64, bool) {
	q, ok := p.Quantities[NodePair{From: from, To: to}]
	if !ok || q <= 0 {
		return 0, false
	}
	return q, true
}

// WeightPer returns the weight of one unit at the given packaging level.
func (p Profile) WeightPer(u Unit) (float64, bool) {
	if u == p.WeightUnitType && p.UnitWeight > 0 {
		return p.UnitWeight, true
	}
	w, ok := p.Weights[u]
	if !ok || w <= 0 {
		return 0, false
	}
	return w, true
}

// PiecesPerBox is a convenience accessor for the most common hierarchy entry.
func (p Profile) PiecesPerBox() (float64, bool) { return p.Quantity(UnitPieces, UnitBox) }

// BoxesPerPallet is a convenience accessor for the box→pallet hierarchy entry.
func (p Profile) BoxesPerPallet() (float64, bool) { return p.Quantity(UnitBox, UnitPallet) }
