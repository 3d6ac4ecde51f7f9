package packing

import "math"

// Breakdown is the derived box/pallet/weight/volume figures for one invoice
// line item. It is computed, never user-supplied, and recomputed on every
// mutation.
type Breakdown struct {
	Boxes       float64
	Pallets     float64
	TotalWeight float64
	TotalCBM    float64
}

// ComputeBreakdown turns a requested quantity in an arbitrary input unit into
// the line item's packing breakdown using the product's hierarchy profile.
//
// Every branch converges on a box count and a total weight; pallets and CBM
// are derived from boxes afterwards. Area units are priced per piece
// equivalent and unknown units fall back to the pieces branch. A branch that
// can size boxes but has no weight data leaves TotalWeight at zero; the
// caller substitutes the line's flat weight.
func ComputeBreakdown(p Profile, quantity float64, unit Unit) (Breakdown, error) {
	var b Breakdown

	switch unit {
	case UnitPieces, UnitSqm:
		ppb, ok := p.PiecesPerBox()
		if !ok {
			return Breakdown{}, &MissingPackagingDataError{Field: "piecesPerBox"}
		}
		b.Boxes = math.Ceil(quantity / ppb)
		if wpp, ok := p.WeightPer(UnitPieces); ok {
			b.TotalWeight = quantity * wpp
		}

	case UnitKg:
		wpp, ok := p.WeightPer(UnitPieces)
		if !ok {
			return Breakdown{}, &MissingPackagingDataError{Field: "weightPerPiece"}
		}
		ppb, ok := p.PiecesPerBox()
		if !ok {
			return Breakdown{}, &MissingPackagingDataError{Field: "piecesPerBox"}
		}
		pieces := quantity / wpp
		b.Boxes = math.Ceil(pieces / ppb)
		b.TotalWeight = quantity // already a weight

	case UnitBox:
		b.Boxes = quantity
		if wpb, ok := p.WeightPer(UnitBox); ok {
			b.TotalWeight = quantity * wpb
		}

	case UnitPallet:
		bpp, ok := p.BoxesPerPallet()
		if !ok {
			return Breakdown{}, &MissingPackagingDataError{Field: "boxesPerPallet"}
		}
		b.Pallets = quantity
		b.Boxes = quantity * bpp
		if wpl, ok := p.WeightPer(UnitPallet); ok {
			b.TotalWeight = quantity * wpl
		}

	default:
		// Best-effort fallback for category-specific unit names.
		ppb, ok := p.PiecesPerBox()
		if !ok {
			return Breakdown{}, &MissingPackagingDataError{Field: "piecesPerBox"}
		}
		b.Boxes = math.Ceil(quantity / ppb)
		if wpp, ok := p.WeightPer(UnitPieces); ok {
			b.TotalWeight = quantity * wpp
		}
	}

	if b.Pallets == 0 {
		if bpp, ok := p.BoxesPerPallet(); ok {
			b.Pallets = math.Ceil(b.Boxes / bpp)
		}
	}
	if p.CBMPerBox > 0 {
		b.TotalCBM = round2(b.Boxes * p.CBMPerBox)
	}
	b.TotalWeight = round2(b.TotalWeight)

	return b, nil
}

// GrossWeight estimates the shipping gross weight for one line item from a
// per-unit box-count heuristic. Commercial weight and shipping gross weight
// follow different business rules, so this figure is kept separate from
// Breakdown.TotalWeight. A configured per-box gross weight above 100 is
// treated as grams and converted to kg.
func GrossWeight(p Profile, quantity float64, unit Unit) float64 {
	gwb := p.GrossWeightPerBox
	if gwb <= 0 {
		return 0
	}
	if gwb > 100 {
		gwb /= 1000
	}

	boxes := quantity
	switch unit {
	case UnitBox:
		// quantity is already a box count
	case UnitPallet:
		if bpp, ok := p.BoxesPerPallet(); ok {
			boxes = quantity * bpp
		}
	case UnitKg:
		wpp, wok := p.WeightPer(UnitPieces)
		ppb, pok := p.PiecesPerBox()
		if wok && pok {
			boxes = quantity / wpp / ppb
		}
	default:
		if ppb, ok := p.PiecesPerBox(); ok {
			boxes = quantity / ppb
		}
	}

	return round2(boxes * gwb)
}
