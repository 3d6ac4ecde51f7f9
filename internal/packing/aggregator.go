package packing

import "github.com/shopspring/decimal"

// LineTotals is the per-line contribution to invoice-level totals, either
// computed from a Breakdown or taken from the line's flat fallback fields.
type LineTotals struct {
	Amount      decimal.Decimal
	Weight      float64
	GrossWeight float64
	Volume      float64
	Boxes       float64
	Pallets     float64
}

// Totals is the invoice-level aggregate persisted on the invoice.
type Totals struct {
	Subtotal         decimal.Decimal
	ChargesTotal     decimal.Decimal
	TotalAmount      decimal.Decimal
	TotalWeight      float64
	TotalGrossWeight float64
	TotalVolume      float64
	TotalBoxes       float64
	TotalPallets     float64

	RequiredContainers int
	NumberOfContainers int
}

// Aggregate sums line totals and a free-form map of named charges (freight,
// insurance, ...) into invoice totals, then sizes containers for the chosen
// type. containerOverride, when positive, replaces the computed requirement;
// the persisted count is never below 1 either way.
func Aggregate(lines []LineTotals, charges map[string]decimal.Decimal, containerType ContainerType, containerOverride int) Totals {
	t := Totals{
		Subtotal:     decimal.Zero,
		ChargesTotal: decimal.Zero,
	}

	for _, l := range lines {
		t.Subtotal = t.Subtotal.Add(l.Amount)
		t.TotalWeight += l.Weight
		t.TotalGrossWeight += l.GrossWeight
		t.TotalVolume += l.Volume
		t.TotalBoxes += l.Boxes
		t.TotalPallets += l.Pallets
	}

	for _, amount := range charges {
		t.ChargesTotal = t.ChargesTotal.Add(amount)
	}
	t.TotalAmount = t.Subtotal.Add(t.ChargesTotal)

	t.TotalWeight = round2(t.TotalWeight)
	t.TotalGrossWeight = round2(t.TotalGrossWeight)
	t.TotalVolume = round2(t.TotalVolume)

	t.RequiredContainers = RequiredContainers(containerType, t.TotalWeight, t.TotalVolume)
	t.NumberOfContainers = t.RequiredContainers
	if containerOverride > 0 {
		t.NumberOfContainers = containerOverride
	}
	if t.NumberOfContainers < 1 {
		t.NumberOfContainers = 1
	}

	return t
}
