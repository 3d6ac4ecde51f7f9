package service

import (
	"encoding/json"
	"strings"

	"tradedocs/internal/model"
	"tradedocs/internal/packing"
)

// The persisted profile keeps its dynamic maps as string-keyed JSON
// ("PiecesPerBox", "weightPerBox") for compatibility with the stored shape;
// everything above the repository works with typed keys. The functions here
// are the only place the two representations meet.

// toPackingProfile translates a persisted profile into the typed form the
// computation core consumes.
func toPackingProfile(m *model.ProductPackagingProfile) packing.Profile {
	p := packing.Profile{
		UnitWeight:        m.UnitWeight,
		WeightUnitType:    packing.Normalize(m.WeightUnitType),
		Quantities:        make(map[packing.NodePair]float64),
		Weights:           make(map[packing.Unit]float64),
		CBMPerBox:         m.CBMPerBox,
		GrossWeightPerBox: m.GrossWeightPerBox,
	}
	if m.UnitWeightUnit != "" && strings.EqualFold(m.UnitWeightUnit, "g") {
		p.UnitWeight /= 1000 // stored in grams
	}

	var quantities map[string]float64
	if err := json.Unmarshal([]byte(m.Quantities), &quantities); err == nil {
		for key, qty := range quantities {
			if pair, ok := parsePairKey(key); ok {
				p.Quantities[pair] = qty
			}
		}
	}

	var weights map[string]float64
	if err := json.Unmarshal([]byte(m.Weights), &weights); err == nil {
		for key, w := range weights {
			if unit, ok := parseWeightKey(key); ok {
				p.Weights[unit] = w
			}
		}
	}

	return p
}

// parsePairKey splits "<From>Per<To>" ("PiecesPerBox") into its node pair.
func parsePairKey(key string) (packing.NodePair, bool) {
	parts := strings.SplitN(key, "Per", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return packing.NodePair{}, false
	}
	return packing.NodePair{
		From: packing.Normalize(parts[0]),
		To:   packing.Normalize(parts[1]),
	}, true
}

// parseWeightKey strips the "weightPer" prefix from "weightPer<Unit>" keys.
func parseWeightKey(key string) (packing.Unit, bool) {
	const prefix = "weightPer"
	if !strings.HasPrefix(key, prefix) || len(key) == len(prefix) {
		return "", false
	}
	return packing.Normalize(key[len(prefix):]), true
}

func pairKey(from, to packing.Unit) string {
	return capitalize(string(from)) + "Per" + capitalize(string(to))
}

func weightKey(u packing.Unit) string {
	return "weightPer" + capitalize(string(u))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func marshalFloatMap(m map[string]float64) string {
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}
