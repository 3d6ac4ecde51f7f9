package packing

import "math"

// ContainerType enumerates the shipping container types an invoice can be
// booked against.
type ContainerType string

const (
	Container20Feet   ContainerType = "20 Feet"
	Container40Feet   ContainerType = "40 Feet"
	Container40FeetHQ ContainerType = "40 Feet HQ"
	Container45FeetHQ ContainerType = "45 Feet HQ"
	ContainerReefer20 ContainerType = "Reefer 20"
	ContainerReefer40 ContainerType = "Reefer 40"
	ContainerLCL      ContainerType = "LCL"
)

// ContainerCapacity is the payload limit of one container: kg and CBM.
type ContainerCapacity struct {
	MaxWeight float64
	MaxVolume float64
}

// containerCapacities is static configuration, loaded once and not
// user-editable at runtime. LCL is consolidated freight and carries no limits.
var containerCapacities = map[ContainerType]ContainerCapacity{
	Container20Feet:   {MaxWeight: 21000, MaxVolume: 33},
	Container40Feet:   {MaxWeight: 26500, MaxVolume: 67},
	Container40FeetHQ: {MaxWeight: 26500, MaxVolume: 76},
	Container45FeetHQ: {MaxWeight: 27600, MaxVolume: 86},
	ContainerReefer20: {MaxWeight: 20300, MaxVolume: 28},
	ContainerReefer40: {MaxWeight: 27400, MaxVolume: 59},
	ContainerLCL:      {},
}

// CapacityFor returns the capacity entry for a container type.
func CapacityFor(t ContainerType) (ContainerCapacity, bool) {
	c, ok := containerCapacities[t]
	return c, ok
}

// ValidContainerType reports whether t is a known container type.
func ValidContainerType(t ContainerType) bool {
	_, ok := containerCapacities[t]
	return ok
}

// RequiredContainers returns the minimum container count satisfying both the
// weight and volume capacity of the chosen type. This is a capacity bound on
// each dimension, not a bin-packing optimization: the binding constraint is
// whichever dimension is tighter. Never less than 1 — zero containers is not
// shippable.
func RequiredContainers(t ContainerType, totalWeight, totalVolume float64) int {
	n := 1
	limits, ok := containerCapacities[t]
	if !ok {
		return n
	}
	if limits.MaxWeight > 0 {
		if byWeight := int(math.Ceil(totalWeight / limits.MaxWeight)); byWeight > n {
			n = byWeight
		}
	}
	if limits.MaxVolume > 0 {
		if byVolume := int(math.Ceil(totalVolume / limits.MaxVolume)); byVolume > n {
			n = byVolume
		}
	}
	return n
}
