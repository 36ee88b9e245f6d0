package model

import "math"

// ContainerEstimate holds the results of a container count calculation.
type ContainerEstimate struct {
	TotalPartVolume       float64 `json:"total_part_volume"`       // Volume of all part instances
	ContainerVolume       float64 `json:"container_volume"`        // Volume of one container
	ContainersNeededExact float64 `json:"containers_needed_exact"` // Exact fractional number of containers
	ContainersNeededMin   int     `json:"containers_needed_min"`   // Volume lower bound (ceiling of exact)
	ContainersWithWaste   int     `json:"containers_with_waste"`   // Recommended count including waste factor
	WastePercent          float64 `json:"waste_percent"`           // Waste factor applied (e.g., 20 for 20%)
	EstimatedCost         float64 `json:"estimated_cost"`          // Total cost if pricing available
	PricePerContainer     float64 `json:"price_per_container"`     // Price used for estimation
	OversizedParts        []Part  `json:"oversized_parts"`         // Parts larger than the container on some axis
}

// CalculateContainerEstimate computes how many containers a part list needs
// by volume. It is a lower bound: stacking gaps are covered only by the
// waste percentage. Parts that cannot fit the container in their fixed
// orientation are reported separately and left out of the volume total.
func CalculateContainerEstimate(parts []Part, container Container, wastePercent, pricePerContainer float64) ContainerEstimate {
	var totalVolume float64
	var oversized []Part
	for _, p := range parts {
		if p.Dims.Width > container.Dims.Width+Tolerance ||
			p.Dims.Height > container.Dims.Height+Tolerance ||
			p.Dims.Depth > container.Dims.Depth+Tolerance {
			oversized = append(oversized, p)
			continue
		}
		totalVolume += p.Volume() * float64(p.Copies())
	}

	containerVolume := container.Dims.Volume()
	if containerVolume <= 0 {
		return ContainerEstimate{
			TotalPartVolume: totalVolume,
			WastePercent:    wastePercent,
			OversizedParts:  oversized,
		}
	}

	exact := totalVolume / containerVolume
	minContainers := int(math.Ceil(exact))

	// Apply waste factor
	wasteFactor := 1.0 + (wastePercent / 100.0)
	withWaste := int(math.Ceil(exact * wasteFactor))
	if withWaste < minContainers {
		withWaste = minContainers
	}

	return ContainerEstimate{
		TotalPartVolume:       totalVolume,
		ContainerVolume:       containerVolume,
		ContainersNeededExact: exact,
		ContainersNeededMin:   minContainers,
		ContainersWithWaste:   withWaste,
		WastePercent:          wastePercent,
		EstimatedCost:         float64(withWaste) * pricePerContainer,
		PricePerContainer:     pricePerContainer,
		OversizedParts:        oversized,
	}
}
