package model

import "github.com/google/uuid"

// ContainerPreset represents a reusable container definition.
type ContainerPreset struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Dims  Dimensions `json:"dims"`
	Notes string     `json:"notes"`
}

// NewContainerPreset creates a new ContainerPreset with a generated ID.
func NewContainerPreset(name string, w, h, d float64, notes string) ContainerPreset {
	return ContainerPreset{
		ID:    uuid.New().String()[:8],
		Name:  name,
		Dims:  Dimensions{Width: w, Height: h, Depth: d},
		Notes: notes,
	}
}

// ToContainer converts a preset into a Container.
func (cp ContainerPreset) ToContainer() Container {
	return Container{Label: cp.Name, Dims: cp.Dims}
}

// Inventory holds the user's saved container presets.
type Inventory struct {
	Containers []ContainerPreset `json:"containers"`
}

// DefaultInventory returns an inventory populated with common defaults.
// Dimensions are in centimeters, height being the vertical axis.
func DefaultInventory() Inventory {
	return Inventory{
		Containers: []ContainerPreset{
			NewContainerPreset("Euro pallet (120x80, 150 high)", 120, 150, 80, "EPAL 1 footprint"),
			NewContainerPreset("20ft shipping container", 589, 239, 235, "Interior dimensions"),
			NewContainerPreset("40ft shipping container", 1203, 239, 235, "Interior dimensions"),
			NewContainerPreset("Moving box large", 60, 40, 40, ""),
			NewContainerPreset("Moving box small", 40, 30, 30, ""),
		},
	}
}

// FindContainerByID returns a pointer to the preset with the given ID, or nil.
func (inv *Inventory) FindContainerByID(id string) *ContainerPreset {
	for i := range inv.Containers {
		if inv.Containers[i].ID == id {
			return &inv.Containers[i]
		}
	}
	return nil
}

// FindContainerByName returns a pointer to the first preset with the given name, or nil.
func (inv *Inventory) FindContainerByName(name string) *ContainerPreset {
	for i := range inv.Containers {
		if inv.Containers[i].Name == name {
			return &inv.Containers[i]
		}
	}
	return nil
}

// ContainerNames returns a list of preset names for UI dropdowns.
func (inv *Inventory) ContainerNames() []string {
	names := make([]string, len(inv.Containers))
	for i, c := range inv.Containers {
		names[i] = c.Name
	}
	return names
}
