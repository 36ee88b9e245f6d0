package model

// SettingsProfile is a named set of pack settings the user can switch between.
type SettingsProfile struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	IsBuiltIn   bool         `json:"is_built_in"`
	Settings    PackSettings `json:"settings"`
}

// BuiltInProfiles returns the profiles shipped with the application.
func BuiltInProfiles() []SettingsProfile {
	fine := DefaultSettings()
	fine.GridStep = 0.1

	coarse := DefaultSettings()
	coarse.GridStep = 1
	coarse.Index = IndexGrid

	genetic := DefaultSettings()
	genetic.Algorithm = AlgorithmGenetic
	genetic.Index = IndexGrid

	return []SettingsProfile{
		{Name: "Default", Description: "First fit, half unit scan step", IsBuiltIn: true, Settings: DefaultSettings()},
		{Name: "Fine", Description: "First fit with a 0.1 unit scan step", IsBuiltIn: true, Settings: fine},
		{Name: "Coarse", Description: "Whole unit steps with the grid index, for large containers", IsBuiltIn: true, Settings: coarse},
		{Name: "Genetic", Description: "Genetic search over part orderings", IsBuiltIn: true, Settings: genetic},
	}
}

// FindProfile returns the first profile named name, or nil.
func FindProfile(profiles []SettingsProfile, name string) *SettingsProfile {
	for i := range profiles {
		if profiles[i].Name == name {
			return &profiles[i]
		}
	}
	return nil
}
