package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default engine settings applied to new projects
	DefaultAlgorithm      Algorithm `json:"default_algorithm"`
	DefaultGridStep       float64   `json:"default_grid_step"`
	DefaultSentinelMargin float64   `json:"default_sentinel_margin"`
	DefaultIndex          IndexKind `json:"default_index"`
	DefaultContainer      Container `json:"default_container"`

	// Application preferences
	RecentProjects []string `json:"recent_projects"`
	Theme          string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultAlgorithm:      defaults.Algorithm,
		DefaultGridStep:       defaults.GridStep,
		DefaultSentinelMargin: defaults.SentinelMargin,
		DefaultIndex:          defaults.Index,
		DefaultContainer:      NewProject().Container,
		RecentProjects:        []string{},
		Theme:                 "system",
	}
}

// ApplyToSettings copies the default values from AppConfig into a PackSettings struct.
// Zero values in the config leave the corresponding setting untouched.
func (c AppConfig) ApplyToSettings(s *PackSettings) {
	if c.DefaultAlgorithm != "" {
		s.Algorithm = c.DefaultAlgorithm
	}
	if c.DefaultGridStep > 0 {
		s.GridStep = c.DefaultGridStep
	}
	if c.DefaultSentinelMargin > 0 {
		s.SentinelMargin = c.DefaultSentinelMargin
	}
	if c.DefaultIndex != "" {
		s.Index = c.DefaultIndex
	}
}

// AddRecentProject moves path to the front of the recent list, keeping at most max entries.
func (c *AppConfig) AddRecentProject(path string, max int) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			recent = append(recent, p)
		}
	}
	if max > 0 && len(recent) > max {
		recent = recent[:max]
	}
	c.RecentProjects = recent
}
