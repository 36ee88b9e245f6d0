package engine

import (
	"fmt"

	"github.com/piwi3910/BoxStack/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.PackSettings
}

// ComparisonResult holds the packing result and computed statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Result        model.PackResult
	PlacedCount   int
	UnplacedCount int
	Efficiency    float64
	Err           error
}

// CompareScenarios packs the same parts once per scenario and returns the
// results in scenario order. A scenario with invalid settings carries its
// error instead of aborting the comparison.
func CompareScenarios(scenarios []ComparisonScenario, parts []model.Part, container model.Container) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result, err := New(scenario.Settings).Pack(parts, container)
		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Result:        result,
			PlacedCount:   result.PlacedCount(),
			UnplacedCount: len(result.UnplacedParts()),
			Efficiency:    result.Efficiency(),
			Err:           err,
		})
	}

	return results
}

// BuildDefaultScenarios generates what-if alternatives around the current
// settings: the other algorithm, a finer and a coarser scan step, and the
// other index kind.
func BuildDefaultScenarios(baseSettings model.PackSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: baseSettings,
		},
	}

	altAlgo := baseSettings
	if baseSettings.Algorithm == model.AlgorithmGenetic {
		altAlgo.Algorithm = model.AlgorithmFirstFit
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "First-Fit Algorithm",
			Settings: altAlgo,
		})
	} else {
		altAlgo.Algorithm = model.AlgorithmGenetic
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Genetic Algorithm",
			Settings: altAlgo,
		})
	}

	if baseSettings.GridStep > 0 {
		fine := baseSettings
		fine.GridStep = baseSettings.GridStep * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Step %g (half)", fine.GridStep),
			Settings: fine,
		})

		coarse := baseSettings
		coarse.GridStep = baseSettings.GridStep * 2
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Step %g (double)", coarse.GridStep),
			Settings: coarse,
		})
	}

	altIndex := baseSettings
	if baseSettings.Index == model.IndexGrid {
		altIndex.Index = model.IndexList
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "List Index",
			Settings: altIndex,
		})
	} else {
		altIndex.Index = model.IndexGrid
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Grid Index",
			Settings: altIndex,
		})
	}

	return scenarios
}
