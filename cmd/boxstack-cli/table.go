package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/piwi3910/BoxStack/internal/engine"
	"github.com/piwi3910/BoxStack/internal/model"
)

var (
	fitColor      = color.New(color.FgGreen)
	unplacedColor = color.New(color.FgRed)
	headerColor   = color.New(color.Bold)
)

// printPlacements writes one row per part instance followed by the fit summary.
func printPlacements(w io.Writer, result model.PackResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, headerColor.Sprint("ID\tLABEL\tSIZE\tOUTCOME\tX\tY\tZ"))
	for _, p := range result.Placements {
		outcome := fitColor.Sprint(p.Outcome.String())
		if !p.Placed() {
			outcome = unplacedColor.Sprint(p.Outcome.String())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%g\t%g\t%g\n",
			p.Part.ID, p.Part.Label, p.Part.Dims.String(), outcome,
			p.Position.X, p.Position.Y, p.Position.Z)
	}
	tw.Flush()

	fmt.Fprintln(w, fitSummary(result))
}

// fitSummary reads "N of M parts fit in container", colored by whether
// everything fit.
func fitSummary(result model.PackResult) string {
	n, m := result.FitsCount(), len(result.Placements)
	line := fmt.Sprintf("%d of %d parts fit in container (%.1f%% of volume used)", n, m, result.Efficiency())
	if n < m {
		return unplacedColor.Sprint(line)
	}
	return fitColor.Sprint(line)
}

func printComparison(w io.Writer, results []engine.ComparisonResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, headerColor.Sprint("SCENARIO\tPLACED\tUNPLACED\tEFFICIENCY"))

	best := -1
	for i, r := range results {
		if r.Err == nil && (best < 0 || r.Efficiency > results[best].Efficiency) {
			best = i
		}
	}
	for i, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\t%s\t\t\n", r.Scenario.Name, unplacedColor.Sprint(r.Err.Error()))
			continue
		}
		name := r.Scenario.Name
		if i == best {
			name = fitColor.Sprint(name + " *")
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f%%\n", name, r.PlacedCount, r.UnplacedCount, r.Efficiency)
	}
	tw.Flush()
}

func printEstimate(w io.Writer, container model.Container, est model.ContainerEstimate) {
	fmt.Fprintf(w, "Container:            %s (%s)\n", container.Label, container.Dims.String())
	fmt.Fprintf(w, "Part volume:          %.2f\n", est.TotalPartVolume)
	fmt.Fprintf(w, "Container volume:     %.2f\n", est.ContainerVolume)
	fmt.Fprintf(w, "Containers (exact):   %.2f\n", est.ContainersNeededExact)
	fmt.Fprintf(w, "Containers (minimum): %d\n", est.ContainersNeededMin)
	fmt.Fprintf(w, "With %.0f%% waste:       %s\n", est.WastePercent, fitColor.Sprint(est.ContainersWithWaste))
	if est.PricePerContainer > 0 {
		fmt.Fprintf(w, "Estimated cost:       %.2f\n", est.EstimatedCost)
	}
	for _, p := range est.OversizedParts {
		fmt.Fprintln(w, unplacedColor.Sprintf("Oversized: %s (%s) x%d", p.Label, p.Dims.String(), p.Copies()))
	}
}
