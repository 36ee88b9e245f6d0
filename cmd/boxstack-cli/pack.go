package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/piwi3910/BoxStack/internal/engine"
	"github.com/piwi3910/BoxStack/internal/export"
	"github.com/piwi3910/BoxStack/internal/metrics"
	"github.com/piwi3910/BoxStack/internal/model"
)

type packOptions struct {
	inputOptions

	workers         int
	pdfPath         string
	dxfPath         string
	stlPath         string
	labelsPath      string
	jsonPath        string
	metricsTextfile string
}

func newPackCommand() *cobra.Command {
	o := &packOptions{}
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack one or more part lists into a container",
		Example: `  boxstack-cli pack --container 10x4x10 --parts parts.csv
  boxstack-cli pack --preset "Moving box large" --parts a.txt --parts b.xlsx --algorithm genetic
  boxstack-cli pack --project crate.boxstack --pdf crate.pdf --stl crate.stl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}
	o.addFlags(cmd.Flags())
	cmd.Flags().IntVar(&o.workers, "workers", 2, "Part lists packed concurrently")
	cmd.Flags().StringVar(&o.pdfPath, "pdf", "", "Write a PDF layout report")
	cmd.Flags().StringVar(&o.dxfPath, "dxf", "", "Write a DXF wireframe")
	cmd.Flags().StringVar(&o.stlPath, "stl", "", "Write an STL mesh of the fitted parts")
	cmd.Flags().StringVar(&o.labelsPath, "labels", "", "Write a PDF sheet of QR part labels")
	cmd.Flags().StringVar(&o.jsonPath, "json", "", "Write the result as JSON (- for stdout)")
	cmd.Flags().StringVar(&o.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics for node_exporter's textfile collector")
	return cmd
}

func (o *packOptions) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	logger := klog.FromContext(ctx)

	settings, inputs, err := o.resolve(cmd.Flags(), logger)
	if err != nil {
		return err
	}

	names := uniqueJobNames(inputs)
	jobs := make([]engine.Job, len(inputs))
	for i, in := range inputs {
		jobs[i] = engine.Job{Name: names[i], Parts: in.parts, Container: in.container}
	}

	packer := engine.New(settings).WithLogger(logger.WithName("packer"))
	results := packer.PackBatch(ctx, jobs, o.workers)

	recorder := metrics.NewRecorder()
	out := cmd.OutOrStdout()
	multi := len(results) > 1
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("%s: %w", r.Job.Name, r.Err)
		}
		recorder.Observe(r.Result, settings.Algorithm, r.Duration)

		if o.jsonPath != "-" {
			if multi {
				fmt.Fprintf(out, "\n== %s ==\n", r.Job.Name)
			}
			printPlacements(out, r.Result)
		}
		if err := o.writeExports(r, settings, multi); err != nil {
			return err
		}
	}

	if o.jsonPath != "" {
		if err := writeJSONResults(o.jsonPath, out, results); err != nil {
			return err
		}
	}
	if o.metricsTextfile != "" {
		if err := recorder.WriteTextfile(o.metricsTextfile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}

func (o *packOptions) writeExports(r engine.BatchResult, settings model.PackSettings, multi bool) error {
	exports := []struct {
		path  string
		write func(string) error
	}{
		{o.pdfPath, func(p string) error { return export.ExportPDF(p, r.Result, settings) }},
		{o.dxfPath, func(p string) error { return export.ExportDXF(p, r.Result) }},
		{o.stlPath, func(p string) error { return export.ExportSTL(p, r.Result) }},
		{o.labelsPath, func(p string) error { return export.ExportLabels(p, r.Result) }},
	}
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		path := e.path
		if multi {
			path = jobOutputPath(e.path, r.Job.Name)
		}
		if err := e.write(path); err != nil {
			return fmt.Errorf("exporting %s: %w", path, err)
		}
	}
	return nil
}

// uniqueJobNames returns one name per input. A name already taken by an
// earlier input gets its 1-based input position appended, so per-job export
// paths never overwrite each other.
func uniqueJobNames(inputs []packInput) []string {
	reserved := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		reserved[in.name] = true
	}
	used := make(map[string]bool, len(inputs))
	names := make([]string, len(inputs))
	for i, in := range inputs {
		name := in.name
		if used[name] {
			name = fmt.Sprintf("%s-%d", in.name, i+1)
			for k := 2; used[name] || reserved[name]; k++ {
				name = fmt.Sprintf("%s-%d-%d", in.name, i+1, k)
			}
		}
		used[name] = true
		names[i] = name
	}
	return names
}

// jobOutputPath turns "out/layout.pdf" into "out/layout-<job>.pdf".
func jobOutputPath(path, job string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + job + ext
}

type jobJSON struct {
	Name   string           `json:"name"`
	Result model.PackResult `json:"result"`
}

func writeJSONResults(path string, stdout io.Writer, results []engine.BatchResult) error {
	var v interface{}
	if len(results) == 1 {
		v = results[0].Result
	} else {
		jobs := make([]jobJSON, len(results))
		for i, r := range results {
			jobs[i] = jobJSON{Name: r.Job.Name, Result: r.Result}
		}
		v = jobs
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if path == "-" {
		_, err = fmt.Fprintln(stdout, string(data))
		return err
	}
	return os.WriteFile(path, data, 0644)
}
