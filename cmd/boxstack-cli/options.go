package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"k8s.io/klog/v2"

	"github.com/piwi3910/BoxStack/internal/importer"
	"github.com/piwi3910/BoxStack/internal/model"
	"github.com/piwi3910/BoxStack/internal/project"
)

// inputOptions describes where parts, the container and settings come from.
// Precedence for settings is defaults, app config, project file, profile,
// then explicit flags.
type inputOptions struct {
	configPath  string
	projectPath string
	partsFiles  []string
	container   string
	preset      string
	profile     string

	step      float64
	margin    float64
	cellSize  float64
	algorithm string
	index     string
}

func (o *inputOptions) addFlags(fs *pflag.FlagSet) {
	defaults := model.DefaultSettings()

	fs.StringVar(&o.configPath, "config", project.DefaultConfigPath(), "Path to the application config file")
	fs.StringVar(&o.projectPath, "project", "", "Load parts, container and settings from a "+project.FileExtension+" project file")
	fs.StringSliceVarP(&o.partsFiles, "parts", "p", nil, "Part list file (.csv, .tsv, .txt, .xlsx); repeat to pack several lists")
	fs.StringVarP(&o.container, "container", "c", "", "Container size as WxHxD, e.g. 120x150x80")
	fs.StringVar(&o.preset, "preset", "", "Use a container preset from the inventory by name")
	fs.StringVar(&o.profile, "profile", "", "Apply a named settings profile")

	fs.Float64Var(&o.step, "step", defaults.GridStep, "Candidate scan step")
	fs.Float64Var(&o.margin, "margin", defaults.SentinelMargin, "Gap above the container for unplaced parts")
	fs.Float64Var(&o.cellSize, "cell-size", defaults.GridCellSize, "Grid index cell size; 0 picks one from the container")
	fs.StringVar(&o.algorithm, "algorithm", string(defaults.Algorithm), "Ordering algorithm: firstfit or genetic")
	fs.StringVar(&o.index, "index", string(defaults.Index), "Occupancy index: list or grid")
}

// packInput is one resolved packing request.
type packInput struct {
	name      string
	parts     []model.Part
	container model.Container
}

// resolve loads every input source named by the flags.
func (o *inputOptions) resolve(fs *pflag.FlagSet, logger klog.Logger) (model.PackSettings, []packInput, error) {
	cfg, err := project.LoadAppConfig(o.configPath)
	if err != nil {
		return model.PackSettings{}, nil, fmt.Errorf("loading config %s: %w", o.configPath, err)
	}

	settings := model.DefaultSettings()
	cfg.ApplyToSettings(&settings)
	container := cfg.DefaultContainer

	var inputs []packInput
	if o.projectPath != "" {
		proj, err := project.Load(o.projectPath)
		if err != nil {
			return model.PackSettings{}, nil, err
		}
		settings = proj.Settings
		container = proj.Container
		inputs = append(inputs, packInput{name: proj.Name, parts: proj.Parts})
	}

	if o.profile != "" {
		profiles, err := project.AllProfiles(project.DefaultProfilesPath())
		if err != nil {
			logger.Error(err, "Could not load custom profiles")
		}
		p := model.FindProfile(profiles, o.profile)
		if p == nil {
			return model.PackSettings{}, nil, fmt.Errorf("unknown profile %q", o.profile)
		}
		settings = p.Settings
	}

	o.applyFlags(fs, &settings)

	switch {
	case o.container != "":
		dims, err := parseDimensions(o.container)
		if err != nil {
			return model.PackSettings{}, nil, err
		}
		container = model.Container{Label: o.container, Dims: dims}
	case o.preset != "":
		path, err := project.DefaultInventoryPath()
		if err != nil {
			return model.PackSettings{}, nil, err
		}
		inv, err := project.LoadInventory(path)
		if err != nil {
			return model.PackSettings{}, nil, fmt.Errorf("loading inventory: %w", err)
		}
		preset := inv.FindContainerByName(o.preset)
		if preset == nil {
			return model.PackSettings{}, nil, fmt.Errorf("no container preset named %q", o.preset)
		}
		container = preset.ToContainer()
	}

	var errs error
	for _, path := range o.partsFiles {
		parts, err := loadParts(path, logger)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		inputs = append(inputs, packInput{name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), parts: parts})
	}
	if errs != nil {
		return model.PackSettings{}, nil, errs
	}
	if len(inputs) == 0 {
		return model.PackSettings{}, nil, errors.New("no parts given: use --parts or --project")
	}

	for i := range inputs {
		inputs[i].container = container
	}
	return settings, inputs, nil
}

// applyFlags copies flags the user set explicitly over settings.
func (o *inputOptions) applyFlags(fs *pflag.FlagSet, s *model.PackSettings) {
	if fs.Changed("step") {
		s.GridStep = o.step
	}
	if fs.Changed("margin") {
		s.SentinelMargin = o.margin
	}
	if fs.Changed("cell-size") {
		s.GridCellSize = o.cellSize
	}
	if fs.Changed("algorithm") {
		s.Algorithm = model.Algorithm(strings.ToLower(o.algorithm))
	}
	if fs.Changed("index") {
		s.Index = model.IndexKind(strings.ToLower(o.index))
	}
}

// loadParts imports one part list. Warnings are logged; any row error
// fails the whole file.
func loadParts(path string, logger klog.Logger) ([]model.Part, error) {
	result := importer.Import(path)
	for _, w := range result.Warnings {
		logger.V(1).Info("Import warning", "file", path, "warning", w)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("%s: %s", path, strings.Join(result.Errors, "; "))
	}
	if len(result.Parts) == 0 {
		return nil, fmt.Errorf("%s: no parts found", path)
	}
	return result.Parts, nil
}

// parseDimensions reads "WxHxD". Separators may be x, X or *.
func parseDimensions(s string) (model.Dimensions, error) {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == 'x' || r == '*'
	})
	if len(fields) != 3 {
		return model.Dimensions{}, fmt.Errorf("container %q: expected WxHxD", s)
	}
	var v [3]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return model.Dimensions{}, fmt.Errorf("container %q: %w", s, err)
		}
		v[i] = n
	}
	dims, err := model.NewDimensions(v[0], v[1], v[2])
	if err != nil {
		return model.Dimensions{}, fmt.Errorf("container %q: %w", s, err)
	}
	return dims, nil
}
