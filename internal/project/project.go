package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/piwi3910/BoxStack/internal/model"
)

// FileExtension is the extension used for saved projects.
const FileExtension = ".boxstack"

// ErrInvalidProject is returned by Load when the file parses but cannot be packed.
var ErrInvalidProject = errors.New("invalid project file")

// Save writes the project, including any stored result, as JSON.
func Save(path string, proj model.Project) error {
	if err := writeJSON(path, proj); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// Load reads a project file. Missing settings fields fall back to the
// defaults so older files keep working.
func Load(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project: %w", err)
	}

	proj := model.Project{Settings: model.DefaultSettings()}
	if err := json.Unmarshal(data, &proj); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project: %w", err)
	}
	if err := proj.Container.Dims.Validate(); err != nil {
		return model.Project{}, fmt.Errorf("%w: container: %w", ErrInvalidProject, err)
	}
	if proj.Parts == nil {
		proj.Parts = []model.Part{}
	}
	if proj.Name == "" {
		proj.Name = "Untitled"
	}
	return proj, nil
}
