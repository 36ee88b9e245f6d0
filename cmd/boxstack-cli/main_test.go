package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BoxStack/internal/model"
	"github.com/piwi3910/BoxStack/internal/project"
)

func init() {
	color.NoColor = true
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseDimensions(t *testing.T) {
	d, err := parseDimensions("120x150X80")
	require.NoError(t, err)
	assert.Equal(t, model.Dimensions{Width: 120, Height: 150, Depth: 80}, d)

	d, err = parseDimensions("1.5*2*3")
	require.NoError(t, err)
	assert.Equal(t, 1.5, d.Width)

	for _, bad := range []string{"10x10", "axbxc", "10x0x10", "10x-1x10"} {
		_, err := parseDimensions(bad)
		assert.Error(t, err, bad)
	}
}

func TestJobOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "layout-crate.pdf"), jobOutputPath(filepath.Join("out", "layout.pdf"), "crate"))
	assert.Equal(t, "mesh-a", jobOutputPath("mesh", "a"))
}

func TestPackCommand(t *testing.T) {
	dir := t.TempDir()
	parts := writeFile(t, dir, "parts.txt", "Slab: 5 x 2 x 5 5\nBeam, 20, 1, 1\n")
	jsonPath := filepath.Join(dir, "result.json")
	promPath := filepath.Join(dir, "boxstack.prom")

	out, err := runCLI(t, "pack",
		"--config", filepath.Join(dir, "config.json"),
		"--container", "10x4x10",
		"--parts", parts,
		"--json", jsonPath,
		"--stl", filepath.Join(dir, "result.stl"),
		"--metrics-textfile", promPath,
	)
	require.NoError(t, err)

	assert.Contains(t, out, "5 of 6 parts fit in container")
	assert.Contains(t, out, "Unplaced")

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var result model.PackResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Len(t, result.Placements, 6)
	assert.Equal(t, 5, result.PlacedCount())

	for _, p := range []string{"result.stl", "boxstack.prom"} {
		_, err := os.Stat(filepath.Join(dir, p))
		assert.NoError(t, err, p)
	}
}

func TestPackCommandMultipleLists(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "label,width,height,depth,qty\nCube,1,1,1,2\n")
	b := writeFile(t, dir, "b.txt", "Big 2x2x2\n")

	out, err := runCLI(t, "pack",
		"--config", filepath.Join(dir, "config.json"),
		"--container", "2x2x2",
		"--parts", a, "--parts", b,
		"--dxf", filepath.Join(dir, "layout.dxf"),
	)
	require.NoError(t, err)
	assert.Contains(t, out, "== a ==")
	assert.Contains(t, out, "== b ==")

	for _, name := range []string{"layout-a.dxf", "layout-b.dxf"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestUniqueJobNames(t *testing.T) {
	inputs := []packInput{{name: "parts"}, {name: "parts"}, {name: "parts-2"}, {name: "other"}}
	assert.Equal(t, []string{"parts", "parts-2-2", "parts-2", "other"}, uniqueJobNames(inputs))
}

func TestPackCommandSameBaseName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "a"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "b"), 0755))
	a := writeFile(t, filepath.Join(dir, "a"), "parts.csv", "label,width,height,depth,qty\nCube,1,1,1,1\n")
	b := writeFile(t, filepath.Join(dir, "b"), "parts.csv", "label,width,height,depth,qty\nSlab,2,1,2,1\n")

	out, err := runCLI(t, "pack",
		"--config", filepath.Join(dir, "config.json"),
		"--container", "2x2x2",
		"--parts", a, "--parts", b,
		"--dxf", filepath.Join(dir, "layout.dxf"),
	)
	require.NoError(t, err)
	assert.Contains(t, out, "== parts ==")
	assert.Contains(t, out, "== parts-2 ==")

	for _, name := range []string{"layout-parts.dxf", "layout-parts-2.dxf"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestPackCommandJSONToStdout(t *testing.T) {
	dir := t.TempDir()
	parts := writeFile(t, dir, "parts.txt", "Cube, 1, 1, 1\n")

	out, err := runCLI(t, "pack",
		"--config", filepath.Join(dir, "config.json"),
		"--container", "1x1x1",
		"--parts", parts,
		"--json", "-",
	)
	require.NoError(t, err)

	var result model.PackResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.PlacedCount())
}

func TestPackCommandFromProject(t *testing.T) {
	dir := t.TempDir()
	proj := model.NewProject()
	proj.Name = "crate"
	proj.Container = model.NewContainer("Crate", 10, 4, 10)
	proj.Parts = []model.Part{model.NewPart("Slab", 5, 2, 5, 4)}
	path := filepath.Join(dir, "crate"+project.FileExtension)
	require.NoError(t, project.Save(path, proj))

	out, err := runCLI(t, "pack", "--config", filepath.Join(dir, "config.json"), "--project", path, "--index", "grid")
	require.NoError(t, err)
	assert.Contains(t, out, "4 of 4 parts fit in container")
}

func TestPackCommandErrors(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "config.json")
	bad := writeFile(t, dir, "bad.txt", "Cube, 0, 1, 1\n")
	good := writeFile(t, dir, "good.txt", "Cube, 1, 1, 1\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no parts", []string{"--container", "1x1x1"}, "no parts given"},
		{"bad container", []string{"--container", "1x1", "--parts", good}, "expected WxHxD"},
		{"bad part", []string{"--container", "1x1x1", "--parts", bad}, "must be positive"},
		{"bad algorithm", []string{"--container", "1x1x1", "--parts", good, "--algorithm", "random"}, "unknown algorithm"},
		{"bad profile", []string{"--container", "1x1x1", "--parts", good, "--profile", "nope"}, "unknown profile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"pack", "--config", config}, tt.args...)
			_, err := runCLI(t, args...)
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), err.Error())
		})
	}
}

func TestCompareCommand(t *testing.T) {
	dir := t.TempDir()
	parts := writeFile(t, dir, "parts.txt", "Slab: 5 x 2 x 5 5\n")

	out, err := runCLI(t, "compare", "--config", filepath.Join(dir, "config.json"), "--container", "10x4x10", "--parts", parts)
	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, "Genetic Algorithm")
	assert.Contains(t, out, "Grid Index")
}

func TestEstimateCommand(t *testing.T) {
	dir := t.TempDir()
	parts := writeFile(t, dir, "parts.txt", "Slab: 5 x 2 x 5 8\nPole, 30, 1, 1\n")

	out, err := runCLI(t, "estimate", "--config", filepath.Join(dir, "config.json"), "--container", "10x4x10", "--parts", parts, "--waste", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Containers (minimum): 1")
	assert.Contains(t, out, "Oversized: Pole")
}
