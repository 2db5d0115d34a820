package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/scenery/internal/config"
	"github.com/Faultbox/scenery/internal/engine/model"
)

// writeQuad writes a binary asset with one quad mesh drawn by two nodes.
func writeQuad(t *testing.T) string {
	t.Helper()

	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint32{0, 1, 2, 0, 2, 3})

	doc.Materials = []*gltf.Material{{Name: "stone"}}
	doc.Meshes = []*gltf.Mesh{{Name: "quad", Primitives: []*gltf.Primitive{{
		Indices:    gltf.Index(idx),
		Attributes: map[string]uint32{"POSITION": pos},
		Material:   gltf.Index(0),
	}}}}
	doc.Nodes = []*gltf.Node{
		{Name: "base", Mesh: gltf.Index(0), Children: []uint32{1}},
		{Name: "top", Mesh: gltf.Index(0), Translation: [3]float32{0, 3, 0}},
	}

	path := filepath.Join(t.TempDir(), "quad.glb")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc := gltf.NewEncoder(f)
	enc.AsBinary = true
	require.NoError(t, enc.Encode(doc))
	require.NoError(t, f.Close())
	return path
}

func runCommand(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(cfg, args, &out)
	return out.String(), err
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{fmt.Errorf("load: %w", model.ErrParse), 2},
		{fmt.Errorf("image: %w", model.ErrUnsupported), 3},
		{fmt.Errorf("material: %w", model.ErrMissingReference), 4},
		{errUsage, 1},
		{errors.New("boom"), 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCode(tt.err), "%v", tt.err)
	}
}

func TestRun_Info(t *testing.T) {
	path := writeQuad(t)

	out, err := runCommand(t, config.Default(), "info", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Container: glb")
	assert.Contains(t, out, "Meshes:    1 (1 batches, 4 vertices, 6 indices)")
	assert.Contains(t, out, "Nodes:     2")
	assert.Contains(t, out, "Roots:     0 (Mesh)")
	assert.Contains(t, out, "Bounds:    (0, 0, 0) - (1, 4, 0)")
}

func TestRun_MeshesAndMaterials(t *testing.T) {
	path := writeQuad(t)

	out, err := runCommand(t, config.Default(), "meshes", path)
	require.NoError(t, err)
	assert.Contains(t, out, "quad0")
	assert.Contains(t, out, "start=0 count=6")

	out, err = runCommand(t, config.Default(), "materials", path)
	require.NoError(t, err)
	assert.Contains(t, out, "stone")
	assert.Contains(t, out, "Opaque")
}

func TestRun_Draw(t *testing.T) {
	path := writeQuad(t)

	out, err := runCommand(t, config.Default(), "draw", path)
	require.NoError(t, err)
	assert.Contains(t, out, "origin=(0, 3, 0)")
	assert.Contains(t, out, "Total: 2 records")

	out, err = runCommand(t, config.Default(), "draw", "-n", "1", path)
	require.NoError(t, err)
	assert.Contains(t, out, "... and 1 more")

	cfg := config.Default()
	cfg.Inspect.MaxRecords = 1
	out, err = runCommand(t, cfg, "draw", path)
	require.NoError(t, err)
	assert.Contains(t, out, "... and 1 more")

	out, err = runCommand(t, config.Default(), "draw", "-orbit", path)
	require.NoError(t, err)
	assert.Contains(t, out, "center=(0.5, 2, 0)")
	assert.Contains(t, out, "Total: 2 records")
}

func TestRun_DumpYAML(t *testing.T) {
	path := writeQuad(t)

	out, err := runCommand(t, config.Default(), "dump", path)
	require.NoError(t, err)

	var d dumpModel
	require.NoError(t, yaml.Unmarshal([]byte(out), &d))
	assert.Equal(t, path, d.Path)
	assert.Equal(t, "glb", d.Container)
	require.Len(t, d.Nodes, 2)
	assert.Equal(t, []uint32{1}, d.Nodes[0].Children)
	require.NotNil(t, d.Nodes[1].Parent)
	assert.Equal(t, uint32(0), *d.Nodes[1].Parent)
	assert.Equal(t, float32(3), d.Nodes[1].World[13])
	require.Len(t, d.Materials, 1)
	assert.Equal(t, "Opaque", d.Materials[0].AlphaMode)
}

func TestRun_DumpSpew(t *testing.T) {
	path := writeQuad(t)

	out, err := runCommand(t, config.Default(), "dump", "-format", "spew", path)
	require.NoError(t, err)
	assert.Contains(t, out, "main.dumpModel")
	assert.Contains(t, out, `Name: (string) (len=5) "quad0"`)

	_, err = runCommand(t, config.Default(), "dump", "-format", "xml", path)
	assert.Error(t, err)
}

func TestRun_Config(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Addr = ":9999"

	out, err := runCommand(t, cfg, "config")
	require.NoError(t, err)
	assert.Contains(t, out, `addr: :9999`)

	path := filepath.Join(t.TempDir(), "nested", "scenery.yaml")
	_, err = runCommand(t, cfg, "config", "-save", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var saved config.Config
	require.NoError(t, yaml.Unmarshal(data, &saved))
	assert.Equal(t, *cfg, saved)
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.gltf")
	require.NoError(t, os.WriteFile(broken, []byte("{not json"), 0o644))

	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"unknown command", []string{"explode"}, 1},
		{"missing file argument", []string{"info"}, 1},
		{"serve without files", []string{"serve"}, 1},
		{"missing asset", []string{"info", filepath.Join(dir, "absent.glb")}, 2},
		{"malformed asset", []string{"meshes", broken}, 2},
		{"unknown extension", []string{"draw", filepath.Join(dir, "scene.obj")}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, config.Default(), tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, exitCode(err))
		})
	}
}
