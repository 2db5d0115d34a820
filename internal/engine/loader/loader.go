// Package loader converts a glTF asset into a render-ready Model.
package loader

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/scenery/internal/engine/model"
	"github.com/Faultbox/scenery/internal/engine/scene"
	"github.com/Faultbox/scenery/internal/engine/texture"
	"github.com/Faultbox/scenery/internal/logger"
	"github.com/Faultbox/scenery/pkg/formats"
)

// Options controls asset conversion.
type Options struct {
	// AllowEmptyNodes loads nodes without a mesh as transform-only groups.
	AllowEmptyNodes bool
}

// Model is a converted asset. It must not be modified after Load returns.
type Model struct {
	ID        uuid.UUID
	Path      string
	Container formats.Container

	Samplers  []model.Sampler
	Images    []model.Image
	Materials []model.Material
	Meshes    []model.MeshAsset
	Scene     *scene.Graph
}

// Load reads the .gltf or .glb file at path and converts it.
// Every error wraps one of model.ErrParse, model.ErrUnsupported or
// model.ErrMissingReference.
func Load(path string, opts Options) (*Model, error) {
	log := logger.Named("loader")
	start := time.Now()

	doc, container, err := formats.OpenGLTF(path)
	if err != nil {
		return nil, errors.Wrapf(fmt.Errorf("%w: %w", model.ErrParse, err), "load %s", path)
	}
	log.Info("asset parsed",
		zap.String("path", path),
		zap.Stringer("container", container),
		zap.Int("meshes", len(doc.Meshes)),
		zap.Int("nodes", len(doc.Nodes)))

	m, err := FromDocument(doc, filepath.Dir(path), opts)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	m.Path = path
	m.Container = container

	log.Info("model loaded",
		zap.String("path", path),
		zap.Stringer("id", m.ID),
		zap.Duration("elapsed", time.Since(start)))
	return m, nil
}

// FromDocument converts an already parsed document. Relative image URIs
// resolve against baseDir.
func FromDocument(doc *gltf.Document, baseDir string, opts Options) (*Model, error) {
	log := logger.Named("loader")

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, errors.Wrap(err, "generate model id")
	}
	m := &Model{ID: id}

	// Samplers
	m.Samplers = make([]model.Sampler, 0, len(doc.Samplers)+1)
	for _, s := range doc.Samplers {
		m.Samplers = append(m.Samplers, model.ExtractSampler(model.SamplerSourceFromGLTF(s)))
	}

	// Images
	if m.Images, err = texture.LoadImages(doc, baseDir); err != nil {
		return nil, errors.Wrap(err, "textures")
	}

	// Materials
	textures := model.NewTextureTable(doc.Textures, len(m.Images), m.Samplers)
	m.Materials = make([]model.Material, 0, len(doc.Materials))
	for i, src := range doc.Materials {
		if src == nil {
			return nil, errors.Wrapf(model.ErrParse, "material %d is null", i)
		}
		mat, err := model.ExtractMaterial(src, textures)
		if err != nil {
			return nil, errors.Wrapf(err, "material %d (%q)", i, src.Name)
		}
		m.Materials = append(m.Materials, mat)
	}
	m.Samplers = textures.Samplers()

	// Meshes
	builder := model.NewMeshBuilder(model.DocumentAccessors{Doc: doc}, len(m.Materials))
	m.Meshes = make([]model.MeshAsset, 0, len(doc.Meshes))
	for i, src := range doc.Meshes {
		if src == nil {
			return nil, errors.Wrapf(model.ErrParse, "mesh %d is null", i)
		}
		mesh, err := builder.Build(i, src)
		if err != nil {
			return nil, errors.Wrap(err, "meshes")
		}
		log.Debug("mesh built",
			zap.String("name", mesh.Name),
			zap.Int("batches", len(mesh.Batches)),
			zap.Int("vertices", len(mesh.Vertices)),
			zap.Int("indices", len(mesh.Indices)))
		m.Meshes = append(m.Meshes, mesh)
	}

	// Scene graph
	g, err := scene.Build(doc.Nodes, len(m.Meshes), scene.BuildOptions{AllowEmptyNodes: opts.AllowEmptyNodes})
	if err != nil {
		return nil, errors.Wrap(err, "scene build")
	}
	if err := g.Link(doc.Nodes); err != nil {
		return nil, errors.Wrap(err, "scene hierarchy")
	}
	if err := g.Finalize(); err != nil {
		return nil, errors.Wrap(err, "scene finalize")
	}
	m.Scene = g

	return m, nil
}

// Draw appends the model's render records for one frame to ctx.
// Safe for concurrent use with distinct contexts.
func (m *Model) Draw(view mgl32.Mat4, ctx *scene.DrawContext) {
	m.Scene.Accumulate(view, m.Meshes, ctx)
}

// Bounds returns the world-space bounding box of every drawn vertex.
// ok is false when the model draws nothing.
func (m *Model) Bounds() (lo, hi mgl32.Vec3, ok bool) {
	for i := 0; i < m.Scene.Len(); i++ {
		n := m.Scene.Node(scene.NodeID(i))
		if n.Kind != scene.KindMesh || int(n.Mesh) >= len(m.Meshes) {
			continue
		}
		for _, v := range m.Meshes[n.Mesh].Vertices {
			p := mgl32.TransformCoordinate(v.Position, n.World)
			if !ok {
				lo, hi, ok = p, p, true
				continue
			}
			for c := 0; c < 3; c++ {
				lo[c] = min(lo[c], p[c])
				hi[c] = max(hi[c], p[c])
			}
		}
	}
	return lo, hi, ok
}

// Stats summarizes a model's contents.
type Stats struct {
	Samplers  int `json:"samplers" yaml:"samplers"`
	Images    int `json:"images" yaml:"images"`
	Materials int `json:"materials" yaml:"materials"`
	Meshes    int `json:"meshes" yaml:"meshes"`
	Nodes     int `json:"nodes" yaml:"nodes"`
	Roots     int `json:"roots" yaml:"roots"`
	Batches   int `json:"batches" yaml:"batches"`
	Vertices  int `json:"vertices" yaml:"vertices"`
	Indices   int `json:"indices" yaml:"indices"`
	Texels    int `json:"texels" yaml:"texels"`
}

// Stats counts the model's resources.
func (m *Model) Stats() Stats {
	s := Stats{
		Samplers:  len(m.Samplers),
		Images:    len(m.Images),
		Materials: len(m.Materials),
		Meshes:    len(m.Meshes),
		Nodes:     m.Scene.Len(),
		Roots:     len(m.Scene.Roots()),
	}
	for _, mesh := range m.Meshes {
		s.Batches += len(mesh.Batches)
		s.Vertices += len(mesh.Vertices)
		s.Indices += len(mesh.Indices)
	}
	for _, img := range m.Images {
		s.Texels += img.Width * img.Height
	}
	return s
}
