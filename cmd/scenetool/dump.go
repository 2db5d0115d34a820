package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/scenery/internal/config"
	"github.com/Faultbox/scenery/internal/engine/loader"
	"github.com/Faultbox/scenery/internal/engine/model"
	"github.com/Faultbox/scenery/internal/engine/scene"
)

// dumpModel is the serializable summary of a converted model.
// Vertex and texel payloads are summarized by count.
type dumpModel struct {
	ID        string         `yaml:"id"`
	Path      string         `yaml:"path"`
	Container string         `yaml:"container"`
	Stats     loader.Stats   `yaml:"stats"`
	Samplers  []dumpSampler  `yaml:"samplers"`
	Images    []dumpImage    `yaml:"images"`
	Materials []dumpMaterial `yaml:"materials"`
	Meshes    []dumpMesh     `yaml:"meshes"`
	Nodes     []dumpNode     `yaml:"nodes"`
}

type dumpSampler struct {
	Min   string `yaml:"min"`
	Mag   string `yaml:"mag"`
	Mip   string `yaml:"mip"`
	WrapU string `yaml:"wrap_u"`
	WrapV string `yaml:"wrap_v"`
}

type dumpImage struct {
	Name     string `yaml:"name"`
	URI      string `yaml:"uri,omitempty"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Channels int    `yaml:"channels"`
}

type dumpMaterial struct {
	Name        string            `yaml:"name"`
	BaseColor   [4]float32        `yaml:"base_color,flow"`
	Metallic    float32           `yaml:"metallic"`
	Roughness   float32           `yaml:"roughness"`
	AlphaMode   string            `yaml:"alpha_mode"`
	AlphaCutoff *float32          `yaml:"alpha_cutoff,omitempty"`
	Textures    map[string][2]int `yaml:"textures,omitempty"`
}

type dumpMesh struct {
	Name     string                `yaml:"name"`
	Vertices int                   `yaml:"vertices"`
	Indices  int                   `yaml:"indices"`
	Batches  []model.MaterialBatch `yaml:"batches"`
}

type dumpNode struct {
	ID       uint32      `yaml:"id"`
	Kind     string      `yaml:"kind"`
	Mesh     *uint32     `yaml:"mesh,omitempty"`
	Parent   *uint32     `yaml:"parent,omitempty"`
	Children []uint32    `yaml:"children,omitempty,flow"`
	World    [16]float32 `yaml:"world,flow"`
}

func cmdDump(cfg *config.Config, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	format := fs.String("format", "yaml", "Output format: yaml or spew")
	path, err := fileArg(fs, args, "dump [-format yaml|spew] <file>")
	if err != nil {
		return err
	}
	if *format != "yaml" && *format != "spew" {
		return fmt.Errorf("unknown dump format %q", *format)
	}

	m, err := loadModel(cfg, path)
	if err != nil {
		return err
	}
	return writeDump(w, summarize(m), *format)
}

func writeDump(w io.Writer, d dumpModel, format string) error {
	if format == "spew" {
		cs := spew.ConfigState{
			Indent:                  "  ",
			DisableCapacities:       true,
			DisablePointerAddresses: true,
			SortKeys:                true,
		}
		cs.Fdump(w, d)
		return nil
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Close()
}

func summarize(m *loader.Model) dumpModel {
	d := dumpModel{
		ID:        m.ID.String(),
		Path:      m.Path,
		Container: m.Container.String(),
		Stats:     m.Stats(),
	}

	for _, s := range m.Samplers {
		d.Samplers = append(d.Samplers, dumpSampler{
			Min:   s.Min.String(),
			Mag:   s.Mag.String(),
			Mip:   s.Mip.String(),
			WrapU: s.WrapU.String(),
			WrapV: s.WrapV.String(),
		})
	}

	for _, img := range m.Images {
		d.Images = append(d.Images, dumpImage{
			Name:     img.Name,
			URI:      img.URI,
			Width:    img.Width,
			Height:   img.Height,
			Channels: img.Channels,
		})
	}

	for _, mat := range m.Materials {
		dm := dumpMaterial{
			Name:        mat.Name,
			BaseColor:   mat.BaseColorFactor,
			Metallic:    mat.MetallicFactor,
			Roughness:   mat.RoughnessFactor,
			AlphaMode:   mat.AlphaMode.String(),
			AlphaCutoff: mat.AlphaCutoff,
		}
		for slot, ref := range map[string]*model.TextureRef{
			"albedo":             mat.Albedo,
			"metallic_roughness": mat.MetallicRoughness,
			"normal":             mat.Normal,
			"emissive":           mat.Emissive,
			"occlusion":          mat.Occlusion,
		} {
			if ref == nil {
				continue
			}
			if dm.Textures == nil {
				dm.Textures = make(map[string][2]int)
			}
			dm.Textures[slot] = [2]int{int(ref.Image), int(ref.Sampler)}
		}
		d.Materials = append(d.Materials, dm)
	}

	for _, mesh := range m.Meshes {
		d.Meshes = append(d.Meshes, dumpMesh{
			Name:     mesh.Name,
			Vertices: len(mesh.Vertices),
			Indices:  len(mesh.Indices),
			Batches:  mesh.Batches,
		})
	}

	for i := 0; i < m.Scene.Len(); i++ {
		d.Nodes = append(d.Nodes, summarizeNode(m.Scene, scene.NodeID(i)))
	}
	return d
}

func summarizeNode(g *scene.Graph, id scene.NodeID) dumpNode {
	n := g.Node(id)
	dn := dumpNode{
		ID:    uint32(id),
		Kind:  n.Kind.String(),
		World: [16]float32(n.World),
	}
	if n.Kind == scene.KindMesh {
		mesh := n.Mesh
		dn.Mesh = &mesh
	}
	if n.Parent != scene.NoParent {
		parent := uint32(n.Parent)
		dn.Parent = &parent
	}
	for _, c := range n.Children {
		dn.Children = append(dn.Children, uint32(c))
	}
	return dn
}
