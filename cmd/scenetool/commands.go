package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/scenery/internal/config"
	"github.com/Faultbox/scenery/internal/engine/camera"
	"github.com/Faultbox/scenery/internal/engine/loader"
	"github.com/Faultbox/scenery/internal/engine/model"
	"github.com/Faultbox/scenery/internal/engine/scene"
	"github.com/Faultbox/scenery/internal/server"
)

func loadModel(cfg *config.Config, path string) (*loader.Model, error) {
	return loader.Load(path, loader.Options{AllowEmptyNodes: cfg.Loader.AllowEmptyNodes})
}

// fileArg parses fs and returns its single file argument.
func fileArg(fs *flag.FlagSet, args []string, usage string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", errUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: scenetool "+usage)
		return "", errUsage
	}
	return fs.Arg(0), nil
}

func cmdInfo(cfg *config.Config, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	path, err := fileArg(fs, args, "info <file>")
	if err != nil {
		return err
	}

	m, err := loadModel(cfg, path)
	if err != nil {
		return err
	}
	s := m.Stats()

	fmt.Fprintf(w, "Asset:     %s\n", m.Path)
	fmt.Fprintf(w, "Container: %s\n", m.Container)
	fmt.Fprintf(w, "ID:        %s\n", m.ID)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Samplers:  %d\n", s.Samplers)
	fmt.Fprintf(w, "Images:    %d (%d texels)\n", s.Images, s.Texels)
	fmt.Fprintf(w, "Materials: %d\n", s.Materials)
	fmt.Fprintf(w, "Meshes:    %d (%d batches, %d vertices, %d indices)\n", s.Meshes, s.Batches, s.Vertices, s.Indices)
	fmt.Fprintf(w, "Nodes:     %d\n", s.Nodes)

	roots := make([]string, 0, s.Roots)
	for _, id := range m.Scene.Roots() {
		n := m.Scene.Node(id)
		roots = append(roots, fmt.Sprintf("%d (%s)", id, n.Kind))
	}
	fmt.Fprintf(w, "Roots:     %s\n", strings.Join(roots, ", "))

	if lo, hi, ok := m.Bounds(); ok {
		fmt.Fprintf(w, "Bounds:    (%g, %g, %g) - (%g, %g, %g)\n", lo.X(), lo.Y(), lo.Z(), hi.X(), hi.Y(), hi.Z())
	}
	return nil
}

func cmdMeshes(cfg *config.Config, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("meshes", flag.ContinueOnError)
	path, err := fileArg(fs, args, "meshes <file>")
	if err != nil {
		return err
	}

	m, err := loadModel(cfg, path)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tVERTICES\tINDICES\tBATCHES")
	for i, mesh := range m.Meshes {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\n", i, mesh.Name, len(mesh.Vertices), len(mesh.Indices), len(mesh.Batches))
		for _, b := range mesh.Batches {
			fmt.Fprintf(tw, "\t  start=%d count=%d\t\t\tmaterial %d\n", b.StartIndex, b.IndexCount, b.MaterialIndex)
		}
	}
	return tw.Flush()
}

func cmdMaterials(cfg *config.Config, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("materials", flag.ContinueOnError)
	path, err := fileArg(fs, args, "materials <file>")
	if err != nil {
		return err
	}

	m, err := loadModel(cfg, path)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tALPHA\tBASE COLOR\tMETAL/ROUGH\tTEXTURES")
	for i, mat := range m.Materials {
		alpha := mat.AlphaMode.String()
		if mat.AlphaCutoff != nil {
			alpha = fmt.Sprintf("%s(%.2f)", alpha, *mat.AlphaCutoff)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%v\t%.2f/%.2f\t%s\n",
			i, mat.Name, alpha, mat.BaseColorFactor, mat.MetallicFactor, mat.RoughnessFactor, textureList(mat))
	}
	return tw.Flush()
}

func textureList(mat model.Material) string {
	var parts []string
	add := func(slot string, ref *model.TextureRef) {
		if ref != nil {
			parts = append(parts, fmt.Sprintf("%s=img%d/smp%d", slot, ref.Image, ref.Sampler))
		}
	}
	add("albedo", mat.Albedo)
	add("mr", mat.MetallicRoughness)
	add("normal", mat.Normal)
	add("emissive", mat.Emissive)
	add("occlusion", mat.Occlusion)
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func cmdDraw(cfg *config.Config, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("draw", flag.ContinueOnError)
	limit := fs.Int("n", cfg.Inspect.MaxRecords, "Limit output to N records (0 = all)")
	orbit := fs.Bool("orbit", false, "View through an orbit camera fitted to the model bounds")
	yaw := fs.Float64("yaw", 0, "Orbit camera yaw in degrees (with -orbit)")
	path, err := fileArg(fs, args, "draw [-n N] [-orbit [-yaw deg]] <file>")
	if err != nil {
		return err
	}

	m, err := loadModel(cfg, path)
	if err != nil {
		return err
	}

	view := mgl32.Ident4()
	if *orbit {
		cam := camera.NewOrbitCamera()
		if lo, hi, ok := m.Bounds(); ok {
			cam.FitToBounds(lo, hi)
		}
		cam.Orbit(mgl32.DegToRad(float32(*yaw)), 0)
		view = cam.ViewMatrix()
		eye := cam.Position()
		fmt.Fprintf(w, "Camera: eye=(%g, %g, %g) center=(%g, %g, %g)\n",
			eye.X(), eye.Y(), eye.Z(), cam.Center.X(), cam.Center.Y(), cam.Center.Z())
	}

	var ctx scene.DrawContext
	m.Draw(view, &ctx)

	for i, rec := range ctx.Records {
		if *limit > 0 && i >= *limit {
			fmt.Fprintf(w, "... and %d more\n", len(ctx.Records)-i)
			break
		}
		pos := rec.Transform.Col(3)
		fmt.Fprintf(w, "%4d  first=%-6d count=%-6d material=%-3d origin=(%g, %g, %g)\n",
			i, rec.FirstIndex, rec.IndexCount, rec.MaterialIndex, pos.X(), pos.Y(), pos.Z())
	}
	fmt.Fprintf(w, "Total: %d records\n", len(ctx.Records))
	return nil
}

func cmdServe(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: scenetool serve <file...>")
		return errUsage
	}

	reg := server.NewRegistry()
	for _, path := range args {
		m, err := loadModel(cfg, path)
		if err != nil {
			return err
		}
		reg.Add(m)
	}

	load := func(path string) (*loader.Model, error) { return loadModel(cfg, path) }
	return server.New(reg, load, cfg.Inspect.MaxRecords).ListenAndServe(cfg.Server.Addr)
}

func cmdConfig(cfg *config.Config, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	save := fs.String("save", "", "Write the effective config to this path (\"user\" = config dir)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	switch *save {
	case "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	case "user":
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved to %s\n", config.ConfigDir())
	default:
		if err := cfg.SaveTo(*save); err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved to %s\n", *save)
	}
	return nil
}
