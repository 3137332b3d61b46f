// modeltool inspects model files without opening a window.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"

	"github.com/Faultbox/assetview/internal/config"
	"github.com/Faultbox/assetview/internal/engine/gpu"
	"github.com/Faultbox/assetview/internal/engine/model"
	"github.com/Faultbox/assetview/internal/engine/texture"
	"github.com/Faultbox/assetview/internal/logger"
	"github.com/Faultbox/assetview/pkg/asset"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	command := args[0]
	args = args[1:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args, stdout)
	case "textures", "tex":
		err = cmdTextures(args, stdout)
	case "dump":
		err = cmdDump(args, stdout)
	case "config":
		err = cmdConfig(args, stdout)
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `modeltool - inspect 3D models the viewer can load

Usage:
  modeltool <command> [options]

Commands:
  info <model>                 Show mesh, vertex and texture counts
  textures <model>             List uploaded textures and failed references
  dump <model>                 Print the imported scene graph
  config [path]                Write the default viewer config

Options (info, textures):
  -v                           Log pipeline activity
  -no-flip-uvs                 Keep texture coordinates as stored
  -max-texture N               Downscale textures larger than N

Examples:
  modeltool info sponza.gltf
  modeltool textures -v house.obj
  modeltool config ~/.config/assetview/config.yaml`)
}

type loadFlags struct {
	verbose    bool
	noFlip     bool
	maxTexture int
}

func parseLoadFlags(name string, args []string) (*flag.FlagSet, *loadFlags, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	lf := &loadFlags{}
	fs.BoolVar(&lf.verbose, "v", false, "Log pipeline activity")
	fs.BoolVar(&lf.noFlip, "no-flip-uvs", false, "Keep texture coordinates as stored")
	fs.IntVar(&lf.maxTexture, "max-texture", 0, "Downscale textures larger than N")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() < 1 {
		return nil, nil, fmt.Errorf("usage: modeltool %s <model>", name)
	}
	return fs, lf, nil
}

// loadHeadless runs the full pipeline against the recording backend.
func loadHeadless(name string, args []string) (*model.Model, *gpu.Headless, error) {
	fs, lf, err := parseLoadFlags(name, args)
	if err != nil {
		return nil, nil, err
	}
	if lf.verbose {
		if err := logger.Init(logger.Options{Level: "debug", Console: true}); err != nil {
			return nil, nil, err
		}
		defer logger.Sync()
	}

	opts := model.DefaultOptions()
	opts.FlipUVs = !lf.noFlip
	opts.MaxTextureSize = lf.maxTexture

	backend := gpu.NewHeadless()
	m, err := model.Load(fs.Arg(0), backend, opts)
	if err != nil {
		return nil, nil, err
	}
	return m, backend, nil
}

func cmdInfo(args []string, w io.Writer) error {
	m, _, err := loadHeadless("info", args)
	if err != nil {
		return err
	}
	defer m.Destroy()

	s := m.Stats()
	b := m.Bounds()
	fmt.Fprintf(w, "Model:     %s\n", m.Path())
	fmt.Fprintf(w, "Meshes:    %d\n", s.Batches)
	fmt.Fprintf(w, "Vertices:  %d\n", s.Vertices)
	fmt.Fprintf(w, "Triangles: %d\n", s.Indices/3)
	fmt.Fprintf(w, "Textures:  %d unique, %d slots, %d cache hits\n", s.UniqueTextures, s.TextureSlots, s.CacheHits)
	if !b.Empty() {
		fmt.Fprintf(w, "Bounds:    %v .. %v\n", b.Min, b.Max)
	}
	if len(s.Failures) > 0 {
		fmt.Fprintf(w, "Failed:    %d texture references\n", len(s.Failures))
	}
	for _, warn := range s.Warnings {
		fmt.Fprintf(w, "Warning:   %s\n", warn)
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MESH\tVERTICES\tTRIANGLES\tTEXTURES")
	for _, batch := range m.Batches() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", batch.Name, len(batch.Vertices), len(batch.Indices)/3, len(batch.Textures))
	}
	return tw.Flush()
}

func cmdTextures(args []string, w io.Writer) error {
	m, backend, err := loadHeadless("textures", args)
	if err != nil {
		return err
	}
	defer m.Destroy()

	// Handles are allocated in upload order, so entries and uploads line up.
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "HANDLE\tKIND\tSIZE\tFORMAT\tSOURCE")
	for i, e := range m.Textures() {
		size, format := "?", "?"
		if i < len(backend.TextureUploads) {
			up := backend.TextureUploads[i]
			size = fmt.Sprintf("%dx%d", up.Width, up.Height)
			format = up.Format.String()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.Handle, e.Kind, size, format, e.Source)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fails := m.Stats().Failures
	if len(fails) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\n%d failed:\n", len(fails))
	for _, f := range fails {
		fmt.Fprintf(w, "  %s\n", f)
	}
	return nil
}

type dumpNode struct {
	Name     string
	Meshes   []string
	Children []dumpNode
}

type dumpMesh struct {
	Name       string
	Vertices   int
	Faces      int
	HasNormals bool
	HasUVs     bool
	Material   string
}

type dumpScene struct {
	Root      dumpNode
	Meshes    []dumpMesh
	Materials map[string]map[string][]string
	Embedded  []string
	Warnings  []string
}

func cmdDump(args []string, w io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: modeltool dump <model>")
	}
	scene, err := asset.Import(args[0], asset.Triangulate)
	if err != nil {
		return err
	}

	cfg := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
	cfg.Fdump(w, buildDump(scene))
	return nil
}

func buildDump(scene *asset.Scene) dumpScene {
	d := dumpScene{
		Root:      dumpTree(scene.Root, scene),
		Materials: make(map[string]map[string][]string),
		Warnings:  scene.Warnings,
	}

	matName := func(i int) string {
		if i < 0 || i >= len(scene.Materials) {
			return ""
		}
		return scene.Materials[i].Name
	}
	for _, m := range scene.Meshes {
		d.Meshes = append(d.Meshes, dumpMesh{
			Name:       m.Name,
			Vertices:   len(m.Positions),
			Faces:      len(m.Faces),
			HasNormals: m.HasNormals(),
			HasUVs:     m.HasTexCoords(),
			Material:   matName(m.MaterialIndex),
		})
	}

	for i, mat := range scene.Materials {
		slots := make(map[string][]string)
		for _, k := range texture.Kinds {
			for j := 0; j < mat.TextureCount(k.Source()); j++ {
				slots[k.String()] = append(slots[k.String()], mat.Texture(k.Source(), j))
			}
		}
		name := mat.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		d.Materials[name] = slots
	}

	for i, t := range scene.Textures {
		desc := fmt.Sprintf("%s %s, %d bytes", asset.EmbeddedID(i), t.FormatHint, len(t.Data))
		if !t.Compressed() {
			desc = fmt.Sprintf("%s raw %dx%d", asset.EmbeddedID(i), t.Width, t.Height)
		}
		d.Embedded = append(d.Embedded, desc)
	}
	return d
}

func dumpTree(n *asset.Node, scene *asset.Scene) dumpNode {
	if n == nil {
		return dumpNode{}
	}
	d := dumpNode{Name: n.Name}
	for _, idx := range n.Meshes {
		if idx >= 0 && idx < len(scene.Meshes) {
			d.Meshes = append(d.Meshes, scene.Meshes[idx].Name)
		}
	}
	for _, c := range n.Children {
		d.Children = append(d.Children, dumpTree(c, scene))
	}
	return d
}

func cmdConfig(args []string, w io.Writer) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	cfg := config.Default()
	if path == "" {
		if err := cfg.Save(); err != nil {
			return err
		}
		path = config.ConfigDir()
	} else if err := cfg.SaveTo(path); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote default config to %s\n", path)
	return nil
}
