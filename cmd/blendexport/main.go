// blendexport converts scene files into Python scripts that rebuild the scene
// inside Blender.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/blendexport/internal/assets"
	"github.com/Faultbox/blendexport/internal/config"
	"github.com/Faultbox/blendexport/internal/emit"
	"github.com/Faultbox/blendexport/internal/export"
	"github.com/Faultbox/blendexport/internal/logger"
	"github.com/Faultbox/blendexport/internal/output"
	"github.com/Faultbox/blendexport/internal/source"
	"github.com/Faultbox/blendexport/internal/walker"
	"github.com/Faultbox/blendexport/internal/xform"
	"github.com/Faultbox/blendexport/pkg/scene"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "export", "x":
		cmdExport(args)
	case "inspect", "info":
		cmdInspect(args)
	case "profiles":
		cmdProfiles()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`blendexport - scene to Blender script exporter

Usage:
  blendexport <command> [options]

Commands:
  export [options] <scene>     Write a Blender Python script for the scene
  inspect [options] <scene>    Show the node tree and what an export would write
  profiles                     List coordinate profiles

Scenes are YAML manifests (.yaml, .yml) or glTF files (.gltf, .glb).

Options:
  -config <file>    Config file (default ./blendexport.yaml, then the user config dir)
  -debug            Enable debug logging
  -profile <name>   Coordinate profile
  -out <file>       Output script, "-" for stdout
  -workers <n>      Goroutines used to hash meshes

Examples:
  blendexport export -out level.py level.yaml
  blendexport export -profile mirror-x -out - props.glb > props.py
  blendexport inspect level.yaml`)
}

// setup parses the shared flags and brings up config and logging.
func setup(name string, args []string) (*config.Config, string) {
	var flags config.Flags
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	flags.Register(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: blendexport %s [options] <scene>\n", name)
		os.Exit(1)
	}

	cfg, err := config.Load(&flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg, fs.Arg(0)
}

// loadScene reads the scene and builds a resolver searching the configured
// paths, then the scene's own directory, which wins.
func loadScene(cfg *config.Config, path string) (*scene.Scene, *assets.Resolver, error) {
	sc, err := source.Load(path)
	if err != nil {
		return nil, nil, err
	}

	resolver := assets.NewResolver()
	for _, dir := range cfg.Assets.SearchPaths {
		if err := resolver.AddSearchPath(dir); err != nil {
			logger.Warn("ignoring search path", zap.String("path", dir), zap.Error(err))
		}
	}
	if err := resolver.AddSearchPath(filepath.Dir(path)); err != nil {
		return nil, nil, err
	}
	return sc, resolver, nil
}

func exportOptions(cfg *config.Config, resolver *assets.Resolver) export.Options {
	return export.Options{
		Logger:     logger.Log,
		Profile:    cfg.Export.Profile,
		PackImages: cfg.Export.PackImages,
		Workers:    cfg.Export.Workers,
		Resolver:   resolver,
		Emitter: export.EmitterDefaults{
			Texture: cfg.Export.Emitter.Texture,
			Count:   cfg.Export.Emitter.Count,
		},
	}
}

func cmdExport(args []string) {
	cfg, path := setup("export", args)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sc, resolver, err := loadScene(cfg, path)
	if err != nil {
		logger.Error("loading scene failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	opts := exportOptions(cfg, resolver)
	var result export.Result
	write := func(w io.Writer) error {
		script := emit.NewScript(w)
		var err error
		if result, err = export.Export(ctx, sc, script, opts); err != nil {
			return err
		}
		return script.Flush()
	}

	if cfg.Export.Output == "-" {
		err = write(os.Stdout)
	} else {
		err = output.WriteAtomic(cfg.Export.Output, write)
	}
	if err != nil {
		logger.Error("export failed", zap.String("scene", path), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	hits, misses := resolver.Stats()
	logger.Debug("asset lookups", zap.Int("cache_hits", hits), zap.Int("cache_misses", misses))

	if cfg.Export.Output != "-" {
		fmt.Printf("Wrote %s: %d records, %d nodes, %d meshes (%d reused), %d skipped\n",
			cfg.Export.Output, result.Records, result.Nodes,
			result.Meshes.Defined, result.Meshes.Reused, len(result.Skipped))
	}
}

func cmdInspect(args []string) {
	cfg, path := setup("inspect", args)
	defer logger.Sync()

	sc, resolver, err := loadScene(cfg, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Scene:     %s\n", path)
	fmt.Printf("Lightmaps: %d\n", len(sc.Lightmaps))
	fmt.Println()

	depth := make(map[*scene.Node]int)
	err = walker.Walk(sc.Roots, func(n, parent *scene.Node) error {
		if parent != nil {
			depth[n] = depth[parent] + 1
		}
		fmt.Printf("%s%s [%s]\n", strings.Repeat("  ", depth[n]), n.ID(), scene.Classify(n))
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// A dry run into a recorder shows what an export would write.
	opts := exportOptions(cfg, resolver)
	opts.Logger = nil
	var rec emit.Recorder
	result, err := export.Export(context.Background(), sc, &rec, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("Profile: %s\n", result.Profile)
	fmt.Printf("Records: %d\n", result.Records)
	counts := rec.CountByKind()
	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Printf("  %-26s %d\n", kind, counts[kind])
	}

	if len(result.Skipped) > 0 {
		fmt.Println()
		fmt.Println("Skipped:")
		for _, s := range result.Skipped {
			fmt.Printf("  %s\n", s)
		}
	}
}

func cmdProfiles() {
	for i, p := range xform.Profiles() {
		marker := " "
		if i == 0 {
			marker = "*"
		}
		fmt.Printf("%s %-12s %s\n", marker, p.Name, p.Description)
	}
}
