// Package export turns a scene graph into an ordered stream of records.
//
// One Exporter lives for exactly one export. It owns the registry that
// decides between definitions and references, and it emits every record
// through a single emitter so that nothing is ever referenced before it has
// been defined.
package export

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/blendexport/internal/emit"
	"github.com/Faultbox/blendexport/internal/registry"
	"github.com/Faultbox/blendexport/internal/walker"
	"github.com/Faultbox/blendexport/internal/xform"
	"github.com/Faultbox/blendexport/pkg/scene"
)

// Defaults for particle emitters that do not name their own texture or count.
const (
	DefaultEmitterTexture = "sprites/Steam_A.png"
	DefaultEmitterCount   = 100
)

// ErrAlreadyRun is returned when an Exporter is run a second time.
var ErrAlreadyRun = errors.New("exporter already run")

// PathResolver turns a texture path into an absolute image path.
type PathResolver interface {
	Resolve(path string) (string, error)
}

// EmitterDefaults fills particle emitter fields the source leaves empty.
type EmitterDefaults struct {
	Texture string
	Count   int
}

// Options configures an export.
type Options struct {
	// Logger receives skip warnings and the export summary. Nil disables logging.
	Logger *zap.Logger

	// Profile names the coordinate profile; empty selects xform.DefaultProfile.
	Profile string

	// PackImages embeds loaded images into the destination file as PNG.
	PackImages bool

	// Workers bounds content-key precomputation. Values <= 1 compute inline.
	Workers int

	// Resolver locates texture images. Nil makes relative paths absolute
	// against the working directory without checking they exist.
	Resolver PathResolver

	Emitter EmitterDefaults
}

// Skip describes a scene feature left out of the output.
type Skip struct {
	Node    string
	Feature string
	Reason  string
}

func (s Skip) String() string {
	return fmt.Sprintf("%s: %s skipped: %s", s.Node, s.Feature, s.Reason)
}

// Result summarises a finished export.
type Result struct {
	Profile   string
	Records   int
	Nodes     int
	Meshes    registry.Stats
	Materials registry.Stats
	Textures  registry.Stats
	Images    registry.Stats
	Skipped   []Skip
}

// Exporter holds the state of one export.
type Exporter struct {
	log     *zap.Logger
	opts    Options
	profile xform.Profile
	reg     *registry.Registry
	out     *emit.Emitter
	scene   *scene.Scene

	keys       map[*scene.Mesh]int32
	texImages  map[string]string // texture identity -> image identity
	faceImages map[string]string // material identity -> diffuse image identity
	meshUV0    map[string]bool   // mesh identity -> defined with a uv0 layer

	result Result
}

// New creates an exporter writing to sink.
func New(sink emit.Sink, opts Options) (*Exporter, error) {
	profile, err := xform.Lookup(opts.Profile)
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Emitter.Texture == "" {
		opts.Emitter.Texture = DefaultEmitterTexture
	}
	if opts.Emitter.Count <= 0 {
		opts.Emitter.Count = DefaultEmitterCount
	}

	return &Exporter{
		log:        log.Named("export"),
		opts:       opts,
		profile:    profile,
		reg:        registry.New(),
		out:        emit.New(sink),
		texImages:  make(map[string]string),
		faceImages: make(map[string]string),
		meshUV0:    make(map[string]bool),
		result:     Result{Profile: profile.Name},
	}, nil
}

// Export writes sc to sink. It is shorthand for New followed by Run.
func Export(ctx context.Context, sc *scene.Scene, sink emit.Sink, opts Options) (Result, error) {
	e, err := New(sink, opts)
	if err != nil {
		return Result{}, err
	}
	return e.Run(ctx, sc)
}

// Run exports sc. An Exporter runs once; a second call fails.
func (e *Exporter) Run(ctx context.Context, sc *scene.Scene) (Result, error) {
	if e.scene != nil {
		return Result{}, ErrAlreadyRun
	}
	e.scene = sc

	meshes, err := collectMeshes(sc.Roots)
	if err != nil {
		return Result{}, err
	}
	e.keys, err = contentKeys(ctx, meshes, e.opts.Workers)
	if err != nil {
		return Result{}, fmt.Errorf("computing mesh keys: %w", err)
	}
	e.log.Debug("mesh keys ready",
		zap.Int("meshes", len(meshes)),
		zap.Int("workers", e.opts.Workers))

	err = walker.Walk(sc.Roots, func(n, parent *scene.Node) error {
		if parent == nil {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		return e.visit(n, parent)
	})
	if err != nil {
		return e.finish(), err
	}

	res := e.finish()
	e.log.Info("export finished",
		zap.String("profile", res.Profile),
		zap.Int("records", res.Records),
		zap.Int("nodes", res.Nodes),
		zap.Int("meshes_defined", res.Meshes.Defined),
		zap.Int("meshes_reused", res.Meshes.Reused),
		zap.Int("materials", res.Materials.Defined),
		zap.Int("skipped", len(res.Skipped)))
	return res, nil
}

func (e *Exporter) finish() Result {
	r := e.result
	r.Records = e.out.Cursor()
	r.Meshes = e.reg.Stats(registry.Mesh)
	r.Materials = e.reg.Stats(registry.Material)
	r.Textures = e.reg.Stats(registry.Texture)
	r.Images = e.reg.Stats(registry.Image)
	return r
}

func (e *Exporter) put(r emit.Record) error {
	return e.out.Emit(r)
}

// skip records a feature left out of the output and keeps going.
func (e *Exporter) skip(node, feature, reason string) {
	e.result.Skipped = append(e.result.Skipped, Skip{Node: node, Feature: feature, Reason: reason})
	e.log.Warn("feature skipped",
		zap.String("node", node),
		zap.String("feature", feature),
		zap.String("reason", reason))
}

func (e *Exporter) resolve(path string) (string, error) {
	if e.opts.Resolver != nil {
		return e.opts.Resolver.Resolve(path)
	}
	return filepath.Abs(filepath.FromSlash(path))
}
