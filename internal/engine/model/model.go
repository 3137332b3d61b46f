package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/assetview/internal/engine/gpu"
	"github.com/Faultbox/assetview/internal/engine/texture"
	"github.com/Faultbox/assetview/internal/logger"
	"github.com/Faultbox/assetview/pkg/asset"
)

// ErrImport is wrapped by every ImportError.
var ErrImport = errors.New("model import failed")

// ImportError reports a scene that could not be imported. Nothing of the
// model is usable when it is returned.
type ImportError struct {
	Path       string
	Diagnostic string
	Err        error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s: %s", e.Path, e.Diagnostic)
}

func (e *ImportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrImport}
	}
	return []error{ErrImport, e.Err}
}

// Options controls Load.
type Options struct {
	// FlipUVs flips texture V so images load top-down.
	FlipUVs bool
	// Decoder decodes texture images. Defaults to texture.ImageDecoder.
	Decoder texture.Decoder
	// MaxTextureSize downscales larger textures when Decoder is nil.
	MaxTextureSize int
}

// DefaultOptions returns the options the viewer uses.
func DefaultOptions() Options {
	return Options{FlipUVs: true}
}

// Model is an imported asset ready to draw. Its batches and texture cache
// come from a single Load and are read-only afterwards.
type Model struct {
	path    string
	baseDir string
	backend gpu.Backend

	batches []*Batch
	cache   *texture.Cache
	bounds  Bounds
	stats   Stats

	destroyed bool
}

// Load imports path and uploads its meshes and textures through backend.
//
// On import failure Load returns an empty model together with an
// *ImportError. The empty model draws nothing and may be destroyed.
func Load(path string, backend gpu.Backend, opts Options) (*Model, error) {
	m := &Model{
		path:    path,
		baseDir: filepath.Dir(path),
		backend: backend,
		cache:   texture.NewCache(),
		bounds:  EmptyBounds(),
	}

	start := time.Now()
	flags := asset.Triangulate
	if opts.FlipUVs {
		flags |= asset.FlipUVs
	}

	scene, err := asset.Import(path, flags)
	if err == nil {
		err = checkScene(scene)
	}
	if err != nil {
		ierr := &ImportError{Path: path, Diagnostic: err.Error(), Err: err}
		logger.Error("model import failed", zap.String("path", path), zap.Error(err))
		return m, ierr
	}

	decoder := opts.Decoder
	if decoder == nil {
		decoder = texture.ImageDecoder{MaxSize: opts.MaxTextureSize}
	}
	loader := texture.NewLoader(m.cache, decoder, backend, m.baseDir, scene)
	builder := NewBuilder(loader)

	for _, batch := range Walk(scene.Root, scene, builder) {
		if len(batch.Indices) == 0 {
			logger.Warn("empty mesh skipped", zap.String("mesh", batch.Name))
			continue
		}
		mesh, err := backend.UploadMesh(batch.Interleave(), batch.Indices)
		if err != nil {
			logger.Warn("mesh upload failed", zap.String("mesh", batch.Name), zap.Error(err))
			continue
		}
		batch.GPU = mesh
		m.batches = append(m.batches, batch)
		m.bounds.Union(batch.Bounds)
	}

	m.stats = Stats{
		Batches:        len(m.batches),
		UniqueTextures: m.cache.Len(),
		CacheHits:      loader.CacheHits(),
		Failures:       loader.Failures(),
		Warnings:       scene.Warnings,
	}
	for _, b := range m.batches {
		m.stats.Vertices += len(b.Vertices)
		m.stats.Indices += len(b.Indices)
		m.stats.TextureSlots += len(b.Textures)
	}

	logger.Info("model loaded",
		zap.String("path", path),
		zap.Int("batches", m.stats.Batches),
		zap.Int("vertices", m.stats.Vertices),
		zap.Int("textures", m.stats.UniqueTextures),
		zap.Int("texture_failures", len(m.stats.Failures)),
		zap.Int("skipped_faces", builder.SkippedFaces()),
		zap.Duration("took", time.Since(start)),
	)
	return m, nil
}

func checkScene(scene *asset.Scene) error {
	switch {
	case scene == nil:
		return errors.New("importer returned no scene")
	case scene.Incomplete:
		msg := "scene is incomplete"
		if len(scene.Warnings) > 0 {
			msg += ": " + strings.Join(scene.Warnings, "; ")
		}
		return errors.New(msg)
	case scene.Root == nil:
		return asset.ErrNoRoot
	}
	return nil
}

// Draw issues one indexed draw per batch in load order. Each batch binds
// its textures to consecutive units and points the sampler uniforms
// texture_<kind><n> at them, n counting from 1 per kind.
func (m *Model) Draw(binding gpu.ShaderBinding) {
	if m.destroyed {
		return
	}
	for _, b := range m.batches {
		var counts [len(texture.Kinds)]int
		for unit, slot := range b.Textures {
			counts[slot.Kind]++
			m.backend.BindTexture(unit, slot.Handle)
			binding.SetInt(slot.Kind.Uniform()+strconv.Itoa(counts[slot.Kind]), int32(unit))
		}

		// Kinds the batch lacks sample the fallback on the next free unit,
		// never a unit assigned for an earlier batch.
		fallback := len(b.Textures)
		bound := false
		for _, k := range texture.Kinds {
			if counts[k] > 0 {
				continue
			}
			if !bound {
				m.backend.BindTexture(fallback, 0)
				bound = true
			}
			binding.SetInt(k.Uniform()+"1", int32(fallback))
		}
		m.backend.DrawIndexed(b.GPU)
	}
}

// Destroy releases every mesh buffer and texture exactly once. Further
// calls do nothing.
func (m *Model) Destroy() {
	if m.destroyed {
		return
	}
	m.destroyed = true
	for _, b := range m.batches {
		m.backend.DeleteMesh(b.GPU)
	}
	m.batches = nil
	if m.backend != nil {
		m.cache.Release(m.backend.DeleteTexture)
	}
}

// Path returns the file the model was loaded from.
func (m *Model) Path() string { return m.path }

// BaseDir returns the directory relative texture paths resolve against.
func (m *Model) BaseDir() string { return m.baseDir }

// Batches returns the drawable batches in draw order.
func (m *Model) Batches() []*Batch { return m.batches }

// Textures returns the uploaded textures in upload order.
func (m *Model) Textures() []texture.Entry { return m.cache.Entries() }

// Bounds returns the bounds of all batches.
func (m *Model) Bounds() Bounds { return m.bounds }

// Stats returns load statistics.
func (m *Model) Stats() Stats { return m.stats }
