package texture

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"github.com/Faultbox/assetview/internal/engine/gpu"
	"github.com/Faultbox/assetview/internal/logger"
	"github.com/Faultbox/assetview/pkg/asset"
)

// Loader resolves material textures for one import pass.
type Loader struct {
	cache    *Cache
	decoder  Decoder
	uploader gpu.TextureUploader
	baseDir  string
	scene    *asset.Scene

	// ReadFile reads file-backed textures. Defaults to os.ReadFile.
	ReadFile func(name string) ([]byte, error)

	failed   map[string]*LoadError
	failures []*LoadError
	hits     int
}

// NewLoader creates a loader that resolves file references against
// baseDir and embedded references against scene.Textures.
func NewLoader(cache *Cache, decoder Decoder, uploader gpu.TextureUploader, baseDir string, scene *asset.Scene) *Loader {
	return &Loader{
		cache:    cache,
		decoder:  decoder,
		uploader: uploader,
		baseDir:  baseDir,
		scene:    scene,
		ReadFile: os.ReadFile,
		failed:   make(map[string]*LoadError),
	}
}

// Load returns a slot for every texture the material binds to kind's
// category, in material order. References that fail to resolve are
// logged, recorded in Failures and left out.
func (l *Loader) Load(mat *asset.Material, kind Kind) []Slot {
	if mat == nil {
		return nil
	}
	src := kind.Source()
	n := mat.TextureCount(src)
	slots := make([]Slot, 0, n)

	for i := 0; i < n; i++ {
		id := mat.Texture(src, i)

		if e, ok := l.cache.Lookup(id); ok {
			l.hits++
			logger.Debug("texture cache hit", zap.String("source", id), zap.Stringer("kind", kind))
			slots = append(slots, Slot{Handle: e.Handle, Kind: kind, Source: id})
			continue
		}
		// A failed source is not retried for later references.
		if _, ok := l.failed[id]; ok {
			continue
		}

		handle, err := l.load(id)
		if err != nil {
			lerr := &LoadError{Source: id, Kind: kind, Err: err}
			l.failed[id] = lerr
			l.failures = append(l.failures, lerr)
			logger.Warn("texture skipped", zap.String("source", id), zap.Stringer("kind", kind), zap.Error(err))
			continue
		}

		l.cache.Add(Entry{Source: id, Handle: handle, Kind: kind})
		slots = append(slots, Slot{Handle: handle, Kind: kind, Source: id})
	}
	return slots
}

// Failures returns every reference that could not be resolved.
func (l *Loader) Failures() []*LoadError {
	return l.failures
}

// CacheHits returns how many references were served from the cache.
func (l *Loader) CacheHits() int {
	return l.hits
}

func (l *Loader) load(id string) (uint32, error) {
	var (
		img *Image
		err error
	)
	if asset.IsEmbeddedID(id) {
		img, err = l.decodeEmbedded(id)
	} else {
		img, err = l.decodeFile(id)
	}
	if err != nil {
		return 0, err
	}

	format, ok := gpu.FormatForComponents(img.Components)
	if !ok {
		return 0, fmt.Errorf("%w: %d components", ErrUnsupportedFormat, img.Components)
	}

	handle, err := l.uploader.UploadTexture(gpu.TextureUpload{
		Width:  img.Width,
		Height: img.Height,
		Format: format,
		Pix:    img.Pix,
	})
	if err != nil {
		return 0, fmt.Errorf("upload: %w", err)
	}
	return handle, nil
}

func (l *Loader) decodeEmbedded(id string) (*Image, error) {
	idx, ok := asset.ParseEmbeddedID(id)
	if !ok {
		return nil, fmt.Errorf("%w: invalid embedded reference", ErrDecode)
	}
	if l.scene == nil || idx >= len(l.scene.Textures) {
		count := 0
		if l.scene != nil {
			count = len(l.scene.Textures)
		}
		return nil, fmt.Errorf("%w: embedded index %d out of range (%d textures)", ErrDecode, idx, count)
	}

	tex := l.scene.Textures[idx]
	if !tex.Compressed() {
		// Compare by division so huge dimensions cannot overflow.
		if tex.Width <= 0 || tex.Height <= 0 || tex.Width > len(tex.Data)/4/tex.Height {
			return nil, fmt.Errorf("%w: raw texture %dx%d has %d bytes", ErrDecode, tex.Width, tex.Height, len(tex.Data))
		}
		want := tex.Width * tex.Height * 4
		return &Image{Width: tex.Width, Height: tex.Height, Components: 4, Pix: tex.Data[:want]}, nil
	}

	hint := tex.FormatHint
	if kind, err := filetype.Match(tex.Data); err == nil && kind != filetype.Unknown {
		hint = "." + kind.Extension
		logger.Debug("embedded texture", zap.Int("index", idx), zap.String("mime", kind.MIME.Value))
	}
	img, err := l.decoder.Decode(tex.Data, hint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

func (l *Loader) decodeFile(id string) (*Image, error) {
	path := filepath.Join(l.baseDir, id)
	data, err := l.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	img, err := l.decoder.Decode(data, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return img, nil
}
