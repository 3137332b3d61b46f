// Package debug provides the viewer's bounding-box overlay and screenshots.
package debug

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
)

// Screenshots writes framebuffer captures as PNG files.
type Screenshots struct {
	Dir    string
	Prefix string

	now func() time.Time
}

// NewScreenshots creates a writer that names files <prefix>_<timestamp>.png
// inside dir.
func NewScreenshots(dir, prefix string) *Screenshots {
	return &Screenshots{Dir: dir, Prefix: prefix, now: time.Now}
}

// Filename returns the path the next capture is written to.
func (s *Screenshots) Filename() string {
	name := fmt.Sprintf("%s_%s.png", s.Prefix, s.now().Format("2006-01-02_15-04-05.000"))
	if s.Dir != "" {
		name = filepath.Join(s.Dir, name)
	}
	return name
}

// SaveFramebuffer writes RGBA pixels read back from GL. GL rows run bottom
// to top, so the image is flipped before encoding.
func (s *Screenshots) SaveFramebuffer(pixels []byte, width, height int) (string, error) {
	if want := width * height * 4; len(pixels) != want || want == 0 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	img := &image.RGBA{
		Pix:    pixels,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	return s.Save(transform.FlipV(img))
}

// Save writes img and returns its path.
func (s *Screenshots) Save(img image.Image) (string, error) {
	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}
	name := s.Filename()
	if err := imgio.Save(name, img, imgio.PNGEncoder()); err != nil {
		return "", fmt.Errorf("saving %s: %w", name, err)
	}
	return name, nil
}
