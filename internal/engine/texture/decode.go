package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// Image is decoded pixel data, tightly packed, rows top to bottom.
type Image struct {
	Width      int
	Height     int
	Components int // 1 gray, 3 RGB, 4 RGBA
	Pix        []byte
}

// Decoder turns encoded image bytes into pixels.
// hint is a file name or extension used to pick formats that cannot be
// sniffed, such as TGA.
type Decoder interface {
	Decode(data []byte, hint string) (*Image, error)
}

// ImageDecoder decodes with the standard image package, golang.org/x/image
// and DecodeTGA.
type ImageDecoder struct {
	// MaxSize downscales images whose larger side exceeds it. Zero disables.
	MaxSize int
}

// Decode implements Decoder.
func (d ImageDecoder) Decode(data []byte, hint string) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}

	var (
		img image.Image
		err error
	)
	if strings.EqualFold(filepath.Ext(hint), ".tga") {
		img, err = DecodeTGA(data)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, err
	}

	if w, h, ok := fitSize(img.Bounds().Dx(), img.Bounds().Dy(), d.MaxSize); ok {
		img = transform.Resize(img, w, h, transform.Linear)
	}
	return FromImage(img), nil
}

// fitSize scales w x h down so the larger side equals limit.
func fitSize(w, h, limit int) (int, int, bool) {
	if limit <= 0 || (w <= limit && h <= limit) {
		return w, h, false
	}
	if w >= h {
		return limit, max(1, h*limit/w), true
	}
	return max(1, w*limit/h), limit, true
}

// FromImage packs img into the smallest upload layout that keeps its
// channels: gray images keep one component, opaque YCbCr/CMYK images
// (JPEG) three, everything else four non-premultiplied RGBA.
func FromImage(img image.Image) *Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch src := img.(type) {
	case *image.Gray:
		out := &Image{Width: w, Height: h, Components: 1, Pix: make([]byte, w*h)}
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Pix[y*w:(y+1)*w], src.Pix[off:off+w])
		}
		return out
	case *image.Gray16:
		out := &Image{Width: w, Height: h, Components: 1, Pix: make([]byte, w*h)}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Pix[y*w+x] = uint8(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y >> 8)
			}
		}
		return out
	case *image.YCbCr, *image.CMYK:
		out := &Image{Width: w, Height: h, Components: 3, Pix: make([]byte, w*h*3)}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
				i := (y*w + x) * 3
				out.Pix[i], out.Pix[i+1], out.Pix[i+2] = uint8(r>>8), uint8(g>>8), uint8(bl>>8)
			}
		}
		return out
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != w*4 || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}
	return &Image{Width: w, Height: h, Components: 4, Pix: nrgba.Pix[:w*h*4]}
}
