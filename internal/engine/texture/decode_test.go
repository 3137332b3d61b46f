package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestImageDecoderComponents(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(1, 1, color.Gray{Y: 200})

	rgba := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	rgba.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 128})

	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, image.NewRGBA(image.Rect(0, 0, 4, 4)), nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}

	tests := []struct {
		name           string
		data           []byte
		hint           string
		wantW, wantH   int
		wantComponents int
	}{
		{"png gray", encodePNG(t, gray), "gray.png", 2, 2, 1},
		{"png rgba", encodePNG(t, rgba), "albedo.png", 3, 1, 4},
		{"jpeg", jpg.Bytes(), "photo.jpg", 4, 4, 3},
		{"tga by hint", append(tgaHeader(tgaTypeGray, 1, 1, 8, false), 7), "HEIGHT.TGA", 1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := ImageDecoder{}.Decode(tt.data, tt.hint)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if img.Width != tt.wantW || img.Height != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", img.Width, img.Height, tt.wantW, tt.wantH)
			}
			if img.Components != tt.wantComponents {
				t.Errorf("Components = %d, want %d", img.Components, tt.wantComponents)
			}
			if len(img.Pix) != img.Width*img.Height*img.Components {
				t.Errorf("len(Pix) = %d, want %d", len(img.Pix), img.Width*img.Height*img.Components)
			}
		})
	}
}

func TestImageDecoderGrayPixels(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(1, 1, color.Gray{Y: 200})

	img, err := ImageDecoder{}.Decode(encodePNG(t, gray), "")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Pix[3] != 200 {
		t.Errorf("Pix = %v, want last byte 200", img.Pix)
	}
}

func TestImageDecoderMaxSize(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 64, 16))

	img, err := ImageDecoder{MaxSize: 32}.Decode(encodePNG(t, src), "wide.png")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Width != 32 || img.Height != 8 {
		t.Errorf("size = %dx%d, want 32x8", img.Width, img.Height)
	}
}

func TestImageDecoderErrors(t *testing.T) {
	if _, err := (ImageDecoder{}).Decode(nil, "x.png"); err == nil {
		t.Error("expected error for empty data")
	}
	if _, err := (ImageDecoder{}).Decode([]byte("not an image"), "x.png"); err == nil {
		t.Error("expected error for garbage")
	}
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		w, h, limit  int
		wantW, wantH int
		wantResize   bool
	}{
		{100, 50, 0, 100, 50, false},
		{100, 50, 200, 100, 50, false},
		{100, 50, 50, 50, 25, true},
		{50, 100, 50, 25, 50, true},
		{1000, 1, 10, 10, 1, true},
	}

	for _, tt := range tests {
		w, h, ok := fitSize(tt.w, tt.h, tt.limit)
		if w != tt.wantW || h != tt.wantH || ok != tt.wantResize {
			t.Errorf("fitSize(%d, %d, %d) = %d, %d, %v; want %d, %d, %v",
				tt.w, tt.h, tt.limit, w, h, ok, tt.wantW, tt.wantH, tt.wantResize)
		}
	}
}
