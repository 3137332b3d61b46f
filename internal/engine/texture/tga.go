package texture

import (
	"fmt"
	"image"
)

// TGA image types.
const (
	tgaTypeTrueColor    = 2
	tgaTypeGray         = 3
	tgaTypeTrueColorRLE = 10
	tgaTypeGrayRLE      = 11
)

// DecodeTGA decodes an uncompressed or RLE-compressed TGA image.
// 8-bit grayscale images decode to *image.Gray, 24/32-bit true-color images
// to *image.NRGBA. Color-mapped images are not supported.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("tga: header truncated")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("tga: color-mapped images not supported")
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("tga: empty image %dx%d", width, height)
	}

	var gray bool
	switch imageType {
	case tgaTypeTrueColor, tgaTypeTrueColorRLE:
		if bpp != 24 && bpp != 32 {
			return nil, fmt.Errorf("tga: unsupported true-color depth %d", bpp)
		}
	case tgaTypeGray, tgaTypeGrayRLE:
		if bpp != 8 {
			return nil, fmt.Errorf("tga: unsupported grayscale depth %d", bpp)
		}
		gray = true
	default:
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("tga: data truncated")
	}

	bytesPerPixel := bpp / 8
	var pixels []byte
	var err error
	if imageType == tgaTypeTrueColorRLE || imageType == tgaTypeGrayRLE {
		pixels, err = unpackTGARLE(data[offset:], width*height, bytesPerPixel)
		if err != nil {
			return nil, err
		}
	} else {
		n := width * height * bytesPerPixel
		if len(data)-offset < n {
			return nil, fmt.Errorf("tga: pixel data truncated")
		}
		pixels = data[offset : offset+n]
	}

	row := func(y int) int {
		if topToBottom {
			return y
		}
		return height - 1 - y
	}

	if gray {
		img := image.NewGray(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			copy(img.Pix[row(y)*img.Stride:], pixels[y*width:(y+1)*width])
		}
		return img, nil
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		dst := img.Pix[row(y)*img.Stride:]
		for x := 0; x < width; x++ {
			src := pixels[(y*width+x)*bytesPerPixel:]
			// BGR(A) on disk.
			dst[x*4+0] = src[2]
			dst[x*4+1] = src[1]
			dst[x*4+2] = src[0]
			dst[x*4+3] = 255
			if bytesPerPixel == 4 {
				dst[x*4+3] = src[3]
			}
		}
	}
	return img, nil
}

// unpackTGARLE expands run-length packets into count pixels.
func unpackTGARLE(data []byte, count, bytesPerPixel int) ([]byte, error) {
	out := make([]byte, 0, count*bytesPerPixel)
	i := 0
	for len(out) < count*bytesPerPixel {
		if i >= len(data) {
			return nil, fmt.Errorf("tga: rle data truncated")
		}
		packet := data[i]
		i++
		n := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if i+bytesPerPixel > len(data) {
				return nil, fmt.Errorf("tga: rle data truncated")
			}
			px := data[i : i+bytesPerPixel]
			i += bytesPerPixel
			for j := 0; j < n; j++ {
				out = append(out, px...)
			}
		} else {
			size := n * bytesPerPixel
			if i+size > len(data) {
				return nil, fmt.Errorf("tga: rle data truncated")
			}
			out = append(out, data[i:i+size]...)
			i += size
		}
	}
	return out[:count*bytesPerPixel], nil
}
