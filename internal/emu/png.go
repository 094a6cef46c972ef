package emu

import (
	"image"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
)

// Image copies an RGBA framebuffer into an image, scaled up by an integer
// factor with nearest-neighbour sampling so pixels stay square.
func Image(fb []byte, scale int) *image.RGBA {
	src := &image.RGBA{
		Pix:    make([]byte, len(fb)),
		Stride: 4 * Width,
		Rect:   image.Rect(0, 0, Width, Height),
	}
	copy(src.Pix, fb)
	if scale <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, Width*scale, Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func EncodePNG(w io.Writer, fb []byte, scale int) error {
	return png.Encode(w, Image(fb, scale))
}

func WritePNG(path string, fb []byte, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodePNG(f, fb, scale); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
