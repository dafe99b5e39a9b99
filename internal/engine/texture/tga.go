package texture

import (
	"fmt"
	"image"
	"image/color"
)

const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
	tgaHeaderSize   = 18
)

// DecodeTGA decodes uncompressed or RLE true-color TGA data at 24 or 32 bpp.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("%w: tga header truncated", ErrDecode)
	}

	idLen := int(data[0])
	if data[1] != 0 {
		return nil, fmt.Errorf("%w: color-mapped tga", ErrUnsupportedFormat)
	}
	kind := data[2]
	if kind != tgaTrueColor && kind != tgaTrueColorRLE {
		return nil, fmt.Errorf("%w: tga image type %d", ErrUnsupportedFormat, kind)
	}
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("%w: tga depth %d", ErrUnsupportedFormat, bpp)
	}
	topDown := data[17]&0x20 != 0

	start := tgaHeaderSize + idLen
	if start > len(data) {
		return nil, fmt.Errorf("%w: tga id field truncated", ErrDecode)
	}

	r := tgaReader{
		img:     image.NewRGBA(image.Rect(0, 0, width, height)),
		src:     data[start:],
		stride:  bpp / 8,
		width:   width,
		height:  height,
		topDown: topDown,
	}
	var err error
	if kind == tgaTrueColor {
		err = r.raw()
	} else {
		err = r.rle()
	}
	if err != nil {
		return nil, err
	}
	return r.img, nil
}

type tgaReader struct {
	img     *image.RGBA
	src     []byte
	pos     int
	stride  int
	width   int
	height  int
	topDown bool
}

// pixel reads one BGR(A) pixel.
func (r *tgaReader) pixel() (color.RGBA, bool) {
	if r.pos+r.stride > len(r.src) {
		return color.RGBA{}, false
	}
	p := r.src[r.pos : r.pos+r.stride]
	r.pos += r.stride
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if r.stride == 4 {
		c.A = p[3]
	}
	return c, true
}

func (r *tgaReader) set(i int, c color.RGBA) {
	x, y := i%r.width, i/r.width
	if !r.topDown {
		y = r.height - 1 - y
	}
	r.img.SetRGBA(x, y, c)
}

func (r *tgaReader) raw() error {
	n := r.width * r.height
	if len(r.src) < n*r.stride {
		return fmt.Errorf("%w: tga pixel data truncated", ErrDecode)
	}
	for i := 0; i < n; i++ {
		c, _ := r.pixel()
		r.set(i, c)
	}
	return nil
}

// rle decodes run-length packets. A short stream leaves the remaining pixels
// transparent.
func (r *tgaReader) rle() error {
	n := r.width * r.height
	for i := 0; i < n && r.pos < len(r.src); {
		header := r.src[r.pos]
		r.pos++
		count := int(header&0x7f) + 1

		if header&0x80 != 0 {
			c, ok := r.pixel()
			if !ok {
				return nil
			}
			for ; count > 0 && i < n; count-- {
				r.set(i, c)
				i++
			}
			continue
		}
		for ; count > 0 && i < n; count-- {
			c, ok := r.pixel()
			if !ok {
				return nil
			}
			r.set(i, c)
			i++
		}
	}
	return nil
}
