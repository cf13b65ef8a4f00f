package decode

import (
	"errors"
	"fmt"
)

var (
	// ErrTooSmall is returned when a Bayer plane is narrower or shorter than
	// the 5×5 stencil.
	ErrTooSmall = errors.New("raw plane smaller than 5x5")

	// ErrShortBuffer is returned when the raw buffer holds fewer than w*h bytes.
	ErrShortBuffer = errors.New("raw buffer shorter than width*height")

	// ErrDestination is returned when the destination image has the wrong size.
	ErrDestination = errors.New("destination image does not match")
)

// stencil holds the 13 taps around a raw pixel.
type stencil struct {
	a, b, c, d, e, f, g, h, i, j, k, l, m int
}

func load(raw []byte, w, p int) stencil {
	return stencil{
		a: int(raw[p-2*w]),
		b: int(raw[p-w-1]),
		c: int(raw[p-w]),
		d: int(raw[p-w+1]),
		e: int(raw[p-2]),
		f: int(raw[p-1]),
		g: int(raw[p]),
		h: int(raw[p+1]),
		i: int(raw[p+2]),
		j: int(raw[p+w-1]),
		k: int(raw[p+w]),
		l: int(raw[p+w+1]),
		m: int(raw[p+2*w]),
	}
}

func (s stencil) ring() int { return s.a + s.e + s.i + s.m }
func (s stencil) cross() int { return s.c + s.f + s.h + s.k }
func (s stencil) diagonal() int { return s.b + s.d + s.j + s.l }

// greyNative is the grey value at a red or blue site.
func (s stencil) greyNative() byte {
	return clamp((36*s.g + 4*(s.cross()+s.diagonal()) - 5*s.ring()) / 48)
}

// greyGreen is the grey value at a green site.
func (s stencil) greyGreen() byte {
	return clamp((36*s.g + 8*s.cross() - 4*s.diagonal() - s.ring()) / 48)
}

// green at a red or blue site.
func (s stencil) green() byte {
	return clamp((4*s.g + 2*s.cross() - s.ring()) >> 3)
}

// opposite is blue at a red site, or red at a blue site.
func (s stencil) opposite() byte {
	return clamp((12*s.g + 4*s.diagonal() - 3*s.ring()) >> 4)
}

// horizontal is the colour of the left/right neighbours at a green site.
func (s stencil) horizontal() byte {
	return clamp((10*s.g + 8*(s.f+s.h) - 2*(s.diagonal()+s.e+s.i) + s.a + s.m) >> 4)
}

// vertical is the colour of the up/down neighbours at a green site.
func (s stencil) vertical() byte {
	return clamp((10*s.g + 8*(s.c+s.k) - 2*(s.diagonal()+s.a+s.m) + s.e + s.i) >> 4)
}

func checkBayer(raw []byte, w, h int, dst *Image) error {
	if w < 5 || h < 5 {
		return fmt.Errorf("%w: %dx%d", ErrTooSmall, w, h)
	}
	if len(raw) < w*h {
		return fmt.Errorf("%w: %d < %d", ErrShortBuffer, len(raw), w*h)
	}
	if dst == nil || !dst.fits(w-4, h-4) {
		return fmt.Errorf("%w: want %dx%d", ErrDestination, w-4, h-4)
	}
	return nil
}

// Grey demosaics a w×h Bayer plane into dst, which must be (w-4)×(h-4).
// The same value is written to every channel.
func Grey(raw []byte, w, h int, pattern Pattern, dst *Image) error {
	if err := checkBayer(raw, w, h, dst); err != nil {
		return err
	}

	for y := 0; y < dst.Height; y++ {
		row := dst.row(y)
		p := (y+2)*w + 2
		for x := 0; x < dst.Width; x, p = x+1, p+1 {
			s := load(raw, w, p)

			var v byte
			switch pattern.siteAt(x+2, y+2) {
			case siteRed, siteBlue:
				v = s.greyNative()
			default:
				v = s.greyGreen()
			}
			row[3*x], row[3*x+1], row[3*x+2] = v, v, v
		}
	}
	return nil
}

// Colour demosaics a w×h Bayer plane into dst, which must be (w-4)×(h-4).
// The native channel at each site passes through unchanged.
func Colour(raw []byte, w, h int, pattern Pattern, dst *Image) error {
	if err := checkBayer(raw, w, h, dst); err != nil {
		return err
	}

	for y := 0; y < dst.Height; y++ {
		row := dst.row(y)
		p := (y+2)*w + 2
		for x := 0; x < dst.Width; x, p = x+1, p+1 {
			s := load(raw, w, p)
			native := byte(s.g)

			switch pattern.siteAt(x+2, y+2) {
			case siteRed:
				dst.set(row, x, native, s.green(), s.opposite())
			case siteGreenR:
				dst.set(row, x, s.horizontal(), native, s.vertical())
			case siteGreenB:
				dst.set(row, x, s.vertical(), native, s.horizontal())
			case siteBlue:
				dst.set(row, x, s.opposite(), s.green(), native)
			}
		}
	}
	return nil
}

// Mono copies a w×h monochrome plane into dst, which must be w×h, replicating
// each byte into all three channels.
func Mono(raw []byte, w, h int, dst *Image) error {
	if len(raw) < w*h {
		return fmt.Errorf("%w: %d < %d", ErrShortBuffer, len(raw), w*h)
	}
	if dst == nil || !dst.fits(w, h) {
		return fmt.Errorf("%w: want %dx%d", ErrDestination, w, h)
	}

	for y := 0; y < h; y++ {
		row := dst.row(y)
		for x, v := range raw[y*w : (y+1)*w] {
			row[3*x], row[3*x+1], row[3*x+2] = v, v, v
		}
	}
	return nil
}
