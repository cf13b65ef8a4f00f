package decode

import (
	"image"
	"image/color"
)

// Order is the channel order of a pixel in Image.Pix.
type Order uint8

const (
	BGR Order = iota
	RGB
)

func (o Order) String() string {
	if o == RGB {
		return "RGB"
	}
	return "BGR"
}

// Image is a packed 24-bit image. Rows start every Stride bytes; bytes past
// 3*Width in a row are padding.
type Image struct {
	Pix    []byte
	Width  int
	Height int
	Stride int
	Order  Order
}

// NewImage allocates an image. A stride below 3*w is raised to 3*w.
func NewImage(w, h, stride int) *Image {
	if stride < 3*w {
		stride = 3 * w
	}
	return &Image{
		Pix:    make([]byte, stride*h),
		Width:  w,
		Height: h,
		Stride: stride,
	}
}

func (m *Image) ColorModel() color.Model {
	return color.RGBAModel
}

func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

func (m *Image) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return color.RGBA{}
	}
	r, g, b := m.RGB(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// RGB returns the channels of pixel (x, y) regardless of Order.
func (m *Image) RGB(x, y int) (r, g, b byte) {
	i := y*m.Stride + 3*x
	if m.Order == RGB {
		return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
	}
	return m.Pix[i+2], m.Pix[i+1], m.Pix[i]
}

func (m *Image) set(row []byte, x int, r, g, b byte) {
	i := 3 * x
	if m.Order == RGB {
		row[i], row[i+1], row[i+2] = r, g, b
	} else {
		row[i], row[i+1], row[i+2] = b, g, r
	}
}

func (m *Image) row(y int) []byte {
	return m.Pix[y*m.Stride : y*m.Stride+3*m.Width]
}

func (m *Image) fits(w, h int) bool {
	return m.Width == w && m.Height == h && m.Stride >= 3*w &&
		(h == 0 || len(m.Pix) >= (h-1)*m.Stride+3*w)
}
