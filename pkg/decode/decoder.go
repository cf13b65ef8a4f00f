package decode

import "fmt"

// ColourMode selects the decoder applied to a raw plane.
type ColourMode uint8

const (
	Monochrome ColourMode = iota
	BayerGrey
	BayerColour
)

func (m ColourMode) String() string {
	switch m {
	case Monochrome:
		return "monochrome"
	case BayerGrey:
		return "grey"
	case BayerColour:
		return "colour"
	default:
		return fmt.Sprintf("ColourMode(%d)", uint8(m))
	}
}

// Decoder turns raw planes into freshly allocated images.
type Decoder struct {
	Mode    ColourMode
	Pattern Pattern
	Order   Order

	// Padding is the number of extra bytes at the end of every output row.
	Padding int
}

// Size returns the output dimensions for a w×h raw plane.
func (d Decoder) Size(w, h int) (int, int) {
	if d.Mode == Monochrome {
		return w, h
	}
	return w - 4, h - 4
}

// Decode converts a w×h raw plane.
func (d Decoder) Decode(raw []byte, w, h int) (*Image, error) {
	if d.Mode != Monochrome && (w < 5 || h < 5) {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooSmall, w, h)
	}
	if w < 0 || h < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrDestination, w, h)
	}

	ow, oh := d.Size(w, h)
	img := NewImage(ow, oh, 3*ow+d.Padding)
	img.Order = d.Order

	var err error
	switch d.Mode {
	case Monochrome:
		err = Mono(raw, w, h, img)
	case BayerGrey:
		err = Grey(raw, w, h, d.Pattern, img)
	case BayerColour:
		err = Colour(raw, w, h, d.Pattern, img)
	default:
		err = fmt.Errorf("unsupported colour mode %s", d.Mode)
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}
