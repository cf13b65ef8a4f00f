package decode

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPattern is returned when a CFA pattern name is not recognised.
var ErrUnknownPattern = errors.New("unknown bayer pattern")

// Pattern is the colour filter phase of raw pixel (0,0), named by the first
// two rows of the 2×2 mosaic.
type Pattern uint8

const (
	RGGB Pattern = iota
	GBRG
	GRBG
	BGGR
)

func (p Pattern) String() string {
	switch p {
	case RGGB:
		return "RGGB"
	case GBRG:
		return "GBRG"
	case GRBG:
		return "GRBG"
	case BGGR:
		return "BGGR"
	default:
		return fmt.Sprintf("Pattern(%d)", uint8(p))
	}
}

// ParsePattern parses a pattern name, ignoring case.
func ParsePattern(s string) (Pattern, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RGGB":
		return RGGB, nil
	case "GBRG":
		return GBRG, nil
	case "GRBG":
		return GRBG, nil
	case "BGGR":
		return BGGR, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPattern, s)
}

// site is the CFA colour under a raw pixel. GreenB sits on a blue row,
// GreenR on a red row.
type site uint8

const (
	siteBlue site = iota
	siteGreenB
	siteGreenR
	siteRed
)

// flips maps a pattern to the row/column parity flips that turn it into BGGR.
var flips = [4][2]int{
	RGGB: {1, 1},
	GBRG: {0, 1},
	GRBG: {1, 0},
	BGGR: {0, 0},
}

// siteAt returns the CFA colour of raw pixel (x, y).
func (p Pattern) siteAt(x, y int) site {
	f := flips[p&3]
	oddLine := (y+f[0])&1 == 1
	oddPixel := (x+f[1])&1 == 1

	switch {
	case oddLine && oddPixel:
		return siteRed
	case oddLine:
		return siteGreenR
	case oddPixel:
		return siteGreenB
	default:
		return siteBlue
	}
}
