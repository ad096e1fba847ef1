package frame

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// PanelColor is one of the colors the panel can show. Its value is the 2-bit
// code written to the frame buffer.
type PanelColor uint8

// Supported panel colors.
const (
	White PanelColor = iota
	Yellow
	Red
	Black
)

var panelRGB = [...][3]uint8{
	White:  {0xff, 0xff, 0xff},
	Yellow: {0xff, 0xff, 0x00},
	Red:    {0xff, 0x00, 0x00},
	Black:  {0x00, 0x00, 0x00},
}

var panelNames = [...]string{
	White:  "white",
	Yellow: "yellow",
	Red:    "red",
	Black:  "black",
}

var (
	errEmptyPalette     = errors.New("frame: palette is empty")
	errDuplicateColor   = errors.New("frame: palette contains duplicate color")
	errUnknownColor     = errors.New("frame: unknown panel color")
	errPaletteCodeRange = errors.New("frame: palette code out of range")
)

// Code returns the 2-bit panel code.
func (c PanelColor) Code() uint8 {
	return uint8(c)
}

// RGBA implements color.Color.
func (c PanelColor) RGBA() (r, g, b, a uint32) {
	if int(c) >= len(panelRGB) {
		return 0, 0, 0, 0xffff
	}
	return color.RGBA{panelRGB[c][0], panelRGB[c][1], panelRGB[c][2], 0xff}.RGBA()
}

func (c PanelColor) String() string {
	if int(c) >= len(panelNames) {
		return fmt.Sprintf("PanelColor(%d)", uint8(c))
	}
	return panelNames[c]
}

// distance is the squared euclidean distance in RGB space.
func (c PanelColor) distance(r, g, b uint8) int {
	t := panelRGB[c]
	dr := int(r) - int(t[0])
	dg := int(g) - int(t[1])
	db := int(b) - int(t[2])
	return dr*dr + dg*dg + db*db
}

// ParsePanelColor returns the panel color with the given name.
func ParsePanelColor(s string) (PanelColor, error) {
	for i, name := range panelNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return PanelColor(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q", errUnknownColor, s)
}

// Palette is the ordered list of colors an image is reduced to. The order
// breaks ties: when two colors are equally close the earlier one wins.
type Palette []PanelColor

// DefaultPalette returns white, yellow, red, black in that order.
func DefaultPalette() Palette {
	return Palette{White, Yellow, Red, Black}
}

// ParsePalette parses a comma separated list of color names.
func ParsePalette(s string) (Palette, error) {
	var p Palette
	for _, name := range strings.Split(s, ",") {
		c, err := ParsePanelColor(name)
		if err != nil {
			return nil, err
		}
		p = append(p, c)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p Palette) String() string {
	names := make([]string, len(p))
	for i, c := range p {
		names[i] = c.String()
	}
	return strings.Join(names, ",")
}

func (p Palette) validate() error {
	if len(p) == 0 {
		return errEmptyPalette
	}
	var seen [codeMask + 1]bool
	for _, c := range p {
		if c.Code() > codeMask {
			return errPaletteCodeRange
		}
		if seen[c] {
			return fmt.Errorf("%w %s", errDuplicateColor, c)
		}
		seen[c] = true
	}
	return nil
}

// Nearest returns the palette color closest to the given RGB triple. Only a
// strictly smaller distance replaces the current best so earlier entries win
// ties.
func (p Palette) Nearest(r, g, b uint8) PanelColor {
	best := p[0]
	bestDist := best.distance(r, g, b)
	for _, c := range p[1:] {
		if d := c.distance(r, g, b); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Colors returns a color.Palette indexed by panel code, suitable for an
// image.Paletted holding decoded frame data.
func Colors() color.Palette {
	p := make(color.Palette, len(panelRGB))
	for i := range panelRGB {
		p[i] = PanelColor(i)
	}
	return p
}
