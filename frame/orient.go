package frame

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// Rotation is the direction landscape images are turned to reach the panel's
// portrait orientation.
type Rotation uint8

// Supported rotations.
const (
	Clockwise        Rotation = iota // Rotate 90° clock wise
	CounterClockwise                 // Rotate 90° counter clock wise
)

func (r Rotation) String() string {
	if r == CounterClockwise {
		return "ccw"
	}
	return "cw"
}

// ParseRotation accepts the names used on the command line.
func ParseRotation(s string) (Rotation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cw", "90", "right", "clockwise":
		return Clockwise, nil
	case "ccw", "270", "left", "counterclockwise":
		return CounterClockwise, nil
	}
	return 0, fmt.Errorf("frame: invalid rotation %q", s)
}

// normalize returns m as a portrait NRGBA image with its origin at (0, 0).
// The alpha channel is carried along but never consulted.
func (e *Encoder) normalize(m image.Image) (*image.NRGBA, error) {
	b := m.Bounds()
	switch {
	case b.Dx() == e.cfg.SourceLines && b.Dy() == e.cfg.GateLines:
		return imaging.Clone(m), nil
	case b.Dx() == e.cfg.GateLines && b.Dy() == e.cfg.SourceLines:
		if e.cfg.Rotation == CounterClockwise {
			return imaging.Rotate90(m), nil
		}
		// imaging rotates counter clock wise
		return imaging.Rotate270(m), nil
	}
	return nil, &DimensionError{
		Width:       b.Dx(),
		Height:      b.Dy(),
		SourceLines: e.cfg.SourceLines,
		GateLines:   e.cfg.GateLines,
	}
}

// Landscape turns a portrait image produced by this rotation back into the
// landscape image it came from.
func (r Rotation) Landscape(m image.Image) *image.NRGBA {
	if r == CounterClockwise {
		return imaging.Rotate270(m)
	}
	return imaging.Rotate90(m)
}
