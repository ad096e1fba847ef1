/*
Package frame implements an encoder from RGB raster images to the packed frame
buffer expected by a four color (white, yellow, red, black) e-paper panel.

The panel is 184 source lines by 384 gate lines in its native portrait
orientation. Landscape images of 384 by 184 pixels are rotated into portrait
before encoding; any other size is rejected.

Each pixel is mapped to the nearest palette color and stored as a 2-bit code.
Four codes are packed per byte with the leftmost pixel in the two most
significant bits, rows are written top to bottom and there is no header,
footer or padding, so the frame is exactly 384 * 184 / 4 = 17664 bytes.
*/
package frame

import (
	"errors"
	"fmt"
)

const (
	// SourceLines is the panel width in its native orientation.
	SourceLines = 184
	// GateLines is the panel height in its native orientation.
	GateLines = 384

	pixelsPerByte = 4
	bitsPerPixel  = 8 / pixelsPerByte
	codeMask      = 1<<bitsPerPixel - 1

	// Size is the length in bytes of a frame for the default geometry.
	Size = SourceLines * GateLines / pixelsPerByte
)

var errBadGeometry = errors.New("frame: geometry must be positive")

// Config describes the panel an Encoder targets. The zero value is not usable,
// start from DefaultConfig.
type Config struct {
	SourceLines int
	GateLines   int
	Palette     Palette
	Rotation    Rotation
}

// DefaultConfig returns the configuration of the 184x384 four color panel.
func DefaultConfig() Config {
	return Config{
		SourceLines: SourceLines,
		GateLines:   GateLines,
		Palette:     DefaultPalette(),
		Rotation:    Clockwise,
	}
}

// FrameSize returns the number of bytes a frame occupies.
func (c Config) FrameSize() int {
	return c.SourceLines * c.GateLines / pixelsPerByte
}

// String returns a stable fingerprint of everything that affects the encoded
// output.
func (c Config) String() string {
	return fmt.Sprintf("%dx%d %s %s", c.SourceLines, c.GateLines, c.Rotation, c.Palette)
}

func (c Config) validate() error {
	if c.SourceLines <= 0 || c.GateLines <= 0 {
		return errBadGeometry
	}
	return c.Palette.validate()
}
