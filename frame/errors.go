package frame

import (
	"errors"
	"fmt"
)

// Errors returned while encoding. Decode and write failures also wrap the
// underlying cause.
var (
	ErrInvalidDimensions = errors.New("frame: invalid image dimensions")
	ErrUnalignedRowWidth = errors.New("frame: row width is not a multiple of 4 pixels")
	ErrDecode            = errors.New("frame: cannot decode image")
	ErrWrite             = errors.New("frame: cannot write frame")
)

// DimensionError reports an image whose size matches neither panel
// orientation.
type DimensionError struct {
	Width, Height          int
	SourceLines, GateLines int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("frame: image must be %dx%d or %dx%d, got %dx%d",
		e.GateLines, e.SourceLines, e.SourceLines, e.GateLines, e.Width, e.Height)
}

// Is makes errors.Is(err, ErrInvalidDimensions) hold.
func (e *DimensionError) Is(target error) bool {
	return target == ErrInvalidDimensions
}

func wrap(sentinel, err error) error {
	return fmt.Errorf("%w: %w", sentinel, err)
}
