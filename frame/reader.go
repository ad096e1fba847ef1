package frame

import (
	"errors"
	"image"
	"io"
)

var (
	errNotEnough = errors.New("frame: not enough frame data")
	errTooMuch   = errors.New("frame: too much frame data")
)

type decoder struct {
	r   io.Reader
	cfg Config

	image *image.Paletted
	tmp   []byte
}

func (d *decoder) decode(r io.Reader) error {
	if d.cfg.SourceLines <= 0 || d.cfg.GateLines <= 0 {
		return errBadGeometry
	}
	if d.cfg.SourceLines%pixelsPerByte != 0 {
		return ErrUnalignedRowWidth
	}
	d.r = r
	d.tmp = make([]byte, d.cfg.FrameSize())

	if _, err := io.ReadFull(d.r, d.tmp); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return errNotEnough
		}
		return err
	}

	var extra [1]byte
	if n, err := d.r.Read(extra[:]); n != 0 || (err != nil && err != io.EOF) {
		if err != nil && n == 0 {
			return err
		}
		return errTooMuch
	}

	d.image = image.NewPaletted(image.Rect(0, 0, d.cfg.SourceLines, d.cfg.GateLines), Colors())

	stride := d.cfg.SourceLines / pixelsPerByte
	for y := 0; y < d.cfg.GateLines; y++ {
		for i, v := range d.tmp[y*stride : (y+1)*stride] {
			for j := 0; j < pixelsPerByte; j++ {
				shift := uint(pixelsPerByte-1-j) * bitsPerPixel
				d.image.SetColorIndex(i*pixelsPerByte+j, y, v>>shift&codeMask)
			}
		}
	}

	return nil
}

// Decode reads a frame for the panel described by cfg from r and returns it
// as a portrait image whose color indices are the panel codes.
func Decode(r io.Reader, cfg Config) (*image.Paletted, error) {
	d := decoder{cfg: cfg}
	if err := d.decode(r); err != nil {
		return nil, err
	}
	return d.image, nil
}
