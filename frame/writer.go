package frame

import (
	"image"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP
)

// Encoder packs images into frames for one panel configuration. It holds no
// mutable state and may be shared between goroutines.
type Encoder struct {
	cfg Config
}

// New returns an Encoder for cfg.
func New(cfg Config) (*Encoder, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.Palette = append(Palette(nil), cfg.Palette...)
	return &Encoder{cfg: cfg}, nil
}

// Config returns the configuration the Encoder was created with.
func (e *Encoder) Config() Config {
	c := e.cfg
	c.Palette = append(Palette(nil), e.cfg.Palette...)
	return c
}

// Quantize returns the panel color for a single RGB triple.
func (e *Encoder) Quantize(r, g, b uint8) PanelColor {
	return e.cfg.Palette.Nearest(r, g, b)
}

// Normalize returns m rotated, if necessary, into the panel's portrait
// orientation.
func (e *Encoder) Normalize(m image.Image) (*image.NRGBA, error) {
	return e.normalize(m)
}

// pack walks the portrait image gate line by gate line, four source lines at
// a time.
func (e *Encoder) pack(m *image.NRGBA) []byte {
	b := make([]byte, 0, e.cfg.FrameSize())
	for y := 0; y < e.cfg.GateLines; y++ {
		row := m.Pix[y*m.Stride:]
		for x := 0; x < e.cfg.SourceLines; x += pixelsPerByte {
			var v byte
			for i := 0; i < pixelsPerByte; i++ {
				p := row[(x+i)*4:]
				c := e.Quantize(p[0], p[1], p[2])
				shift := uint(pixelsPerByte-1-i) * bitsPerPixel
				v |= (c.Code() & codeMask) << shift
			}
			b = append(b, v)
		}
	}
	return b
}

// Frame returns the packed frame for m without writing it anywhere.
func (e *Encoder) Frame(m image.Image) ([]byte, error) {
	if e.cfg.SourceLines%pixelsPerByte != 0 {
		return nil, ErrUnalignedRowWidth
	}
	n, err := e.normalize(m)
	if err != nil {
		return nil, err
	}
	return e.pack(n), nil
}

// Encode writes the frame for m to w. Nothing is written unless the image is
// valid and success is only reported once every byte has been accepted by w.
func (e *Encoder) Encode(w io.Writer, m image.Image) error {
	b, err := e.Frame(m)
	if err != nil {
		return err
	}
	n, err := w.Write(b)
	if err == nil && n != len(b) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return wrap(ErrWrite, err)
	}
	return nil
}

// EncodeFrom decodes an image in any registered format from r and writes its
// frame to w.
func (e *Encoder) EncodeFrom(w io.Writer, r io.Reader) error {
	m, err := imaging.Decode(r)
	if err != nil {
		return wrap(ErrDecode, err)
	}
	return e.Encode(w, m)
}

var defaultEncoder = &Encoder{cfg: DefaultConfig()}

// Encode writes the Image m to w in panel frame format using the default
// configuration.
func Encode(w io.Writer, m image.Image) error {
	return defaultEncoder.Encode(w, m)
}
