package epdframe

import (
	"image"
	"image/color"

	"github.com/bodgit/epdframe/frame"
	"github.com/ericpauley/go-quantize/quantize"
)

// Swatch is a color found in an image and the panel color it will be shown
// as.
type Swatch struct {
	Color color.NRGBA
	Panel frame.PanelColor
}

// Report describes how an image will look once encoded.
type Report struct {
	Width     int
	Height    int
	Landscape bool

	// Counts is the number of pixels encoded as each panel color.
	Counts map[frame.PanelColor]int

	// Dominant holds the most representative colors of the source image.
	Dominant []Swatch
}

// Analyze reports the panel color histogram of m along with up to colors
// dominant source colors found by median cut.
func (c *Converter) Analyze(m image.Image, colors int) (*Report, error) {
	n, err := c.enc.Normalize(m)
	if err != nil {
		return nil, err
	}

	b := m.Bounds()
	r := &Report{
		Width:     b.Dx(),
		Height:    b.Dy(),
		Landscape: b.Dx() > b.Dy(),
		Counts:    make(map[frame.PanelColor]int),
	}

	for i := 0; i+3 < len(n.Pix); i += 4 {
		r.Counts[c.enc.Quantize(n.Pix[i], n.Pix[i+1], n.Pix[i+2])]++
	}

	if colors > 0 {
		q := quantize.MedianCutQuantizer{}
		for _, pc := range q.Quantize(make(color.Palette, 0, colors), n) {
			nc := color.NRGBAModel.Convert(pc).(color.NRGBA)
			r.Dominant = append(r.Dominant, Swatch{
				Color: nc,
				Panel: c.enc.Quantize(nc.R, nc.G, nc.B),
			})
		}
	}

	return r, nil
}
