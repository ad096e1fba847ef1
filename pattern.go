package epdframe

import (
	"fmt"
	"image"
	"image/color"

	"github.com/bodgit/epdframe/frame"
	"github.com/disintegration/imaging"
)

// Patterns lists the names accepted by Pattern.
var Patterns = []string{"clear", "stripes", "checker"}

const checkerSize = 8

// Pattern returns a portrait test image for the panel described by cfg.
//
// "clear" is all white, "stripes" splits the gate lines into one band per
// palette color and "checker" alternates black and white squares.
func Pattern(kind string, cfg frame.Config) (image.Image, error) {
	w, h := cfg.SourceLines, cfg.GateLines
	switch kind {
	case "clear":
		return imaging.New(w, h, frame.White), nil
	case "stripes":
		if len(cfg.Palette) == 0 {
			return nil, fmt.Errorf("pattern: no colors in palette")
		}
		dst := imaging.New(w, h, color.White)
		band := (h + len(cfg.Palette) - 1) / len(cfg.Palette)
		for i, c := range cfg.Palette {
			dst = imaging.Paste(dst, imaging.New(w, band, c), image.Pt(0, i*band))
		}
		return dst, nil
	case "checker":
		dst := imaging.New(w, h, frame.White)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if (x/checkerSize+y/checkerSize)%2 == 1 {
					dst.Set(x, y, frame.Black)
				}
			}
		}
		return dst, nil
	}
	return nil, fmt.Errorf("pattern: unknown pattern %q", kind)
}
