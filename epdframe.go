/*
Package epdframe converts rendered images into frames for a four color e-paper
panel and keeps a cache of frames it has already produced.

The encoding itself lives in the frame package; this package wraps it for the
ways images reach it: files on disk, streams, in-memory images from a renderer
and whole directories of images.
*/
package epdframe

import (
	"io"
	"log"

	"github.com/bodgit/epdframe/frame"
)

// Converter turns images into panel frames.
type Converter struct {
	enc    *frame.Encoder
	db     *FrameDB
	logger *log.Logger
}

// New returns a Converter using enc. db may be nil to disable caching.
func New(enc *frame.Encoder, db *FrameDB, logger *log.Logger) *Converter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Converter{
		enc:    enc,
		db:     db,
		logger: logger,
	}
}

// Encoder returns the encoder used by the Converter.
func (c *Converter) Encoder() *frame.Encoder {
	return c.enc
}
