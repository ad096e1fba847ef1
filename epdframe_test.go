package epdframe

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/epdframe/frame"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

var (
	yellow = color.NRGBA{0xff, 0xff, 0x00, 0xff}
	red    = color.NRGBA{0xff, 0x00, 0x00, 0xff}
)

func newConverter(t *testing.T, db *FrameDB) *Converter {
	t.Helper()
	enc, err := frame.New(frame.DefaultConfig())
	require.NoError(t, err)
	return New(enc, db, log.New(io.Discard, "", 0))
}

func newFrameDB(t *testing.T) *FrameDB {
	t.Helper()
	db, err := NewFrameDB(filepath.Join(t.TempDir(), "frames.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func encodePNG(t *testing.T, m image.Image) []byte {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, png.Encode(&b, m))
	return b.Bytes()
}

func writePNG(t *testing.T, file string, m image.Image) {
	t.Helper()
	require.NoError(t, os.WriteFile(file, encodePNG(t, m), 0o644))
}

func solidFrame(b byte) []byte {
	return bytes.Repeat([]byte{b}, frame.Size)
}

func portrait(c color.Color) *image.NRGBA {
	return imaging.New(frame.SourceLines, frame.GateLines, c)
}

func landscape(c color.Color) *image.NRGBA {
	return imaging.New(frame.GateLines, frame.SourceLines, c)
}

func imageRect(w, h int) image.Rectangle {
	return image.Rect(0, 0, w, h)
}

func sha1Hex(b []byte) string {
	return fmt.Sprintf("%X", sha1.Sum(b))
}
