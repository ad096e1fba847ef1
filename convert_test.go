package epdframe

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/epdframe/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	c := newConverter(t, nil)

	var out bytes.Buffer
	require.NoError(t, c.Convert(&out, bytes.NewReader(encodePNG(t, landscape(yellow)))))
	assert.Equal(t, solidFrame(0x55), out.Bytes())
}

func TestConvertDecodeFailure(t *testing.T) {
	for _, db := range []*FrameDB{nil, newFrameDB(t)} {
		c := newConverter(t, db)

		var out bytes.Buffer
		err := c.Convert(&out, bytes.NewReader([]byte("garbage")))
		assert.True(t, errors.Is(err, frame.ErrDecode))
		assert.Zero(t, out.Len())
	}
}

func TestConvertCache(t *testing.T) {
	db := newFrameDB(t)
	c := newConverter(t, db)
	in := encodePNG(t, portrait(color.Black))

	var out bytes.Buffer
	require.NoError(t, c.Convert(&out, bytes.NewReader(in)))
	assert.Equal(t, solidFrame(0xff), out.Bytes())

	n, err := db.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Poison the cache to prove the second conversion is served from it
	sha, config := sha1Hex(in), c.Encoder().Config().String()
	require.NoError(t, db.Add(sha, config, solidFrame(0xaa)))

	out.Reset()
	require.NoError(t, c.Convert(&out, bytes.NewReader(in)))
	assert.Equal(t, solidFrame(0xaa), out.Bytes())

	n, err = db.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestConvertCacheIgnoresWrongSize(t *testing.T) {
	db := newFrameDB(t)
	c := newConverter(t, db)
	in := encodePNG(t, portrait(color.White))

	require.NoError(t, db.Add(sha1Hex(in), c.Encoder().Config().String(), []byte{0x01, 0x02}))

	var out bytes.Buffer
	require.NoError(t, c.Convert(&out, bytes.NewReader(in)))
	assert.Equal(t, solidFrame(0x00), out.Bytes())
}

func TestConvertCacheKeyedByConfig(t *testing.T) {
	db := newFrameDB(t)
	in := encodePNG(t, portrait(color.White))

	cw := newConverter(t, db)
	cfg := frame.DefaultConfig()
	cfg.Rotation = frame.CounterClockwise
	enc, err := frame.New(cfg)
	require.NoError(t, err)
	ccw := New(enc, db, nil)

	var out bytes.Buffer
	require.NoError(t, cw.Convert(&out, bytes.NewReader(in)))
	require.NoError(t, ccw.Convert(&out, bytes.NewReader(in)))

	n, err := db.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "card.png")
	out := filepath.Join(dir, "image.bin")
	writePNG(t, in, landscape(red))

	c := newConverter(t, nil)
	require.NoError(t, c.ConvertFile(in, out))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, solidFrame(0xaa), b)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestConvertFileInvalidDimensions(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "card.png")
	out := filepath.Join(dir, "image.bin")
	writePNG(t, in, portrait(color.White).SubImage(imageRect(100, 100)))

	c := newConverter(t, nil)
	err := c.ConvertFile(in, out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, frame.ErrInvalidDimensions))
	assert.Contains(t, err.Error(), "got 100x100")

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))

	// No temporary files are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestConvertFileKeepsExistingOutputOnFailure(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "card.png")
	out := filepath.Join(dir, "image.bin")
	require.NoError(t, os.WriteFile(in, []byte("not a png"), 0o644))
	require.NoError(t, os.WriteFile(out, []byte("previous"), 0o644))

	c := newConverter(t, nil)
	assert.True(t, errors.Is(c.ConvertFile(in, out), frame.ErrDecode))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte("previous"), b)
}

func TestConvertFileMissingInput(t *testing.T) {
	dir := t.TempDir()
	c := newConverter(t, nil)
	err := c.ConvertFile(filepath.Join(dir, "missing.png"), filepath.Join(dir, "image.bin"))
	assert.True(t, os.IsNotExist(err))
}

func TestConvertImage(t *testing.T) {
	c := newConverter(t, nil)

	b, err := c.ConvertImage(portrait(color.White))
	require.NoError(t, err)
	assert.Equal(t, solidFrame(0x00), b)

	_, err = c.ConvertImage(portrait(color.White).SubImage(imageRect(10, 10)))
	assert.True(t, errors.Is(err, frame.ErrInvalidDimensions))
}
