package epdframe

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/epdframe/frame"
)

// Convert decodes an image from r and writes its frame to w. With a cache
// configured, an image seen before under the same configuration is not
// encoded again.
func (c *Converter) Convert(w io.Writer, r io.Reader) error {
	if c.db == nil {
		return c.enc.EncodeFrom(w, r)
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: %w", frame.ErrDecode, err)
	}
	sha := fmt.Sprintf("%X", sha1.Sum(b))
	config := c.enc.Config()

	cached, err := c.db.Find(sha, config.String())
	if err != nil {
		return err
	}
	if len(cached) == config.FrameSize() {
		c.logger.Printf("Cache hit for %s\n", sha)
		return writeFrame(w, cached)
	}
	c.logger.Printf("Cache miss for %s\n", sha)

	var out bytes.Buffer
	if err := c.enc.EncodeFrom(&out, bytes.NewReader(b)); err != nil {
		return err
	}
	if err := c.db.Add(sha, config.String(), out.Bytes()); err != nil {
		return err
	}

	return writeFrame(w, out.Bytes())
}

func writeFrame(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err == nil && n != len(b) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return fmt.Errorf("%w: %w", frame.ErrWrite, err)
	}
	return nil
}

// ConvertFile converts the image in file in to a frame in file out. The frame
// is written to a temporary file alongside out and only renamed into place
// once complete, so out is never left half written.
func (c *Converter) ConvertFile(in, out string) (err error) {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	tmp, err := os.CreateTemp(filepath.Dir(out), "."+filepath.Base(out)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", frame.ErrWrite, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("%w: %w", frame.ErrWrite, err)
	}

	if err = c.Convert(tmp, f); err != nil {
		return err
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", frame.ErrWrite, err)
	}

	if err = os.Rename(tmp.Name(), out); err != nil {
		return fmt.Errorf("%w: %w", frame.ErrWrite, err)
	}

	c.logger.Printf("Wrote \"%s\" from \"%s\"\n", out, in)

	return nil
}

// ConvertImage returns the frame for an image already held in memory, such as
// one produced by a renderer.
func (c *Converter) ConvertImage(m image.Image) ([]byte, error) {
	return c.enc.Frame(m)
}
