package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"math"
	"os"

	"github.com/icza/mjpeg"

	"github.com/ruancomelli/psin/internal/animation"
)

// VideoWriter receives frames in order and finishes the file on Close.
type VideoWriter interface {
	AddFrame(img image.Image) error
	Close() error
}

// AVIWriter writes Motion-JPEG AVI files.
type AVIWriter struct {
	aw      mjpeg.AviWriter
	quality int
}

// NewAVIWriter opens path for size x size frames. AVI stores an integer
// frame rate, so fps is rounded and at least one.
func NewAVIWriter(path string, size int, fps float64, quality int) (*AVIWriter, error) {
	rate := int32(math.Max(1, math.Round(fps)))
	aw, err := mjpeg.New(path, int32(size), int32(size), rate)
	if err != nil {
		return nil, err
	}
	return &AVIWriter{aw: aw, quality: quality}, nil
}

func (w *AVIWriter) AddFrame(img image.Image) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: w.quality}); err != nil {
		return err
	}
	return w.aw.AddFrame(buf.Bytes())
}

func (w *AVIWriter) Close() error {
	return w.aw.Close()
}

// GIFWriter buffers paletted frames and encodes them on Close.
type GIFWriter struct {
	path  string
	delay int
	anim  gif.GIF
}

// NewGIFWriter creates a looping GIF at fps frames per second, as far as
// the format's hundredth-of-a-second delays allow.
func NewGIFWriter(path string, fps float64) (*GIFWriter, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("render: frame rate %g", fps)
	}
	delay := int(math.Max(1, math.Round(100/fps)))
	return &GIFWriter{path: path, delay: delay, anim: gif.GIF{LoopCount: 0}}, nil
}

func (w *GIFWriter) AddFrame(img image.Image) error {
	b := img.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(p, b, img, b.Min)
	w.anim.Image = append(w.anim.Image, p)
	w.anim.Delay = append(w.anim.Delay, w.delay)
	return nil
}

func (w *GIFWriter) Close() error {
	if len(w.anim.Image) == 0 {
		return fmt.Errorf("render: %s: no frames", w.path)
	}
	f, err := os.Create(w.path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &w.anim); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// NewVideoWriter picks a writer by format name, "avi" or "gif".
func NewVideoWriter(format, path string, size int, fps float64, quality int) (VideoWriter, error) {
	switch format {
	case "avi":
		return NewAVIWriter(path, size, fps, quality)
	case "gif":
		return NewGIFWriter(path, fps)
	}
	return nil, fmt.Errorf("render: unknown video format %q", format)
}

// WriteVideo drains a through fr into vw and closes vw. progress, when not
// nil, is called after every frame.
func WriteVideo(ctx context.Context, a *animation.Animator, fr *FrameRenderer, vw VideoWriter, progress func(done, total int)) (err error) {
	defer func() {
		if cerr := vw.Close(); err == nil {
			err = cerr
		}
	}()

	total := a.Len()
	for done := 0; a.Next(); {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := fr.Render(a.Frame())
		if err != nil {
			return err
		}
		if err := vw.AddFrame(img); err != nil {
			return err
		}
		done++
		if progress != nil {
			progress(done, total)
		}
	}
	return a.Err()
}
