package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	maxWidth    = 1280
	jpegQuality = 82
)

// Store writes processed uploads to a local public directory.
type Store struct {
	Dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{Dir: dir}, nil
}

// SaveImage decodes, downscales to at most maxWidth and re-encodes the
// upload as JPEG. Returns the stored file name and final dimensions.
func (s *Store) SaveImage(r io.Reader) (name string, width, height int, err error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return "", 0, 0, fmt.Errorf("decode image: %w", err)
	}

	resized := Resize(src, maxWidth)
	bounds := resized.Bounds()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", 0, 0, err
	}

	name = uuid.NewString() + ".jpg"
	if err := os.WriteFile(filepath.Join(s.Dir, name), buf.Bytes(), 0o644); err != nil {
		return "", 0, 0, err
	}
	return name, bounds.Dx(), bounds.Dy(), nil
}

// SavePDF stores the raw upload without processing.
func (s *Store) SavePDF(r io.Reader) (string, error) {
	name := uuid.NewString() + ".pdf"
	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return name, nil
}

// Resize downscales img to at most max pixels wide, preserving aspect ratio.
// Images already narrow enough are returned unchanged.
func Resize(img image.Image, max int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= max {
		return img
	}

	nh := h * max / w
	dst := image.NewRGBA(image.Rect(0, 0, max, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
