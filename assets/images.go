package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// MaxImageWidth is the widest an uploaded image is stored.
	MaxImageWidth = 2000
	jpegQuality   = 85
	// MaxUploadSize bounds a single uploaded file.
	MaxUploadSize = 20 << 20 // 20MB
)

// ErrUnknownIcon is returned by SaveIcon for an unsupported icon kind.
var ErrUnknownIcon = errors.New("assets: unknown icon kind")

// Icon kinds and the square size they are stored at.
var iconSizes = map[string]int{
	"favicon":          32,
	"apple-touch-icon": 180,
}

// ImageExts are the extensions recognised as painting images.
var ImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Image describes a stored upload.
type Image struct {
	URL    string
	Width  int
	Height int
	Size   int
}

// processImage decodes an image from src, downscales it to MaxImageWidth
// when wider, and encodes it as JPEG.
func processImage(src io.Reader) ([]byte, int, int, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > MaxImageWidth {
		newH := h * MaxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, MaxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w, h = MaxImageWidth, newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, 0, 0, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), w, h, nil
}

// uploadName builds a collision-free file name from the original name.
func uploadName(original string) string {
	base := slugify(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))
	id := uuid.NewString()[:8]
	if base == "" {
		return id + ".jpg"
	}
	return base + "-" + id + ".jpg"
}

// SaveImage processes an uploaded image and stores it under dir.
func (s *Store) SaveImage(dir string, src io.Reader, originalName string) (Image, error) {
	data, w, h, err := processImage(src)
	if err != nil {
		return Image{}, err
	}
	rel := path.Join(dir, uploadName(originalName))
	if err := s.WriteFile(rel, bytes.NewReader(data)); err != nil {
		return Image{}, fmt.Errorf("write image: %w", err)
	}
	s.logger.Infof("[assets] stored %s (%dx%d, %d bytes)", rel, w, h, len(data))
	return Image{URL: s.URLFor(rel), Width: w, Height: h, Size: len(data)}, nil
}

// IconFile returns the file name an icon kind is stored as.
func IconFile(kind string) (string, bool) {
	if _, ok := iconSizes[kind]; !ok {
		return "", false
	}
	return kind + ".png", true
}

// SaveIcon center-crops src to a square, scales it to the kind's size and
// writes it as PNG at the root.
func (s *Store) SaveIcon(kind string, src io.Reader) (string, error) {
	size, ok := iconSizes[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownIcon, kind)
	}
	img, _, err := image.Decode(src)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	side := min(b.Dx(), b.Dy())
	crop := image.Rect(0, 0, side, side).Add(image.Pt(b.Min.X+(b.Dx()-side)/2, b.Min.Y+(b.Dy()-side)/2))
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	name := kind + ".png"
	if err := s.WriteFile(name, &buf); err != nil {
		return "", err
	}
	return s.URLFor(name), nil
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
