package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

// ThumbSide - сторона квадратного превью для медиа-индекса
const ThumbSide = 256

// Thumbnailer строит превью x*y (с обрезкой по центру) и кодирует его в format
func Thumbnailer(r io.Reader, x, y int, format imaging.Format) (*bytes.Buffer, error) {
	if r == nil {
		return nil, errors.New("nil-reader provided to Thumbnailer")
	}
	if x <= 0 || y <= 0 {
		return nil, fmt.Errorf("incorrect thumbnail size %dx%d", x, y)
	}

	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to DEcode image in Thumbnailer: %w", err)
	}
	thumb := imaging.Thumbnail(img, x, y, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, format, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to ENcode thumbnail in Thumbnailer: %w", err)
	}
	return &buf, nil
}
