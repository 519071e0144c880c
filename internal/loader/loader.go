// Package loader decodes images so that they fit a display budget, using a
// bounds-only probe followed by a single subsampled decode.
package loader

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/UnendingLoop/Imagen/internal/model"
	"github.com/disintegration/imaging"
	"github.com/wb-go/wbf/zlog"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Probe reads only the container header of src and reports the native size
// and the registered format name.
func Probe(src Source) (model.Dimensions, string, error) {
	rc, err := src.Open()
	if err != nil {
		return model.Dimensions{}, "", fmt.Errorf("%w: open for probe: %w", model.ErrUnreadable, err)
	}
	defer closeStream(rc)

	cfg, format, err := image.DecodeConfig(rc)
	if err != nil {
		return model.Dimensions{}, "", fmt.Errorf("%w: probe bounds: %w", model.ErrUnreadable, err)
	}

	native := model.Dimensions{Width: cfg.Width, Height: cfg.Height}
	if !native.Valid() {
		return model.Dimensions{}, "", fmt.Errorf("%w: bad native size %dx%d", model.ErrUnreadable, cfg.Width, cfg.Height)
	}
	return native, format, nil
}

// SampleFactor returns the smallest power of two s such that native/s fits
// budget on both axes (integer division). Both arguments must be valid.
func SampleFactor(native, budget model.Dimensions) int {
	sample := 1
	for native.Width/sample > budget.Width || native.Height/sample > budget.Height {
		sample *= 2
	}
	return sample
}

// Load decodes src into an owned NRGBA raster no larger than budget after
// subsampling. src is opened exactly twice on success; every stream it
// hands out is closed before Load returns.
func Load(src Source, budget model.Dimensions) (*DecodedImage, error) {
	if !budget.Valid() {
		return nil, fmt.Errorf("%w: got %dx%d", model.ErrInvalidBudget, budget.Width, budget.Height)
	}

	native, _, err := Probe(src)
	if err != nil {
		return nil, err
	}

	sample := SampleFactor(native, budget)
	zlog.Logger.Debug().
		Int("width", native.Width).
		Int("height", native.Height).
		Int("sample", sample).
		Msg("sampling image")

	decoded, err := decode(src)
	if err != nil {
		return nil, err
	}

	return &DecodedImage{img: subsample(decoded, sample), native: native, sample: sample}, nil
}

func decode(src Source) (image.Image, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: reopen: %w", model.ErrUnreadable, err)
	}
	defer closeStream(rc)

	img, err := imaging.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", model.ErrUnreadable, err)
	}
	return img, nil
}

// subsample keeps every sample-th pixel per axis, starting at the top-left
// corner, and blits it into a fresh raster of ceil(w/sample) x ceil(h/sample).
func subsample(src image.Image, sample int) *image.NRGBA {
	b := src.Bounds()
	w := (b.Dx() + sample - 1) / sample
	h := (b.Dy() + sample - 1) / sample
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	if sample == 1 {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}

	for y := 0; y < h; y++ {
		sy := b.Min.Y + y*sample
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x*sample, sy)).(color.NRGBA)
			i := dst.PixOffset(x, y)
			dst.Pix[i+0] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
			dst.Pix[i+3] = c.A
		}
	}
	return dst
}

func closeStream(rc io.ReadCloser) {
	if err := rc.Close(); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to close image stream")
	}
}
