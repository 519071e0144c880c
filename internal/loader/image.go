package loader

import (
	"image"

	"github.com/UnendingLoop/Imagen/internal/model"
)

// DecodedImage is an owned, mutable raster produced by Load. It is not safe
// for concurrent use; callers that share one guard it themselves.
type DecodedImage struct {
	img    *image.NRGBA
	native model.Dimensions
	sample int
}

// NewDecodedImage wraps an already owned raster, sample factor 1.
func NewDecodedImage(img *image.NRGBA) *DecodedImage {
	b := img.Bounds()
	return &DecodedImage{
		img:    img,
		native: model.Dimensions{Width: b.Dx(), Height: b.Dy()},
		sample: 1,
	}
}

// Image returns the raster, or nil after Release.
func (d *DecodedImage) Image() *image.NRGBA {
	return d.img
}

// Size returns the realized (decoded) dimensions; zero after Release.
func (d *DecodedImage) Size() model.Dimensions {
	if d.img == nil {
		return model.Dimensions{}
	}
	b := d.img.Bounds()
	return model.Dimensions{Width: b.Dx(), Height: b.Dy()}
}

// Native returns the dimensions reported by the bounds probe.
func (d *DecodedImage) Native() model.Dimensions {
	return d.native
}

func (d *DecodedImage) Sample() int {
	return d.sample
}

// Release drops the pixel buffer. Releasing twice, or releasing a nil
// image, is a no-op.
func (d *DecodedImage) Release() {
	if d == nil || d.img == nil {
		return
	}
	d.img.Pix = nil
	d.img = nil
}

func (d *DecodedImage) Released() bool {
	return d == nil || d.img == nil
}
