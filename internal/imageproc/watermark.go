// Package imageproc provides operations for images: text and image watermarks, thumbnail generation.
package imageproc

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultText - надпись по умолчанию
const DefaultText = "Gotcha"

// TextColor - 0x800000ff в нотации AARRGGBB: полупрозрачный синий
var TextColor = color.NRGBA{R: 0x00, G: 0x00, B: 0xff, A: 0x80}

var regularFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// TextWatermark рисует text прямо на dst: размер шрифта - половина высоты, базовая линия - на середине высоты, x=0
func TextWatermark(dst *image.NRGBA, text string) error {
	if dst == nil {
		return errors.New("nil-image provided to TextWatermark")
	}
	if text == "" {
		return nil
	}

	h := dst.Bounds().Dy()
	size := float64(h) / 2
	if size < 1 {
		size = 1
	}

	f, err := regularFont()
	if err != nil {
		return fmt.Errorf("parse watermark font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72, // при 72 DPI пункт равен пикселю
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("create watermark font face: %w", err)
	}
	defer face.Close()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(TextColor),
		Face: face,
		Dot:  fixed.P(dst.Bounds().Min.X, dst.Bounds().Min.Y+h/2),
	}
	d.DrawString(text)

	return nil
}

// ImageWatermark накладывает wm по центру dst с заданной прозрачностью
func ImageWatermark(dst *image.NRGBA, wm image.Image, opacity float64) error {
	if dst == nil {
		return errors.New("nil-image baseIMG provided")
	}
	if wm == nil {
		return errors.New("nil-image wmIMG provided")
	}

	baseW := dst.Bounds().Dx()
	baseH := dst.Bounds().Dy()

	// масштабируем watermark до 70 процентов ширины основы
	targetW := int(float64(baseW) * 0.7)
	if targetW < 1 {
		targetW = 1
	}

	scaled := imaging.Resize(wm, targetW, 0, imaging.Lanczos) // 0 - сохраняет ратио ватермарка

	// находим центр основного изображения
	offset := image.Pt(
		(baseW-scaled.Bounds().Dx())/2,
		(baseH-scaled.Bounds().Dy())/2,
	)

	// само наложение, результат возвращаем в исходный буфер
	result := imaging.Overlay(dst, scaled, offset, opacity)
	draw.Draw(dst, dst.Bounds(), result, image.Point{}, draw.Src)

	return nil
}
