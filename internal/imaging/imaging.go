package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/boombuler/barcode/qr"
	"golang.org/x/image/draw"
)

// Size bounds for rendered QR codes, in pixels.
const (
	MinSize     = 64
	MaxSize     = 2048
	DefaultSize = 512
)

// QuietZone is the blank border around the code, in modules.
const QuietZone = 4

// RenderQR renders payload as a square PNG QR code of roughly size pixels.
// The size is clamped to [MinSize, MaxSize] and grown if needed so that every
// module is at least one pixel wide.
func RenderQR(payload string, size int) ([]byte, error) {
	img, err := QRImage(payload, size)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// QRImage renders payload as a square grayscale QR code image.
func QRImage(payload string, size int) (image.Image, error) {
	if payload == "" {
		return nil, fmt.Errorf("empty QR payload")
	}

	code, err := qr.Encode(payload, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("encoding QR code: %w", err)
	}

	size = clamp(size)
	modules := code.Bounds().Dx() + 2*QuietZone
	scale := size / modules
	if scale < 1 {
		scale = 1
		size = modules
	}

	dst := image.NewGray(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	// Center the code, keeping whole pixels per module.
	side := scale * code.Bounds().Dx()
	offset := (size - side) / 2
	target := image.Rect(offset, offset, offset+side, offset+side)
	draw.NearestNeighbor.Scale(dst, target, code, code.Bounds(), draw.Src, nil)

	return dst, nil
}

func clamp(size int) int {
	switch {
	case size <= 0:
		return DefaultSize
	case size < MinSize:
		return MinSize
	case size > MaxSize:
		return MaxSize
	}
	return size
}
