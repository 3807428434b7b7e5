package tray

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Icon is a tray image. Template is a monochrome variant for menu bars that
// tint icons themselves (macOS).
type Icon struct {
	Data     []byte
	Template []byte
	Source   string
	Default  bool
}

const defaultIconSize = 32

var defaultIcon = sync.OnceValue(func() Icon {
	img := renderDefault(defaultIconSize)
	return Icon{
		Data:     encodePNG(img),
		Template: encodePNG(monochrome(img)),
		Source:   "default",
		Default:  true,
	}
})

// DefaultIcon returns the built-in icon.
func DefaultIcon() Icon {
	return defaultIcon()
}

// LoadIconOrDefault reads and decodes the icon at path. A missing file, an
// undecodable or empty image falls back to the built-in icon; the failure is
// logged and never returned.
func LoadIconOrDefault(fs afero.Fs, path string, logger *zap.Logger) Icon {
	if path == "" {
		return DefaultIcon()
	}

	icon, err := loadIcon(fs, path)
	if err != nil {
		logger.Warn("Tray icon unavailable, using default", zap.String("path", path), zap.Error(err))
		return DefaultIcon()
	}
	return icon
}

func loadIcon(fs afero.Fs, path string) (Icon, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Icon{}, fmt.Errorf("failed to read icon: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Icon{}, fmt.Errorf("failed to decode icon: %w", err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return Icon{}, fmt.Errorf("icon %s is empty", path)
	}

	// systray accepts PNG on every platform
	if format != "png" {
		data = encodePNG(img)
	}

	return Icon{
		Data:     data,
		Template: encodePNG(monochrome(img)),
		Source:   path,
	}, nil
}

// renderDefault draws a filled disc with a bar chart cut out of it.
func renderDefault(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	fill := color.NRGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0xff}

	c := float64(size-1) / 2
	r2 := c * c
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			if dx*dx+dy*dy <= r2 {
				img.SetNRGBA(x, y, fill)
			}
		}
	}

	unit := size / 8
	bars := []int{3, 5, 4}
	for i, h := range bars {
		x0 := unit*2 + i*unit*3/2
		rect := image.Rect(x0, size-unit*2-h*unit, x0+unit, size-unit*2)
		draw.Draw(img, rect, image.NewUniform(color.White), image.Point{}, draw.Src)
	}
	return img
}

// monochrome keeps only the alpha channel, painted black.
func monochrome(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := src.At(x, y).RGBA()
			dst.SetNRGBA(x, y, color.NRGBA{A: uint8(a >> 8)})
		}
	}
	return dst
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	// encoding an in-memory NRGBA image does not fail
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
