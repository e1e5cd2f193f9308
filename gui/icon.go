//go:build gui

package gui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"sync"

	"fyne.io/fyne/v2"
)

var (
	iconOnce sync.Once
	iconRes  fyne.Resource
)

// trayIcon draws a 22px clipboard glyph: a rounded board with a clip
// centred on its top edge.
func trayIcon() fyne.Resource {
	iconOnce.Do(func() {
		var buf bytes.Buffer
		if err := png.Encode(&buf, drawIcon(22)); err != nil {
			return
		}
		iconRes = fyne.NewStaticResource("tray.png", buf.Bytes())
	})
	return iconRes
}

func drawIcon(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	board := color.RGBA{230, 230, 230, 255}
	clip := color.RGBA{255, 150, 40, 255}
	line := color.RGBA{120, 120, 120, 255}

	s := float64(size)
	left, right := s*0.18, s*0.82
	top, bottom := s*0.14, s*0.95
	const radius = 2.5

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			if !inRoundedRect(fx, fy, left, top, right, bottom, radius) {
				continue
			}
			img.Set(x, y, board)

			// Text lines
			if fx > left+3 && fx < right-3 {
				for _, ly := range []float64{0.45, 0.6, 0.75} {
					if math.Abs(fy-s*ly) < 0.7 {
						img.Set(x, y, line)
					}
				}
			}
		}
	}

	// Clip
	for y := 0; y < int(s*0.28); y++ {
		for x := int(s * 0.34); x < int(s*0.66); x++ {
			img.Set(x, y, clip)
		}
	}
	return img
}

func inRoundedRect(x, y, left, top, right, bottom, r float64) bool {
	if x < left || x > right || y < top || y > bottom {
		return false
	}
	cx := math.Max(left+r, math.Min(x, right-r))
	cy := math.Max(top+r, math.Min(y, bottom-r))
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= r*r
}
