// Package shot writes screenshots of a terminal frame as plain text and
// as a PNG raster.
package shot

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/vovakirdan/void-runner/internal/core"
)

// Cell size in pixels, matching basicfont.Face7x13.
const (
	CellW = 7
	CellH = 13
)

// Save writes <prefix>_<timestamp>.txt and .png into dir and returns
// both paths.
func Save(dir, prefix string, s *core.Screen, now time.Time) (txtPath, pngPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("shot: cannot create directory %s: %w", dir, err)
	}

	base := filepath.Join(dir, fmt.Sprintf("%s_%s", prefix, now.Format("20060102_150405")))
	txtPath = base + ".txt"
	pngPath = base + ".png"

	if err := os.WriteFile(txtPath, []byte(s.String()), 0o600); err != nil {
		return "", "", fmt.Errorf("shot: cannot write %s: %w", txtPath, err)
	}
	if err := gg.SavePNG(pngPath, Render(s)); err != nil {
		return "", "", fmt.Errorf("shot: cannot write %s: %w", pngPath, err)
	}
	return txtPath, pngPath, nil
}

// Render rasterizes the screen on a black background. Block and shape
// glyphs outside the bitmap font are drawn as vector shapes.
func Render(s *core.Screen) image.Image {
	dc := gg.NewContext(max(1, s.Width()*CellW), max(1, s.Height()*CellH))
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			cell := s.GetCell(x, y)
			if cell.Rune == ' ' {
				continue
			}
			dc.SetRGB(cell.Color.RGB())
			drawGlyph(dc, cell.Rune, float64(x*CellW), float64(y*CellH))
		}
	}
	return dc.Image()
}

var shades = map[rune]float64{'▓': 0.75, '▒': 0.5, '░': 0.25}

func drawGlyph(dc *gg.Context, r rune, px, py float64) {
	const w, h = float64(CellW), float64(CellH)
	cx, cy := px+w/2, py+h/2

	switch r {
	case '█':
		dc.DrawRectangle(px, py, w, h)
		dc.Fill()
	case '▓', '▒', '░':
		drawShaded(dc, px, py, w, h, shades[r])
	case '◆':
		dc.MoveTo(cx, py+2)
		dc.LineTo(px+w-1, cy)
		dc.LineTo(cx, py+h-2)
		dc.LineTo(px+1, cy)
		dc.ClosePath()
		dc.Fill()
	case '▲':
		dc.MoveTo(cx, py+2)
		dc.LineTo(px+w-1, py+h-2)
		dc.LineTo(px+1, py+h-2)
		dc.ClosePath()
		dc.Fill()
	case '◢':
		dc.MoveTo(px+w, py+2)
		dc.LineTo(px+w, py+h-2)
		dc.LineTo(px, py+h-2)
		dc.ClosePath()
		dc.Fill()
	case '◣':
		dc.MoveTo(px, py+2)
		dc.LineTo(px+w, py+h-2)
		dc.LineTo(px, py+h-2)
		dc.ClosePath()
		dc.Fill()
	case '·', '•':
		dc.DrawCircle(cx, cy, 1.5)
		dc.Fill()
	default:
		if r < 128 {
			dc.DrawString(string(r), px, py+h-3)
			return
		}
		// Unknown symbol: a small box keeps its position visible
		dc.DrawRectangle(px+2, py+4, w-4, h-8)
		dc.Stroke()
	}
}

// drawShaded fills every other pixel row with the current color to
// suggest partial block shades.
func drawShaded(dc *gg.Context, px, py, w, h, shade float64) {
	step := 1 + int((1-shade)*3)
	for row := 0; row < int(h); row += step {
		dc.DrawRectangle(px, py+float64(row), w, 1)
	}
	dc.Fill()
}
