package msgame

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Screenshot queues a labeled capture of the game canvas. Queued captures are
// taken once the current frame has been drawn and written as PNG files to
// Config.ScreenshotDir, named after the time and the label.
func (g *Game) Screenshot(label string) {
	g.shots = append(g.shots, label)
}

// PendingScreenshots returns how many captures wait for the end of the frame.
func (g *Game) PendingScreenshots() int { return len(g.shots) }

func (g *Game) flushScreenshots() {
	if len(g.shots) == 0 {
		return
	}
	labels := g.shots
	g.shots = g.shots[:0]

	dir := g.engine.Config.ScreenshotDir
	if dir == "" {
		dir = "screenshots"
	}
	log := g.engine.Log.Named("screenshot")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Error("mkdir failed", zap.String("dir", dir), zap.Error(err))
		return
	}

	b := g.canvas.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	g.canvas.ReadPixels(pixels)
	img := unpremultiply(pixels, b.Dx(), b.Dy())

	stamp := time.Now().Format("20060102_150405")
	for _, label := range labels {
		path := filepath.Join(dir, stamp+"_"+sanitizeLabel(label)+".png")
		if err := writePNG(path, img); err != nil {
			log.Error("write failed", zap.Error(err))
			continue
		}
		log.Info("saved", zap.String("path", path))
	}
}

// unpremultiply converts premultiplied RGBA pixels to straight alpha.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, pixels)
	for i := 0; i+3 < len(img.Pix); i += 4 {
		a := int(img.Pix[i+3])
		if a == 0 || a == 255 {
			continue
		}
		for c := 0; c < 3; c++ {
			img.Pix[i+c] = uint8(min(int(img.Pix[i+c])*255/a, 255))
		}
	}
	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel keeps letters, digits, '-' and '.', replacing anything else
// with '_'. Blank labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
