package msgame

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-spawn", "after-spawn"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"special!@#", "special___"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeLabel(tt.in), "label %q", tt.in)
	}
}

func TestScreenshotQueue(t *testing.T) {
	g := newTestGame(t)
	g.Screenshot("a")
	g.Screenshot("b")
	assert.Equal(t, 2, g.PendingScreenshots())
	assert.Equal(t, []string{"a", "b"}, g.shots)
}

func TestUnpremultiply(t *testing.T) {
	px := []byte{
		255, 0, 0, 255,
		64, 32, 0, 128,
		0, 0, 0, 0,
	}
	img := unpremultiply(px, 3, 1)
	assert.Equal(t, []byte{255, 0, 0, 255}, img.Pix[0:4])
	assert.Equal(t, []byte{127, 63, 0, 128}, img.Pix[4:8])
	assert.Equal(t, []byte{0, 0, 0, 0}, img.Pix[8:12])
	assert.Equal(t, byte(64), px[4], "input left untouched")
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	src := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	require.NoError(t, writePNG(path, src))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Width)
	assert.Equal(t, 2, cfg.Height)
}
