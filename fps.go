package msgame

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// FPSCounter is an ImageSource showing the measured FPS and TPS, refreshed
// every Interval seconds.
type FPSCounter struct {
	Interval float64

	img     *ebiten.Image
	elapsed float64
	drawn   bool
	fps     func() float64
	tps     func() float64
}

// NewFPSCounter returns a counter refreshed twice a second.
func NewFPSCounter() *FPSCounter {
	return &FPSCounter{Interval: 0.5, fps: ebiten.ActualFPS, tps: ebiten.ActualTPS}
}

// SourceImage implements ImageSource.
func (c *FPSCounter) SourceImage(s *Sprite, dt float64) *ebiten.Image {
	if c.img == nil {
		// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
		c.img = ebiten.NewImage(100, 32)
		s.Width, s.Height = 100, 32
	}
	c.elapsed += dt
	if c.drawn && c.elapsed < c.Interval {
		return c.img
	}
	c.elapsed = 0
	c.drawn = true

	c.img.Clear()
	// Semi-transparent background for readability
	c.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(c.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", c.fps(), c.tps()))
	return c.img
}

// FPSSprite returns a sprite kind showing an FPS counter, pinned to the
// screen and drawn above other sprites.
func FPSSprite() SpriteKind {
	return SpriteKind{Name: "fps", Setup: func(s *Sprite) {
		s.Source = NewFPSCounter()
		s.ViewFactor = 0
		s.Z = 1 << 20
	}}
}
