package msgame

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Flash is a full-box color flash that fades out over TTL seconds and then
// removes its sprite. It is both the updater and the drawer of the sprite.
type Flash struct {
	Color Color
	TTL   float32

	tween *gween.Tween
	alpha float64
}

// FlashSprite returns a sprite kind that flashes c for ttl seconds. The
// sprite ignores scrolling; size it to cover what should flash.
func FlashSprite(c Color, ttl float32) SpriteKind {
	return SpriteKind{Name: "flash", Setup: func(s *Sprite) {
		f := &Flash{Color: c, TTL: ttl}
		if f.TTL <= 0 {
			f.TTL = 0.15
		}
		f.tween = gween.New(1, 0, f.TTL, ease.OutQuad)
		f.alpha = 1
		s.ViewFactor = 0
		s.AddUpdater(f)
		s.SetDrawer(f)
	}}
}

// Alpha returns the current opacity of the flash.
func (f *Flash) Alpha() float64 { return f.alpha }

func (f *Flash) UpdateSprite(s *Sprite, dt float64) {
	v, done := f.tween.Update(float32(dt))
	f.alpha = float64(v)
	if done {
		s.Remove()
	}
}

func (f *Flash) DrawSprite(s *Sprite, dst *ebiten.Image, _, viewX, viewY float64) {
	if f.alpha <= 0 {
		return
	}
	b := s.Boundaries()
	c := f.Color
	c.A *= f.alpha
	vector.DrawFilledRect(dst,
		float32(math.Floor(b.X-viewX)), float32(math.Floor(b.Y-viewY)),
		float32(b.Width), float32(b.Height), c.RGBA(), false)
}

// NewPauseOverlay returns a scene the size of g that dims what is below it
// and shows label in the middle. Use it with Game.SetPauseScene.
func NewPauseOverlay(g *Game, label string) *Scene {
	sc := g.NewScene()
	sc.Background = Color{A: 0.5}
	txt := NewText(label)
	txt.Color = ColorWhite
	txt.Font = DefaultFont(32)
	sc.AddSprite(TextSprite(txt), func(s *Sprite) {
		s.X, s.Y = float64(g.Width)/2, float64(g.Height)/2
		s.AnchorX, s.AnchorY = 0.5, 0.5
		s.ViewFactor = 0
	})
	return sc
}
