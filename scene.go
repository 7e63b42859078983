package msgame

import (
	"cmp"
	"math"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Scene owns a list of sprites and draws them onto its own surface, scrolled
// by (ViewX, ViewY). A scene can itself be drawn onto another surface at
// (X, Y), which is how pause overlays are composited.
type Scene struct {
	Entity

	X, Y         float64
	ViewX, ViewY float64
	Width        int
	Height       int

	// Background fills the surface before each draw pass.
	Background Color
	// Retain keeps the previous frame instead of refilling the surface,
	// for overlays painted once.
	Retain bool

	engine  *Engine
	game    *Game
	sprites []*Sprite
	order   []*Sprite
	canvas  *ebiten.Image
	filled  bool
	op      ebiten.DrawImageOptions

	scroll       *scrollAnim
	followTarget *Sprite
	followX      float64
	followY      float64
	followLerp   float64
}

type scrollAnim struct {
	tweenX, tweenY *gween.Tween
	doneX, doneY   bool
}

// NewScene returns an empty w by h scene on a white background.
func NewScene(e *Engine, w, h int) *Scene {
	if w <= 0 || h <= 0 {
		panic("msgame: scene size must be positive")
	}
	return &Scene{engine: e, Width: w, Height: h, Background: ColorWhite}
}

// Game returns the game the scene was created by, if any.
func (s *Scene) Game() *Game { return s.game }

// Engine returns the engine context.
func (s *Scene) Engine() *Engine { return s.engine }

// Sprites returns the active sprites in insertion order. The slice must not
// be modified.
func (s *Scene) Sprites() []*Sprite { return s.sprites }

// Canvas returns the backing surface, creating it on first use.
func (s *Scene) Canvas() *ebiten.Image {
	if s.canvas == nil {
		s.canvas = ebiten.NewImage(s.Width, s.Height)
	}
	return s.canvas
}

// ViewRect returns the visible world area.
func (s *Scene) ViewRect() Rect {
	return Rect{X: s.ViewX, Y: s.ViewY, Width: float64(s.Width), Height: float64(s.Height)}
}

// AddSprite creates a sprite of the given kind owned by the scene, lets init
// set its fields and appends it. A placeholder descriptor that cannot be
// parsed panics.
func (s *Scene) AddSprite(kind SpriteKind, init func(*Sprite)) *Sprite {
	sp := newSprite(s.engine, kind)
	sp.scene = s
	sp.game = s.game
	if init != nil {
		init(sp)
	}
	sp.validate()
	s.sprites = append(s.sprites, sp)
	return sp
}

// Update advances the scene clock and every sprite present when the pass
// starts, then drops removed sprites.
func (s *Scene) Update(dt float64) {
	if s.Removed() {
		return
	}
	s.Entity.Update(dt)
	s.updateView(dt)
	n := len(s.sprites)
	for i := 0; i < n; i++ {
		s.sprites[i].Update(dt)
	}
	s.sprites = slices.DeleteFunc(s.sprites, (*Sprite).Removed)
}

// DrawOrder returns the sprites in the order Draw paints them: by Z, then
// by Y so lower sprites cover higher ones, insertion order breaking ties.
func (s *Scene) DrawOrder() []*Sprite {
	s.order = s.order[:0]
	for _, sp := range s.sprites {
		if !sp.Removed() {
			s.order = append(s.order, sp)
		}
	}
	slices.SortStableFunc(s.order, func(a, b *Sprite) int {
		if c := cmp.Compare(a.Z, b.Z); c != 0 {
			return c
		}
		return cmp.Compare(a.Y, b.Y)
	})
	return s.order
}

// Draw paints every sprite onto the scene surface.
func (s *Scene) Draw(dt float64) {
	canvas := s.Canvas()
	if !s.Retain || !s.filled {
		canvas.Fill(s.Background.RGBA())
		s.filled = true
	}
	for _, sp := range s.DrawOrder() {
		sp.DrawTo(canvas, dt, s.ViewX*sp.ViewFactor, s.ViewY*sp.ViewFactor)
	}
}

// DrawTo runs a draw pass and copies the surface onto dst at the scene
// position minus the given view offset.
func (s *Scene) DrawTo(dst *ebiten.Image, dt, viewX, viewY float64) {
	if s.Removed() {
		return
	}
	s.Draw(dt)
	s.op.GeoM.Reset()
	s.op.GeoM.Translate(math.Floor(s.X-viewX), math.Floor(s.Y-viewY))
	dst.DrawImage(s.canvas, &s.op)
}

// Remove removes the scene and every sprite it owns.
func (s *Scene) Remove() {
	if s.Removed() {
		return
	}
	s.Entity.Remove()
	for _, sp := range s.sprites {
		sp.Remove()
	}
}

// ScrollTo animates the view to (x, y) over duration seconds.
func (s *Scene) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	s.scroll = &scrollAnim{
		tweenX: gween.New(float32(s.ViewX), float32(x), duration, easeFn),
		tweenY: gween.New(float32(s.ViewY), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is running.
func (s *Scene) Scrolling() bool { return s.scroll != nil }

// Follow keeps target at (offsetX, offsetY) from the view origin, closing
// lerp of the gap every update; 1 snaps. A nil target stops following.
func (s *Scene) Follow(target *Sprite, offsetX, offsetY, lerp float64) {
	s.followTarget = target
	s.followX = offsetX
	s.followY = offsetY
	s.followLerp = lerp
}

func (s *Scene) updateView(dt float64) {
	if t := s.followTarget; t != nil {
		if t.Removed() {
			s.followTarget = nil
		} else {
			s.ViewX += (t.X - s.followX - s.ViewX) * s.followLerp
			s.ViewY += (t.Y - s.followY - s.ViewY) * s.followLerp
		}
	}
	if s.scroll != nil {
		if !s.scroll.doneX {
			val, done := s.scroll.tweenX.Update(float32(dt))
			s.ViewX = float64(val)
			s.scroll.doneX = done
		}
		if !s.scroll.doneY {
			val, done := s.scroll.tweenY.Update(float32(dt))
			s.ViewY = float64(val)
			s.scroll.doneY = done
		}
		if s.scroll.doneX && s.scroll.doneY {
			s.scroll = nil
		}
	}
}
