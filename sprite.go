package msgame

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// ScaleMode decides the drawn size of a frame inside a sprite box.
type ScaleMode uint8

const (
	ScaleStretch ScaleMode = iota // fill the box, ignoring the frame aspect ratio
	ScaleFit                      // largest size that fits inside the box
	ScaleFill                     // smallest size that covers the box
)

func (m ScaleMode) size(bw, bh, iw, ih float64) (w, h float64) {
	if m == ScaleStretch || bw <= 0 || bh <= 0 || iw <= 0 || ih <= 0 {
		return bw, bh
	}
	boxRatio, imgRatio := bw/bh, iw/ih
	if (m == ScaleFit) == (boxRatio < imgRatio) {
		return bw, ih * bw / iw
	}
	return iw * bh / ih, bh
}

// Updater is a behavior run on every sprite update.
type Updater interface {
	UpdateSprite(s *Sprite, dt float64)
}

// Drawer is a behavior that replaces the default sprite drawing.
type Drawer interface {
	DrawSprite(s *Sprite, dst *ebiten.Image, dt, viewX, viewY float64)
}

// ImageSource produces the image of a sprite directly, bypassing its
// animation.
type ImageSource interface {
	SourceImage(s *Sprite, dt float64) *ebiten.Image
}

// UpdaterFunc adapts a function to Updater.
type UpdaterFunc func(s *Sprite, dt float64)

// UpdateSprite calls f.
func (f UpdaterFunc) UpdateSprite(s *Sprite, dt float64) { f(s, dt) }

// DrawerFunc adapts a function to Drawer.
type DrawerFunc func(s *Sprite, dst *ebiten.Image, dt, viewX, viewY float64)

// DrawSprite calls f.
func (f DrawerFunc) DrawSprite(s *Sprite, dst *ebiten.Image, dt, viewX, viewY float64) {
	f(s, dst, dt, viewX, viewY)
}

// SpriteKind is the reusable recipe of a sort of sprite. Setup runs on every
// new sprite right after the defaults are set and before the per-instance
// init function.
type SpriteKind struct {
	Name  string
	Setup func(s *Sprite)
}

// BasicSprite is a kind with no setup of its own.
var BasicSprite = SpriteKind{Name: "sprite"}

// Sprite is a positioned, sized Entity drawn from an Animation.
// (X, Y) refers to the point of its box picked by AnchorX and AnchorY, both
// fractions of the size: 0.5, 1 is the bottom center.
type Sprite struct {
	Entity

	Kind string

	X, Y             float64
	Width, Height    float64
	AnchorX, AnchorY float64
	Angle            float64
	Z                int

	// ViewFactor scales the scene scroll applied to this sprite: 0 pins it
	// to the screen, 1 moves it with the world.
	ViewFactor float64

	Anim     *Animation
	AnimTime float64
	// Shape is the descriptor of the placeholder drawn when Anim is nil.
	Shape  string
	Scale  ScaleMode
	Source ImageSource

	Alpha        float64
	FlipX, FlipY bool
	Composite    BlendMode
	Filters      string

	engine   *Engine
	scene    *Scene
	game     *Game
	updaters []Updater
	drawer   Drawer
	warned   bool
	op       ebiten.DrawImageOptions
}

func newSprite(e *Engine, kind SpriteKind) *Sprite {
	s := &Sprite{
		Kind:       kind.Name,
		Width:      50,
		Height:     50,
		ViewFactor: 1,
		Shape:      "black",
		Alpha:      1,
		engine:     e,
	}
	if kind.Setup != nil {
		kind.Setup(s)
	}
	return s
}

// validate panics on a placeholder descriptor that cannot be drawn.
func (s *Sprite) validate() {
	if s.Anim != nil || s.Source != nil || s.Shape == "" {
		return
	}
	if _, err := ParseShape(s.Shape); err != nil {
		panic("msgame: sprite " + s.Kind + ": " + err.Error())
	}
}

// Scene returns the owning scene, nil for game-level sprites.
func (s *Sprite) Scene() *Scene { return s.scene }

// Game returns the game the sprite belongs to.
func (s *Sprite) Game() *Game { return s.game }

// Engine returns the engine context the sprite was built with.
func (s *Sprite) Engine() *Engine { return s.engine }

// AddUpdater attaches a behavior run on every update.
func (s *Sprite) AddUpdater(u Updater) { s.updaters = append(s.updaters, u) }

// SetDrawer replaces the default drawing. nil restores it.
func (s *Sprite) SetDrawer(d Drawer) { s.drawer = d }

// Boundaries returns the anchor-adjusted box used for drawing and collision.
func (s *Sprite) Boundaries() Rect {
	return Rect{
		X:      s.X - s.Width*s.AnchorX,
		Y:      s.Y - s.Height*s.AnchorY,
		Width:  s.Width,
		Height: s.Height,
	}
}

// SetAnim switches the animation and restarts its clock when it changes.
func (s *Sprite) SetAnim(a *Animation) {
	if s.Anim == a {
		return
	}
	s.Anim = a
	s.AnimTime = 0
}

// AnimFinished reports whether a non-looping animation has played out.
func (s *Sprite) AnimFinished() bool {
	return s.Anim != nil && s.Anim.Finished(s.AnimTime)
}

// Update advances the sprite clock, runs its behaviors and fires EventUpdate.
func (s *Sprite) Update(dt float64) {
	if s.Removed() {
		return
	}
	s.Entity.Update(dt)
	for _, u := range s.updaters {
		if s.Removed() {
			return
		}
		u.UpdateSprite(s, dt)
	}
	if s.Removed() {
		return
	}
	s.Trigger(Event{Name: EventUpdate, DT: dt})
}

func (s *Sprite) animation() *Animation {
	if s.Anim != nil {
		return s.Anim
	}
	if s.Shape == "" {
		return nil
	}
	var (
		a   *Animation
		err error
	)
	if s.engine != nil {
		a, err = s.engine.ShapeAnimation(s.Shape)
	} else {
		a, err = detachedShapes.animation(s.Shape)
	}
	if err != nil {
		s.warn("bad shape descriptor", err)
		return nil
	}
	return a
}

// Sprites built without an engine share this cache.
var detachedShapes shapeCache

// TransformParams returns how img is rendered for the sprite's current state.
func (s *Sprite) TransformParams(img *ebiten.Image) TransformParams {
	b := img.Bounds()
	w, h := s.Scale.size(s.Width, s.Height, float64(b.Dx()), float64(b.Dy()))
	p := TransformParams{
		Width:     w,
		Height:    h,
		Angle:     s.Angle,
		FlipX:     s.FlipX,
		FlipY:     s.FlipY,
		Composite: s.Composite,
		Filters:   s.Filters,
	}
	if s.Alpha < 1 {
		p.Alpha = s.Alpha
	}
	return p
}

// resolveFrame returns the image to draw this frame, or nil, and advances
// the animation clock by dt.
func (s *Sprite) resolveFrame(dt float64) *ebiten.Image {
	if s.Source != nil {
		return s.Source.SourceImage(s, dt)
	}
	a := s.animation()
	if a == nil {
		return nil
	}
	img := a.Frame(s.AnimTime)
	s.AnimTime += dt
	if img == nil {
		return nil
	}
	out, err := a.Transform(img, s.TransformParams(img))
	if err != nil {
		s.warn("transform failed", err)
		return nil
	}
	return out
}

func (s *Sprite) warn(msg string, err error) {
	if s.warned || s.engine == nil {
		return
	}
	s.warned = true
	s.engine.Log.Error(msg, zap.String("kind", s.Kind), zap.Error(err))
}

// DrawTo draws the current frame centered in the sprite box, offset by the
// view and snapped to whole pixels.
func (s *Sprite) DrawTo(dst *ebiten.Image, dt, viewX, viewY float64) {
	if s.Removed() {
		return
	}
	if s.drawer != nil {
		s.drawer.DrawSprite(s, dst, dt, viewX, viewY)
		return
	}
	img := s.resolveFrame(dt)
	if img == nil || s.Alpha <= 0 {
		return
	}
	b := s.Boundaries()
	ib := img.Bounds()
	x := b.X + (s.Width-float64(ib.Dx()))/2 - viewX
	y := b.Y + (s.Height-float64(ib.Dy()))/2 - viewY

	s.op.GeoM.Reset()
	s.op.GeoM.Translate(math.Floor(x), math.Floor(y))
	s.op.Blend = s.Composite.EbitenBlend()
	dst.DrawImage(img, &s.op)
}

// HitTest reports whether (x, y) lies inside the sprite box.
func (s *Sprite) HitTest(x, y float64) bool {
	return s.Boundaries().Contains(x, y)
}
