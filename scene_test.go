package msgame

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanema/gween/ease"
)

type drawCall struct {
	sprite       *Sprite
	viewX, viewY float64
}

// recordDrawer records draw calls instead of drawing.
type recordDrawer struct{ calls *[]drawCall }

func (r recordDrawer) DrawSprite(s *Sprite, _ *ebiten.Image, _, vx, vy float64) {
	*r.calls = append(*r.calls, drawCall{s, vx, vy})
}

func recorded(calls *[]drawCall) SpriteKind {
	return SpriteKind{Name: "recorded", Setup: func(s *Sprite) { s.SetDrawer(recordDrawer{calls}) }}
}

func TestSceneAddSprite(t *testing.T) {
	sc := NewScene(nil, 100, 80)
	var order []string
	kind := SpriteKind{Name: "hero", Setup: func(s *Sprite) {
		order = append(order, "setup")
		s.Width = 20
	}}
	sp := sc.AddSprite(kind, func(s *Sprite) {
		order = append(order, "init")
		s.X = 7
	})

	assert.Equal(t, []string{"setup", "init"}, order)
	assert.Equal(t, "hero", sp.Kind)
	assert.Equal(t, 20.0, sp.Width)
	assert.Equal(t, 50.0, sp.Height, "default kept")
	assert.Equal(t, 7.0, sp.X)
	assert.Equal(t, 1.0, sp.ViewFactor)
	assert.Equal(t, "black", sp.Shape)
	assert.Same(t, sc, sp.Scene())
	assert.Equal(t, []*Sprite{sp}, sc.Sprites())
}

func TestSceneAddSpriteBadShapePanics(t *testing.T) {
	sc := NewScene(nil, 10, 10)
	assert.Panics(t, func() {
		sc.AddSprite(BasicSprite, func(s *Sprite) { s.Shape = "ultraviolet" })
	})
	assert.Panics(t, func() {
		sc.AddSprite(BasicSprite, func(s *Sprite) { s.Shape = "red_triangle" })
	})
	assert.Empty(t, sc.Sprites())
}

func TestSceneUpdateExcisesRemoved(t *testing.T) {
	sc := NewScene(nil, 10, 10)
	var calls []drawCall
	a := sc.AddSprite(recorded(&calls), nil)
	b := sc.AddSprite(recorded(&calls), nil)

	b.Remove()
	sc.Update(0.1)
	assert.Equal(t, []*Sprite{a}, sc.Sprites())

	sc.Draw(0.1)
	require.Len(t, calls, 1)
	assert.Same(t, a, calls[0].sprite)
}

func TestSceneRemovedBeforeUpdateIsNeverDrawn(t *testing.T) {
	sc := NewScene(nil, 10, 10)
	var calls []drawCall
	a := sc.AddSprite(recorded(&calls), nil)
	a.Remove()

	sc.Draw(0)
	assert.Empty(t, calls)
}

func TestSceneSpriteRemovedDuringUpdate(t *testing.T) {
	sc := NewScene(nil, 10, 10)
	updates := 0
	victim := sc.AddSprite(BasicSprite, func(s *Sprite) {
		s.AddUpdater(UpdaterFunc(func(*Sprite, float64) { updates++ }))
	})
	sc.AddSprite(BasicSprite, func(s *Sprite) {
		s.On(EventUpdate, func(Event) { victim.Remove() })
	})

	sc.Update(0.1)
	sc.Update(0.1)
	assert.Equal(t, 1, updates)
	assert.Len(t, sc.Sprites(), 1)
}

func TestSceneSpriteAddedDuringUpdate(t *testing.T) {
	sc := NewScene(nil, 10, 10)
	var spawned *Sprite
	sc.AddSprite(BasicSprite, func(s *Sprite) {
		s.Once(EventStart, func(Event) {
			spawned = sc.AddSprite(BasicSprite, nil)
		})
	})

	sc.Update(0.1)
	require.NotNil(t, spawned)
	assert.Equal(t, 0.0, spawned.Time(), "not updated in the pass that created it")
	assert.Len(t, sc.Sprites(), 2)
}

func TestSceneDrawOrder(t *testing.T) {
	sc := NewScene(nil, 10, 10)
	mk := func(z int, y float64) *Sprite {
		return sc.AddSprite(BasicSprite, func(s *Sprite) { s.Z, s.Y = z, y })
	}
	top := mk(1, 0)
	low := mk(0, 30)
	high := mk(0, 10)
	tieA := mk(0, 20)
	tieB := mk(0, 20)

	assert.Equal(t, []*Sprite{high, tieA, tieB, low, top}, sc.DrawOrder())
	assert.Equal(t, []*Sprite{top, low, high, tieA, tieB}, sc.Sprites(), "insertion order kept")
}

func TestSceneDrawAppliesViewFactor(t *testing.T) {
	sc := NewScene(nil, 10, 10)
	sc.ViewX, sc.ViewY = 100, -40
	var calls []drawCall
	world := sc.AddSprite(recorded(&calls), nil)
	hud := sc.AddSprite(recorded(&calls), func(s *Sprite) { s.ViewFactor = 0 })
	far := sc.AddSprite(recorded(&calls), func(s *Sprite) { s.ViewFactor = 0.5 })

	sc.Draw(0)
	require.Len(t, calls, 3)
	got := map[*Sprite][2]float64{}
	for _, c := range calls {
		got[c.sprite] = [2]float64{c.viewX, c.viewY}
	}
	assert.Equal(t, [2]float64{100, -40}, got[world])
	assert.Equal(t, [2]float64{0, 0}, got[hud])
	assert.Equal(t, [2]float64{50, -20}, got[far])
}

func TestSceneRemoveCascades(t *testing.T) {
	sc := NewScene(nil, 10, 10)
	a := sc.AddSprite(BasicSprite, nil)
	b := sc.AddSprite(BasicSprite, nil)
	removes := 0
	sc.On(EventRemove, func(Event) { removes++ })

	sc.Remove()
	sc.Remove()

	assert.True(t, a.Removed())
	assert.True(t, b.Removed())
	assert.Equal(t, 1, removes)
}

func TestSceneDrawTo(t *testing.T) {
	sc := NewScene(nil, 30, 20)
	sc.AddSprite(BasicSprite, func(s *Sprite) { s.Shape = "red_circle"; s.Width = 10 })
	dst := ebiten.NewImage(60, 60)

	sc.DrawTo(dst, 0.016, 0, 0)
	assert.Equal(t, 30, sc.Canvas().Bounds().Dx())
	assert.Equal(t, 20, sc.Canvas().Bounds().Dy())
}

func TestSceneScrollTo(t *testing.T) {
	sc := NewScene(nil, 10, 10)
	sc.ScrollTo(100, -50, 1, ease.Linear)
	require.True(t, sc.Scrolling())

	sc.Update(0.5)
	assert.InDelta(t, 50, sc.ViewX, 0.5)
	sc.Update(0.5)
	assert.InDelta(t, 100, sc.ViewX, 0.5)
	assert.InDelta(t, -50, sc.ViewY, 0.5)
	assert.False(t, sc.Scrolling())
}

func TestSceneFollow(t *testing.T) {
	sc := NewScene(nil, 400, 600)
	hero := sc.AddSprite(BasicSprite, func(s *Sprite) { s.X, s.Y = 200, 1000 })
	sc.Follow(hero, 200, 400, 1)

	sc.Update(0.1)
	assert.Equal(t, Rect{0, 600, 400, 600}, sc.ViewRect())

	hero.Remove()
	sc.Update(0.1)
	assert.Equal(t, 600.0, sc.ViewY)
}
