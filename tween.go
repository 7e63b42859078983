package msgame

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields of a Sprite together. Build one
// with TweenPosition, TweenSize, TweenAlpha or TweenAngle and either call
// Update(dt) yourself or attach it with Sprite.AddUpdater. Once the target
// sprite is removed the group stops.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Sprite
	Done   bool

	// OnDone runs once, on the update that finishes the group.
	OnDone func()
}

// Update advances all tweens by dt seconds and writes the values to the
// target fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.Removed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	if g.Done && g.OnDone != nil {
		g.OnDone()
	}
}

// UpdateSprite lets a group run as a sprite behavior.
func (g *TweenGroup) UpdateSprite(_ *Sprite, dt float64) { g.Update(float32(dt)) }

func newTween(s *Sprite, duration float32, fn ease.TweenFunc, pairs ...*float64) *TweenGroup {
	if fn == nil {
		fn = ease.Linear
	}
	g := &TweenGroup{count: len(pairs) / 2, target: s}
	for i := 0; i < g.count; i++ {
		field, to := pairs[2*i], pairs[2*i+1]
		g.tweens[i] = gween.New(float32(*field), float32(*to), duration, fn)
		g.fields[i] = field
	}
	return g
}

// TweenPosition moves s to (toX, toY) over duration seconds.
func TweenPosition(s *Sprite, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTween(s, duration, fn, &s.X, &toX, &s.Y, &toY)
}

// TweenSize resizes s to toW by toH over duration seconds.
func TweenSize(s *Sprite, toW, toH float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTween(s, duration, fn, &s.Width, &toW, &s.Height, &toH)
}

// TweenAlpha fades s to the given alpha over duration seconds.
func TweenAlpha(s *Sprite, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTween(s, duration, fn, &s.Alpha, &to)
}

// TweenAngle rotates s to the given angle, in radians, over duration seconds.
func TweenAngle(s *Sprite, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTween(s, duration, fn, &s.Angle, &to)
}
