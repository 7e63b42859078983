package msgame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tanema/gween/ease"
)

func TestTweenPosition(t *testing.T) {
	s := newSprite(nil, BasicSprite)
	s.X, s.Y = 0, 100
	g := TweenPosition(s, 100, 0, 1, ease.Linear)

	g.Update(0.5)
	assert.InDelta(t, 50, s.X, 0.01)
	assert.InDelta(t, 50, s.Y, 0.01)
	assert.False(t, g.Done)

	g.Update(0.5)
	assert.InDelta(t, 100, s.X, 0.01)
	assert.InDelta(t, 0, s.Y, 0.01)
	assert.True(t, g.Done)
}

func TestTweenAsBehavior(t *testing.T) {
	s := newSprite(nil, BasicSprite)
	g := TweenAlpha(s, 0, 0.5, ease.Linear)
	done := 0
	g.OnDone = func() { done++ }
	s.AddUpdater(g)

	for i := 0; i < 4; i++ {
		s.Update(0.25)
	}
	assert.InDelta(t, 0, s.Alpha, 0.01)
	assert.Equal(t, 1, done)
}

func TestTweenStopsWhenTargetRemoved(t *testing.T) {
	s := newSprite(nil, BasicSprite)
	g := TweenAngle(s, 3, 1, ease.Linear)
	g.Update(0.5)
	angle := s.Angle

	s.Remove()
	g.Update(0.5)
	assert.True(t, g.Done)
	assert.Equal(t, angle, s.Angle)
}

func TestTweenSize(t *testing.T) {
	s := newSprite(nil, BasicSprite)
	g := TweenSize(s, 100, 10, 2, nil)
	g.Update(2)
	assert.InDelta(t, 100, s.Width, 0.01)
	assert.InDelta(t, 10, s.Height, 0.01)
}
