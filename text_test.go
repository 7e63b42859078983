package msgame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestTextResizesSprite(t *testing.T) {
	txt := NewText("score: 10")
	s := newSprite(nil, TextSprite(txt))
	assert.Equal(t, "text", s.Kind)

	img := s.resolveFrame(0)
	require.NotNil(t, img)
	assert.Positive(t, s.Width)
	assert.Equal(t, float64(img.Bounds().Dx()), s.Width)
	assert.Equal(t, float64(img.Bounds().Dy()), s.Height)
}

func TestTextRedrawsOnlyOnChange(t *testing.T) {
	value := "a"
	txt := NewTextFunc(func() string { return value })
	s := newSprite(nil, TextSprite(txt))

	first := s.resolveFrame(0)
	assert.Same(t, first, s.resolveFrame(0))

	value = "a much longer line"
	second := s.resolveFrame(0)
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
	assert.Greater(t, second.Bounds().Dx(), 10)
}

func TestTextMultiline(t *testing.T) {
	txt := NewText("one\ntwo\nthree")
	txt.LineHeight = 24
	s := newSprite(nil, TextSprite(txt))
	s.resolveFrame(0)
	assert.Equal(t, 72.0, s.Height)
}

func TestTextEmpty(t *testing.T) {
	txt := NewText("")
	s := newSprite(nil, TextSprite(txt))
	assert.Nil(t, s.resolveFrame(0))
	assert.Equal(t, 0.0, s.Width)
}

func TestTextAlignFollowsAnchor(t *testing.T) {
	assert.Equal(t, AlignLeft, AlignAuto.resolve(0))
	assert.Equal(t, AlignRight, AlignAuto.resolve(1))
	assert.Equal(t, AlignCenter, AlignAuto.resolve(0.5))
	assert.Equal(t, AlignRight, AlignRight.resolve(0))
}

func TestLoadFont(t *testing.T) {
	f, err := LoadFont(goregular.TTF, 32)
	require.NoError(t, err)
	assert.Positive(t, f.LineHeight())
	w, _ := f.MeasureString("hello")
	assert.Positive(t, w)
	assert.Same(t, DefaultFont(12), DefaultFont(12))

	_, err = LoadFont([]byte("not a font"), 12)
	assert.Error(t, err)
}
