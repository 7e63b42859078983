package msgame

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpriteSheetSlicesRowMajor(t *testing.T) {
	s := NewSpriteSheetFromImage(ebiten.NewImage(90, 40), 30, 20)
	cols, rows := s.Grid()
	assert.Equal(t, 3, cols)
	assert.Equal(t, 2, rows)
	require.Equal(t, 6, s.Len())

	// Frame 4 is column 1 of row 1.
	img := s.Frame(4).Image()
	require.NotNil(t, img)
	b := img.Bounds()
	assert.Equal(t, 30, b.Min.X)
	assert.Equal(t, 20, b.Min.Y)
	assert.Equal(t, 30, b.Dx())
	assert.Equal(t, 20, b.Dy())
}

func TestSpriteSheetDefaultsToWholeImage(t *testing.T) {
	s := NewSpriteSheetFromImage(ebiten.NewImage(16, 9), 0, 0)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, 16, s.Frame(0).Image().Bounds().Dx())
	assert.Equal(t, 9, s.Frame(0).Image().Bounds().Dy())
}

func TestSpriteSheetOutOfRangeUsesPlaceholder(t *testing.T) {
	s := NewSpriteSheetFromImage(ebiten.NewImage(10, 10), 10, 10)
	img := s.Frame(7).Image()
	require.NotNil(t, img)
	assert.Same(t, ensureMagentaImage(), img)
}

func TestSpriteSheetLoadsThroughAssets(t *testing.T) {
	a := NewAssets(fstest.MapFS{"img/walk.png": {Data: pngBytes(t, 64, 16)}}, "img", time.Millisecond, nil)
	s := NewSpriteSheet(a, "walk.png", 16, 16)
	walk := NewAnimation(s.Frames(0, 4), WithFPS(8))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.WaitAll(ctx))

	assert.Equal(t, 4, s.Len())
	assert.NotNil(t, walk.Frame(0.3))
	assert.Len(t, s.Animation(nil).Frames, 4)
	assert.Len(t, s.Animation([]int{3, 2, 1}).Frames, 3)
}
