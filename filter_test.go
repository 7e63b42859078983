package msgame

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterChain(t *testing.T) {
	assert.Nil(t, ParseFilterChain(""))
	assert.Equal(t, [][]string{
		{"compose", "source-atop", "0", "red"},
		{"blur", "2"},
	}, ParseFilterChain("compose, source-atop,0,red; blur,2;"))
}

func TestFilterContextCanvas(t *testing.T) {
	base := ebiten.NewImage(6, 4)
	fc := &FilterContext{Canvases: []*ebiten.Image{base}}

	got, err := fc.Canvas("0")
	require.NoError(t, err)
	assert.Same(t, base, got)

	got, err = fc.Canvas("yellow_circle")
	require.NoError(t, err)
	assert.Equal(t, 6, got.Bounds().Dx())
	assert.Equal(t, 4, got.Bounds().Dy())

	_, err = fc.Canvas("3")
	assert.Error(t, err)
	_, err = fc.Canvas("nocolor")
	assert.Error(t, err)
}

func TestFilterRegistryCustom(t *testing.T) {
	r := NewFilterRegistry()
	var gotArgs []string
	r.Register("double", func(fc *FilterContext, args []string) (*ebiten.Image, error) {
		gotArgs = args
		b := fc.Last().Bounds()
		return ebiten.NewImage(b.Dx()*2, b.Dy()*2), nil
	})

	out, err := r.Run(ebiten.NewImage(3, 3), "double,a,b;double")
	require.NoError(t, err)
	assert.Equal(t, 12, out.Bounds().Dx())
	assert.Empty(t, gotArgs)
}

func TestFilterRegistryBadArgs(t *testing.T) {
	r := NewFilterRegistry()
	src := ebiten.NewImage(3, 3)
	for _, chain := range []string{"brightness,bright", "compose,warp", "outline,nocolor"} {
		_, err := r.Run(src, chain)
		assert.Error(t, err, chain)
	}
}

func TestColorMatrixFilter(t *testing.T) {
	f := NewColorMatrixFilter()
	assert.Equal(t, 0, f.Padding())
	for i, v := range f.Matrix {
		if i == 0 || i == 6 || i == 12 || i == 18 {
			assert.Equal(t, 1.0, v)
		} else {
			assert.Equal(t, 0.0, v)
		}
	}

	f.SetBrightness(0.25)
	assert.Equal(t, 0.25, f.Matrix[4])
	assert.Equal(t, 0.0, f.Matrix[19])

	f.SetSaturation(0)
	assert.InDelta(t, 0.299, f.Matrix[0], 1e-9)
	assert.InDelta(t, 0.587, f.Matrix[1], 1e-9)

	f.SetContrast(2)
	assert.Equal(t, 2.0, f.Matrix[0])
	assert.Equal(t, -0.5, f.Matrix[4])
}

func TestBlurAndOutlinePadding(t *testing.T) {
	assert.Equal(t, 8, NewBlurFilter(8).Padding())
	assert.Equal(t, 0, NewBlurFilter(-5).Radius)
	assert.Equal(t, 3, NewOutlineFilter(3, ColorWhite).Padding())

	out := applyFilter(NewBlurFilter(4), ebiten.NewImage(10, 6))
	assert.Equal(t, 18, out.Bounds().Dx())
	assert.Equal(t, 14, out.Bounds().Dy())
}

func TestMatrixFilterDefaultsAreIdentity(t *testing.T) {
	identity := NewColorMatrixFilter().Matrix
	require.Len(t, colorMatrixSetters, 3)
	for name, c := range colorMatrixSetters {
		f, err := matrixFromArgs(c.set, c.identity, nil)
		require.NoError(t, err, name)
		assert.InDeltaSlice(t, identity[:], f.Matrix[:], 1e-9, name)
	}

	f, err := matrixFromArgs((*ColorMatrixFilter).SetBrightness, 0, []string{"0.25"})
	require.NoError(t, err)
	assert.Equal(t, 0.25, f.Matrix[4])

	out, err := NewFilterRegistry().Run(ebiten.NewImage(3, 3), "brightness;contrast;saturation")
	require.NoError(t, err)
	assert.Equal(t, 3, out.Bounds().Dx())
}
